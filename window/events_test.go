package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/require"
)

func TestEventQueueQuit(t *testing.T) {
	for idx, tc := range []struct {
		events []Event
		quit   bool
	}{
		{events: nil, quit: false},
		{events: []Event{{Kind: KeyPressed, Key: glfw.KeySpace}}, quit: false},
		{events: []Event{{Kind: KeyReleased, Key: glfw.KeyEscape}}, quit: false},
		{events: []Event{{Kind: KeyPressed, Key: glfw.KeyEscape}}, quit: true},
		{events: []Event{{Kind: CloseRequested}}, quit: true},
		{
			events: []Event{
				{Kind: KeyPressed, Key: glfw.KeyA},
				{Kind: CloseRequested},
				{Kind: KeyReleased, Key: glfw.KeyA},
			},
			quit: true,
		},
	} {
		var q eventQueue
		for _, e := range tc.events {
			q.push(e)
		}
		require.Equal(t, tc.quit, q.quit, "case %d", idx)
	}
}

func TestEventQueueDrain(t *testing.T) {
	var q eventQueue
	require.Empty(t, q.drain())

	q.push(Event{Kind: KeyPressed, Key: glfw.KeyLeft})
	q.push(Event{Kind: KeyReleased, Key: glfw.KeyLeft})

	require.Equal(t, []Event{
		{Kind: KeyPressed, Key: glfw.KeyLeft},
		{Kind: KeyReleased, Key: glfw.KeyLeft},
	}, q.drain())
	require.Empty(t, q.drain())

	q.push(Event{Kind: CloseRequested})
	require.Len(t, q.drain(), 1)
	require.True(t, q.quit, "quit survives draining")
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "key pressed", KeyPressed.String())
	require.Equal(t, "close requested", CloseRequested.String())
	require.Equal(t, "event(9)", EventKind(9).String())
}
