package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanVulkanBeforeInit(t *testing.T) {
	a := &App{}
	require.NotPanics(t, a.cleanVulkan)
}

func TestShadersDirFor(t *testing.T) {
	installed := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(installed, shadersDirName), 0o755))

	bare := t.TempDir()

	withFile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withFile, shadersDirName), nil, 0o644))

	for idx, tc := range []struct {
		exe  string
		want string
	}{
		{exe: filepath.Join(installed, "vulkan-sprites"), want: filepath.Join(installed, shadersDirName)},
		{exe: filepath.Join(bare, "vulkan-sprites"), want: shadersDirName},
		{exe: filepath.Join(withFile, "vulkan-sprites"), want: shadersDirName},
	} {
		require.Equal(t, tc.want, shadersDirFor(tc.exe), "case %d", idx)
	}
}
