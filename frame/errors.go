package frame

import "fmt"

// Step names a point of the per frame sequence.
type Step string

// The steps of RenderNextFrame in the order they run.
const (
	StepWaitFrame     Step = "wait for frame fence"
	StepAcquire       Step = "acquire image"
	StepWaitImage     Step = "wait for image fence"
	StepPrepare       Step = "prepare"
	StepWriteUniforms Step = "write uniforms"
	StepRecord        Step = "record dynamic buffer"
	StepResetFence    Step = "reset frame fence"
	StepSubmitStart   Step = "submit start"
	StepSubmitDynamic Step = "submit dynamic"
	StepSubmitEnd     Step = "submit end"
	StepPresent       Step = "present"
)

// FatalRenderError is returned when a frame cannot be completed. There is no
// way to recover from it short of recreating the device.
type FatalRenderError struct {
	Frame uint64
	Step  Step
	Err   error
}

func (e *FatalRenderError) Error() string {
	return fmt.Sprintf("frame %d: %s: %s", e.Frame, e.Step, e.Err)
}

func (e *FatalRenderError) Unwrap() error {
	return e.Err
}
