package analyze

import (
	"errors"
	"fmt"
)

// Step identifies a pipeline stage. The pipeline is strictly linear:
// upload -> extract -> analyze -> persist; the first failing stage halts it.
type Step string

const (
	StepUpload  Step = "upload"
	StepExtract Step = "extract"
	StepAnalyze Step = "analyze"
	StepPersist Step = "persist"
)

// One user-visible failure message per stage.
var stepMessages = map[Step]string{
	StepUpload:  "failed to save uploaded file",
	StepExtract: "failed to extract text from pdf",
	StepAnalyze: "failed to get analysis from model api",
	StepPersist: "failed to save analysis",
}

// Error ties a failure to the pipeline step that produced it. Later steps
// never run once one is returned.
type Error struct {
	Step Step
	Err  error
}

func NewError(step Step, err error) *Error {
	return &Error{Step: step, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", stepMessages[e.Step], e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StepOf reports which pipeline step an error belongs to, if any.
func StepOf(err error) (Step, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
