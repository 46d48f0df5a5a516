package core

import "fmt"

// ErrorKind classifies where the pipeline failed.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindDetection    ErrorKind = "detection"
	KindTranslation  ErrorKind = "translation"
	KindCompletion   ErrorKind = "completion"
	KindSynthesis    ErrorKind = "synthesis"
)

// AskFirstMessage is shown when the question field is empty.
const AskFirstMessage = "Please ask a question first! 😊"

// PipelineError is a classified failure with a message fit for the user.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Result is the outcome of one question: either Answer is set, or Err.
type Result struct {
	Answer string
	Err    *PipelineError
}

func (r Result) OK() bool { return r.Err == nil }

// Display is the text shown on the page.  Failures read as a friendly
// message rather than an answer from the model.
func (r Result) Display() string {
	switch {
	case r.Err == nil:
		return r.Answer
	case r.Err.Kind == KindInvalidInput:
		return AskFirstMessage
	case r.Err.Err != nil:
		return fmt.Sprintf("Oops! Something went wrong: %s (%v)", r.Err.Message, r.Err.Err)
	default:
		return "Oops! Something went wrong: " + r.Err.Message
	}
}

func failure(kind ErrorKind, msg string, err error) Result {
	return Result{Err: &PipelineError{Kind: kind, Message: msg, Err: err}}
}
