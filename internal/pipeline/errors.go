package pipeline

import "fmt"

// GenerationIncompleteError is returned when the model replied but the
// mandatory html block was missing or malformed
type GenerationIncompleteError struct {
	RunID       string
	Tag         string
	ReplyLength int
}

func (e *GenerationIncompleteError) Error() string {
	return fmt.Sprintf("generation incomplete: no %s block found in model reply (%d chars); try generating again", e.Tag, e.ReplyLength)
}

// StageError wraps a failure inside a named stage
type StageError struct {
	Stage string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
