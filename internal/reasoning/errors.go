package reasoning

import (
	"fmt"

	"eduvane/internal/types"
)

// PerceptionError reports that text extraction from an uploaded document
// failed. The orchestrator surfaces a user-facing message and aborts the
// pipeline before a submission record exists.
type PerceptionError struct {
	MIMEType string
	Err      error
}

func (e *PerceptionError) Error() string {
	return fmt.Sprintf("unable to read the document (%s): %v", e.MIMEType, e.Err)
}

func (e *PerceptionError) Unwrap() error { return e.Err }

// ReasoningError reports that the diagnosis stage failed. No partial
// analysis is produced.
type ReasoningError struct {
	Mode types.PipelineMode
	Err  error
}

func (e *ReasoningError) Error() string {
	return fmt.Sprintf("diagnosis failed (%s mode): %v", e.Mode, e.Err)
}

func (e *ReasoningError) Unwrap() error { return e.Err }

// StreamError reports a failure while a learning-task stream was in
// flight. Chunks delivered before the failure remain valid.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("learning task stream failed: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
