// Package reasoning adapts the Gemini API into the three analysis stages
// the orchestrator drives: perception (text extraction), interpretation
// (subject/intent/ownership classification), and reasoning (diagnosis).
// It also owns the stateful chat session used for practice generation
// and small talk.
package reasoning

import (
	"context"

	"eduvane/internal/types"
)

// ReasonRequest carries everything the diagnosis stage needs for one
// submission.
type ReasonRequest struct {
	// ImageData and MIMEType are set when the original upload should
	// accompany the extracted text (handwriting assessment needs the
	// pixels, not just the OCR).
	ImageData []byte
	MIMEType  string

	Extracted      string
	Context        types.InterpretationContext
	Instruction    string
	Mode           types.PipelineMode
	HistoryContext string
	Role           types.UserRole
}

// Service is the reasoning backend the orchestrator depends on. The
// production implementation is GeminiService; tests substitute fakes.
type Service interface {
	// Perceive extracts legible text and a brief structural description
	// from an uploaded document. Failures are *PerceptionError.
	Perceive(ctx context.Context, data []byte, mimeType string) (string, error)

	// Interpret classifies extracted text into subject, topic, intent,
	// and ownership. It never fails: unusable model output degrades to
	// DefaultInterpretation.
	Interpret(ctx context.Context, extracted string) types.InterpretationContext

	// Reason produces the full diagnosis. Failures are *ReasoningError;
	// there are no partial results.
	Reason(ctx context.Context, req ReasonRequest) (*types.AnalysisResult, error)

	// StreamLearningTask sends a message to the stateful chat session
	// and streams the reply. Both channels close when the stream ends;
	// a mid-stream failure is delivered on the error channel after any
	// chunks already produced.
	StreamLearningTask(ctx context.Context, message string, role types.UserRole) (<-chan string, <-chan error)

	// EndSession discards the chat session so the next learning task
	// starts from a clean slate.
	EndSession()
}
