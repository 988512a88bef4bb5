// Package types provides shared type definitions used across Eduvane packages.
// This package exists to break import cycles between the orchestrator, the
// reasoning adapter, and the store. Types in this package are foundational
// data structures with no complex dependencies.
package types

import (
	"strings"
	"time"
)

// =============================================================================
// ROLES & SESSION IDENTITY
// =============================================================================

// UserRole identifies which side of the classroom the user is on.
// It drives perspective (second vs third person), follow-up phrasing,
// and whether teacher insight cues are surfaced.
type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
	// RoleUnknown means no role has been confirmed for the session yet.
	RoleUnknown UserRole = ""
)

// Known reports whether the role has been resolved to teacher or student.
func (r UserRole) Known() bool {
	return r == RoleTeacher || r == RoleStudent
}

// UserProfile is the persisted identity of a signed-in user.
// Role is optional to support flows where sign-in happens before the
// role conversation.
type UserProfile struct {
	Name  string   `json:"name"`
	Role  UserRole `json:"role,omitempty"`
	Email string   `json:"email,omitempty"`
}

// FirstName returns the leading word of the profile name, used for
// conversational addressing.
func (p UserProfile) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// =============================================================================
// TURN INPUT
// =============================================================================

// FileRef carries an uploaded file already converted to bytes.
// File-to-bytes conversion is the caller's job; the orchestrator only
// forwards the payload to the perception stage.
type FileRef struct {
	Name     string
	MIMEType string
	Data     []byte
}

// UnifiedInput is one turn's payload: free text and/or a file.
// Immutable once constructed.
type UnifiedInput struct {
	Text string
	File *FileRef
}

// =============================================================================
// INTERPRETATION
// =============================================================================

// AnalysisIntent is the interpretation stage's judgment of what the user
// expects back: a worked answer, guidance, or both.
type AnalysisIntent string

const (
	IntentSolution    AnalysisIntent = "solution"
	IntentExplanation AnalysisIntent = "explanation"
	IntentBoth        AnalysisIntent = "both"
)

// OwnershipType distinguishes a student's own draft from work a teacher
// uploaded on a student's behalf.
type OwnershipType string

const (
	OwnershipStudentDirect OwnershipType = "student_direct"
	OwnershipTeacherUpload OwnershipType = "teacher_uploaded_student_work"
)

// StudentInfo holds identity details extracted from the work itself
// (name headers, class labels) with a confidence grade.
type StudentInfo struct {
	Name       string `json:"name,omitempty"`
	Class      string `json:"class,omitempty"`
	Confidence string `json:"confidence,omitempty"` // high, medium, low
}

// OwnershipContext says whose work is being analyzed.
type OwnershipContext struct {
	Type    OwnershipType `json:"type"`
	Student *StudentInfo  `json:"student,omitempty"`
}

// InterpretationContext is the structured output of the interpretation
// stage. It is consumed by the reasoning stage and not retained beyond
// the turn.
type InterpretationContext struct {
	Subject   string           `json:"subject"`
	Topic     string           `json:"topic"`
	Intent    AnalysisIntent   `json:"intent"`
	Ownership OwnershipContext `json:"ownership"`
}

// DefaultInterpretation is the safe fallback the interpretation stage
// returns when it cannot produce a usable classification.
func DefaultInterpretation() InterpretationContext {
	return InterpretationContext{
		Subject:   "General",
		Topic:     "Unknown",
		Intent:    IntentExplanation,
		Ownership: OwnershipContext{Type: OwnershipStudentDirect},
	}
}

// =============================================================================
// ANALYSIS RESULT
// =============================================================================

// Score is the graded outcome with its rationale.
type Score struct {
	Value     string `json:"value"`
	Label     string `json:"label"`
	Reasoning string `json:"reasoning"`
}

// FeedbackItem is one observation about the work, tagged by kind.
type FeedbackItem struct {
	Type      string `json:"type"` // strength, gap, neutral
	Text      string `json:"text"`
	Reference string `json:"reference,omitempty"`
}

// Insight is a longitudinal observation with a trend tag.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Trend       string `json:"trend"` // stable, improving, declining, new
}

// GuidanceStep is one concrete next step with its rationale.
type GuidanceStep struct {
	Step      string `json:"step"`
	Rationale string `json:"rationale"`
}

// HandwritingAnalysis assesses physical legibility as a first-class
// dimension of the work.
type HandwritingAnalysis struct {
	Quality  string `json:"quality"` // excellent, good, fair, poor, illegible
	Feedback string `json:"feedback"`
}

// ConceptStability is an internal intelligence signal describing how
// robust the learner's grasp is across problem conditions. Never shown
// to the user verbatim.
type ConceptStability struct {
	Status   string `json:"status"` // emerging, unstable_pressure, stabilizing, robust, unknown
	Evidence string `json:"evidence"`
}

// TaskAlignment records whether the work attempts the task that was
// actually asked.
type TaskAlignment struct {
	Goal      string `json:"goal"`
	Status    string `json:"status"` // aligned, misaligned, partial
	Reasoning string `json:"reasoning"`
}

// InterpretationStability records whether an ambiguous prompt was read
// in a defensible way.
type InterpretationStability struct {
	AmbiguityDetected     bool   `json:"ambiguity_detected"`
	StudentInterpretation string `json:"student_interpretation"`
	Status                string `json:"status"` // valid, invalid, ambiguous_but_reasonable
}

// ReasoningAssumption is one premise the learner introduced.
type ReasoningAssumption struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // explicit, implicit
	Content string `json:"content"`
}

// ReasoningStep is one step of the learner's progression with its
// dependency links.
type ReasoningStep struct {
	ID           string   `json:"id"`
	Content      string   `json:"content"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// StructuralFlag marks a contradiction, shift, or discontinuity in the
// learner's reasoning structure.
type StructuralFlag struct {
	Type     string `json:"type"` // contradiction, shift, discontinuity
	Location string `json:"location"`
	Details  string `json:"details"`
}

// GlobalReasoning maps the internal logic of the submission without
// judging correctness.
type GlobalReasoning struct {
	Assumptions      []ReasoningAssumption `json:"assumptions,omitempty"`
	Progression      []ReasoningStep       `json:"progression,omitempty"`
	Flags            []StructuralFlag      `json:"flags,omitempty"`
	ConsistencyScore float64               `json:"consistency_score,omitempty"`
}

// ImplicitAssumption is an unstated premise with a legitimacy verdict.
type ImplicitAssumption struct {
	ID             string   `json:"id"`
	Content        string   `json:"content"`
	RelatedStepIDs []string `json:"related_step_ids,omitempty"`
	Legitimacy     string   `json:"legitimacy"` // permitted, acceptable, unjustified
	Justification  string   `json:"justification,omitempty"`
}

// AssumptionFlag marks an assumption that exceeds the problem's
// constraints.
type AssumptionFlag struct {
	Type         string `json:"type"` // constraint_exceeded, scope_narrowing, hidden_condition
	AssumptionID string `json:"assumption_id"`
	Details      string `json:"details"`
}

// AssumptionIntegrity is the integrity pass over implicit premises.
type AssumptionIntegrity struct {
	ImplicitAssumptions []ImplicitAssumption `json:"implicit_assumptions,omitempty"`
	Flags               []AssumptionFlag     `json:"flags,omitempty"`
}

// CLVResult is the outcome of deterministic recomputation of the
// learner's arithmetic.
type CLVResult struct {
	Status         string `json:"status"` // verified, mismatch, skipped
	ComputedResult string `json:"computed_result,omitempty"`
	StudentResult  string `json:"student_result,omitempty"`
	Discrepancy    string `json:"discrepancy,omitempty"`
}

// FactGrounding is the outcome of factual-claim verification.
type FactGrounding struct {
	Status        string   `json:"status"` // verified, disputed, uncertain, skipped
	VerifiedFacts []string `json:"verified_facts,omitempty"`
	FlaggedClaims []string `json:"flagged_claims,omitempty"`
}

// Verification selects which truth-anchoring branch ran for this work.
type Verification struct {
	Branch        string         `json:"branch"` // clv, fact_grounding, none
	CLV           *CLVResult     `json:"clv,omitempty"`
	FactGrounding *FactGrounding `json:"fact_grounding,omitempty"`
}

// ValidatedStep is one reasoning step with its correctness verdict.
type ValidatedStep struct {
	StepID              string `json:"step_id"`
	Content             string `json:"content"`
	Status              string `json:"status"`     // correct, partial, incorrect, skipped
	Confidence          string `json:"confidence"` // high, medium, low
	ErrorType           string `json:"error_type,omitempty"`
	RelatedAssumptionID string `json:"related_assumption_id,omitempty"`
}

// LocalReasoning is the step-by-step validation pass.
type LocalReasoning struct {
	Steps []ValidatedStep `json:"steps,omitempty"`
}

// AnalysisResult is the durable output of a graded submission.
// Feedback, Insights, and Guidance are always non-nil sequences; use
// Normalize after decoding adapter payloads to enforce that.
type AnalysisResult struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	Score     Score  `json:"score"`

	Feedback []FeedbackItem `json:"feedback"`
	Insights []Insight      `json:"insights"`
	Guidance []GuidanceStep `json:"guidance"`

	Handwriting             *HandwritingAnalysis     `json:"handwriting,omitempty"`
	ConceptStability        *ConceptStability        `json:"concept_stability,omitempty"`
	TaskAlignment           *TaskAlignment           `json:"task_alignment,omitempty"`
	InterpretationStability *InterpretationStability `json:"interpretation_stability,omitempty"`
	GlobalReasoning         *GlobalReasoning         `json:"global_reasoning,omitempty"`
	AssumptionIntegrity     *AssumptionIntegrity     `json:"assumption_integrity,omitempty"`
	Verification            *Verification            `json:"verification,omitempty"`
	LocalReasoning          *LocalReasoning          `json:"local_reasoning,omitempty"`

	Ownership      *OwnershipContext `json:"ownership,omitempty"`
	TeacherInsight string            `json:"teacher_insight,omitempty"`
	RawText        string            `json:"raw_text,omitempty"`
}

// Normalize enforces the never-nil invariant on the sequence fields and
// fills a placeholder score when the adapter returned none.
func (r *AnalysisResult) Normalize() {
	if r.Feedback == nil {
		r.Feedback = []FeedbackItem{}
	}
	if r.Insights == nil {
		r.Insights = []Insight{}
	}
	if r.Guidance == nil {
		r.Guidance = []GuidanceStep{}
	}
	if r.Score == (Score{}) {
		r.Score = Score{Value: "-", Label: "Pending", Reasoning: "Analysis incomplete"}
	}
}

// Gaps returns the text of every gap-tagged feedback item.
func (r *AnalysisResult) Gaps() []string {
	var out []string
	for _, f := range r.Feedback {
		if f.Type == "gap" {
			out = append(out, f.Text)
		}
	}
	return out
}

// Strengths returns the text of every strength-tagged feedback item.
func (r *AnalysisResult) Strengths() []string {
	var out []string
	for _, f := range r.Feedback {
		if f.Type == "strength" {
			out = append(out, f.Text)
		}
	}
	return out
}

// =============================================================================
// SUBMISSION LIFECYCLE
// =============================================================================

// SubmissionStatus is the lifecycle state of a graded submission.
type SubmissionStatus string

const (
	SubmissionCreated    SubmissionStatus = "CREATED"
	SubmissionProcessing SubmissionStatus = "PROCESSING"
	SubmissionCompleted  SubmissionStatus = "COMPLETED"
	SubmissionError      SubmissionStatus = "ERROR"
)

// Submission wraps an AnalysisResult with its lifecycle. Created when the
// analysis pipeline starts, persisted only once COMPLETED.
type Submission struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Status    SubmissionStatus `json:"status"`
	FileName  string           `json:"file_name,omitempty"`
	Result    *AnalysisResult  `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// HistoryItem is a denormalized summary of a persisted Submission for
// lightweight listing.
type HistoryItem struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	ScoreLabel string `json:"score_label"`
}

// =============================================================================
// ORCHESTRATOR EVENTS
// =============================================================================

// AnalysisPhase is the coarse pipeline phase surfaced to the display layer.
type AnalysisPhase string

const (
	PhaseIdle       AnalysisPhase = "IDLE"
	PhaseProcessing AnalysisPhase = "PROCESSING"
	PhaseComplete   AnalysisPhase = "COMPLETE"
	PhaseError      AnalysisPhase = "ERROR"
)

// EventType discriminates the closed set of orchestrator event variants.
type EventType string

const (
	EventPhaseUpdate        EventType = "PHASE_UPDATE"
	EventStreamChunk        EventType = "STREAM_CHUNK"
	EventSubmissionComplete EventType = "SUBMISSION_COMPLETE"
	EventTaskComplete       EventType = "TASK_COMPLETE"
	EventError              EventType = "ERROR"
	EventFollowUp           EventType = "FOLLOW_UP"
)

// OrchestratorEvent is one element of the per-turn event stream. Which
// payload fields are set depends on Type:
//
//	PHASE_UPDATE        Phase
//	STREAM_CHUNK        Text
//	SUBMISSION_COMPLETE Submission
//	TASK_COMPLETE       (none)
//	ERROR               Message
//	FOLLOW_UP           Text
//
// Ordering within one turn is significant and must be preserved by
// consumers.
type OrchestratorEvent struct {
	Type       EventType
	Phase      AnalysisPhase
	Text       string
	Message    string
	Submission *Submission
}

// PipelineMode selects the latency/quality tier for the reasoning stage.
type PipelineMode string

const (
	ModeFast PipelineMode = "fast"
	ModeDeep PipelineMode = "deep"
)

// FastModeThreshold is the extracted-text length below which the fast
// tier is used. The boundary is inclusive on the deep side: length 800
// selects deep.
const FastModeThreshold = 800

// SelectMode chooses the pipeline mode for the given extracted text.
func SelectMode(extracted string) PipelineMode {
	if len(extracted) < FastModeThreshold {
		return ModeFast
	}
	return ModeDeep
}
