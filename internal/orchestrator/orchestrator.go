// Package orchestrator is the single point of truth for intent detection
// and pipeline routing. Each turn's UnifiedInput is classified into one
// of three paths: the analysis pipeline (perceive, interpret, reason),
// the identity/greeting loop, or the generation/chat stream. The result
// is a finite, ordered event stream per turn.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"eduvane/internal/intent"
	"eduvane/internal/logging"
	"eduvane/internal/reasoning"
	"eduvane/internal/store"
	"eduvane/internal/types"
	"eduvane/internal/variation"
)

// Orchestrator drives one conversation. Not reentrant: callers must not
// start a second ProcessInput while one is in flight for the same
// session (the display layer disables input while a turn runs).
type Orchestrator struct {
	service reasoning.Service
	store   store.Store
	phrases *variation.Selector
	state   SessionState
}

// New builds an Orchestrator. The store may be nil for fully ephemeral
// (guest-only) sessions; the phrase selector may be nil for a
// time-seeded one.
func New(service reasoning.Service, st store.Store, phrases *variation.Selector) *Orchestrator {
	if phrases == nil {
		phrases = variation.New(nil)
	}
	return &Orchestrator{service: service, store: st, phrases: phrases}
}

// State returns a copy of the current session state.
func (o *Orchestrator) State() SessionState {
	return o.state
}

// Reset clears the session state and discards the adapter's chat
// context. Idempotent and safe to call when no session exists.
//
// Reset does not cancel an in-flight turn; the per-turn context is the
// only cancellation path, and a result arriving after reset is simply
// discarded by the caller.
func (o *Orchestrator) Reset() {
	o.service.EndSession()
	o.state = SessionState{}
	logging.Session("session reset")
}

// ProcessInput handles one turn. The returned channel yields the turn's
// events in generation order and is closed when the turn ends.
func (o *Orchestrator) ProcessInput(ctx context.Context, input types.UnifiedInput, guest bool) <-chan types.OrchestratorEvent {
	out := make(chan types.OrchestratorEvent, 16)
	go func() {
		defer close(out)
		o.run(ctx, input, guest, out)
	}()
	return out
}

func (o *Orchestrator) run(ctx context.Context, input types.UnifiedInput, guest bool, out chan<- types.OrchestratorEvent) {
	o.initialize(guest)

	// Routing. Files always mean analysis; text goes to analysis only
	// when it looks like work and is not conversationally framed, so
	// "hello, can you solve this" is not misrouted on keywords alone.
	// Generation requests win over submission signals for text-only
	// turns ("generate 5 questions" carries a digit but is not work to
	// grade); a file present always means analysis.
	isAnalysis := false
	extracted := ""
	if input.File != nil {
		isAnalysis = true
	} else if input.Text != "" {
		if intent.IsSubmission(input.Text) && !intent.IsConversational(input.Text) && !intent.IsGeneration(input.Text) {
			isAnalysis = true
			extracted = input.Text
		}
	}

	if !isAnalysis && input.Text != "" {
		if o.handleConversation(input.Text, guest, out) {
			return
		}
		o.state.HasIntroducedSelf = true
	}

	if isAnalysis {
		logging.Orchestrator("turn routed to analysis (file=%v textLen=%d)", input.File != nil, len(input.Text))
		o.runAnalysis(ctx, input, extracted, guest, out)
		return
	}

	if input.Text != "" {
		logging.Orchestrator("turn routed to learning task (textLen=%d)", len(input.Text))
		o.runLearningTask(ctx, input.Text, out)
	}
}

// initialize hydrates role and name from the persisted profile. Runs at
// most once per session; guests stay unhydrated.
func (o *Orchestrator) initialize(guest bool) {
	if o.state.Initialized {
		return
	}
	if !guest && o.store != nil {
		profile, err := o.store.GetUserProfile()
		if err != nil {
			logging.SessionDebug("profile hydration failed: %v", err)
		} else if profile != nil {
			o.state.UserRole = profile.Role
			o.state.UserName = profile.Name
			o.state.RoleConfirmed = profile.Role.Known()
			logging.Session("session hydrated (name=%q role=%s)", profile.Name, profile.Role)
		}
	}
	o.state.Initialized = true
}

// =============================================================================
// IDENTITY / GREETING LOOP
// =============================================================================

// handleConversation intercepts conversational and identity-bearing
// turns. Returns true when the turn was fully handled here (exactly one
// STREAM_CHUNK then TASK_COMPLETE, no adapter calls).
func (o *Orchestrator) handleConversation(text string, guest bool, out chan<- types.OrchestratorEvent) bool {
	id := intent.ExtractIdentity(text)

	identityChanged := false
	if id.Name != "" {
		o.state.UserName = id.Name
		identityChanged = true
	}
	if id.Role.Known() {
		o.state.UserRole = id.Role
		o.state.RoleConfirmed = true
		// A stated role answers any open role question; leaving it open
		// would capture every later chat turn in this loop.
		o.state.RoleAsked = false
		identityChanged = true
	}

	isTask := intent.IsGeneration(text)
	isChat := intent.IsConversational(text)

	if isTask || !(isChat || id.Name != "" || id.Role.Known() || o.state.RoleAsked) {
		return false
	}

	// An open role question consumes the next conversational turn. A
	// non-answer closes the question without confirming; we do not
	// re-ask on every turn.
	if o.state.RoleAsked && !o.state.RoleConfirmed {
		if role := intent.ParseSimpleRole(text); role.Known() {
			o.state.UserRole = role
			o.state.RoleConfirmed = true
			identityChanged = true
		}
		o.state.RoleAsked = false
	}

	if identityChanged && !guest && o.store != nil {
		profile := types.UserProfile{Name: o.state.UserName, Role: o.state.UserRole}
		if err := o.store.SaveUserProfile(profile); err != nil {
			logging.SessionDebug("profile save failed: %v", err)
		}
	}

	first := o.state.firstName()

	// A fresh identity signal re-triggers a role-aware greeting even
	// after the introduction already happened.
	if !o.state.HasIntroducedSelf || id.Role.Known() || id.Name != "" {
		o.state.HasIntroducedSelf = true

		var pitch string
		switch o.state.UserRole {
		case types.RoleTeacher, types.RoleStudent:
			pitch = o.phrases.Pick(variation.Greeting, variation.Context{Role: o.state.UserRole, Name: first})
		default:
			if !o.state.RoleAsked {
				o.state.RoleAsked = true
				pitch = o.phrases.Pick(variation.Greeting, variation.Context{Name: first})
			} else {
				pitch = o.phrases.Pick(variation.Continuity, variation.Context{Name: first})
			}
		}
		logging.Session("greeting emitted (role=%s asked=%v)", o.state.UserRole, o.state.RoleAsked)
		out <- types.OrchestratorEvent{Type: types.EventStreamChunk, Text: pitch}
		out <- types.OrchestratorEvent{Type: types.EventTaskComplete}
		return true
	}

	pitch := o.phrases.Pick(variation.Continuity, variation.Context{Name: first})
	out <- types.OrchestratorEvent{Type: types.EventStreamChunk, Text: pitch}
	out <- types.OrchestratorEvent{Type: types.EventTaskComplete}
	return true
}

// =============================================================================
// ANALYSIS PIPELINE
// =============================================================================

func (o *Orchestrator) runAnalysis(ctx context.Context, input types.UnifiedInput, extracted string, guest bool, out chan<- types.OrchestratorEvent) {
	sub := types.Submission{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Status:    types.SubmissionCreated,
		FileName:  "Text Submission",
	}
	if input.File != nil {
		sub.FileName = input.File.Name
	}

	sub.Status = types.SubmissionProcessing
	out <- types.OrchestratorEvent{Type: types.EventPhaseUpdate, Phase: types.PhaseProcessing}

	var imageData []byte
	var mimeType string
	if input.File != nil {
		imageData = input.File.Data
		mimeType = input.File.MIMEType

		var err error
		extracted, err = o.service.Perceive(ctx, imageData, mimeType)
		if err != nil {
			o.failAnalysis(&sub, err, out)
			return
		}
	}

	mode := types.SelectMode(extracted)
	logging.Orchestrator("pipeline mode=%s (extracted %d chars)", mode, len(extracted))

	ictx := o.service.Interpret(ctx, extracted)

	historyContext := ""
	if !guest && ictx.Subject != "" && o.store != nil {
		var err error
		historyContext, err = o.store.RecentInsights(ictx.Subject)
		if err != nil {
			logging.OrchestratorError("history context unavailable: %v", err)
			historyContext = ""
		}
	}

	result, err := o.service.Reason(ctx, reasoning.ReasonRequest{
		ImageData:      imageData,
		MIMEType:       mimeType,
		Extracted:      extracted,
		Context:        ictx,
		Instruction:    input.Text,
		Mode:           mode,
		HistoryContext: historyContext,
		Role:           o.state.UserRole,
	})
	if err != nil {
		o.failAnalysis(&sub, err, out)
		return
	}

	// Link the result to the submission record.
	result.ID = sub.ID

	sub.Status = types.SubmissionCompleted
	sub.Result = result

	if !guest && o.store != nil {
		if err := o.store.SaveSubmission(sub); err != nil {
			// Losing a history write must not fail the visible response.
			logging.OrchestratorError("submission persist failed: %v", err)
		}
	}

	out <- types.OrchestratorEvent{Type: types.EventSubmissionComplete, Submission: &sub}
	out <- types.OrchestratorEvent{Type: types.EventPhaseUpdate, Phase: types.PhaseComplete}

	followUp := ""
	if o.state.UserRole == types.RoleTeacher && result.TeacherInsight != "" {
		followUp = fmt.Sprintf("%s\n\nWould you like to generate a practice set based on these errors?", result.TeacherInsight)
	} else {
		followUp = o.phrases.Pick(variation.FollowUpAnalysis, variation.Context{Role: o.state.UserRole})
	}
	out <- types.OrchestratorEvent{Type: types.EventFollowUp, Text: followUp}
}

func (o *Orchestrator) failAnalysis(sub *types.Submission, err error, out chan<- types.OrchestratorEvent) {
	sub.Status = types.SubmissionError
	sub.Error = err.Error()
	logging.OrchestratorError("analysis failed for %s: %v", sub.ID, err)
	out <- types.OrchestratorEvent{Type: types.EventError, Message: err.Error()}
	out <- types.OrchestratorEvent{Type: types.EventPhaseUpdate, Phase: types.PhaseError}
}

// =============================================================================
// LEARNING TASK PIPELINE
// =============================================================================

func (o *Orchestrator) runLearningTask(ctx context.Context, text string, out chan<- types.OrchestratorEvent) {
	chunks, errs := o.service.StreamLearningTask(ctx, text, o.state.UserRole)

	for chunk := range chunks {
		out <- types.OrchestratorEvent{Type: types.EventStreamChunk, Text: chunk}
	}
	if err := <-errs; err != nil {
		logging.OrchestratorError("learning task failed: %v", err)
		out <- types.OrchestratorEvent{Type: types.EventError, Message: "I encountered an issue processing that task."}
		return
	}

	out <- types.OrchestratorEvent{Type: types.EventTaskComplete}

	if intent.IsGeneration(text) {
		followUp := o.phrases.Pick(variation.FollowUpTask, variation.Context{Role: o.state.UserRole})
		out <- types.OrchestratorEvent{Type: types.EventFollowUp, Text: followUp}
	}
}
