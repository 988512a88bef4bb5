package orchestrator

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"eduvane/internal/reasoning"
	"eduvane/internal/types"
	"eduvane/internal/variation"
)

// The opencensus stats worker is started by a package init() in a transitive
// dependency of google.golang.org/genai, so it is present in every test binary
// that links this module regardless of what the code under test does.
var ignoreOpenCensusWorker = goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start")

// =============================================================================
// FAKES
// =============================================================================

type fakeService struct {
	perceiveText string
	perceiveErr  error
	interpretCtx *types.InterpretationContext
	reasonResult *types.AnalysisResult
	reasonErr    error
	streamChunks []string
	streamErr    error

	perceiveCalls  int
	interpretCalls int
	reasonCalls    int
	streamCalls    int
	endSessions    int
	lastReason     reasoning.ReasonRequest
}

func (f *fakeService) Perceive(ctx context.Context, data []byte, mimeType string) (string, error) {
	f.perceiveCalls++
	if f.perceiveErr != nil {
		return "", f.perceiveErr
	}
	return f.perceiveText, nil
}

func (f *fakeService) Interpret(ctx context.Context, extracted string) types.InterpretationContext {
	f.interpretCalls++
	if f.interpretCtx != nil {
		return *f.interpretCtx
	}
	return types.DefaultInterpretation()
}

func (f *fakeService) Reason(ctx context.Context, req reasoning.ReasonRequest) (*types.AnalysisResult, error) {
	f.reasonCalls++
	f.lastReason = req
	if f.reasonErr != nil {
		return nil, f.reasonErr
	}
	if f.reasonResult != nil {
		r := *f.reasonResult
		r.Normalize()
		return &r, nil
	}
	r := &types.AnalysisResult{ID: "adapter-id", Subject: req.Context.Subject, Topic: req.Context.Topic}
	r.Normalize()
	return r, nil
}

func (f *fakeService) StreamLearningTask(ctx context.Context, message string, role types.UserRole) (<-chan string, <-chan error) {
	f.streamCalls++
	out := make(chan string, len(f.streamChunks))
	errCh := make(chan error, 1)
	for _, c := range f.streamChunks {
		out <- c
	}
	close(out)
	if f.streamErr != nil {
		errCh <- f.streamErr
	}
	close(errCh)
	return out, errCh
}

func (f *fakeService) EndSession() { f.endSessions++ }

func (f *fakeService) adapterCalls() int {
	return f.perceiveCalls + f.interpretCalls + f.reasonCalls
}

type fakeStore struct {
	profile  *types.UserProfile
	insights string

	saveSubErr error

	saved         []types.Submission
	savedProfiles []types.UserProfile
	profileReads  int
	insightReads  int
}

func (f *fakeStore) GetUserProfile() (*types.UserProfile, error) {
	f.profileReads++
	return f.profile, nil
}

func (f *fakeStore) SaveUserProfile(p types.UserProfile) error {
	f.savedProfiles = append(f.savedProfiles, p)
	return nil
}

func (f *fakeStore) SaveSubmission(sub types.Submission) error {
	if f.saveSubErr != nil {
		return f.saveSubErr
	}
	f.saved = append(f.saved, sub)
	return nil
}

func (f *fakeStore) GetSubmission(id string) (*types.Submission, error) { return nil, nil }
func (f *fakeStore) History() ([]types.HistoryItem, error)             { return nil, nil }

func (f *fakeStore) RecentInsights(subject string) (string, error) {
	f.insightReads++
	return f.insights, nil
}

func (f *fakeStore) ClearHistory() error { return nil }
func (f *fakeStore) Close() error        { return nil }

// =============================================================================
// HELPERS
// =============================================================================

func newTestOrchestrator(svc *fakeService, st *fakeStore) *Orchestrator {
	return New(svc, st, variation.New(rand.New(rand.NewSource(1))))
}

func collect(ch <-chan types.OrchestratorEvent) []types.OrchestratorEvent {
	var evs []types.OrchestratorEvent
	for e := range ch {
		evs = append(evs, e)
	}
	return evs
}

func eventTypes(evs []types.OrchestratorEvent) []types.EventType {
	out := make([]types.EventType, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

func textTurn(text string) types.UnifiedInput {
	return types.UnifiedInput{Text: text}
}

func fileTurn(text string) types.UnifiedInput {
	return types.UnifiedInput{
		Text: text,
		File: &types.FileRef{Name: "work.png", MIMEType: "image/png", Data: []byte{0x89, 0x50}},
	}
}

// =============================================================================
// ROUTING
// =============================================================================

func TestFileAlwaysRoutesToAnalysis(t *testing.T) {
	// Even overtly conversational text cannot divert a file upload.
	for _, text := range []string{"", "hello", "hi, what can you do"} {
		svc := &fakeService{perceiveText: "2x + 3 = 7"}
		o := newTestOrchestrator(svc, &fakeStore{})

		evs := collect(o.ProcessInput(context.Background(), fileTurn(text), false))

		if svc.perceiveCalls != 1 {
			t.Errorf("text=%q: expected perception call, got %d", text, svc.perceiveCalls)
		}
		if evs[0].Type != types.EventPhaseUpdate || evs[0].Phase != types.PhaseProcessing {
			t.Errorf("text=%q: first event must be PHASE_UPDATE(PROCESSING), got %+v", text, evs[0])
		}
	}
}

func TestConversationalTurnMakesNoAdapterCalls(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensusWorker)

	for _, text := range []string{"hello", "thanks", "who are you?"} {
		svc := &fakeService{}
		o := newTestOrchestrator(svc, &fakeStore{})

		evs := collect(o.ProcessInput(context.Background(), textTurn(text), false))

		if svc.adapterCalls() != 0 || svc.streamCalls != 0 {
			t.Errorf("text=%q: conversational turn must not touch the adapter", text)
		}
		want := []types.EventType{types.EventStreamChunk, types.EventTaskComplete}
		got := eventTypes(evs)
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("text=%q: events = %v, want %v", text, got, want)
		}
	}
}

func TestAnalysisEventOrdering(t *testing.T) {
	svc := &fakeService{}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("solve 2x+3=7"), false))

	want := []types.EventType{
		types.EventPhaseUpdate,
		types.EventSubmissionComplete,
		types.EventPhaseUpdate,
		types.EventFollowUp,
	}
	got := eventTypes(evs)
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
	if evs[0].Phase != types.PhaseProcessing {
		t.Errorf("first phase = %s, want PROCESSING", evs[0].Phase)
	}
	if evs[2].Phase != types.PhaseComplete {
		t.Errorf("terminal phase = %s, want COMPLETE", evs[2].Phase)
	}
	if svc.perceiveCalls != 0 {
		t.Error("text submission must skip perception")
	}
}

func TestResultIDLinkedToSubmission(t *testing.T) {
	svc := &fakeService{reasonResult: &types.AnalysisResult{ID: "adapter-generated"}}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("calculate 4*4"), false))

	var sub *types.Submission
	for _, e := range evs {
		if e.Type == types.EventSubmissionComplete {
			sub = e.Submission
		}
	}
	if sub == nil || sub.Result == nil {
		t.Fatal("no submission emitted")
	}
	if sub.Result.ID != sub.ID {
		t.Errorf("result id %q must equal submission id %q", sub.Result.ID, sub.ID)
	}
	if sub.Status != types.SubmissionCompleted {
		t.Errorf("status = %s, want COMPLETED", sub.Status)
	}
}

func TestModeSelectionBoundary(t *testing.T) {
	cases := []struct {
		length int
		want   types.PipelineMode
	}{
		{799, types.ModeFast},
		{800, types.ModeDeep},
	}
	for _, tc := range cases {
		svc := &fakeService{}
		o := newTestOrchestrator(svc, &fakeStore{})

		// Digits make the text submission-like regardless of length.
		text := strings.Repeat("1", tc.length)
		collect(o.ProcessInput(context.Background(), textTurn(text), false))

		if svc.lastReason.Mode != tc.want {
			t.Errorf("length %d: mode = %s, want %s", tc.length, svc.lastReason.Mode, tc.want)
		}
	}
}

// =============================================================================
// IDENTITY / ROLE NEGOTIATION
// =============================================================================

func TestNewSessionGreetingAsksRole(t *testing.T) {
	svc := &fakeService{}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("hello"), false))

	got := eventTypes(evs)
	if len(got) != 2 || got[0] != types.EventStreamChunk || got[1] != types.EventTaskComplete {
		t.Fatalf("events = %v", got)
	}
	if evs[0].Text == "" {
		t.Error("greeting text must not be empty")
	}
	if !strings.Contains(evs[0].Text, "Teacher") || !strings.Contains(evs[0].Text, "Student") {
		t.Errorf("role-unknown greeting must ask the role question, got %q", evs[0].Text)
	}
	st := o.State()
	if !st.RoleAsked || st.RoleConfirmed || !st.HasIntroducedSelf {
		t.Errorf("unexpected state after greeting: %+v", st)
	}
	if svc.adapterCalls() != 0 {
		t.Error("greeting must not touch the adapter")
	}
}

func TestTeacherIdentityConfirmsAndRegreets(t *testing.T) {
	svc := &fakeService{}
	st := &fakeStore{}
	o := newTestOrchestrator(svc, st)

	collect(o.ProcessInput(context.Background(), textTurn("hello"), false))
	evs := collect(o.ProcessInput(context.Background(), textTurn("I am a teacher"), false))

	state := o.State()
	if !state.RoleConfirmed || state.UserRole != types.RoleTeacher {
		t.Fatalf("role not confirmed: %+v", state)
	}
	if state.RoleAsked {
		t.Error("roleAsked must clear after confirmation")
	}
	// Teacher-pool greetings never repeat the role question.
	if strings.Contains(evs[0].Text, "Teacher or a Student") {
		t.Errorf("expected teacher-pool greeting, got %q", evs[0].Text)
	}
	if evs[0].Text == "" || evs[1].Type != types.EventTaskComplete {
		t.Errorf("re-greet must be one chunk then TASK_COMPLETE: %v", eventTypes(evs))
	}
	if len(st.savedProfiles) == 0 || st.savedProfiles[len(st.savedProfiles)-1].Role != types.RoleTeacher {
		t.Errorf("confirmed role must be persisted, got %+v", st.savedProfiles)
	}
}

func TestChatReachableAfterRoleConfirmation(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensusWorker)

	// A stale open role question must not keep capturing chat turns
	// after the role has been stated: the stream path stays reachable
	// for the rest of the session.
	svc := &fakeService{streamChunks: []string{"Photosynthesis converts light into chemical energy."}}
	o := newTestOrchestrator(svc, &fakeStore{})

	collect(o.ProcessInput(context.Background(), textTurn("hello"), false))
	collect(o.ProcessInput(context.Background(), textTurn("I am a teacher"), false))

	evs := collect(o.ProcessInput(context.Background(), textTurn("explain photosynthesis to me"), false))

	if svc.streamCalls != 1 {
		t.Fatalf("chat turn after confirmation must stream, streamCalls = %d", svc.streamCalls)
	}
	got := eventTypes(evs)
	if len(got) != 2 || got[0] != types.EventStreamChunk || got[1] != types.EventTaskComplete {
		t.Fatalf("events = %v, want one chunk then TASK_COMPLETE", got)
	}
	if evs[0].Text != "Photosynthesis converts light into chemical energy." {
		t.Errorf("expected the streamed answer, got canned phrasing: %q", evs[0].Text)
	}
}

func TestBareRoleAnswerWhileInquiryOpen(t *testing.T) {
	svc := &fakeService{}
	o := newTestOrchestrator(svc, &fakeStore{})

	collect(o.ProcessInput(context.Background(), textTurn("hi"), false))
	if !o.State().RoleAsked {
		t.Fatal("expected open role inquiry")
	}

	// "ok" alone carries no role; the question closes without confirming
	// and is not re-asked.
	collect(o.ProcessInput(context.Background(), textTurn("ok"), false))
	st := o.State()
	if st.RoleAsked || st.RoleConfirmed {
		t.Errorf("non-answer must close the inquiry unconfirmed: %+v", st)
	}
}

func TestRolePersistsAcrossGreetings(t *testing.T) {
	svc := &fakeService{}
	o := newTestOrchestrator(svc, &fakeStore{})

	collect(o.ProcessInput(context.Background(), textTurn("I am a student"), false))
	if o.State().UserRole != types.RoleStudent {
		t.Fatal("student role not confirmed")
	}

	evs := collect(o.ProcessInput(context.Background(), textTurn("hi"), false))
	st := o.State()
	if st.UserRole != types.RoleStudent || !st.RoleConfirmed {
		t.Errorf("plain greeting must not reset the confirmed role: %+v", st)
	}
	if st.RoleAsked {
		t.Error("plain greeting must not reopen the role question")
	}
	if strings.Contains(evs[0].Text, "are you a Teacher") {
		t.Errorf("role question must not reappear: %q", evs[0].Text)
	}
}

func TestProfileHydration(t *testing.T) {
	svc := &fakeService{}
	st := &fakeStore{profile: &types.UserProfile{Name: "Priya Sharma", Role: types.RoleTeacher}}
	o := newTestOrchestrator(svc, st)

	evs := collect(o.ProcessInput(context.Background(), textTurn("hello"), false))

	state := o.State()
	if state.UserRole != types.RoleTeacher || !state.RoleConfirmed {
		t.Errorf("profile role not hydrated: %+v", state)
	}
	if !strings.Contains(evs[0].Text, "Priya") {
		t.Errorf("greeting must address the user by first name, got %q", evs[0].Text)
	}

	// Hydration runs once.
	collect(o.ProcessInput(context.Background(), textTurn("hi"), false))
	if st.profileReads != 1 {
		t.Errorf("expected 1 profile read, got %d", st.profileReads)
	}
}

func TestGuestSkipsPersistence(t *testing.T) {
	svc := &fakeService{}
	st := &fakeStore{profile: &types.UserProfile{Name: "X", Role: types.RoleTeacher}}
	o := newTestOrchestrator(svc, st)

	collect(o.ProcessInput(context.Background(), textTurn("solve 2x+3=7"), true))

	if st.profileReads != 0 {
		t.Error("guest session must not read the profile")
	}
	if st.insightReads != 0 {
		t.Error("guest session must not read history context")
	}
	if len(st.saved) != 0 {
		t.Error("guest submissions must not be persisted")
	}
}

// =============================================================================
// RESET
// =============================================================================

func TestResetIdempotent(t *testing.T) {
	svc := &fakeService{}
	o := newTestOrchestrator(svc, &fakeStore{})

	collect(o.ProcessInput(context.Background(), textTurn("I am Priya and I am a teacher"), false))
	if o.State() == (SessionState{}) {
		t.Fatal("expected non-zero state before reset")
	}

	o.Reset()
	once := o.State()
	o.Reset()
	twice := o.State()

	if once != (SessionState{}) {
		t.Errorf("reset must zero the state, got %+v", once)
	}
	if once != twice {
		t.Errorf("double reset diverged: %+v vs %+v", once, twice)
	}
	if svc.endSessions != 2 {
		t.Errorf("each reset must end the adapter session, got %d", svc.endSessions)
	}
}

// =============================================================================
// FAILURE PATHS
// =============================================================================

func TestPerceptionFailureAbortsTurn(t *testing.T) {
	svc := &fakeService{perceiveErr: &reasoning.PerceptionError{MIMEType: "image/png", Err: errors.New("unreadable")}}
	st := &fakeStore{}
	o := newTestOrchestrator(svc, st)

	evs := collect(o.ProcessInput(context.Background(), fileTurn(""), false))

	got := eventTypes(evs)
	want := []types.EventType{types.EventPhaseUpdate, types.EventError, types.EventPhaseUpdate}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if evs[2].Phase != types.PhaseError {
		t.Errorf("terminal phase = %s, want ERROR", evs[2].Phase)
	}
	if svc.interpretCalls != 0 || svc.reasonCalls != 0 {
		t.Error("pipeline must abort at perception, no retry")
	}
	if len(st.saved) != 0 {
		t.Error("failed submission must not be persisted")
	}

	// Failure is terminal for the turn only; the next one proceeds.
	svc.perceiveErr = nil
	svc.perceiveText = "2x"
	evs = collect(o.ProcessInput(context.Background(), fileTurn(""), false))
	if eventTypes(evs)[len(evs)-1] != types.EventFollowUp {
		t.Error("session must recover on the next turn")
	}
}

func TestReasoningFailureAbortsTurn(t *testing.T) {
	svc := &fakeService{reasonErr: &reasoning.ReasoningError{Mode: types.ModeFast, Err: errors.New("model unavailable")}}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("solve 2x+3=7"), false))

	got := eventTypes(evs)
	if len(got) != 3 || got[1] != types.EventError || evs[2].Phase != types.PhaseError {
		t.Fatalf("events = %v", got)
	}
}

func TestPersistenceFailureIsSwallowed(t *testing.T) {
	svc := &fakeService{}
	st := &fakeStore{saveSubErr: errors.New("disk full")}
	o := newTestOrchestrator(svc, st)

	evs := collect(o.ProcessInput(context.Background(), textTurn("solve 2x+3=7"), false))

	got := eventTypes(evs)
	if got[len(got)-1] != types.EventFollowUp {
		t.Errorf("persistence failure must not abort the turn: %v", got)
	}
	for _, e := range evs {
		if e.Type == types.EventError {
			t.Error("persistence failure must not surface as ERROR")
		}
	}
}

func TestStreamMidFailureSurfacesError(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensusWorker)

	svc := &fakeService{
		streamChunks: []string{"Question 1: ", "what is 1/2 + 1/4?"},
		streamErr:    &reasoning.StreamError{Err: errors.New("connection reset")},
	}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("tell me about fractions please"), false))

	got := eventTypes(evs)
	want := []types.EventType{types.EventStreamChunk, types.EventStreamChunk, types.EventError}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("events = %v, want chunks then ERROR, no TASK_COMPLETE", got)
	}
}

// =============================================================================
// FOLLOW-UPS & GENERATION
// =============================================================================

func TestGenerationStreamsWithStudentFollowUp(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensusWorker)

	svc := &fakeService{streamChunks: []string{"1. 1/2 + 1/4 = ?", "\n2. 3/4 - 1/8 = ?"}}
	st := &fakeStore{profile: &types.UserProfile{Name: "Alex", Role: types.RoleStudent}}
	o := newTestOrchestrator(svc, st)

	evs := collect(o.ProcessInput(context.Background(), textTurn("generate 5 questions on fractions"), false))

	got := eventTypes(evs)
	want := []types.EventType{
		types.EventStreamChunk,
		types.EventStreamChunk,
		types.EventTaskComplete,
		types.EventFollowUp,
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %s, want %s", i, got[i], want[i])
		}
	}
	if evs[0].Text != "1. 1/2 + 1/4 = ?" {
		t.Errorf("chunks must be re-emitted in arrival order, got %q", evs[0].Text)
	}
	if svc.adapterCalls() != 0 {
		t.Error("generation must not run the analysis stages")
	}
	// Student follow-up invites an upload for checking.
	if !strings.Contains(strings.ToLower(evs[3].Text), "upload") {
		t.Errorf("unexpected post-task follow-up: %q", evs[3].Text)
	}
}

func TestGenerationWinsOverSubmissionSignalsForText(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreOpenCensusWorker)

	// Digits make these submission-like, but the generation intent
	// decides the route for text-only turns. Only a file forces analysis.
	for _, text := range []string{
		"generate 5 questions on fractions",
		"create a test for grade 8 algebra",
	} {
		svc := &fakeService{streamChunks: []string{"Question 1"}}
		o := newTestOrchestrator(svc, &fakeStore{})

		evs := collect(o.ProcessInput(context.Background(), textTurn(text), false))

		if svc.streamCalls != 1 || svc.adapterCalls() != 0 {
			t.Errorf("text=%q: want stream path only, streamCalls=%d adapterCalls=%d",
				text, svc.streamCalls, svc.adapterCalls())
		}
		got := eventTypes(evs)
		if len(got) < 2 || got[len(got)-2] != types.EventTaskComplete || got[len(got)-1] != types.EventFollowUp {
			t.Errorf("text=%q: events = %v, want ... TASK_COMPLETE, FOLLOW_UP", text, got)
		}
	}
}

func TestPlainChatHasNoFollowUp(t *testing.T) {
	svc := &fakeService{streamChunks: []string{"Photosynthesis converts light into chemical energy."}}
	o := newTestOrchestrator(svc, &fakeStore{})

	evs := collect(o.ProcessInput(context.Background(), textTurn("explain photosynthesis to me"), false))

	got := eventTypes(evs)
	if got[len(got)-1] != types.EventTaskComplete {
		t.Errorf("non-generation chat must end with TASK_COMPLETE: %v", got)
	}
}

func TestTeacherInsightFollowUpVerbatim(t *testing.T) {
	insight := "The student applies the rule phonetically rather than grammatically."
	svc := &fakeService{reasonResult: &types.AnalysisResult{TeacherInsight: insight}}
	st := &fakeStore{profile: &types.UserProfile{Name: "Priya", Role: types.RoleTeacher}}
	o := newTestOrchestrator(svc, st)

	evs := collect(o.ProcessInput(context.Background(), textTurn("check 2x+3=7, x=2"), false))

	last := evs[len(evs)-1]
	if last.Type != types.EventFollowUp {
		t.Fatalf("last event = %s, want FOLLOW_UP", last.Type)
	}
	if !strings.HasPrefix(last.Text, insight) {
		t.Errorf("teacher insight must lead the follow-up verbatim, got %q", last.Text)
	}
	if !strings.Contains(last.Text, "practice set") {
		t.Errorf("follow-up must offer a practice set, got %q", last.Text)
	}
}

func TestHistoryContextFlowsIntoReasoning(t *testing.T) {
	svc := &fakeService{}
	st := &fakeStore{insights: "[2026-08-01] Topic: Algebra. Gaps: sign errors."}
	o := newTestOrchestrator(svc, st)

	collect(o.ProcessInput(context.Background(), textTurn("solve 2x+3=7"), false))

	if svc.lastReason.HistoryContext != st.insights {
		t.Errorf("history context = %q, want %q", svc.lastReason.HistoryContext, st.insights)
	}
	if svc.lastReason.Instruction != "solve 2x+3=7" {
		t.Errorf("user instruction = %q", svc.lastReason.Instruction)
	}
}
