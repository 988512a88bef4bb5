package reasoning

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"eduvane/internal/config"
	"eduvane/internal/logging"
	"eduvane/internal/types"
)

// GeminiService is the production Service implementation on the Gemini
// API. The stateless stages go through Models.GenerateContent; the
// learning-task chat is a lazily created session scoped to this value,
// guarded by mu.
type GeminiService struct {
	client      *genai.Client
	fastModel   string
	deepModel   string
	visionModel string
	timeout     time.Duration

	mu   sync.Mutex
	chat *genai.Chat
}

var _ Service = (*GeminiService)(nil)

// NewGeminiService builds the adapter from the loaded config. The API
// key must already be resolved (file or environment).
func NewGeminiService(ctx context.Context, cfg *config.Config) (*GeminiService, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	timeout, err := cfg.LLMTimeout()
	if err != nil {
		return nil, err
	}

	logging.API("Gemini adapter ready (fast=%s deep=%s vision=%s)",
		cfg.LLM.FastModel, cfg.LLM.DeepModel, cfg.LLM.VisionModel)

	return &GeminiService{
		client:      client,
		fastModel:   cfg.LLM.FastModel,
		deepModel:   cfg.LLM.DeepModel,
		visionModel: cfg.LLM.VisionModel,
		timeout:     timeout,
	}, nil
}

// perceptionModel routes PDFs to the document-capable text model and
// images to the vision model.
func (s *GeminiService) perceptionModel(mimeType string) string {
	if mimeType == "application/pdf" {
		return s.fastModel
	}
	return s.visionModel
}

// reasoningModel maps the pipeline mode to a model tier.
func (s *GeminiService) reasoningModel(mode types.PipelineMode) string {
	if mode == types.ModeDeep {
		return s.deepModel
	}
	return s.fastModel
}

// =============================================================================
// STATELESS STAGES
// =============================================================================

func (s *GeminiService) Perceive(ctx context.Context, data []byte, mimeType string) (string, error) {
	timer := logging.StartTimer(logging.CategoryPerception, "perceive")
	defer timer.StopWithInfo()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.perceptionModel(mimeType)
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(data, mimeType),
		genai.NewPartFromText("Extract all legible text from this content. Describe the layout briefly."),
	}, genai.RoleUser)}

	resp, err := s.client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPerception, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
	})
	if err != nil {
		logging.PerceptionError("extraction failed (model=%s mime=%s): %v", model, mimeType, err)
		return "", &PerceptionError{MIMEType: mimeType, Err: err}
	}

	text := resp.Text()
	logging.Perception("extracted %d chars via %s", len(text), model)
	return text, nil
}

func (s *GeminiService) Interpret(ctx context.Context, extracted string) types.InterpretationContext {
	timer := logging.StartTimer(logging.CategoryReasoning, "interpret")
	defer timer.StopWithInfo()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText("Analyzed Text: "+extracted, genai.RoleUser)}
	resp, err := s.client.Models.GenerateContent(ctx, s.fastModel, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInterpretation, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    interpretationSchema,
	})
	if err != nil {
		logging.ReasoningError("interpretation degraded to default: %v", err)
		return types.DefaultInterpretation()
	}

	ic := decodeInterpretation(resp.Text())
	logging.Reasoning("interpreted subject=%s topic=%s intent=%s ownership=%s",
		ic.Subject, ic.Topic, ic.Intent, ic.Ownership.Type)
	return ic
}

func (s *GeminiService) Reason(ctx context.Context, req ReasonRequest) (*types.AnalysisResult, error) {
	timer := logging.StartTimer(logging.CategoryReasoning, "reason")
	defer timer.StopWithInfo()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.reasoningModel(req.Mode)

	parts := []*genai.Part{}
	if len(req.ImageData) > 0 && req.MIMEType != "" {
		parts = append(parts, genai.NewPartFromBytes(req.ImageData, req.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(buildReasonPrompt(req)))

	resp, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemReasoning, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    analysisSchema,
		})
	if err != nil {
		logging.ReasoningError("diagnosis failed (model=%s): %v", model, err)
		return nil, &ReasoningError{Mode: req.Mode, Err: err}
	}

	result, err := decodeAnalysis(resp.Text())
	if err != nil {
		logging.ReasoningError("diagnosis payload undecodable: %v", err)
		return nil, &ReasoningError{Mode: req.Mode, Err: err}
	}

	result.ID = uuid.NewString()
	result.Timestamp = time.Now().UnixMilli()
	result.Subject = req.Context.Subject
	result.Topic = req.Context.Topic
	result.Ownership = &req.Context.Ownership
	result.RawText = req.Extracted

	logging.Reasoning("diagnosis complete id=%s model=%s feedback=%d insights=%d",
		result.ID, model, len(result.Feedback), len(result.Insights))

	// Make the result available to future task generation. Losing the
	// injection never fails the analysis itself.
	s.injectAnalysisContext(ctx, result)

	return result, nil
}

// buildReasonPrompt assembles the instruction-hierarchy prompt the
// diagnosis stage consumes.
func buildReasonPrompt(req ReasonRequest) string {
	role := string(req.Role)
	if role == "" {
		role = "Unknown"
	}
	instruction := req.Instruction
	if instruction == "" {
		instruction = "None"
	}
	history := req.HistoryContext
	if history == "" {
		history = "None"
	}
	studentName, studentClass := "Unknown", "Unknown"
	if st := req.Context.Ownership.Student; st != nil {
		if st.Name != "" {
			studentName = st.Name
		}
		if st.Class != "" {
			studentClass = st.Class
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[LEVEL 2: USER ROLE & OWNERSHIP]\n")
	fmt.Fprintf(&b, "Active Role: %s\n", role)
	fmt.Fprintf(&b, "Ownership Type: %s\n", req.Context.Ownership.Type)
	fmt.Fprintf(&b, "Student: %s (%s)\n\n", studentName, studentClass)
	fmt.Fprintf(&b, "[LEVEL 3: USER REQUEST & INTENT]\n")
	fmt.Fprintf(&b, "Detected Intent: %s\n", req.Context.Intent)
	fmt.Fprintf(&b, "Explicit Instruction: %s\n\n", instruction)
	fmt.Fprintf(&b, "[LEVEL 4: CONTEXT]\n")
	fmt.Fprintf(&b, "Subject/Topic: %s / %s\n", req.Context.Subject, req.Context.Topic)
	fmt.Fprintf(&b, "History: %s\n\n", history)
	fmt.Fprintf(&b, "[CONTENT TO ANALYZE]\n%s\n\n", req.Extracted)
	b.WriteString("Analyze strictly following the INSTRUCTION HIERARCHY.\nGenerate a JSON response.")
	return b.String()
}

// =============================================================================
// STATEFUL LEARNING TASKS
// =============================================================================

// getOrCreateChat lazily creates the question-workspace session.
func (s *GeminiService) getOrCreateChat(ctx context.Context) (*genai.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.chat != nil {
		return s.chat, nil
	}

	chat, err := s.client.Chats.Create(ctx, s.fastModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemQuestionWorkspace, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	}, nil)
	if err != nil {
		return nil, err
	}
	s.chat = chat
	logging.API("question workspace session created (model=%s)", s.fastModel)
	return chat, nil
}

func (s *GeminiService) StreamLearningTask(ctx context.Context, message string, role types.UserRole) (<-chan string, <-chan error) {
	out := make(chan string, 16)
	errCh := make(chan error, 1)

	roleLabel := string(role)
	if roleLabel == "" {
		roleLabel = "Ambiguous"
	}
	contextMsg := fmt.Sprintf("[Active User Role: %s] %s", roleLabel, message)

	go func() {
		defer close(out)
		defer close(errCh)

		chat, err := s.getOrCreateChat(ctx)
		if err != nil {
			logging.APIDebug("chat session create failed: %v", err)
			errCh <- &StreamError{Err: err}
			return
		}

		chunks := 0
		for resp, err := range chat.SendMessageStream(ctx, genai.Part{Text: contextMsg}) {
			if err != nil {
				logging.APIDebug("stream aborted after %d chunks: %v", chunks, err)
				errCh <- &StreamError{Err: err}
				return
			}
			if text := resp.Text(); text != "" {
				chunks++
				select {
				case out <- text:
				case <-ctx.Done():
					errCh <- &StreamError{Err: ctx.Err()}
					return
				}
			}
		}
		logging.APIDebug("stream complete, %d chunks", chunks)
	}()

	return out, errCh
}

// injectAnalysisContext pushes a summary of a fresh analysis into the
// chat session so later task generation can target the identified gaps.
// Best effort: a failure here is logged and swallowed.
func (s *GeminiService) injectAnalysisContext(ctx context.Context, result *types.AnalysisResult) {
	ownership := string(types.OwnershipStudentDirect)
	if result.Ownership != nil {
		ownership = string(result.Ownership.Type)
	}

	var obs, gaps, insights strings.Builder
	for _, f := range result.Feedback {
		fmt.Fprintf(&obs, "- %s: %s\n", strings.ToUpper(f.Type), f.Text)
	}
	gaps.WriteString(strings.Join(result.Gaps(), ", "))
	for _, i := range result.Insights {
		fmt.Fprintf(&insights, "- %s: %s\n", i.Title, i.Trend)
	}

	stability, evidence := "Unknown", "No specific evidence"
	if cs := result.ConceptStability; cs != nil {
		if cs.Status != "" {
			stability = cs.Status
		}
		if cs.Evidence != "" {
			evidence = cs.Evidence
		}
	}
	teacherInsight := result.TeacherInsight
	if teacherInsight == "" {
		teacherInsight = "None"
	}

	payload := fmt.Sprintf(`[SYSTEM UPDATE: LEARNING CONTEXT AVAILABLE]
New analysis completed.
Subject: %s (%s).
Ownership: %s.

Observation Summary:
%s
Identified Learning Gaps:
%s

Stability Signal: %s (%s)

Previous Insights (Longitudinal):
%s
Teacher Insight (If any): %s

This information is available for future task generation. Use it to infer intent (misconception vs slip) and sequence diagnostics.`,
		result.Subject, result.Topic, ownership,
		obs.String(), gaps.String(), stability, evidence,
		insights.String(), teacherInsight)

	chat, err := s.getOrCreateChat(ctx)
	if err != nil {
		logging.APIDebug("context injection skipped, no session: %v", err)
		return
	}
	if _, err := chat.SendMessage(ctx, genai.Part{Text: payload}); err != nil {
		logging.APIDebug("context injection failed: %v", err)
	}
}

// EndSession drops the chat session. The next learning task creates a
// fresh one.
func (s *GeminiService) EndSession() {
	s.mu.Lock()
	s.chat = nil
	s.mu.Unlock()
	logging.API("question workspace session ended")
}
