package chat

import (
	"strings"
	"testing"

	"eduvane/internal/types"
)

func TestRenderResult(t *testing.T) {
	r := &types.AnalysisResult{
		Subject: "Mathematics",
		Topic:   "Fractions",
		Score:   types.Score{Value: "7/10", Label: "Good", Reasoning: "Solid method, two slips."},
		Feedback: []types.FeedbackItem{
			{Type: "strength", Text: "Correct common denominators."},
			{Type: "gap", Text: "Sign error when subtracting."},
		},
		Guidance: []types.GuidanceStep{
			{Step: "Redo problems 3 and 5.", Rationale: "Targets the sign error."},
		},
		Insights: []types.Insight{
			{Title: "Sign handling", Description: "Recurring slip.", Trend: "stable"},
		},
		Handwriting: &types.HandwritingAnalysis{Quality: "good", Feedback: "Legible throughout."},
	}

	out := renderResult(r)

	for _, want := range []string{
		"7/10: Good",
		"Solid method, two slips.",
		"Mathematics / Fractions",
		"Correct common denominators.",
		"Sign error when subtracting.",
		"Handwriting (good)",
		"1. Redo problems 3 and 5.",
		"**Sign handling** (stable)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("renderResult missing %q\n%s", want, out)
		}
	}
}

func TestRenderResultMinimal(t *testing.T) {
	r := &types.AnalysisResult{Score: types.Score{Value: "-", Label: "Pending"}}
	out := renderResult(r)
	if !strings.Contains(out, "-: Pending") {
		t.Errorf("minimal result not rendered: %s", out)
	}
	if strings.Contains(out, "Handwriting") || strings.Contains(out, "Next Steps") {
		t.Errorf("empty sections should be omitted: %s", out)
	}
}

func TestPhaseLabel(t *testing.T) {
	cases := map[types.AnalysisPhase]string{
		types.PhaseProcessing: "Analyzing",
		types.PhaseError:      "wrong",
		types.PhaseIdle:       "Thinking",
	}
	for phase, want := range cases {
		if got := phaseLabel(phase); !strings.Contains(got, want) {
			t.Errorf("phaseLabel(%s) = %q, want substring %q", phase, got, want)
		}
	}
}
