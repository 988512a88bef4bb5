package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalysisResult_Normalize(t *testing.T) {
	r := &AnalysisResult{}
	r.Normalize()

	if r.Feedback == nil || r.Insights == nil || r.Guidance == nil {
		t.Fatal("Normalize must leave no nil sequences")
	}
	if len(r.Feedback)+len(r.Insights)+len(r.Guidance) != 0 {
		t.Errorf("expected empty sequences, got %d/%d/%d", len(r.Feedback), len(r.Insights), len(r.Guidance))
	}
	if r.Score.Label != "Pending" {
		t.Errorf("expected placeholder score, got %+v", r.Score)
	}
}

func TestAnalysisResult_NormalizeKeepsExisting(t *testing.T) {
	r := &AnalysisResult{
		Score:    Score{Value: "8/10", Label: "Strong", Reasoning: "solid setup"},
		Feedback: []FeedbackItem{{Type: "strength", Text: "clear working"}},
	}
	r.Normalize()

	if r.Score.Label != "Strong" {
		t.Errorf("Normalize overwrote a real score: %+v", r.Score)
	}
	if len(r.Feedback) != 1 {
		t.Errorf("Normalize dropped feedback: %+v", r.Feedback)
	}
}

func TestAnalysisResult_GapsAndStrengths(t *testing.T) {
	r := &AnalysisResult{
		Feedback: []FeedbackItem{
			{Type: "strength", Text: "correct setup"},
			{Type: "gap", Text: "sign error"},
			{Type: "neutral", Text: "middle step optional"},
			{Type: "gap", Text: "units dropped"},
		},
	}

	if diff := cmp.Diff([]string{"sign error", "units dropped"}, r.Gaps()); diff != "" {
		t.Errorf("Gaps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"correct setup"}, r.Strengths()); diff != "" {
		t.Errorf("Strengths mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMode_Boundary(t *testing.T) {
	short := make([]byte, FastModeThreshold-1)
	long := make([]byte, FastModeThreshold)
	for i := range short {
		short[i] = 'x'
	}
	for i := range long {
		long[i] = 'x'
	}

	if got := SelectMode(string(short)); got != ModeFast {
		t.Errorf("length %d: expected fast, got %s", len(short), got)
	}
	if got := SelectMode(string(long)); got != ModeDeep {
		t.Errorf("length %d: expected deep, got %s", len(long), got)
	}
	if got := SelectMode(""); got != ModeFast {
		t.Errorf("empty text: expected fast, got %s", got)
	}
}

func TestUserRole_Known(t *testing.T) {
	if RoleUnknown.Known() {
		t.Error("unknown role reported as known")
	}
	if !RoleTeacher.Known() || !RoleStudent.Known() {
		t.Error("confirmed roles must report known")
	}
}

func TestUserProfile_FirstName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Priya Sharma", "Priya"},
		{"Alex", "Alex"},
		{"", ""},
		{"  ", ""},
	}
	for _, tc := range cases {
		p := UserProfile{Name: tc.name}
		if got := p.FirstName(); got != tc.want {
			t.Errorf("FirstName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSubmission_JSONRoundTrip(t *testing.T) {
	sub := Submission{
		ID:       "abc-123",
		Status:   SubmissionCompleted,
		FileName: "worksheet.pdf",
		Result: &AnalysisResult{
			ID:      "abc-123",
			Subject: "Mathematics",
			Topic:   "Linear Equations",
			Score:   Score{Value: "7/10", Label: "Developing", Reasoning: "method sound"},
			Feedback: []FeedbackItem{
				{Type: "gap", Text: "sign handling drifts in step 3"},
			},
			Insights: []Insight{},
			Guidance: []GuidanceStep{},
			Ownership: &OwnershipContext{
				Type:    OwnershipTeacherUpload,
				Student: &StudentInfo{Name: "Ravi", Class: "8B", Confidence: "high"},
			},
		},
	}

	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back Submission
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(sub, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
