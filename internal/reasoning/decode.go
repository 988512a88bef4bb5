package reasoning

import (
	"encoding/json"
	"strings"

	"eduvane/internal/types"
)

// cleanJSON strips markdown code fences that models sometimes wrap
// around structured output despite the JSON response MIME type.
func cleanJSON(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// decodeAnalysis binds a model payload to an AnalysisResult and enforces
// the non-nil sequence invariant. Unknown fields are ignored; missing
// fields fall back to Normalize defaults.
func decodeAnalysis(raw string) (*types.AnalysisResult, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		cleaned = "{}"
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, err
	}
	result.Normalize()
	return &result, nil
}

// decodeInterpretation binds a model payload to an InterpretationContext.
// Any decode failure or out-of-range intent degrades to the safe default.
func decodeInterpretation(raw string) types.InterpretationContext {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return types.DefaultInterpretation()
	}

	var ic types.InterpretationContext
	if err := json.Unmarshal([]byte(cleaned), &ic); err != nil {
		return types.DefaultInterpretation()
	}

	switch ic.Intent {
	case types.IntentSolution, types.IntentExplanation, types.IntentBoth:
	default:
		ic.Intent = types.IntentExplanation
	}
	if ic.Subject == "" {
		ic.Subject = "General"
	}
	if ic.Topic == "" {
		ic.Topic = "Unknown"
	}
	switch ic.Ownership.Type {
	case types.OwnershipStudentDirect, types.OwnershipTeacherUpload:
	default:
		ic.Ownership.Type = types.OwnershipStudentDirect
	}
	return ic
}
