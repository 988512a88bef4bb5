package reasoning

import "google.golang.org/genai"

// Response schemas for the structured stages. Field names line up with
// the JSON tags in the types package so decoded payloads bind directly.

var interpretationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"subject":    {Type: genai.TypeString},
		"topic":      {Type: genai.TypeString},
		"difficulty": {Type: genai.TypeString},
		"intent": {
			Type:        genai.TypeString,
			Enum:        []string{"solution", "explanation", "both"},
			Description: "User expectation: 'solution' (answer/steps), 'explanation' (guidance/why), or 'both'.",
		},
		"ownership": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"type": {
					Type: genai.TypeString,
					Enum: []string{"student_direct", "teacher_uploaded_student_work"},
				},
				"student": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":       {Type: genai.TypeString},
						"class":      {Type: genai.TypeString},
						"confidence": {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
					},
				},
			},
			Required: []string{"type"},
		},
	},
	Required: []string{"subject", "topic", "intent", "ownership"},
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"value":     {Type: genai.TypeString, Description: "Numeric score or letter grade"},
				"label":     {Type: genai.TypeString, Description: "Short descriptive label"},
				"reasoning": {Type: genai.TypeString, Description: "Why this score was given"},
			},
		},
		"feedback": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"type":      {Type: genai.TypeString, Enum: []string{"strength", "gap", "neutral"}},
					"text":      {Type: genai.TypeString},
					"reference": {Type: genai.TypeString},
				},
			},
		},
		"handwriting": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"quality":  {Type: genai.TypeString, Enum: []string{"excellent", "good", "fair", "poor", "illegible"}},
				"feedback": {Type: genai.TypeString},
			},
		},
		"insights": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"trend":       {Type: genai.TypeString, Enum: []string{"stable", "improving", "declining", "new"}},
				},
			},
		},
		"guidance": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"step":      {Type: genai.TypeString},
					"rationale": {Type: genai.TypeString},
				},
			},
		},
		"concept_stability": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"status":   {Type: genai.TypeString, Enum: []string{"emerging", "unstable_pressure", "stabilizing", "robust", "unknown"}},
				"evidence": {Type: genai.TypeString},
			},
		},
		"task_alignment": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"goal":      {Type: genai.TypeString, Description: "Identified task goal (e.g., Compute, Prove)."},
				"status":    {Type: genai.TypeString, Enum: []string{"aligned", "misaligned", "partial"}},
				"reasoning": {Type: genai.TypeString, Description: "Why it is aligned or misaligned."},
			},
		},
		"interpretation_stability": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ambiguity_detected":     {Type: genai.TypeBoolean},
				"student_interpretation": {Type: genai.TypeString},
				"status":                 {Type: genai.TypeString, Enum: []string{"valid", "invalid", "ambiguous_but_reasonable"}},
			},
		},
		"global_reasoning": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"assumptions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":      {Type: genai.TypeString},
							"type":    {Type: genai.TypeString, Enum: []string{"explicit", "implicit"}},
							"content": {Type: genai.TypeString},
						},
					},
				},
				"progression": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":           {Type: genai.TypeString},
							"content":      {Type: genai.TypeString},
							"dependencies": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						},
					},
				},
				"flags": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"type":     {Type: genai.TypeString, Enum: []string{"contradiction", "shift", "discontinuity"}},
							"location": {Type: genai.TypeString},
							"details":  {Type: genai.TypeString},
						},
					},
				},
				"consistency_score": {Type: genai.TypeNumber},
			},
		},
		"assumption_integrity": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"implicit_assumptions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"id":               {Type: genai.TypeString},
							"content":          {Type: genai.TypeString},
							"related_step_ids": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
							"legitimacy":       {Type: genai.TypeString, Enum: []string{"permitted", "acceptable", "unjustified"}},
							"justification":    {Type: genai.TypeString},
						},
					},
				},
				"flags": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"type":          {Type: genai.TypeString, Enum: []string{"constraint_exceeded", "scope_narrowing", "hidden_condition"}},
							"assumption_id": {Type: genai.TypeString},
							"details":       {Type: genai.TypeString},
						},
					},
				},
			},
		},
		"verification": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"branch": {Type: genai.TypeString, Enum: []string{"clv", "fact_grounding", "none"}},
				"clv": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"status":          {Type: genai.TypeString, Enum: []string{"verified", "mismatch", "skipped"}},
						"computed_result": {Type: genai.TypeString},
						"student_result":  {Type: genai.TypeString},
						"discrepancy":     {Type: genai.TypeString},
					},
				},
				"fact_grounding": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"status":         {Type: genai.TypeString, Enum: []string{"verified", "disputed", "uncertain", "skipped"}},
						"verified_facts": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"flagged_claims": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
		},
		"local_reasoning": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"steps": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"step_id":               {Type: genai.TypeString},
							"content":               {Type: genai.TypeString},
							"status":                {Type: genai.TypeString, Enum: []string{"correct", "partial", "incorrect", "skipped"}},
							"confidence":            {Type: genai.TypeString, Enum: []string{"high", "medium", "low"}},
							"error_type":            {Type: genai.TypeString},
							"related_assumption_id": {Type: genai.TypeString},
						},
					},
				},
			},
		},
		"teacher_insight": {
			Type:        genai.TypeString,
			Description: "Optional, brief instructional cue for teachers.",
		},
	},
}
