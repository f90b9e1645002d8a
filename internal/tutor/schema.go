package tutor

import "github.com/abhisek/lingodrill/internal/llm"

// ExplanationSchema defines the JSON schema for a field explanation.
var ExplanationSchema = &llm.Schema{
	Name:        "field-explanation",
	Description: "Why the learner's answers differ from the expected ones, with short study tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "2-4 sentences covering each incorrect field",
			},
			"tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 short memorisation tips (5-15 words each)",
			},
		},
		"required":             []any{"explanation", "tips"},
		"additionalProperties": false,
	},
}
