package diagnosis

import "github.com/abhisek/lexicon/internal/llm"

// ClassificationSchema is the JSON shape the model must answer with.
var ClassificationSchema = &llm.Schema{
	Name:        "answer-error",
	Description: "The single main error a learner made in a language exercise",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type":        "string",
				"enum":        categoryEnum(),
				"description": "The one main error type, or none if the answer is acceptable",
			},
			"rationale": map[string]any{
				"type":        "string",
				"description": "One or two sentences on what the mistake was and why it is wrong",
			},
		},
		"required":             []any{"category", "rationale"},
		"additionalProperties": false,
	},
}
