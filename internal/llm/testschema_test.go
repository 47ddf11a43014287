package llm

import (
	"encoding/json"
	"net/http"
	"testing"
)

var verdictSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":  map[string]any{"type": "string", "enum": []any{"spelling", "grammar"}},
			"rationale": map[string]any{"type": "string"},
		},
		"required":             []any{"category", "rationale"},
		"additionalProperties": false,
	},
}

const verdictJSON = `{"category":"spelling","rationale":"Hnud has swapped letters."}`

func classifyRequest() Request {
	req := UserPrompt("You grade German vocabulary answers.", "Expected: Hund\nGot: Hnud")
	req.MaxTokens = 200
	return req
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("encode response: %v", err)
	}
}
