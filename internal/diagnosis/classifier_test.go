package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/lexicon/internal/llm"
)

func TestLLMClassifier_Classify(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{
		"category":  "spelling",
		"rationale": "Два літери переставлено.",
	}))
	c := NewLLMClassifier(mock, ClassifierConfig{Language: "Ukrainian"})

	res, err := c.Classify(context.Background(), "Hund", "Hnud")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if res.Category != CategorySpelling || res.Fallback {
		t.Errorf("result = %+v", res)
	}
	if res.Rationale != "Два літери переставлено." {
		t.Errorf("Rationale = %q", res.Rationale)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	req := calls[0]
	if req.Schema != ClassificationSchema {
		t.Error("request does not carry ClassificationSchema")
	}
	if req.MaxTokens != DefaultClassifierConfig().MaxTokens {
		t.Errorf("MaxTokens = %d", req.MaxTokens)
	}
	if !strings.Contains(req.System, "Ukrainian") || !strings.Contains(req.System, "- lexical-choice") {
		t.Errorf("system prompt = %q", req.System)
	}
	if !strings.Contains(req.Messages[0].Content, "Correct answer: Hund") ||
		!strings.Contains(req.Messages[0].Content, "Learner's answer: Hnud") {
		t.Errorf("user prompt = %q", req.Messages[0].Content)
	}
}

func TestLLMClassifier_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider down", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
		{"off-schema category", llm.MockJSON(map[string]string{"category": "typo", "rationale": "x"})},
		{"not json", llm.MockResponse{Content: []byte(`Spelling Error`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLLMClassifier(llm.NewMockProvider(tt.resp), DefaultClassifierConfig())
			if _, err := c.Classify(context.Background(), "Hund", "Katze"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLLMClassifier_InvalidResponseIsTyped(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{"category": "typo", "rationale": "x"}))
	_, err := NewLLMClassifier(mock, DefaultClassifierConfig()).Classify(context.Background(), "a", "b")
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Errorf("err = %v, want *llm.ErrInvalidResponse", err)
	}
}
