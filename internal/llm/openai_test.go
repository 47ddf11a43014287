package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAICompatible("test-key", server.URL+"/v1", "gpt-4o-mini")
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var got map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, http.StatusOK, chatCompletion(verdictJSON, "stop"))
	})

	req := classifyRequest()
	req.Schema = verdictSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != verdictJSON {
		t.Errorf("Content = %s", resp.Content)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.Usage.TotalTokens != 65 {
		t.Errorf("Usage = %+v", resp.Usage)
	}
	if resp.StopReason != StopEnd {
		t.Errorf("StopReason = %q", resp.StopReason)
	}

	msgs, _ := got["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v, want json_schema", format)
	}
}

func TestOpenAIProvider_SchemaMismatch(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, chatCompletion(`{"category":"vibes"}`, "stop"))
	})
	req := classifyRequest()
	req.Schema = verdictSchema
	_, err := p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %T %v, want *ErrInvalidResponse", err, err)
	}
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, chatCompletion(`{"category":"spel`, "length"))
	})
	_, err := p.Generate(context.Background(), classifyRequest())
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T %v, want *ErrMaxTokensExceeded", err, err)
	}
}

func TestOpenAIProvider_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var un *ErrProviderUnavailable
			return errors.As(err, &un)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, tt.status, map[string]any{
					"error": map[string]any{"type": "error", "message": tt.name},
				})
			})
			_, err := p.Generate(context.Background(), classifyRequest())
			if !tt.check(err) {
				t.Errorf("unexpected error type %T: %v", err, err)
			}
		})
	}
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(ProviderConfig{APIKey: "sk-or-test", Model: "google/gemini-2.0-flash-001"})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if p.ModelID() != "google/gemini-2.0-flash-001" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
	if _, err := NewOpenRouterProvider(ProviderConfig{Model: "x"}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewOpenAIProvider_ResolvesAlias(t *testing.T) {
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("ModelID = %q, want gpt-4o-mini", p.ModelID())
	}
}
