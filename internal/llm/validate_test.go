package llm

import (
	"errors"
	"testing"
)

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", verdictJSON, false},
		{"not json", `category: spelling`, true},
		{"missing field", `{"category":"spelling"}`, true},
		{"enum violation", `{"category":"vibes","rationale":"x"}`, true},
		{"extra field", `{"category":"grammar","rationale":"x","score":3}`, true},
		{"wrong type", `{"category":"grammar","rationale":7}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(verdictSchema, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Errorf("err = %T, want *ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, []byte("plain text")); err != nil {
		t.Errorf("nil schema should accept anything, got %v", err)
	}
}
