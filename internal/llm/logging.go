package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/lexicon/internal/logger"
)

// Event is the audit record of one provider call.
type Event struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	Timestamp    time.Time
}

// EventRecorder persists request events.
type EventRecorder interface {
	RecordLLMRequest(ctx context.Context, ev Event) error
}

type loggingProvider struct {
	inner    Provider
	provider string
	recorder EventRecorder
	log      *logger.Logger
}

// WithLogging records every call made through p. Recording failures are
// logged and never fail the call. recorder may be nil.
func WithLogging(p Provider, providerName string, recorder EventRecorder, log *logger.Logger) Provider {
	return &loggingProvider{inner: p, provider: providerName, recorder: recorder, log: log}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := Event{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
		Timestamp:   start.UTC(),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		l.log.Warn("llm request failed",
			"provider", ev.Provider,
			"model", ev.Model,
			"purpose", ev.Purpose,
			"latency_ms", ev.LatencyMs,
			"error", err,
		)
	} else {
		l.log.Debug("llm request",
			"provider", ev.Provider,
			"model", ev.Model,
			"purpose", ev.Purpose,
			"latency_ms", ev.LatencyMs,
			"tokens", ev.InputTokens+ev.OutputTokens,
		)
	}

	if l.recorder != nil {
		// The caller's context may already be done; the audit row should
		// still be written.
		if recErr := l.recorder.RecordLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
			l.log.Warn("record llm request", "error", recErr)
		}
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// describeRequest renders a request as readable text for the audit log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
