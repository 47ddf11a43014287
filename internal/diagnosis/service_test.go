package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/logger"
)

type stubClassifier struct {
	res Result
	err error
}

func (s stubClassifier) Classify(context.Context, string, string) (Result, error) {
	return s.res, s.err
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.WarnLevel)
	return logger.FromZap(zap.New(core)), logs
}

func TestService_PassesThroughModelResult(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockJSON(map[string]string{"category": "grammar", "rationale": "Wrong article."}))
	svc := NewService(NewLLMClassifier(mock, DefaultClassifierConfig()), time.Second, logger.Nop())

	res := svc.Classify(context.Background(), "der Hund", "die Hund")
	assert.Equal(t, Result{Category: CategoryGrammar, Rationale: "Wrong article."}, res)
}

func TestService_FallsBackOnProviderError(t *testing.T) {
	log, logs := observed()
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	svc := NewService(NewLLMClassifier(mock, DefaultClassifierConfig()), time.Second, log)

	res := svc.Classify(context.Background(), "Hund", "Katze")
	assert.Equal(t, Fallback("Hund", "Katze"), res)
	assert.True(t, res.Fallback)
	assert.Equal(t, CategoryLexicalChoice, res.Category)
	assert.Equal(t, `Answer "Katze" differs from the expected answer "Hund".`, res.Rationale)

	require.Equal(t, 1, logs.Len())
	msg, _ := logs.All()[0].ContextMap()["error"].(string)
	assert.True(t, strings.Contains(msg, ErrClassificationUnavailable.Error()), "logged error %q", msg)
}

func TestService_TimeoutFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Delay: llm.BlockUntilDone})
	svc := NewService(NewLLMClassifier(mock, DefaultClassifierConfig()), 20*time.Millisecond, logger.Nop())

	start := time.Now()
	res := svc.Classify(context.Background(), "Hund", "Hunde")
	assert.True(t, res.Fallback)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestService_CallerCancellationFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Delay: llm.BlockUntilDone})
	svc := NewService(NewLLMClassifier(mock, DefaultClassifierConfig()), time.Minute, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, svc.Classify(ctx, "a", "b").Fallback)
}

func TestService_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		c    Classifier
	}{
		{"nil classifier", nil},
		{"unknown category", stubClassifier{res: Result{Category: "typo"}}},
		{"error", stubClassifier{err: errors.New("boom")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.c, 0, nil)
			assert.Equal(t, DefaultTimeout, svc.timeout)
			assert.True(t, svc.Classify(context.Background(), "x", "y").Fallback)
		})
	}
}
