package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/llm"
	"github.com/abhisek/lexicon/internal/logger"
)

func TestLLMEventRepo(t *testing.T) {
	repo := openTestStore(t).LLMEvents()
	ctx := llm.WithPurpose(context.Background(), llm.PurposeClassify)

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: []byte(`{"ok":true}`), Usage: llm.Usage{InputTokens: 1000, OutputTokens: 200}},
		llm.MockResponse{Err: errors.New("boom")},
	)
	p := llm.WithLogging(mock, llm.ProviderMock, repo, logger.Nop())
	_, err := p.Generate(ctx, llm.UserPrompt("sys", "hello"))
	require.NoError(t, err)
	_, err = p.Generate(ctx, llm.UserPrompt("sys", "again"))
	require.Error(t, err)

	events, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, llm.PurposeClassify, ev.Purpose)
		assert.False(t, ev.Timestamp.IsZero())
	}

	limited, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	usage, err := repo.Usage(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 1)
	u := usage[0]
	assert.Equal(t, llm.ProviderMock, u.Provider)
	assert.Equal(t, "mock", u.Model)
	assert.Equal(t, 2, u.Calls)
	assert.Equal(t, 1, u.Failures)
	assert.Equal(t, int64(1000), u.InputTokens)
	assert.Equal(t, int64(200), u.OutputTokens)

	_, priced := u.CostUSD()
	assert.False(t, priced)
	cost, priced := LLMUsage{Model: "gpt-4o-mini", InputTokens: 1_000_000}.CostUSD()
	assert.True(t, priced)
	assert.InDelta(t, 0.15, cost, 1e-9)
}
