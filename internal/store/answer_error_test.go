package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/diagnosis"
	"github.com/abhisek/lexicon/internal/grading"
)

func TestAnswerErrorRepo(t *testing.T) {
	repo := openTestStore(t).AnswerErrors()
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	second := &grading.AnswerError{
		ID: "b", UserID: 1, Kind: catalog.KindCompound, ItemID: 10,
		Correct: "nach Hause", Submitted: "nach Haus",
		Category: diagnosis.CategoryGrammar, Rationale: "Dative -e.", CreatedAt: t0.Add(time.Second),
	}
	first := &grading.AnswerError{
		ID: "a", UserID: 1, Kind: catalog.KindStandalone, ItemID: 1,
		Correct: "Hund", Submitted: "Katze",
		Category: diagnosis.CategoryLexicalChoice, Fallback: true, CreatedAt: t0,
	}
	other := &grading.AnswerError{ID: "c", UserID: 2, Kind: catalog.KindStandalone, ItemID: 1, Category: diagnosis.CategorySpelling, CreatedAt: t0}
	for _, e := range []*grading.AnswerError{second, first, other} {
		require.NoError(t, repo.Append(ctx, e))
	}

	got, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []grading.AnswerError{*first, *second}, got)

	none, err := repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}
