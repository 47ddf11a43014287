package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/catalog"
	"github.com/abhisek/lexicon/internal/profile"
)

func TestProfileRepo(t *testing.T) {
	repo := openTestStore(t).Profiles()
	ctx := context.Background()

	got, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	p := &profile.Profile{
		UserID:        7,
		Categories:    []int{1, 4},
		CurrentLevel:  catalog.LevelA2,
		TargetLevel:   catalog.LevelB2,
		DailyMinutes:  20,
		LearningSpeed: 1.5,
		Region:        "UA",
		Public:        true,
	}
	require.NoError(t, repo.Save(ctx, p))
	got, err = repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	p.CurrentLevel = catalog.LevelB1
	p.Categories = nil
	require.NoError(t, repo.Save(ctx, p))
	got, err = repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, catalog.LevelB1, got.CurrentLevel)
	assert.Nil(t, got.Categories)
}
