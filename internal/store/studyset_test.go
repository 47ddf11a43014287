package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/studyset"
)

func TestStudySetRepo(t *testing.T) {
	repo := openTestStore(t).StudySets()
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	sets := []*studyset.StudySet{
		{ID: "01A", UserID: 1, Selection: studyset.Selection{StandaloneIDs: []int64{1, 2}, CompoundIDs: []int64{}, GroupIDs: []int64{9}}, CreatedAt: t0},
		{ID: "01C", UserID: 1, Selection: studyset.Selection{StandaloneIDs: []int64{3}, CompoundIDs: []int64{}, GroupIDs: []int64{}}, CreatedAt: t0.Add(time.Minute)},
		{ID: "01B", UserID: 1, Selection: studyset.Selection{StandaloneIDs: []int64{4}, CompoundIDs: []int64{}, GroupIDs: []int64{}}, CreatedAt: t0.Add(time.Minute)},
		{ID: "01D", UserID: 1, Root: "lauf", Selection: studyset.Selection{StandaloneIDs: []int64{1}, CompoundIDs: []int64{5}, GroupIDs: []int64{}}, CreatedAt: t0},
		{ID: "01E", UserID: 2, Selection: studyset.Selection{StandaloneIDs: []int64{}, CompoundIDs: []int64{}, GroupIDs: []int64{}}, CreatedAt: t0.Add(time.Hour)},
	}
	for _, s := range sets {
		require.NoError(t, repo.Insert(ctx, s))
	}

	latest, err := repo.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sets[1], latest, "same timestamp breaks ties by id")

	root, err := repo.LatestRoot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sets[3], root)
	assert.True(t, root.IsRoot())

	none, err := repo.LatestRoot(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, none)

	assert.Error(t, repo.Insert(ctx, sets[0]), "ids are unique")
}
