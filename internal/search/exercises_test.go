package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

func catalog() []domain.Exercise {
	return []domain.Exercise{
		{ID: 1, Name: "Burpees", MuscleGroup: "full-body"},
		{ID: 2, Name: "Sentadillas", Description: "squat con barra", MuscleGroup: "piernas"},
		{ID: 3, Name: "Dominadas", MuscleGroup: "espalda"},
		{ID: 4, Name: "Burpee box jump", MuscleGroup: "full-body"},
	}
}

func newIndex(t *testing.T) *ExerciseIndex {
	t.Helper()
	idx, err := NewExerciseIndex(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	require.NoError(t, idx.Load(catalog()))
	return idx
}

func TestSearchByName(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Search("dominadas", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestSearchPrefix(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Search("burpee", 10)
	require.NoError(t, err)
	ids := make(map[int64]bool)
	for _, e := range got {
		ids[e.ID] = true
	}
	assert.True(t, ids[1], "prefix matches Burpees")
	assert.True(t, ids[4])
}

func TestSearchEmptyQueryReturnsCatalog(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Search("", 10)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = idx.Search("", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2, "limit applies to the unfiltered listing too")
}

func TestSearchNoMatch(t *testing.T) {
	idx := newIndex(t)

	got, err := idx.Search("zzzznada", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadReplacesCatalog(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Load([]domain.Exercise{{ID: 9, Name: "Remo"}}))

	got, err := idx.Search("burpees", 10)
	require.NoError(t, err)
	assert.Empty(t, got, "the old catalog is gone after a reload")

	got, err = idx.Search("remo", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
}

func TestLoadSkipsZeroIDs(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Load([]domain.Exercise{{ID: 0, Name: "Fantasma"}}))

	got, err := idx.Search("", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
