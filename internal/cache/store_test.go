package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodsocial/wodsocial-go/internal/domain"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, KeyAuthToken, "tok-123"))
	got, err := m.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)

	require.NoError(t, m.Remove(ctx, KeyAuthToken))
	_, err = m.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestMemoryMissingKey(t *testing.T) {
	_, err := NewMemory().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := domain.Profile{ID: 4, Nick: "ana", FollowerCount: 2}
	require.NoError(t, SetJSON(ctx, m, KeyProfile, in))

	var out domain.Profile
	require.NoError(t, GetJSON(ctx, m, KeyProfile, &out))
	assert.Equal(t, in, out)
}

func TestGetJSONMissingKey(t *testing.T) {
	var out domain.Profile
	err := GetJSON(context.Background(), NewMemory(), KeyProfile, &out)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestGetJSONCorruptValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, KeyProfile, "{not json"))

	var out domain.Profile
	assert.Error(t, GetJSON(ctx, m, KeyProfile, &out))
}

func TestBadgerStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, KeyLoginEmail, "ana@example.com"))
	got, err := store.Get(ctx, KeyLoginEmail)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", got)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, store.Remove(ctx, KeyLoginEmail))
	_, err = store.Get(ctx, KeyLoginEmail)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}
