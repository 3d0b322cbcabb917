package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodsocial/wodsocial-go/internal/api"
	"github.com/wodsocial/wodsocial-go/internal/bus"
	"github.com/wodsocial/wodsocial-go/internal/cache"
	"github.com/wodsocial/wodsocial-go/internal/config"
	"github.com/wodsocial/wodsocial-go/internal/domain"
	"github.com/wodsocial/wodsocial-go/pkg/logger"
)

// testBackend is a scripted stand-in for the REST API covering the
// routes the services exercise.
type testBackend struct {
	mu        sync.Mutex
	feedPosts []map[string]any
	liked     map[int64]bool
	likeCalls int
	failLikes bool
}

func newTestBackend() *testBackend {
	return &testBackend{liked: map[int64]bool{}}
}

func (b *testBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/usuarios/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"id":        float64(40),
			"id_perfil": float64(12),
			"nick":      "ana",
		}})
	})

	mux.HandleFunc("/api/v1/social/publicaciones/feed", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		posts := b.feedPosts
		b.mu.Unlock()
		writeJSON(t, w, map[string]any{
			"data": posts,
			"meta": map[string]any{
				"page":     float64(1),
				"per_page": float64(20),
				"count":    float64(len(posts)),
			},
		})
	})

	mux.HandleFunc("/api/v1/social/likes/toggle", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			PostID int64 `json:"publicacion_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		b.mu.Lock()
		defer b.mu.Unlock()
		b.likeCalls++
		if b.failLikes {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		b.liked[body.PostID] = !b.liked[body.PostID]
		total := int64(3)
		if b.liked[body.PostID] {
			total = 4
		}
		writeJSON(t, w, map[string]any{"data": map[string]any{
			"liked":       b.liked[body.PostID],
			"total_likes": float64(total),
		}})
	})

	return mux
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func feedPost(id int64, extra map[string]any) map[string]any {
	p := map[string]any{
		"id_publicacion": float64(id),
		"perfil_id":      float64(12),
		"texto":          "hola",
		"total_likes":    float64(3),
		"fecha_creacion": "2026-03-14T10:00:00Z",
	}
	for k, v := range extra {
		p[k] = v
	}
	return p
}

func newFeedFixture(t *testing.T, backend *testBackend) (*FeedService, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	store := cache.NewMemory()
	require.NoError(t, store.Set(context.Background(), cache.KeyAuthToken, "tok"))

	client := api.New(config.APIConfig{
		BaseURL:         srv.URL,
		Timeout:         5 * time.Second,
		FeedPageSize:    20,
		CommentPageSize: 50,
	}, store, logger.Nop())

	b := bus.New(logger.Nop())
	svc := NewFeedService(client, b, store, logger.Nop())
	t.Cleanup(svc.Close)
	return svc, b
}

func TestFeedRefreshLoadsIdentityAndPosts(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{
		feedPost(1, nil),
		feedPost(2, map[string]any{"tipo_publicacion": "wod", "perfil_id": float64(99)}),
	}
	svc, _ := newFeedFixture(t, backend)

	require.NoError(t, svc.Refresh(context.Background()))

	state := svc.State()
	assert.Len(t, state.Posts, 2)
	assert.False(t, state.HasMore)

	id := svc.Identity()
	assert.Equal(t, int64(12), id.ProfileID)
	assert.Equal(t, "ana", id.Nick)
}

func TestWorkoutsOnFiltersToOwnPosts(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{
		feedPost(1, map[string]any{"tipo_publicacion": "wod"}),
		feedPost(2, map[string]any{"tipo_publicacion": "wod", "perfil_id": float64(99)}),
	}
	svc, _ := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	created, _ := time.Parse(time.RFC3339, "2026-03-14T10:00:00Z")
	day := created.Local().Format("2006-01-02")

	own := svc.WorkoutsOn(day)
	require.Len(t, own, 1, "only the logged-in user's workouts show on the calendar")
	assert.Equal(t, int64(1), own[0].ID)
}

func TestFeedToggleLikeBroadcastsReconciledState(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{feedPost(1, nil)}
	svc, b := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	events := make(chan domain.LikeChanged, 4)
	b.Subscribe(domain.TopicLikeChanged, func(p any) {
		events <- p.(domain.LikeChanged)
	})

	svc.ToggleLike(context.Background(), 1)

	select {
	case ev := <-events:
		assert.Equal(t, int64(1), ev.PostID)
		assert.True(t, ev.Liked)
		assert.Equal(t, int64(4), ev.TotalLikes)
	case <-time.After(3 * time.Second):
		t.Fatal("no reconciled like event")
	}

	state := svc.State()
	assert.True(t, state.Posts[0].LikedByMe)
	assert.Equal(t, int64(4), state.Posts[0].LikeCount)
}

func TestFeedToggleLikeRollsBackOnFailure(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{feedPost(1, nil)}
	backend.failLikes = true
	svc, b := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	events := 0
	b.Subscribe(domain.TopicLikeChanged, func(any) { events++ })

	svc.ToggleLike(context.Background(), 1)

	// The rollback settles asynchronously; poll until the speculative
	// flip has been undone.
	require.Eventually(t, func() bool {
		p := svc.State().Posts[0]
		return !p.LikedByMe && p.LikeCount == 3
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, events, "rollbacks never broadcast")
}

func TestFeedToggleLikeUnknownPost(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{feedPost(1, nil)}
	svc, _ := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	svc.ToggleLike(context.Background(), 42)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, 0, backend.likeCalls, "unknown posts trigger no request")
}

func TestFeedPatchesOnCommentCreated(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{
		feedPost(1, map[string]any{"total_comentarios": float64(2)}),
	}
	svc, b := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	b.Publish(domain.TopicCommentCreated, domain.CommentCreated{PostID: 1, Delta: 1})
	assert.Equal(t, int64(3), svc.State().Posts[0].CommentCount)
}

func TestFollowAuthorSelfGuard(t *testing.T) {
	backend := newTestBackend()
	backend.feedPosts = []map[string]any{feedPost(1, nil)}
	svc, _ := newFeedFixture(t, backend)
	require.NoError(t, svc.Refresh(context.Background()))

	// Post 1 is authored by profile 12, which is the logged-in user.
	err := svc.FollowAuthor(context.Background(), svc.State().Posts[0])
	assert.NoError(t, err, "following yourself is silently skipped")
}
