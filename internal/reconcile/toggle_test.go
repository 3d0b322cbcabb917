package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer mimics the like endpoint: it holds the authoritative state
// and flips it on every request, counting round trips.
type fakeServer struct {
	mu    sync.Mutex
	state LikeState
	calls int
	fail  bool
}

func (f *fakeServer) send(ctx context.Context) (LikeState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return LikeState{}, errors.New("network down")
	}
	if f.state.Liked {
		f.state.Liked = false
		f.state.Count--
	} else {
		f.state.Liked = true
		f.state.Count++
	}
	return f.state, nil
}

func TestToggleSpeculativeFlip(t *testing.T) {
	srv := &fakeServer{state: LikeState{Liked: false, Count: 3}}
	tg := NewToggler(LikeState{Liked: false, Count: 3}, srv.send, nil)

	tg.Toggle(context.Background())
	// The flip is visible before the request settles (and certainly
	// after); either way liked must be true here.
	tg.Flush()

	got := tg.State()
	assert.True(t, got.Liked)
	assert.Equal(t, int64(4), got.Count)
	assert.Equal(t, 1, srv.calls)
}

func TestToggleCountClampsAtZero(t *testing.T) {
	tg := NewToggler(LikeState{Liked: true, Count: 0}, func(ctx context.Context) (LikeState, error) {
		return LikeState{Liked: false, Count: 0}, nil
	}, nil)

	tg.Toggle(context.Background())
	tg.Flush()

	got := tg.State()
	assert.False(t, got.Liked)
	assert.Equal(t, int64(0), got.Count, "unlike at zero never shows a negative count")
}

func TestRapidTogglesConvergeToTapParity(t *testing.T) {
	srv := &fakeServer{state: LikeState{Liked: false, Count: 10}}
	tg := NewToggler(LikeState{Liked: false, Count: 10}, srv.send, nil)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		tg.Toggle(ctx)
	}
	tg.Flush()

	got := tg.State()
	assert.Equal(t, 5, srv.calls, "one round trip per tap")
	assert.True(t, got.Liked, "odd number of taps ends liked")
	assert.Equal(t, int64(11), got.Count)
	assert.Equal(t, srv.state, got, "display converges to the server")
}

func TestToggleRollbackOnFailure(t *testing.T) {
	srv := &fakeServer{state: LikeState{Liked: false, Count: 3}, fail: true}

	var outcomes []Outcome
	var mu sync.Mutex
	tg := NewToggler(LikeState{Liked: false, Count: 3}, srv.send,
		func(state LikeState, outcome Outcome) {
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		})

	tg.Toggle(context.Background())
	tg.Flush()

	got := tg.State()
	assert.False(t, got.Liked, "failed toggle restores the snapshot")
	assert.Equal(t, int64(3), got.Count)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, outcomes, 2)
	assert.Equal(t, Speculative, outcomes[0])
	assert.Equal(t, RolledBack, outcomes[1])
}

func TestFailureAbandonsQueuedToggles(t *testing.T) {
	srv := &fakeServer{state: LikeState{Liked: false, Count: 3}, fail: true}
	tg := NewToggler(LikeState{Liked: false, Count: 3}, srv.send, nil)

	ctx := context.Background()
	tg.Toggle(ctx)
	tg.Toggle(ctx)
	tg.Toggle(ctx)
	tg.Flush()

	got := tg.State()
	assert.Equal(t, int64(3), got.Count)
	assert.False(t, got.Liked)
	assert.LessOrEqual(t, srv.calls, 3, "the queue drains at most once per tap before aborting")
}

func TestResetIgnoredWhileSettling(t *testing.T) {
	release := make(chan struct{})
	tg := NewToggler(LikeState{Liked: false, Count: 1}, func(ctx context.Context) (LikeState, error) {
		<-release
		return LikeState{Liked: true, Count: 2}, nil
	}, nil)

	tg.Toggle(context.Background())
	tg.Reset(LikeState{Liked: false, Count: 99})
	assert.True(t, tg.State().Liked, "a stale fetch cannot clobber a pending flip")

	close(release)
	tg.Flush()
	assert.Equal(t, LikeState{Liked: true, Count: 2}, tg.State())

	// Idle togglers accept resets.
	tg.Reset(LikeState{Liked: false, Count: 7})
	assert.Equal(t, LikeState{Liked: false, Count: 7}, tg.State())
}

func TestNotifyReconciledCarriesServerState(t *testing.T) {
	srv := &fakeServer{state: LikeState{Liked: false, Count: 3}}

	var mu sync.Mutex
	var reconciled []LikeState
	tg := NewToggler(LikeState{Liked: false, Count: 3}, srv.send,
		func(state LikeState, outcome Outcome) {
			if outcome != Reconciled {
				return
			}
			mu.Lock()
			reconciled = append(reconciled, state)
			mu.Unlock()
		})

	tg.Toggle(context.Background())
	tg.Flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reconciled, 1)
	assert.Equal(t, LikeState{Liked: true, Count: 4}, reconciled[0])
}
