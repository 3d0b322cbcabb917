package reconcile

import (
	"context"
	"sync"
)

// LikeState is the like interaction's view state for one post.
type LikeState struct {
	Liked bool
	Count int64
}

// SendFunc issues one like-toggle round trip and returns the server's
// authoritative state.
type SendFunc func(ctx context.Context) (LikeState, error)

// NotifyFunc observes every state change the toggler makes. Reconciled
// is the only outcome that should be broadcast beyond the owning screen.
type NotifyFunc func(state LikeState, outcome Outcome)

// Toggler serializes like toggles on a single post. Each tap flips the
// local state instantly; requests drain strictly one at a time, one
// round trip per tap, so the server sees every toggle in order and the
// final state converges to the parity of the taps. At most one request
// is in flight at any moment.
type Toggler struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    LikeState
	pending  []Transition[LikeState]
	inFlight bool

	send   SendFunc
	notify NotifyFunc
}

// NewToggler creates a toggler over the post's current like state.
// notify may be nil.
func NewToggler(initial LikeState, send SendFunc, notify NotifyFunc) *Toggler {
	t := &Toggler{state: initial, send: send, notify: notify}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// State returns the currently displayed like state.
func (t *Toggler) State() LikeState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Reset replaces the displayed state, e.g. after a fresh fetch. Ignored
// while toggles are still settling so a stale fetch cannot clobber a
// pending speculative flip.
func (t *Toggler) Reset(state LikeState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inFlight || len(t.pending) > 0 {
		return
	}
	t.state = state
}

// Toggle applies the speculative flip and queues one round trip. The
// drain worker is started when none is running; otherwise the queued
// transition waits its turn.
func (t *Toggler) Toggle(ctx context.Context) {
	t.mu.Lock()

	tr := Begin(t.state)
	t.state = flip(t.state)
	state := t.state
	t.pending = append(t.pending, tr)

	start := !t.inFlight
	if start {
		t.inFlight = true
	}
	t.mu.Unlock()

	t.emit(state, Speculative)
	if start {
		go t.drain(ctx)
	}
}

// flip negates the liked flag and adjusts the count, clamped at zero so
// repeated unlikes can never show a negative total.
func flip(s LikeState) LikeState {
	if s.Liked {
		s.Liked = false
		s.Count--
		if s.Count < 0 {
			s.Count = 0
		}
		return s
	}
	s.Liked = true
	s.Count++
	return s
}

// drain issues one request per queued toggle until the queue is empty.
// A failure rolls the displayed state back to that toggle's snapshot and
// abandons the rest of the queue; the next tap starts fresh.
func (t *Toggler) drain(ctx context.Context) {
	for {
		t.mu.Lock()
		if len(t.pending) == 0 {
			t.inFlight = false
			t.cond.Broadcast()
			t.mu.Unlock()
			return
		}
		tr := t.pending[0]
		t.pending = t.pending[1:]
		t.mu.Unlock()

		server, err := t.send(ctx)

		t.mu.Lock()
		if err != nil {
			t.state = tr.Rollback()
			t.pending = nil
			t.inFlight = false
			state := t.state
			t.cond.Broadcast()
			t.mu.Unlock()
			t.emit(state, RolledBack)
			return
		}

		tr.Reconcile()
		if server.Count < 0 {
			server.Count = 0
		}
		t.state = server
		state := t.state
		t.mu.Unlock()
		t.emit(state, Reconciled)
	}
}

func (t *Toggler) emit(state LikeState, outcome Outcome) {
	if t.notify != nil {
		t.notify(state, outcome)
	}
}

// Flush blocks until the queue has fully drained. Test hook.
func (t *Toggler) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.inFlight || len(t.pending) > 0 {
		t.cond.Wait()
	}
}
