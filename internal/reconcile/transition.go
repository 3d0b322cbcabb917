// Package reconcile implements optimistic mutations: a speculative local
// change applied immediately, then either confirmed by the server's
// authoritative values or rolled back to the exact pre-mutation
// snapshot. Rollback is always a snapshot restore, never inverse math.
package reconcile

// Phase of a mutable entity-interaction.
type Phase int

const (
	// Idle: no mutation in flight.
	Idle Phase = iota
	// Pending: speculative state applied, request in flight.
	Pending
	// Settled: the request finished, reconciled or rolled back.
	Settled
)

// Outcome of one settled mutation.
type Outcome int

const (
	// Speculative: the local flip was just applied, nothing settled yet.
	Speculative Outcome = iota
	// Reconciled: server values overwrote the speculative state.
	Reconciled
	// RolledBack: the pre-mutation snapshot was restored.
	RolledBack
)

// Transition is one optimistic mutation carrying its pre-mutation
// snapshot. Zero value is Idle.
type Transition[S any] struct {
	phase    Phase
	snapshot S
}

// Begin captures the pre-mutation snapshot and moves to Pending. The
// caller applies its speculative change after taking the snapshot.
func Begin[S any](snapshot S) Transition[S] {
	return Transition[S]{phase: Pending, snapshot: snapshot}
}

// Phase returns the current phase.
func (t *Transition[S]) Phase() Phase { return t.phase }

// Reconcile settles the transition on success. The snapshot is dead:
// server truth has overwritten the speculative state.
func (t *Transition[S]) Reconcile() {
	t.phase = Settled
}

// Rollback settles the transition on failure and returns the snapshot
// the caller must restore.
func (t *Transition[S]) Rollback() S {
	t.phase = Settled
	return t.snapshot
}
