// Package wsv implements the temporary world-state view (C6): a
// speculative, rollback-capable overlay the Stateful Validator queries
// and mutates while evaluating a single proposal, plus the PeerQuery
// collaborator the Ordering Service uses to address a broadcast.
package wsv

// Account is the validator's read-only view of an account: its quorum
// and its registered signatories. It carries nothing this core does
// not need to evaluate admissibility.
type Account struct {
	ID          string
	Quorum      int
	Signatories map[string]struct{}
}

// View is a speculative overlay over a base snapshot of accounts. Base
// is never mutated; Apply's effects land in a dirty set that is either
// merged into the overlay on commit or discarded on rollback.
type View struct {
	base  map[string]Account
	dirty map[string]Account
}

// NewView builds a view over accounts, keyed by account ID. The
// supplied map becomes the read-only base snapshot; callers should not
// mutate it afterward.
func NewView(accounts map[string]Account) *View {
	return &View{base: accounts, dirty: make(map[string]Account)}
}

func (v *View) lookup(id string) (Account, bool) {
	if a, ok := v.dirty[id]; ok {
		return a, true
	}
	a, ok := v.base[id]
	return a, ok
}

// GetAccount returns the account at id, or false if none exists in
// either the dirty set or the base snapshot.
func (v *View) GetAccount(id string) (Account, bool) {
	return v.lookup(id)
}

// GetSignatories returns a copy of the signatory set for id, or false
// if the account does not exist. The copy is deliberate: Account's
// Signatories field is a map, and a predicate that mutated the
// original in place could leak changes past a rollback, since Apply's
// savepoint only replaces whole Account values in the dirty set.
func (v *View) GetSignatories(id string) (map[string]struct{}, bool) {
	a, ok := v.lookup(id)
	if !ok {
		return nil, false
	}
	out := make(map[string]struct{}, len(a.Signatories))
	for pk := range a.Signatories {
		out[pk] = struct{}{}
	}
	return out, true
}

// Predicate evaluates an admissibility check against a view, returning
// the mutations it wants to apply if accepted. A predicate that
// returns accepted=false must not rely on mutations having taken
// effect; Apply discards them.
type Predicate func(v *View) (mutations map[string]Account, accepted bool)

// Apply opens a savepoint, runs predicate against v, and either merges
// the returned mutations into the dirty set (on acceptance) or
// discards them (on rejection). It reports whether the transaction was
// accepted.
func (v *View) Apply(predicate Predicate) bool {
	mutations, accepted := predicate(v)
	if !accepted {
		return false
	}
	for id, a := range mutations {
		v.dirty[id] = a
	}
	return true
}

// Commit copies the view's dirty set back into the caller-owned base
// map, making the pass's accepted effects visible beyond the pass. The
// core itself never calls this — persisting committed state is the
// external pipeline's job per spec's Persisted state layout — but
// embedding callers use it to fold a pass's results forward.
func (v *View) Commit(into map[string]Account) {
	for id, a := range v.dirty {
		into[id] = a
	}
}
