package subst

import "github.com/eyereasoner/eyeling/internal/term"

// Trail is the prover's mutable substitution: a single map plus a stack of
// variable ids bound since the last mark. Descent records a Mark, binds
// variables, and on backtrack calls Undo(mark) to restore exactly the
// substitution that existed at that mark — no cloning per choice point.
type Trail struct {
	bindings map[int64]term.Term
	log      []int64
}

// NewTrail returns an empty Trail.
func NewTrail() *Trail {
	return &Trail{bindings: make(map[int64]term.Term)}
}

// Mark returns a checkpoint to later Undo back to.
func (t *Trail) Mark() int { return len(t.log) }

// Undo unwinds the trail to mark, removing every binding recorded since.
func (t *Trail) Undo(mark int) {
	for i := len(t.log) - 1; i >= mark; i-- {
		delete(t.bindings, t.log[i])
	}
	t.log = t.log[:mark]
}

// Bind records a new binding and pushes it onto the trail log.
func (t *Trail) Bind(id int64, v term.Term) {
	t.bindings[id] = v
	t.log = append(t.log, id)
}

// BindMany composes a Delta onto the trail in one step (used when a
// built-in's returned Delta is accepted as a prover solution).
func (t *Trail) BindMany(d Delta) {
	for id, v := range d {
		if _, already := t.bindings[id]; already {
			continue
		}
		t.Bind(id, v)
	}
}

// Lookup returns the term bound to a variable id, or nil if unbound.
func (t *Trail) Lookup(id int64) (term.Term, bool) {
	v, ok := t.bindings[id]
	return v, ok
}

// Snapshot copies the current bindings into a plain delta-style map, used
// when handing the substitution to code (built-ins, GC) that expects the
// immutable discipline.
func (t *Trail) Snapshot() map[int64]term.Term {
	out := make(map[int64]term.Term, len(t.bindings))
	for k, v := range t.bindings {
		out[k] = v
	}
	return out
}

// Walk follows variable bindings to a fixed point without recursing into
// compound structure (the shallow walk unification needs before dispatch).
func (t *Trail) Walk(tm term.Term) term.Term {
	for {
		v, ok := tm.(*term.Variable)
		if !ok {
			return tm
		}
		bound, ok := t.bindings[v.Id()]
		if !ok {
			return tm
		}
		tm = bound
	}
}

// Apply performs a full recursive walk, resolving variables everywhere
// they occur including inside lists, open lists and formulas.
func (t *Trail) Apply(tm term.Term) term.Term {
	return Apply(t.Walk(tm), t.bindings)
}

// ApplyTriple applies Apply to every position of a triple.
func (t *Trail) ApplyTriple(tr term.Triple) term.Triple {
	return term.Triple{
		Subject:   t.Apply(tr.Subject),
		Predicate: t.Apply(tr.Predicate),
		Object:    t.Apply(tr.Object),
	}
}

// ProjectedCompact returns a fresh delta-style map restricted to the
// transitive closure of bindings reachable from the given answer variable
// ids — the garbage-collection pass, which bounds the substitution
// handed back to callers (the prover's compact result) and is also used on
// deep chains to bound per-step substitution size.
func ProjectedCompact(answerVars []int64, bindings map[int64]term.Term) map[int64]term.Term {
	out := make(map[int64]term.Term)
	var visit func(id int64)
	visited := make(map[int64]bool)
	visit = func(id int64) {
		if visited[id] {
			return
		}
		visited[id] = true
		v, ok := bindings[id]
		if !ok {
			return
		}
		out[id] = v
		for _, other := range varIdsIn(v) {
			visit(other)
		}
	}
	for _, id := range answerVars {
		visit(id)
	}
	return out
}

func varIdsIn(t term.Term) []int64 {
	var ids []int64
	switch v := t.(type) {
	case *term.Variable:
		ids = append(ids, v.Id())
	case *term.List:
		for _, e := range v.Elems {
			ids = append(ids, varIdsIn(e)...)
		}
	case *term.OpenList:
		for _, e := range v.Elems {
			ids = append(ids, varIdsIn(e)...)
		}
	case *term.Formula:
		for _, tr := range v.Triples {
			ids = append(ids, varIdsIn(tr.Subject)...)
			ids = append(ids, varIdsIn(tr.Predicate)...)
			ids = append(ids, varIdsIn(tr.Object)...)
		}
	}
	return ids
}
