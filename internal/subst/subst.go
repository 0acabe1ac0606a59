// Package subst implements the two substitution disciplines the engine
// needs: an immutable delta map, the compact answer the prover hands to
// each onSolution callback, and a single mutable trailed substitution
// that the prover and the built-ins bind on, where push/pop of a mark
// is far cheaper than cloning a map per choice point.
package subst

import "github.com/eyereasoner/eyeling/internal/term"

// Delta is an immutable map of variable bindings, keyed by variable id.
// The prover passes one Delta per solution to its onSolution callback;
// composing a Delta into an ambient substitution is a cheap,
// allocation-bounded operation.
type Delta map[int64]term.Term

// Compose merges d into base, checking agreement on shared keys. It
// returns a fresh map (base is untouched) and ok=false if any shared key
// disagrees; the two bound values are compared as they are, without
// walking them through the merged map.
func Compose(base map[int64]term.Term, d Delta) (map[int64]term.Term, bool) {
	out := make(map[int64]term.Term, len(base)+len(d))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range d {
		if existing, ok := out[k]; ok {
			if !termsEqual(existing, v) {
				return nil, false
			}
			continue
		}
		out[k] = v
	}
	return out, true
}

func termsEqual(a, b term.Term) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Id() != 0 && b.Id() != 0 && a.Id() == b.Id() {
		return true
	}
	switch av := a.(type) {
	case *term.Literal:
		bv := b.(*term.Literal)
		return term.LiteralEqual(av, bv, term.EqOpts{})
	default:
		return a.String() == b.String()
	}
}

// Apply walks t through a delta-style map until reaching a fixed point,
// recursing into lists, open lists and formulas.
func Apply(t term.Term, m map[int64]term.Term) term.Term {
	switch v := t.(type) {
	case *term.Variable:
		if bound, ok := m[v.Id()]; ok {
			return Apply(bound, m)
		}
		return t
	case *term.List:
		elems := make([]term.Term, len(v.Elems))
		changed := false
		for i, e := range v.Elems {
			elems[i] = Apply(e, m)
			if elems[i] != e {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return &term.List{Elems: elems}
	case *term.OpenList:
		elems := make([]term.Term, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = Apply(e, m)
		}
		tail := Apply(v.Tail, m)
		if tv, ok := tail.(*term.Variable); ok {
			return &term.OpenList{Elems: elems, Tail: tv}
		}
		// Tail resolved to a concrete list/value: splice it into a closed list.
		if tl, ok := tail.(*term.List); ok {
			return &term.List{Elems: append(append([]term.Term{}, elems...), tl.Elems...)}
		}
		return &term.OpenList{Elems: elems, Tail: v.Tail}
	case *term.Formula:
		triples := make([]term.Triple, len(v.Triples))
		changed := false
		for i, tr := range v.Triples {
			triples[i] = term.Triple{
				Subject:   Apply(tr.Subject, m),
				Predicate: Apply(tr.Predicate, m),
				Object:    Apply(tr.Object, m),
			}
			if triples[i] != tr {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}

// ApplyTriple applies a delta-style map to every position of a triple.
func ApplyTriple(tr term.Triple, m map[int64]term.Term) term.Triple {
	return term.Triple{
		Subject:   Apply(tr.Subject, m),
		Predicate: Apply(tr.Predicate, m),
		Object:    Apply(tr.Object, m),
	}
}
