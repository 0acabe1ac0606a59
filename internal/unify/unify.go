// Package unify implements the syntactic, datatype-aware unifier:
// unify(a, b, σ) -> σ' | ⊥, with σ ⊆ σ' on success. It works directly
// against a *subst.Trail so the prover can mark/undo around each attempt
// without cloning. Unification performs an explicit occurs check, since
// an N3 reasoner must reject infinite terms rather than accept them.
package unify

import (
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Variant selects the two behavior differences between unifier modes: the
// general unifier (used by the prover and most built-ins) enables
// boolean-by-value equivalence; the list-append variant (used only by
// list:append's bidirectional solving) additionally allows integer<->
// decimal cross-datatype equality.
type Variant int

const (
	General Variant = iota
	ListAppend
)

func (v Variant) eqOpts() term.EqOpts {
	switch v {
	case ListAppend:
		return term.EqOpts{BooleanByValue: true, IntDecimalCross: true}
	default:
		return term.EqOpts{BooleanByValue: true}
	}
}

// Unify attempts to unify a and b against tr, recording any new bindings
// on the trail. On failure it undoes everything it bound back to the mark
// it started from, so the trail is exactly as the caller left it.
func Unify(a, b term.Term, tr *subst.Trail, v Variant) bool {
	mark := tr.Mark()
	if unify1(a, b, tr, v) {
		return true
	}
	tr.Undo(mark)
	return false
}

// Triples unifies two triples position by position under a shared trail,
// undoing everything on first failure.
func Triples(a, b term.Triple, tr *subst.Trail, v Variant) bool {
	mark := tr.Mark()
	if unify1(a.Subject, b.Subject, tr, v) &&
		unify1(a.Predicate, b.Predicate, tr, v) &&
		unify1(a.Object, b.Object, tr, v) {
		return true
	}
	tr.Undo(mark)
	return false
}

func unify1(a, b term.Term, tr *subst.Trail, v Variant) bool {
	a = tr.Walk(a)
	b = tr.Walk(b)
	a = normNil(a)
	b = normNil(b)

	av, aIsVar := a.(*term.Variable)
	bv, bIsVar := b.(*term.Variable)
	switch {
	case aIsVar && bIsVar && av.Id() == bv.Id():
		return true
	case aIsVar:
		if occurs(av.Id(), b, tr) {
			return false
		}
		tr.Bind(av.Id(), b)
		return true
	case bIsVar:
		if occurs(bv.Id(), a, tr) {
			return false
		}
		tr.Bind(bv.Id(), a)
		return true
	}

	if aList, ok := a.(*term.List); ok {
		if bOpen, ok := b.(*term.OpenList); ok {
			return OpenWithClosed(bOpen, aList, tr, v)
		}
	}
	if aOpen, ok := a.(*term.OpenList); ok {
		if bList, ok := b.(*term.List); ok {
			return OpenWithClosed(aOpen, bList, tr, v)
		}
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case *term.IRI:
		bv := b.(*term.IRI)
		return av.Id() != 0 && av.Id() == bv.Id() || av.Value == bv.Value
	case *term.Blank:
		bv := b.(*term.Blank)
		return av.Id() == bv.Id() || av.Label == bv.Label
	case *term.Literal:
		bv := b.(*term.Literal)
		return term.LiteralEqual(av, bv, v.eqOpts())
	case *term.List:
		bv := b.(*term.List)
		return unifyLists(av, bv, tr, v)
	case *term.OpenList:
		bv := b.(*term.OpenList)
		return unifyOpenLists(av, bv, tr, v)
	case *term.Formula:
		bv := b.(*term.Formula)
		return unifyFormulas(av, bv, tr, v)
	}
	return false
}

// normNil treats rdf:nil and the empty list interchangeably.
func normNil(t term.Term) term.Term {
	if iri, ok := t.(*term.IRI); ok && iri.Value == "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil" {
		return &term.List{Elems: nil}
	}
	return t
}

func occurs(id int64, t term.Term, tr *subst.Trail) bool {
	t = tr.Walk(t)
	switch v := t.(type) {
	case *term.Variable:
		return v.Id() == id
	case *term.List:
		for _, e := range v.Elems {
			if occurs(id, e, tr) {
				return true
			}
		}
	case *term.OpenList:
		for _, e := range v.Elems {
			if occurs(id, e, tr) {
				return true
			}
		}
	case *term.Formula:
		for _, tri := range v.Triples {
			if occurs(id, tri.Subject, tr) || occurs(id, tri.Predicate, tr) || occurs(id, tri.Object, tr) {
				return true
			}
		}
	}
	return false
}

func unifyLists(a, b *term.List, tr *subst.Trail, v Variant) bool {
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !unify1(a.Elems[i], b.Elems[i], tr, v) {
			return false
		}
	}
	return true
}

// unifyOpenLists unifies two open lists: their prefixes must have the same
// length and unify elementwise, and then their tail variables are unified.
// An open list against a closed list is handled by OpenWithClosed.
func unifyOpenLists(a *term.OpenList, b *term.OpenList, tr *subst.Trail, v Variant) bool {
	if len(a.Elems) != len(b.Elems) {
		return false
	}
	for i := range a.Elems {
		if !unify1(a.Elems[i], b.Elems[i], tr, v) {
			return false
		}
	}
	return unify1(a.Tail, b.Tail, tr, v)
}

// OpenWithClosed unifies an open list against a closed list, matching the
// prefix elementwise and binding the tail variable to the residual list.
func OpenWithClosed(open *term.OpenList, closed *term.List, tr *subst.Trail, v Variant) bool {
	if len(open.Elems) > len(closed.Elems) {
		return false
	}
	for i, e := range open.Elems {
		if !unify1(e, closed.Elems[i], tr, v) {
			return false
		}
	}
	residue := &term.List{Elems: append([]term.Term{}, closed.Elems[len(open.Elems):]...)}
	return unify1(open.Tail, residue, tr, v)
}

func unifyFormulas(a, b *term.Formula, tr *subst.Trail, v Variant) bool {
	if len(a.Triples) != len(b.Triples) {
		return false
	}
	// Fast path: structurally identical in order.
	if sameOrder(a.Triples, b.Triples, tr, v) {
		return true
	}
	used := make([]bool, len(b.Triples))
	return matchBacktrack(a.Triples, b.Triples, used, tr, v)
}

func sameOrder(as, bs []term.Triple, tr *subst.Trail, v Variant) bool {
	mark := tr.Mark()
	for i := range as {
		if !unify1(as[i].Subject, bs[i].Subject, tr, v) ||
			!unify1(as[i].Predicate, bs[i].Predicate, tr, v) ||
			!unify1(as[i].Object, bs[i].Object, tr, v) {
			tr.Undo(mark)
			return false
		}
	}
	return true
}

func matchBacktrack(as, bs []term.Triple, used []bool, tr *subst.Trail, v Variant) bool {
	if len(as) == 0 {
		return true
	}
	head := as[0]
	for j, cand := range bs {
		if used[j] {
			continue
		}
		if iriA, ok := head.Predicate.(*term.IRI); ok {
			if iriB, ok2 := cand.Predicate.(*term.IRI); ok2 && iriA.Value != iriB.Value {
				continue
			}
		}
		mark := tr.Mark()
		if unify1(head.Subject, cand.Subject, tr, v) &&
			unify1(head.Predicate, cand.Predicate, tr, v) &&
			unify1(head.Object, cand.Object, tr, v) {
			used[j] = true
			if matchBacktrack(as[1:], bs, used, tr, v) {
				return true
			}
			used[j] = false
		}
		tr.Undo(mark)
	}
	return false
}
