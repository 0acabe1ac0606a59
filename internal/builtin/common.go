package builtin

import (
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
	"github.com/eyereasoner/eyeling/internal/unify"
)

// unifyAlt tries to unify a and b against tr; on success it invokes onAlt
// and undoes the bindings when onAlt returns (whatever it returns), so
// the trail is restored to its pre-call state exactly once this single
// alternative has been explored. Returns onAlt's result, or true if
// unification failed (nothing to report, search continues elsewhere).
func unifyAlt(a, b term.Term, tr *subst.Trail, onAlt func() bool) bool {
	mark := tr.Mark()
	if !unify.Unify(a, b, tr, unify.General) {
		return true
	}
	keepGoing := onAlt()
	tr.Undo(mark)
	return keepGoing
}

// unifyPairAlt is unifyAlt generalized to two terms bound simultaneously
// (e.g. a builtin computing two outputs at once).
func unifyPairAlt(a1, b1, a2, b2 term.Term, tr *subst.Trail, onAlt func() bool) bool {
	return unifyPairAltV(a1, b1, a2, b2, tr, unify.General, onAlt)
}

func unifyPairAltV(a1, b1, a2, b2 term.Term, tr *subst.Trail, v unify.Variant, onAlt func() bool) bool {
	mark := tr.Mark()
	if !unify.Unify(a1, b1, tr, v) || !unify.Unify(a2, b2, tr, v) {
		tr.Undo(mark)
		return true
	}
	keepGoing := onAlt()
	tr.Undo(mark)
	return keepGoing
}

func asLiteral(t term.Term) (*term.Literal, bool) {
	l, ok := t.(*term.Literal)
	return l, ok
}

func asIRI(t term.Term) (*term.IRI, bool) {
	i, ok := t.(*term.IRI)
	return i, ok
}

func asList(t term.Term) (*term.List, bool) {
	l, ok := t.(*term.List)
	return l, ok
}

func isGround(t term.Term) bool { return term.Ground(t) }

func lexOf(t term.Term) (string, bool) {
	switch v := t.(type) {
	case *term.Literal:
		return v.Lex, true
	case *term.IRI:
		return v.Value, true
	}
	return "", false
}
