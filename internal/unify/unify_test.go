package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func TestUnifyVariableWithIRI(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	x := in.Variable("x")
	a := in.IRI("http://ex/a")

	require.True(t, Unify(x, a, tr, General))
	bound, ok := tr.Lookup(x.Id())
	require.True(t, ok)
	require.Equal(t, a, bound)
}

func TestUnifyMismatchRestoresTrail(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	x := in.Variable("x")
	a := in.IRI("http://ex/a")
	b := in.IRI("http://ex/b")

	require.True(t, Unify(x, a, tr, General))
	mark := tr.Mark()
	require.False(t, Unify(x, b, tr, General))
	require.Equal(t, mark, tr.Mark())
}

func TestUnifyOccursCheckRejectsCycle(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	x := in.Variable("x")
	list := in.NewList([]term.Term{x})

	require.False(t, Unify(x, list, tr, General))
}

func TestUnifyListsElementwise(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	x := in.Variable("x")
	a := in.IRI("http://ex/a")
	b := in.IRI("http://ex/b")

	l1 := in.NewList([]term.Term{a, x})
	l2 := in.NewList([]term.Term{a, b})
	require.True(t, Unify(l1, l2, tr, General))
	bound, _ := tr.Lookup(x.Id())
	require.Equal(t, b, bound)
}

func TestUnifyBooleanByValue(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	one := in.Literal("1", ns.XSDBoolean, "")
	typed := in.Literal("true", ns.XSDBoolean, "")
	require.True(t, Unify(one, typed, tr, General))
}

func TestUnifyListAppendCrossDatatype(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	intLit := in.Literal("2", ns.XSDInteger, "")
	decLit := in.Literal("2.0", ns.XSDDecimal, "")

	require.False(t, Unify(intLit, decLit, tr, General))
	require.True(t, Unify(intLit, decLit, tr, ListAppend))
}

func TestTriplesUnifiesAllPositions(t *testing.T) {
	in := term.NewInterner()
	tr := subst.NewTrail()
	s, p, o := in.Variable("s"), in.IRI("http://ex/p"), in.Variable("o")
	a, b := in.IRI("http://ex/a"), in.IRI("http://ex/b")

	g1 := term.Triple{Subject: s, Predicate: p, Object: o}
	g2 := term.Triple{Subject: a, Predicate: p, Object: b}
	require.True(t, Triples(g1, g2, tr, General))
}
