package term

import (
	"testing"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/stretchr/testify/require"
)

func TestGround(t *testing.T) {
	in := NewInterner()
	a := in.IRI("http://ex/a")
	x := in.Variable("x")

	require.True(t, Ground(a))
	require.False(t, Ground(x))

	list := in.NewList([]Term{a, x})
	require.False(t, Ground(list))

	list2 := in.NewList([]Term{a, a})
	require.True(t, Ground(list2))

	ol := in.NewOpenList([]Term{a}, in.Variable("rest"))
	require.False(t, Ground(ol))
}

func TestLiteralEqualPlainStringVsXSDString(t *testing.T) {
	in := NewInterner()
	plain := in.Literal("hello", "", "")
	typed := in.Literal("hello", ns.XSDString, "")
	require.True(t, LiteralEqual(plain, typed, EqOpts{}))

	langTagged := in.Literal("hello", "", "en")
	require.False(t, LiteralEqual(plain, langTagged, EqOpts{}))
}

func TestLiteralEqualNumeric(t *testing.T) {
	in := NewInterner()
	i1 := in.Literal("3", ns.XSDInteger, "")
	i2 := in.Literal("3", ns.XSDInteger, "")
	require.True(t, LiteralEqual(i1, i2, EqOpts{}))

	dec := in.Literal("3.0", ns.XSDDecimal, "")
	require.False(t, LiteralEqual(i1, dec, EqOpts{}))
	require.True(t, LiteralEqual(i1, dec, EqOpts{IntDecimalCross: true}))
}

func TestLiteralEqualBoolean(t *testing.T) {
	in := NewInterner()
	b1 := in.Literal("true", ns.XSDBoolean, "")
	b2 := in.Literal("1", ns.XSDBoolean, "")
	require.False(t, LiteralEqual(b1, b2, EqOpts{}))
	require.True(t, LiteralEqual(b1, b2, EqOpts{BooleanByValue: true}))
}

func TestAlphaEquivalence(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://ex/p")
	x := in.Variable("x")
	y := in.Variable("y")

	f1 := in.NewFormula([]Triple{
		{Subject: x, Predicate: p, Object: y},
	})
	f2 := in.NewFormula([]Triple{
		{Subject: y, Predicate: p, Object: x},
	})
	require.True(t, AlphaEqual(f1, f2), "renaming x<->y should make these alpha-equivalent")

	f3 := in.NewFormula([]Triple{
		{Subject: x, Predicate: p, Object: x},
	})
	require.False(t, AlphaEqual(f1, f3), "distinct variables must not collapse into one")
}

func TestAlphaEquivalenceIsEquivalenceRelation(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://ex/p")
	a := in.IRI("http://ex/a")
	x := in.Variable("x")
	y := in.Variable("y")
	z := in.Variable("z")

	f1 := in.NewFormula([]Triple{{Subject: x, Predicate: p, Object: a}, {Subject: x, Predicate: p, Object: y}})
	f2 := in.NewFormula([]Triple{{Subject: z, Predicate: p, Object: y}, {Subject: z, Predicate: p, Object: a}})
	f3 := in.NewFormula([]Triple{{Subject: y, Predicate: p, Object: a}, {Subject: y, Predicate: p, Object: z}})

	require.True(t, AlphaEqual(f1, f1), "reflexive")
	require.Equal(t, AlphaEqual(f1, f2), AlphaEqual(f2, f1), "symmetric")
	if AlphaEqual(f1, f2) && AlphaEqual(f2, f3) {
		require.True(t, AlphaEqual(f1, f3), "transitive")
	}
}

func TestEncodeStableForSameTerm(t *testing.T) {
	in := NewInterner()
	a := in.IRI("http://ex/a")
	lit := in.Literal("3", ns.XSDInteger, "")
	list := in.NewList([]Term{a, lit})

	require.Equal(t, Encode(list), Encode(list))
}

func TestEncodeVariablePositionsCanonicalize(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://ex/p")
	x := in.Variable("x")
	y := in.Variable("y")

	g1 := Triple{Subject: x, Predicate: p, Object: y}
	g2 := Triple{Subject: y, Predicate: p, Object: x}

	// Canonical encoding abstracts variables to first-occurrence position,
	// so "?x p ?y" and "?y p ?x" collapse to the same call pattern — this
	// is exactly the property tabling-style loop detection wants (same
	// shape repeated with renamed variables must be recognized as a
	// repeat).
	require.Equal(t, EncodeTriple(g1), EncodeTriple(g2))

	g3 := Triple{Subject: x, Predicate: p, Object: x}
	require.NotEqual(t, EncodeTriple(g1), EncodeTriple(g3), "a repeated variable must not collapse with two distinct ones")
}

func TestRuleKeyDeduplicatesAlphaVariants(t *testing.T) {
	in := NewInterner()
	p := in.IRI("http://ex/p")
	q := in.IRI("http://ex/q")
	x := in.Variable("x")
	y := in.Variable("y")

	r1 := &Rule{
		Premise:    []Triple{{Subject: x, Predicate: p, Object: x}},
		Conclusion: []Triple{{Subject: x, Predicate: q, Object: x}},
	}
	r2 := &Rule{
		Premise:    []Triple{{Subject: y, Predicate: p, Object: y}},
		Conclusion: []Triple{{Subject: y, Predicate: q, Object: y}},
	}
	require.Equal(t, r1.Key(), r2.Key())
}
