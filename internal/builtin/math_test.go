package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/term"
)

func mathGoal(in *term.Interner, predIRI string, subj, obj term.Term) term.Triple {
	return term.Triple{Subject: subj, Predicate: in.IRI(predIRI), Object: obj}
}

func TestMathComparisons(t *testing.T) {
	cases := []struct {
		name string
		pred string
		a, b string
		want bool
	}{
		{"equalTo true", ns.Math + "equalTo", "2", "2", true},
		{"equalTo false", ns.Math + "equalTo", "2", "3", false},
		{"notEqualTo true", ns.Math + "notEqualTo", "2", "3", true},
		{"notEqualTo false", ns.Math + "notEqualTo", "2", "2", false},
		{"lessThan true", ns.Math + "lessThan", "2", "10", true},
		{"lessThan false", ns.Math + "lessThan", "10", "2", false},
		{"notLessThan true", ns.Math + "notLessThan", "10", "2", true},
		{"greaterThan true", ns.Math + "greaterThan", "10", "2", true},
		{"notGreaterThan true", ns.Math + "notGreaterThan", "2", "10", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, in := newTestContext()
			goal := mathGoal(in, c.pred, intLit(in, c.a), intLit(in, c.b))
			require.Equal(t, c.want, evalSucceeds(ctx, goal))
		})
	}
}

func TestMathSumAndProduct(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "1"), intLit(in, "2"), intLit(in, "3")})
	v := in.Variable("?s")
	goal := mathGoal(in, ns.Math+"sum", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "6", got.(*term.Literal).Lex)

	goal = mathGoal(in, ns.Math+"product", lst, v)
	got, ok = evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "6", got.(*term.Literal).Lex)
}

func TestMathDifferenceForward(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "10"), intLit(in, "3")})
	v := in.Variable("?d")
	goal := mathGoal(in, ns.Math+"difference", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "7", got.(*term.Literal).Lex)
}

func TestMathDifferenceSolvesMissingFirstOperand(t *testing.T) {
	ctx, in := newTestContext()
	a := in.Variable("?a")
	lst := in.NewList([]term.Term{a, intLit(in, "3")})
	goal := mathGoal(in, ns.Math+"difference", lst, intLit(in, "7"))
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "10", got.(*term.Literal).Lex)
}

func TestMathDifferenceSolvesMissingSecondOperand(t *testing.T) {
	ctx, in := newTestContext()
	b := in.Variable("?b")
	lst := in.NewList([]term.Term{intLit(in, "10"), b})
	goal := mathGoal(in, ns.Math+"difference", lst, intLit(in, "7"))
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "3", got.(*term.Literal).Lex)
}

func TestMathQuotientForwardAndReverse(t *testing.T) {
	ctx, in := newTestContext()

	lst := in.NewList([]term.Term{intLit(in, "12"), intLit(in, "4")})
	v := in.Variable("?q")
	goal := mathGoal(in, ns.Math+"quotient", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "3", got.(*term.Literal).Lex)

	a := in.Variable("?a")
	lst2 := in.NewList([]term.Term{a, intLit(in, "4")})
	goal2 := mathGoal(in, ns.Math+"quotient", lst2, intLit(in, "3"))
	got2, ok := evalFirst(ctx, goal2)
	require.True(t, ok)
	require.Equal(t, "12", got2.(*term.Literal).Lex)

	b := in.Variable("?b")
	lst3 := in.NewList([]term.Term{intLit(in, "12"), b})
	goal3 := mathGoal(in, ns.Math+"quotient", lst3, intLit(in, "3"))
	got3, ok := evalFirst(ctx, goal3)
	require.True(t, ok)
	require.Equal(t, "4", got3.(*term.Literal).Lex)
}

func TestMathQuotientByZeroFails(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "12"), intLit(in, "0")})
	v := in.Variable("?q")
	goal := mathGoal(in, ns.Math+"quotient", lst, v)
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)
}

func TestMathQuotientSolvesMissingSecondOperandZeroResultFails(t *testing.T) {
	ctx, in := newTestContext()
	b := in.Variable("?b")
	lst := in.NewList([]term.Term{intLit(in, "12"), b})
	goal := mathGoal(in, ns.Math+"quotient", lst, intLit(in, "0"))
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)
}

func TestMathExponentiationForward(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "2"), intLit(in, "10")})
	v := in.Variable("?r")
	goal := mathGoal(in, ns.Math+"exponentiation", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "1024", got.(*term.Literal).Lex)
}

func TestMathExponentiationSolvesMissingExponent(t *testing.T) {
	ctx, in := newTestContext()
	b := in.Variable("?b")
	lst := in.NewList([]term.Term{intLit(in, "2"), b})
	goal := mathGoal(in, ns.Math+"exponentiation", lst, intLit(in, "8"))
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.InDelta(t, 3.0, parseFloatLex(t, got), 1e-9)
}

func TestMathExponentiationSolvesMissingBase(t *testing.T) {
	ctx, in := newTestContext()
	a := in.Variable("?a")
	lst := in.NewList([]term.Term{a, intLit(in, "2")})
	goal := mathGoal(in, ns.Math+"exponentiation", lst, intLit(in, "9"))
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.InDelta(t, 3.0, parseFloatLex(t, got), 1e-9)
}

func TestMathIntegerQuotientAndRemainder(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "17"), intLit(in, "5")})
	v := in.Variable("?q")
	goal := mathGoal(in, ns.Math+"integerQuotient", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "3", got.(*term.Literal).Lex)

	v2 := in.Variable("?m")
	goal2 := mathGoal(in, ns.Math+"remainder", lst, v2)
	got2, ok := evalFirst(ctx, goal2)
	require.True(t, ok)
	require.Equal(t, "2", got2.(*term.Literal).Lex)
}

func TestMathIntegerQuotientByZeroFails(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{intLit(in, "17"), intLit(in, "0")})
	v := in.Variable("?q")
	goal := mathGoal(in, ns.Math+"integerQuotient", lst, v)
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)
}

func TestMathUnaryFunctions(t *testing.T) {
	cases := []struct {
		name string
		pred string
		in   string
		want float64
	}{
		{"absoluteValue", ns.Math + "absoluteValue", "-5", 5},
		{"negation", ns.Math + "negation", "5", -5},
		{"degrees", ns.Math + "degrees", "0", 0},
		{"sin", ns.Math + "sin", "0", 0},
		{"cos", ns.Math + "cos", "0", 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, in := newTestContext()
			v := in.Variable("?r")
			goal := mathGoal(in, c.pred, intLit(in, c.in), v)
			got, ok := evalFirst(ctx, goal)
			require.True(t, ok)
			require.InDelta(t, c.want, parseFloatLex(t, got), 1e-9)
		})
	}
}

func parseFloatLex(t *testing.T, tm term.Term) float64 {
	t.Helper()
	lit, ok := tm.(*term.Literal)
	require.True(t, ok)
	n, ok := term.ParseNumber(lit)
	require.True(t, ok)
	switch n.Kind {
	case term.NumFloat, term.NumDouble:
		return n.Float
	default:
		r, _ := n.AsRat()
		f, _ := r.Float64()
		return f
	}
}
