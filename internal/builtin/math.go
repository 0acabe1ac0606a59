package builtin

import (
	"context"
	"math"
	"math/big"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func numberOf(tr *subst.Trail, t term.Term) (term.Number, bool) {
	lit, ok := asLiteral(tr.Apply(t))
	if !ok {
		return term.Number{}, false
	}
	return term.ParseNumber(lit)
}

// literalNumber parses an already-walked term as a number, for use on list
// elements pulled out of a term already passed through tr.Apply.
func literalNumber(t term.Term) (term.Number, bool) {
	lit, ok := asLiteral(t)
	if !ok {
		return term.Number{}, false
	}
	return term.ParseNumber(lit)
}

func numbersOf(tr *subst.Trail, t term.Term) ([]term.Number, bool) {
	lst, ok := asList(tr.Apply(t))
	if !ok {
		return nil, false
	}
	out := make([]term.Number, len(lst.Elems))
	for i, e := range lst.Elems {
		n, ok := numberOf(tr, e)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func registerComparison(iri string, cmp func(int) bool) {
	register(iri, false, func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		a, ok1 := numberOf(tr, goal.Subject)
		b, ok2 := numberOf(tr, goal.Object)
		if !ok1 || !ok2 {
			return true
		}
		if !cmp(term.Compare(a, b)) {
			return true
		}
		return onAlt()
	})
}

func registerMath() {
	constraintBuiltins[ns.Math+"equalTo"] = true
	constraintBuiltins[ns.Math+"notEqualTo"] = true
	constraintBuiltins[ns.Math+"lessThan"] = true
	constraintBuiltins[ns.Math+"notLessThan"] = true
	constraintBuiltins[ns.Math+"greaterThan"] = true
	constraintBuiltins[ns.Math+"notGreaterThan"] = true

	registerComparison(ns.Math+"equalTo", func(c int) bool { return c == 0 })
	registerComparison(ns.Math+"notEqualTo", func(c int) bool { return c != 0 })
	registerComparison(ns.Math+"lessThan", func(c int) bool { return c < 0 })
	registerComparison(ns.Math+"notLessThan", func(c int) bool { return c >= 0 })
	registerComparison(ns.Math+"greaterThan", func(c int) bool { return c > 0 })
	registerComparison(ns.Math+"notGreaterThan", func(c int) bool { return c <= 0 })

	register(ns.Math+"sum", true, mathNAry(func(acc *big.Rat, n term.Number) { r, _ := n.AsRat(); acc.Add(acc, r) }, func(acc float64, f float64) float64 { return acc + f }, big.NewRat(0, 1), 0))
	register(ns.Math+"product", true, mathNAry(func(acc *big.Rat, n term.Number) { r, _ := n.AsRat(); acc.Mul(acc, r) }, func(acc float64, f float64) float64 { return acc * f }, big.NewRat(1, 1), 1))

	numericDifference := mathBinary(
		func(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) },
		func(a, b float64) float64 { return a - b },
		func(b, c *big.Rat) *big.Rat { return new(big.Rat).Add(c, b) }, // a = c + b
		func(a, c *big.Rat) *big.Rat { return new(big.Rat).Sub(a, c) }, // b = a - c
		func(b, c float64) float64 { return c + b },
		func(a, c float64) float64 { return a - c },
	)
	// Subtraction is overloaded on temporal operands: dates or dateTimes
	// subtract to an xsd:duration, and a dateTime minus a duration or a
	// second count yields an xsd:dateTime.
	register(ns.Math+"difference", true, func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		if handled, cont := temporalDifference(ctx, goal, tr, onAlt); handled {
			return cont
		}
		return numericDifference(ctx, goctx, goal, tr, depth, onAlt)
	})
	register(ns.Math+"quotient", true, mathBinary(
		func(a, b *big.Rat) *big.Rat {
			if b.Sign() == 0 {
				return nil
			}
			return new(big.Rat).Quo(a, b)
		},
		func(a, b float64) float64 { return a / b },
		func(b, c *big.Rat) *big.Rat { return new(big.Rat).Mul(c, b) }, // a = c * b
		func(a, c *big.Rat) *big.Rat { // b = a / c
			if c.Sign() == 0 {
				return nil
			}
			return new(big.Rat).Quo(a, c)
		},
		func(b, c float64) float64 { return c * b },
		func(a, c float64) float64 { return a / c },
	))
	register(ns.Math+"exponentiation", true, mathExponent())
	register(ns.Math+"integerQuotient", true, mathIntBinary(func(a, b *big.Int) *big.Int {
		if b.Sign() == 0 {
			return nil
		}
		q := new(big.Int)
		q.Quo(a, b)
		return q
	}))
	register(ns.Math+"remainder", true, mathIntBinary(func(a, b *big.Int) *big.Int {
		if b.Sign() == 0 {
			return nil
		}
		m := new(big.Int)
		m.Rem(a, b)
		return m
	}))

	register(ns.Math+"absoluteValue", true, mathUnaryExact(func(f float64) float64 { return math.Abs(f) }, func(i *big.Int) *big.Int { return new(big.Int).Abs(i) }))
	register(ns.Math+"rounded", true, mathUnaryExact(func(f float64) float64 { return math.Round(f) }, func(i *big.Int) *big.Int { return i }))
	register(ns.Math+"negation", true, mathUnaryExact(func(f float64) float64 { return -f }, func(i *big.Int) *big.Int { return new(big.Int).Neg(i) }))
	register(ns.Math+"degrees", true, mathUnary(func(f float64) float64 { return f * 180 / math.Pi }))
	register(ns.Math+"sin", true, mathUnary(math.Sin))
	register(ns.Math+"cos", true, mathUnary(math.Cos))
	register(ns.Math+"tan", true, mathUnary(math.Tan))
	register(ns.Math+"asin", true, mathUnary(math.Asin))
	register(ns.Math+"acos", true, mathUnary(math.Acos))
	register(ns.Math+"atan", true, mathUnary(math.Atan))
	register(ns.Math+"sinh", true, mathUnary(math.Sinh))
	register(ns.Math+"cosh", true, mathUnary(math.Cosh))
	register(ns.Math+"tanh", true, mathUnary(math.Tanh))
}

// outKindFor picks the output datatype : the smallest promoting
// datatype (integer -> decimal -> float -> double) of the inputs.
func outKindFor(ns_ []term.Number) term.NumKind {
	k := term.NumInteger
	for _, n := range ns_ {
		k = term.Promote(k, n.Kind)
	}
	return k
}

func mathNAry(foldRat func(acc *big.Rat, n term.Number), foldFloat func(acc, f float64) float64, ratInit *big.Rat, floatInit float64) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		nums, ok := numbersOf(tr, goal.Subject)
		if !ok {
			return true
		}
		kind := outKindFor(nums)
		if kind == term.NumFloat || kind == term.NumDouble {
			acc := floatInit
			for _, n := range nums {
				acc = foldFloat(acc, n.Float)
			}
			out := term.Number{Kind: kind, Float: acc}.Literal(kind)
			return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
		}
		acc := new(big.Rat).Set(ratInit)
		for _, n := range nums {
			foldRat(acc, n)
		}
		out := term.Number{Kind: kind, Rat: acc}.Literal(kind)
		return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
	}
}

// mathBinary builds an n-ary-looking but strictly 2-element math relation
// that is bidirectional where meaningful: given the full 2-element operand
// list it computes the result (foldRat/foldFloat), and given the result
// plus one operand it solves for the other missing operand
// (invFirst/invSecond, the algebraic inverses of foldRat; invFirstFloat/
// invSecondFloat their float counterparts). A list with both operands
// unbound, or with a non-variable/non-literal element, fails outright.
func mathBinary(
	foldRat func(a, b *big.Rat) *big.Rat, foldFloat func(a, b float64) float64,
	invFirst func(b, c *big.Rat) *big.Rat, invSecond func(a, c *big.Rat) *big.Rat,
	invFirstFloat func(b, c float64) float64, invSecondFloat func(a, c float64) float64,
) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		lst, ok := asList(tr.Apply(goal.Subject))
		if !ok || len(lst.Elems) != 2 {
			return true
		}
		aTerm, bTerm := lst.Elems[0], lst.Elems[1]
		aNum, aOk := literalNumber(aTerm)
		bNum, bOk := literalNumber(bTerm)

		if aOk && bOk {
			kind := outKindFor([]term.Number{aNum, bNum})
			if kind == term.NumFloat || kind == term.NumDouble {
				f := foldFloat(aNum.Float, bNum.Float)
				out := term.Number{Kind: kind, Float: f}.Literal(kind)
				return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
			}
			ra, _ := aNum.AsRat()
			rb, _ := bNum.AsRat()
			r := foldRat(ra, rb)
			if r == nil {
				return true
			}
			out := term.Number{Kind: kind, Rat: r}.Literal(kind)
			return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
		}

		cNum, cOk := numberOf(tr, goal.Object)
		if !cOk {
			return true
		}

		switch {
		case !aOk && bOk:
			aVar, isVar := aTerm.(*term.Variable)
			if !isVar || invFirst == nil {
				return true
			}
			kind := term.Promote(bNum.Kind, cNum.Kind)
			if kind == term.NumFloat || kind == term.NumDouble {
				f := invFirstFloat(bNum.Float, cNum.Float)
				out := term.Number{Kind: kind, Float: f}.Literal(kind)
				return unifyAlt(aVar, litTerm(ctx, out), tr, onAlt)
			}
			rb, _ := bNum.AsRat()
			rc, _ := cNum.AsRat()
			r := invFirst(rb, rc)
			if r == nil {
				return true
			}
			out := term.Number{Kind: kind, Rat: r}.Literal(kind)
			return unifyAlt(aVar, litTerm(ctx, out), tr, onAlt)
		case aOk && !bOk:
			bVar, isVar := bTerm.(*term.Variable)
			if !isVar || invSecond == nil {
				return true
			}
			kind := term.Promote(aNum.Kind, cNum.Kind)
			if kind == term.NumFloat || kind == term.NumDouble {
				f := invSecondFloat(aNum.Float, cNum.Float)
				out := term.Number{Kind: kind, Float: f}.Literal(kind)
				return unifyAlt(bVar, litTerm(ctx, out), tr, onAlt)
			}
			ra, _ := aNum.AsRat()
			rc, _ := cNum.AsRat()
			r := invSecond(ra, rc)
			if r == nil {
				return true
			}
			out := term.Number{Kind: kind, Rat: r}.Literal(kind)
			return unifyAlt(bVar, litTerm(ctx, out), tr, onAlt)
		default:
			return true // both operands unbound: underdetermined
		}
	}
}

// mathExponent computes a^b, or solves for the missing operand of a
// known result where that inverse is well-defined: a = c**(1/b) given b
// and c (b != 0), or b = log(c)/log(a) given a and c (a > 0, a != 1,
// c > 0). Both reverse forms return xsd:double, since roots and logarithms
// of otherwise-exact operands are generally irrational; the one exception
// is b = 1, where a is bound to c unchanged in c's own datatype.
func mathExponent() EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		lst, ok := asList(tr.Apply(goal.Subject))
		if !ok || len(lst.Elems) != 2 {
			return true
		}
		aTerm, bTerm := lst.Elems[0], lst.Elems[1]
		aNum, aOk := literalNumber(aTerm)
		bNum, bOk := literalNumber(bTerm)

		if aOk && bOk {
			kind := outKindFor([]term.Number{aNum, bNum})
			if kind == term.NumInteger && bNum.Int != nil && bNum.Int.IsInt64() && bNum.Int.Sign() >= 0 {
				r := new(big.Int).Exp(aNum.Int, bNum.Int, nil)
				out := &term.Literal{Lex: r.String(), Datatype: ns.XSDInteger}
				return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
			}
			f := math.Pow(aNum.Float, bNum.Float)
			out := term.Number{Kind: term.NumDouble, Float: f}.Literal(term.NumDouble)
			return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
		}

		cNum, cOk := numberOf(tr, goal.Object)
		if !cOk {
			return true
		}

		switch {
		case !aOk && bOk:
			aVar, isVar := aTerm.(*term.Variable)
			if !isVar || bNum.Float == 0 {
				return true
			}
			if bNum.Float == 1 {
				return unifyAlt(aVar, litTerm(ctx, cNum.Literal(cNum.Kind)), tr, onAlt)
			}
			f := math.Pow(cNum.Float, 1/bNum.Float)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
			out := term.Number{Kind: term.NumDouble, Float: f}.Literal(term.NumDouble)
			return unifyAlt(aVar, litTerm(ctx, out), tr, onAlt)
		case aOk && !bOk:
			bVar, isVar := bTerm.(*term.Variable)
			if !isVar || aNum.Float <= 0 || aNum.Float == 1 || cNum.Float <= 0 {
				return true
			}
			f := math.Log(cNum.Float) / math.Log(aNum.Float)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
			out := term.Number{Kind: term.NumDouble, Float: f}.Literal(term.NumDouble)
			return unifyAlt(bVar, litTerm(ctx, out), tr, onAlt)
		default:
			return true
		}
	}
}

func mathIntBinary(fold func(a, b *big.Int) *big.Int) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		nums, ok := numbersOf(tr, goal.Subject)
		if !ok || len(nums) != 2 || nums[0].Int == nil || nums[1].Int == nil {
			return true
		}
		r := fold(nums[0].Int, nums[1].Int)
		if r == nil {
			return true
		}
		out := &term.Literal{Lex: r.String(), Datatype: ns.XSDInteger}
		return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
	}
}

// mathUnaryExact keeps integer inputs exact (via foldInt); decimal inputs
// are computed through float64 and returned as xsd:decimal, and float or
// double inputs keep their own datatype (absoluteValue, rounded and
// negation preserve the input's promotion tier).
func mathUnaryExact(fn func(float64) float64, foldInt func(*big.Int) *big.Int) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		n, ok := numberOf(tr, goal.Subject)
		if !ok {
			return true
		}
		if n.Kind == term.NumInteger {
			out := &term.Literal{Lex: foldInt(n.Int).String(), Datatype: ns.XSDInteger}
			return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
		}
		if n.Kind == term.NumDecimal {
			r, _ := n.AsRat()
			f, _ := r.Float64()
			out := term.Number{Kind: term.NumDecimal, Rat: new(big.Rat).SetFloat64(fn(f))}.Literal(term.NumDecimal)
			return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
		}
		out := term.Number{Kind: n.Kind, Float: fn(n.Float)}.Literal(n.Kind)
		return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
	}
}

func mathUnary(fn func(float64) float64) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		n, ok := numberOf(tr, goal.Subject)
		if !ok {
			return true
		}
		f := fn(n.Float)
		kind := n.Kind
		if kind == term.NumInteger {
			kind = term.NumDecimal
		}
		out := term.Number{Kind: kind, Float: f}.Literal(kind)
		return unifyAlt(goal.Object, litTerm(ctx, out), tr, onAlt)
	}
}

// litTerm interns a freshly computed literal so it participates in the
// run's identity-sharing the same way parsed literals do.
func litTerm(ctx *engine.Context, l *term.Literal) term.Term {
	return ctx.Interner.Literal(l.Lex, l.Datatype, l.Lang)
}
