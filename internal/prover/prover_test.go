package prover

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func newTestContext() (*engine.Context, *term.Interner) {
	in := term.NewInterner()
	ctx := &engine.Context{
		Interner: in,
		Facts:    index.NewFacts(),
		Rules:    index.NewRules(),
	}
	Register(ctx)
	return ctx, in
}

func ex(in *term.Interner, local string) *term.IRI {
	return in.IRI("http://example.org/" + local)
}

func TestProveFactLookupBindsGoalVars(t *testing.T) {
	ctx, in := newTestContext()
	p := ex(in, "p")
	ctx.Facts.Add(term.Triple{Subject: ex(in, "a"), Predicate: p, Object: ex(in, "b")})

	s := in.Variable("?s")
	tr := subst.NewTrail()
	var answers []subst.Delta
	Prove(ctx, context.Background(), []term.Triple{{Subject: s, Predicate: p, Object: ex(in, "b")}}, tr, 0, func(answer subst.Delta) bool {
		answers = append(answers, answer)
		return true
	})

	require.Len(t, answers, 1)
	require.Equal(t, ex(in, "a"), subst.Apply(s, answers[0]))
}

func TestProveProjectsAnswersToGoalVars(t *testing.T) {
	ctx, in := newTestContext()
	r := ex(in, "r")
	anc := ex(in, "anc")
	ctx.Facts.Add(term.Triple{Subject: ex(in, "a"), Predicate: r, Object: ex(in, "b")})
	ctx.Facts.Add(term.Triple{Subject: ex(in, "b"), Predicate: r, Object: ex(in, "c")})

	x, y, z := in.Variable("?x"), in.Variable("?y"), in.Variable("?z")
	ctx.Rules.Add(&term.Rule{
		Premise: []term.Triple{
			{Subject: x, Predicate: r, Object: y},
			{Subject: y, Predicate: r, Object: z},
		},
		Conclusion: []term.Triple{{Subject: x, Predicate: anc, Object: z}},
		Backward:   true,
	})

	s, o := in.Variable("?s"), in.Variable("?o")
	tr := subst.NewTrail()
	var answers []subst.Delta
	var liveSizes []int
	Prove(ctx, context.Background(), []term.Triple{{Subject: s, Predicate: anc, Object: o}}, tr, 0, func(answer subst.Delta) bool {
		answers = append(answers, answer)
		liveSizes = append(liveSizes, len(tr.Snapshot()))
		return true
	})

	require.Len(t, answers, 1)
	ans := answers[0]
	// The rule's standardized-apart intermediates are garbage-collected
	// out of the reported answer: only bindings reachable from the goal's
	// own variables survive, even though the live trail still holds them.
	require.Greater(t, liveSizes[0], len(ans))
	require.Equal(t, ex(in, "a"), subst.Apply(s, ans))
	require.Equal(t, ex(in, "c"), subst.Apply(o, ans))
}

func TestProveLoopDetectionTerminates(t *testing.T) {
	ctx, in := newTestContext()
	p := ex(in, "p")
	x := in.Variable("?x")
	// A rule whose body is its own head would recurse forever without the
	// visited check.
	ctx.Rules.Add(&term.Rule{
		Premise:    []term.Triple{{Subject: x, Predicate: p, Object: x}},
		Conclusion: []term.Triple{{Subject: x, Predicate: p, Object: x}},
		Backward:   true,
	})

	tr := subst.NewTrail()
	count := 0
	Prove(ctx, context.Background(), []term.Triple{{Subject: in.Variable("?g"), Predicate: p, Object: in.Variable("?g")}}, tr, 0, func(subst.Delta) bool {
		count++
		return true
	})
	require.Zero(t, count)
}
