package builtin

import (
	"context"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

// newTestContext returns a fresh Context with an empty fact base, enough
// for any builtin that does not itself need Prove/ForwardChain/Deref wired.
func newTestContext() (*engine.Context, *term.Interner) {
	in := term.NewInterner()
	ctx := &engine.Context{
		Interner: in,
		Facts:    index.NewFacts(),
		Rules:    index.NewRules(),
	}
	return ctx, in
}

// evalFirst runs a goal through Eval and reports the object bound on the
// first alternative, or ok=false if the goal produced none.
func evalFirst(ctx *engine.Context, goal term.Triple) (term.Term, bool) {
	tr := subst.NewTrail()
	var got term.Term
	found := false
	Eval(ctx, context.Background(), goal, tr, 0, func() bool {
		got = tr.Apply(goal.Object)
		found = true
		return false
	})
	return got, found
}

// evalSucceeds reports whether a goal (typically a constraint builtin that
// produces no bindings) succeeds at least once.
func evalSucceeds(ctx *engine.Context, goal term.Triple) bool {
	tr := subst.NewTrail()
	succeeded := false
	Eval(ctx, context.Background(), goal, tr, 0, func() bool {
		succeeded = true
		return false
	})
	return succeeded
}

// evalAll runs a goal through Eval and collects the object bound on every
// alternative it produces, in order.
func evalAll(ctx *engine.Context, goal term.Triple) []term.Term {
	tr := subst.NewTrail()
	var out []term.Term
	Eval(ctx, context.Background(), goal, tr, 0, func() bool {
		out = append(out, tr.Apply(goal.Object))
		return true
	})
	return out
}

func intLit(in *term.Interner, s string) *term.Literal {
	return in.Literal(s, "http://www.w3.org/2001/XMLSchema#integer", "")
}

func strLit(in *term.Interner, s string) *term.Literal {
	return in.Literal(s, "http://www.w3.org/2001/XMLSchema#string", "")
}
