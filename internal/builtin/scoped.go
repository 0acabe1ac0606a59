package builtin

import (
	"context"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func registerScoped() {
	constraintBuiltins[ns.Log+"includes"] = true
	constraintBuiltins[ns.Log+"notIncludes"] = true
	constraintBuiltins[ns.Log+"collectAllIn"] = false
	constraintBuiltins[ns.Log+"forAllIn"] = true

	register(ns.Log+"includes", false, logIncludes(false))
	register(ns.Log+"notIncludes", false, logIncludes(true))
	register(ns.Log+"collectAllIn", true, logCollectAllIn)
	register(ns.Log+"forAllIn", false, logForAllIn)
}

// scopeContext resolves a scope argument to a Context to prove against,
// and whether the gate is currently open: an explicit formula scope is
// always open (evaluated immediately against exactly its own triples, no
// external rules); an integer-N or other/variable (priority 1) scope is
// open only once a frozen snapshot exists at or beyond that closure
// level, per the Phase A/B alternation.
func scopeContext(ctx *engine.Context, tr *subst.Trail, scope term.Term) (*engine.Context, bool) {
	scope = tr.Apply(scope)
	if f, ok := scope.(*term.Formula); ok {
		idx := index.NewFacts()
		for _, t := range f.Triples {
			if t.Ground() {
				idx.Add(t)
			}
		}
		tmp := *ctx
		tmp.Facts = idx
		tmp.Rules = index.NewRules()
		tmp.Snapshot = nil
		return &tmp, true
	}

	priority := 1
	if lit, ok := scope.(*term.Literal); ok {
		if n, ok2 := term.ParseNumber(lit); ok2 && n.Int != nil && n.Int.Sign() > 0 && n.Int.IsInt64() {
			priority = int(n.Int.Int64())
		}
	}
	if ctx.Snapshot == nil || ctx.ClosureLevel < priority {
		return nil, false
	}
	tmp := *ctx
	tmp.Facts = ctx.Snapshot
	return &tmp, true
}

func applyTriples(tr *subst.Trail, ts []term.Triple) []term.Triple {
	out := make([]term.Triple, len(ts))
	for i, t := range ts {
		out[i] = tr.ApplyTriple(t)
	}
	return out
}

// logIncludes reports whether the body formula (object) is existentially
// provable against the scope (subject), .
func logIncludes(negate bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		sctx, open := scopeContext(ctx, tr, goal.Subject)
		if !open {
			return true
		}
		body, ok := tr.Apply(goal.Object).(*term.Formula)
		if !ok {
			return true
		}
		mark := tr.Mark()
		succeeded := false
		sctx.Prove(sctx, goctx, applyTriples(tr, body.Triples), tr, depth+1, func(subst.Delta) bool {
			succeeded = true
			return false
		})
		tr.Undo(mark)
		if succeeded == negate {
			return true
		}
		return onAlt()
	}
}

// logCollectAllIn takes a subject list [scope, bodyFormula, template] and
// unifies the object with the list of template instances produced by each
// distinct solution of bodyFormula against the scope. The scope rides in
// the subject's first position; the object is the collected list (see the
// argument-order note in DESIGN.md's Open Question resolutions).
func logCollectAllIn(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	args, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(args.Elems) != 3 {
		return true
	}
	sctx, open := scopeContext(ctx, tr, args.Elems[0])
	if !open {
		return true
	}
	body, ok := tr.Apply(args.Elems[1]).(*term.Formula)
	if !ok {
		return true
	}
	var results []term.Term
	mark := tr.Mark()
	sctx.Prove(sctx, goctx, applyTriples(tr, body.Triples), tr, depth+1, func(subst.Delta) bool {
		results = append(results, tr.Apply(args.Elems[2]))
		return true
	})
	tr.Undo(mark)
	return unifyAlt(goal.Object, &term.List{Elems: results}, tr, onAlt)
}

// logForAllIn takes a subject list [whereFormula, thenFormula] and an
// object scope; it succeeds once if every solution of whereFormula against
// the scope also satisfies thenFormula under that scope.
func logForAllIn(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	args, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(args.Elems) != 2 {
		return true
	}
	sctx, open := scopeContext(ctx, tr, goal.Object)
	if !open {
		return true
	}
	where, ok1 := tr.Apply(args.Elems[0]).(*term.Formula)
	then, ok2 := tr.Apply(args.Elems[1]).(*term.Formula)
	if !ok1 || !ok2 {
		return true
	}
	mark := tr.Mark()
	allHold := true
	sctx.Prove(sctx, goctx, applyTriples(tr, where.Triples), tr, depth+1, func(subst.Delta) bool {
		holds := false
		sctx.Prove(sctx, goctx, applyTriples(tr, then.Triples), tr, depth+2, func(subst.Delta) bool {
			holds = true
			return false
		})
		if !holds {
			allHold = false
			return false
		}
		return true
	})
	tr.Undo(mark)
	if !allHold {
		return true
	}
	return onAlt()
}
