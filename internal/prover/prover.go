// Package prover implements the backward SLD-style goal solver:
// depth-first search with an explicit visited stack for loop detection,
// built-in dispatch, backward-rule expansion (standardizing variables
// apart per instantiation) and fact lookup, with optional built-in
// deferral for forward-rule premises. Search runs as depth-first
// recursion over a single mutable trail, since the engine is
// single-threaded cooperative: try each alternative, backtrack on
// exhaustion.
package prover

import (
	"context"

	"github.com/eyereasoner/eyeling/internal/builtin"
	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
	"github.com/eyereasoner/eyeling/internal/unify"
)

// unaryMathEscape lists the fixed allow-list of unary math relations for
// which a fully-unbound goal succeeds without binding, after deferral has
// exhausted all other options.
var unaryMathEscape = map[string]bool{
	"http://www.w3.org/2000/10/swap/math#sin": true, "http://www.w3.org/2000/10/swap/math#cos": true,
	"http://www.w3.org/2000/10/swap/math#tan": true, "http://www.w3.org/2000/10/swap/math#sinh": true,
	"http://www.w3.org/2000/10/swap/math#cosh": true, "http://www.w3.org/2000/10/swap/math#tanh": true,
	"http://www.w3.org/2000/10/swap/math#asin": true, "http://www.w3.org/2000/10/swap/math#acos": true,
	"http://www.w3.org/2000/10/swap/math#atan": true, "http://www.w3.org/2000/10/swap/math#degrees": true,
	"http://www.w3.org/2000/10/swap/math#negation": true,
}

// pending is one goal still to be proved, carrying its own defer count so
// the total-goal-count cap on rotation is enforced per goal, and
// whether deferral is even eligible for it.
type pending struct {
	goal       term.Triple
	deferCount int
	deferrable bool
}

// Prove attempts to satisfy every goal in order (subject to deferral),
// calling onSolution once per full solution with tr bound and with the
// compact answer substitution: the bindings projected to the transitive
// closure of the variables occurring in goals, so rule-internal
// intermediates introduced by standardizing apart never reach the caller.
// onSolution returns false to stop the search. Prove returns true if the
// search ran to exhaustion, false if onSolution returned false and halted
// it early or ctx.Flags.MaxResults was reached. Deferral for this
// top-level goal list is controlled by ctx.DeferBuiltins; it is always
// disabled for goals introduced by backward-rule body expansion
// regardless of this setting.
func Prove(ctx *engine.Context, goctx context.Context, goals []term.Triple, tr *subst.Trail, depth int, onSolution func(answer subst.Delta) bool) bool {
	deferrable := ctx.DeferBuiltins
	ps := make([]pending, len(goals))
	for i, g := range goals {
		ps[i] = pending{goal: g, deferrable: deferrable}
	}
	answerVars := map[int64]*term.Variable{}
	for _, g := range goals {
		term.CollectVars(g.Subject, answerVars)
		term.CollectVars(g.Predicate, answerVars)
		term.CollectVars(g.Object, answerVars)
	}
	ids := make([]int64, 0, len(answerVars))
	for id := range answerVars {
		ids = append(ids, id)
	}
	visited := map[string]bool{}
	results := 0
	return solve(ctx, goctx, ps, tr, depth, visited, &results, func() bool {
		return onSolution(subst.ProjectedCompact(ids, tr.Snapshot()))
	})
}

// Register wires this package's Prove function into ctx, satisfying the
// engine.ProveFunc dependency the builtin evaluator needs for scoped
// predicates. Callers (forward chainer, top-level reason)
// should call this once per fresh Context.
func Register(ctx *engine.Context) {
	ctx.Prove = Prove
}

func solve(ctx *engine.Context, goctx context.Context, goals []pending, tr *subst.Trail, depth int, visited map[string]bool, results *int, onSolution func() bool) bool {
	if len(goals) == 0 {
		*results++
		cont := onSolution()
		if ctx.Flags.MaxResults > 0 && *results >= ctx.Flags.MaxResults {
			return false // result cap reached: abandon the rest of the stack
		}
		return cont
	}

	g := goals[0]
	rest := goals[1:]
	applied := tr.ApplyTriple(g.goal)

	if builtin.IsRecognized(ctx, applied) && !builtin.IsCollectionAccessorOnNonList(ctx, tr, applied) {
		mark := tr.Mark()
		produced := 0
		cont := builtin.Eval(ctx, goctx, applied, tr, depth, func() bool {
			produced++
			return solve(ctx, goctx, rest, tr, depth, visited, results, onSolution)
		})
		tr.Undo(mark)
		if !cont {
			return false
		}
		if produced == 0 {
			if g.deferrable && shouldDefer(applied, rest, g.deferCount) {
				newGoals := append(append([]pending{}, rest...), pending{goal: g.goal, deferCount: g.deferCount + 1, deferrable: g.deferrable})
				return solve(ctx, goctx, newGoals, tr, depth, visited, results, onSolution)
			}
			if unaryMathEscapeApplies(applied) {
				return solve(ctx, goctx, rest, tr, depth, visited, results, onSolution)
			}
		}
		return true
	}

	key := term.EncodeTriple(applied)
	if visited[key] {
		return true
	}
	visited[key] = true
	defer delete(visited, key)

	// Backward-rule expansion.
	for _, rule := range ctx.Rules.Candidates(applied.Predicate) {
		if len(rule.Conclusion) != 1 {
			continue // multi-head backward rules are not directly queryable as a single goal
		}
		instPremise, instHead := standardizeApart(ctx, rule)
		mark := tr.Mark()
		if unify.Triples(instHead, applied, tr, unify.General) {
			innerGoals := make([]pending, 0, len(instPremise)+len(rest))
			for _, p := range instPremise {
				innerGoals = append(innerGoals, pending{goal: p})
			}
			innerGoals = append(innerGoals, rest...)
			if !solve(ctx, goctx, innerGoals, tr, depth+1, visited, results, onSolution) {
				tr.Undo(mark)
				return false
			}
		}
		tr.Undo(mark)
	}

	// Fact lookup.
	for _, idx := range ctx.FactSource().Candidates(applied) {
		fact := ctx.FactSource().All[idx]
		mark := tr.Mark()
		if unify.Triples(applied, fact, tr, unify.General) {
			if !solve(ctx, goctx, rest, tr, depth, visited, results, onSolution) {
				tr.Undo(mark)
				return false
			}
		}
		tr.Undo(mark)
	}

	return true
}

func shouldDefer(goal term.Triple, rest []pending, deferCount int) bool {
	if len(rest) == 0 {
		return false
	}
	if deferCount >= len(rest)+1 {
		return false // per-level defer counter capped by total goal count
	}
	return hasFreeVar(goal)
}

func hasFreeVar(t term.Triple) bool {
	vars := map[int64]*term.Variable{}
	term.CollectVars(t.Subject, vars)
	term.CollectVars(t.Predicate, vars)
	term.CollectVars(t.Object, vars)
	return len(vars) > 0
}

func unaryMathEscapeApplies(t term.Triple) bool {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok || !unaryMathEscape[iri.Value] {
		return false
	}
	_, subVar := t.Subject.(*term.Variable)
	_, objVar := t.Object.(*term.Variable)
	return subVar && objVar
}
