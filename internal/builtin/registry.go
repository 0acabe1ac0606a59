// Package builtin implements the built-in evaluator: arithmetic,
// list, string, crypto, time, log:* introspection and the scoped-closure
// predicates, dispatched from a registry table keyed by predicate IRI.
package builtin

import (
	"context"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

// EvalFunc implements one built-in predicate. goal is passed as the prover
// applied it; Eval does not walk it through tr again, so built-ins resolve
// the positions they read themselves. onAlt is called once per alternative
// solution with tr already bound for that alternative; each built-in undoes
// its own bindings between alternatives (unifyAlt does this). onAlt returns
// false to stop enumerating further ones.
type EvalFunc func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool

// Entry describes one registered built-in.
type Entry struct {
	// ProducesBindings is true when a successful call can bind variables
	// in the goal.
	ProducesBindings bool
	Fn               EvalFunc
}

var registry = map[string]Entry{}

func register(iri string, producesBindings bool, fn EvalFunc) {
	registry[iri] = Entry{ProducesBindings: producesBindings, Fn: fn}
}

// constraintBuiltins is the hard-coded set of
// predicates considered pure constraints (no new bindings) for forward-
// rule premise reordering: comparisons, equality tests, negations, and
// trace/output-only predicates.
var constraintBuiltins = map[string]bool{}

func init() {
	registerMath()
	registerList()
	registerString()
	registerCrypto()
	registerTime()
	registerLog()
	registerScoped()
}

// lookup returns the registered entry for a predicate IRI, honoring
// super-restricted mode.
func lookup(ctx *engine.Context, predIRI string) (Entry, bool) {
	if ctx.Flags.SuperRestricted {
		if predIRI != ns.LogImplies && predIRI != ns.LogImpliedBy {
			return Entry{}, false
		}
	}
	e, ok := registry[predIRI]
	return e, ok
}

// IsRecognized reports whether goal's predicate is a registered built-in
// (and, under super-restricted mode, is one of the two predicates that
// survive). An unrecognized predicate is
// handled by the prover as an ordinary user predicate instead.
func IsRecognized(ctx *engine.Context, goal term.Triple) bool {
	iri, ok := goal.Predicate.(*term.IRI)
	if !ok {
		return false
	}
	_, found := lookup(ctx, iri.Value)
	return found
}

// ProducesBindings reports whether a recognized predicate can bind
// variables, used by forward-rule premise reordering.
func ProducesBindings(predIRI string) bool {
	e, ok := registry[predIRI]
	return ok && e.ProducesBindings
}

// IsConstraintBuiltin reports whether predIRI is in the hard-coded
// constraint-builtin set used to reorder forward-rule premises so pure
// tests run after binding goals.
func IsConstraintBuiltin(predIRI string) bool {
	return constraintBuiltins[predIRI]
}

// rdfListAccessors lists rdf:first and rdf:rest, which are recognized as
// built-ins only when the subject is
// already a native list term; IsCollectionAccessorOnNonList lets
// the prover fall through to ordinary fact/rule handling otherwise, so
// rdf:first/rdf:rest on an RDF-list-headed (not yet materialized, or
// named-node) subject still works as plain facts.
var rdfListAccessors = map[string]bool{
	ns.RDFFirst: true,
	ns.RDFRest:  true,
}

// IsCollectionAccessorOnNonList reports whether goal is an rdf:first/
// rdf:rest goal whose subject, after being walked, is not a native list
// term — in which case the prover must treat it as an ordinary predicate
// rather than dispatching it to the builtin evaluator.
func IsCollectionAccessorOnNonList(ctx *engine.Context, tr *subst.Trail, goal term.Triple) bool {
	iri, ok := goal.Predicate.(*term.IRI)
	if !ok || !rdfListAccessors[iri.Value] {
		return false
	}
	switch tr.Walk(goal.Subject).(type) {
	case *term.List, *term.OpenList:
		return false
	default:
		return true
	}
}

// Eval dispatches a recognized built-in goal.
func Eval(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	iri := goal.Predicate.(*term.IRI)
	e, ok := lookup(ctx, iri.Value)
	if !ok {
		return true
	}
	return e.Fn(ctx, goctx, goal, tr, depth, onAlt)
}
