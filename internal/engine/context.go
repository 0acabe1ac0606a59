// Package engine holds the reasoning-run context shared by the prover, the
// built-in evaluator and the forward chainer: interner, fact/rule indexes,
// Skolem state and the small set of process-wide flags, all threaded
// explicitly rather than read from package globals.
//
// ProveFunc and ForwardChainFunc exist to break the import cycle between
// this package, internal/prover, internal/builtin and internal/forward:
// the prover and forward chainer set these function fields on a Context at
// startup (dependency injection), so internal/builtin can invoke "prove a
// sub-goal" or "compute this formula's closure" without importing the
// packages that implement them.
package engine

import (
	"context"

	"github.com/eyereasoner/eyeling/internal/deriv"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/skolem"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Flags are the global tunables: read once at the start of a run
// and restored on exit by the caller that owns the outermost Context.
type Flags struct {
	EnforceHTTPS      bool
	ProofComments     bool
	SuperRestricted   bool
	DeterministicSkol bool
	// MaxResults caps the number of solutions any single Prove call
	// accumulates before abandoning the rest of its search; 0 means
	// unbounded. Reaching the cap is not an error — the caller simply
	// observes only the first MaxResults solutions.
	MaxResults int
}

// Dereferencer fetches a remote or local document: given an absolute IRI
// with fragment stripped, return raw text or a parsed formula, each
// cached per document IRI.
type Dereferencer interface {
	Content(ctx context.Context, iri string) (string, error)
	Semantics(ctx context.Context, iri string) (*term.Formula, error)
}

// ProveFunc proves a goal list against ctx's current fact/rule state,
// calling onSolution once per answer with tr already bound to that
// answer's substitution and answer holding the compact solution: the
// bindings projected to the transitive closure of the variables occurring
// in the initial goals, with rule-internal intermediates garbage-collected
// away. onSolution returns false to stop the search early (e.g. the
// caller only wanted one solution). Prove itself returns true if the
// search was exhausted normally, false if onSolution halted it or a cap
// was reached.
type ProveFunc func(ctx *Context, goctx context.Context, goals []term.Triple, tr *subst.Trail, depth int, onSolution func(answer subst.Delta) bool) bool

// ForwardChainFunc computes the deductive closure of a standalone formula
// under the rules embedded in it, returning the
// closure as a formula. It must be idempotent.
type ForwardChainFunc func(ctx *Context, goctx context.Context, f *term.Formula) (*term.Formula, error)

// Context is the explicit reasoning-run state threaded through the prover,
// builtin evaluator and forward chainer.
type Context struct {
	Interner *term.Interner
	Facts    *index.Facts
	Rules    *index.Rules

	// ForwardRules holds every live forward rule, including ones added by
	// rule promotion during the run.
	ForwardRules []*term.Rule

	Skolem      *skolem.Provider
	BlankMapper *skolem.FreshBlankMapper
	Deriv       *deriv.Recorder
	Deref       Dereferencer

	Flags Flags

	// Snapshot is the frozen fact index used by scoped-closure builtins in
	// Phase B; nil during Phase A.
	Snapshot *index.Facts
	// ClosureLevel is the current scoped-closure priority,
	// incremented once per Phase B entry.
	ClosureLevel int
	// MaxScopedPriority is the highest priority any rule in the document
	// references; once ClosureLevel reaches it, the outer loop may
	// stop alternating phases.
	MaxScopedPriority int

	Prove        ProveFunc
	ForwardChain ForwardChainFunc

	// DeferBuiltins is a transient per-call flag the forward chainer sets
	// while proving a forward rule's premise list: it enables
	// goal-reordering deferral for that top-level goal list only, never
	// for goals introduced by backward-rule body expansion inside the
	// prover.
	DeferBuiltins bool

	// runCounter feeds standardize-apart variable renaming and
	// Skolem firing keys; monotonically increasing within a run.
	runCounter int64

	// OnDerived, when non-nil, is invoked once per newly added derived
	// fact, in derivation order, before the run completes. The CLI's
	// --stream flag hooks this to emit triples as they are produced.
	OnDerived func(term.Triple)

	// Outputs accumulates log:outputString (key, value) pairs in call
	// order, for the CLI's --strings flag to sort by key and print once
	// the run finishes.
	Outputs []Output
}

// Output is one recorded log:outputString call: the subject key the host
// sorts by, and the object value it prints.
type Output struct {
	Key   term.Term
	Value term.Term
}

// NextRunID returns a fresh monotonically increasing id, used to tag each
// rule-body expansion for standardizing variables apart and each rule
// firing for head-blank Skolemization.
func (c *Context) NextRunID() int64 {
	c.runCounter++
	return c.runCounter
}

// FactSource returns the fact index scoped builtins should consult: the
// frozen Snapshot during Phase B, or the live Facts during Phase A.
func (c *Context) FactSource() *index.Facts {
	if c.Snapshot != nil {
		return c.Snapshot
	}
	return c.Facts
}
