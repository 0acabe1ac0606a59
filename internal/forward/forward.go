// Package forward implements the fixed-point forward chainer: each
// outer iteration runs Phase A (no snapshot, scoped builtins gated closed
// against non-formula scopes) followed by Phase B (a frozen fact snapshot
// at an incremented closure level, scoped builtins now answerable),
// repeating until neither phase produces a new triple or rule and the
// closure-level counter has reached the maximum scoped priority referenced
// anywhere in the rule set. The closure-level snapshot freeze is a full
// copy of the fact set held for the duration of one scoped-closure phase.
package forward

import (
	"context"
	"fmt"

	"github.com/eyereasoner/eyeling/internal/deriv"
	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Register wires this package's closure computation into ctx, satisfying
// the engine.ForwardChainFunc dependency log:conclusion needs.
func Register(ctx *engine.Context) {
	ctx.ForwardChain = ForwardChain
}

// ContradictionError is returned when a fuse rule fires: the engine
// must abort the run and the host maps this to exit code 2.
type ContradictionError struct {
	Rule *term.Rule
}

func (e *ContradictionError) Error() string { return "contradiction: fuse rule fired" }

// Run computes ctx's full deductive closure in place: ctx.Facts grows to
// contain every derivable triple, ctx.ForwardRules/ctx.Rules grow with any
// promoted rules, and ctx.Deriv records one DerivedFact per newly added
// triple. It
// returns a *ContradictionError if a fuse rule ever succeeds.
func Run(ctx *engine.Context, goctx context.Context) error {
	maxPriority := scanMaxPriority(ctx)
	hasScoped := scanHasScoped(ctx)

	for {
		changed, err := innerFixedPoint(ctx, goctx)
		if err != nil {
			return err
		}
		if !hasScoped {
			if !changed {
				return nil
			}
			continue
		}

		ctx.Snapshot = ctx.Facts.Snapshot()
		ctx.ClosureLevel++
		changedB, err := innerFixedPoint(ctx, goctx)
		ctx.Snapshot = nil
		if err != nil {
			return err
		}

		if !changed && !changedB && ctx.ClosureLevel >= maxPriority {
			return nil
		}
	}
}

// ForwardChain computes the deductive closure of a standalone formula
// under the rules embedded within it: ground
// triples become facts, {A} log:implies {B} / {A} log:impliedBy {B}
// triples become forward/backward rules, the same fixed point runs over a
// scratch context, and the final fact set is returned as a formula. It is
// idempotent: closure(closure(F)) == closure(F), since the rule set
// embedded in the result is the same rule set embedded in F.
func ForwardChain(ctx *engine.Context, goctx context.Context, f *term.Formula) (*term.Formula, error) {
	sub := *ctx
	sub.Facts = index.NewFacts()
	sub.Rules = index.NewRules()
	sub.ForwardRules = nil
	sub.Snapshot = nil
	sub.ClosureLevel = 0
	// The scratch run's derivations belong to the formula closure, not to
	// the outer run's proof or its streamed output.
	sub.Deriv = deriv.New()
	sub.OnDerived = nil

	for _, t := range f.Triples {
		if rule, ok := ruleFromTriple(t); ok {
			addRule(&sub, rule)
			sub.Facts.Add(t)
			continue
		}
		if t.Ground() {
			sub.Facts.Add(t)
		}
	}

	if err := Run(&sub, goctx); err != nil {
		return nil, err
	}
	return sub.Interner.NewFormula(append([]term.Triple{}, sub.Facts.All...)), nil
}

// ruleFromTriple recognizes a {premise} log:implies {conclusion} or
// {conclusion} log:impliedBy {premise} triple (optionally with a literal
// `true` standing in for an empty formula on either side) as a rule
// declaration.
func ruleFromTriple(t term.Triple) (*term.Rule, bool) {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok {
		return nil, false
	}
	switch iri.Value {
	case ns.LogImplies:
		premise, ok1 := triplesOf(t.Subject)
		conclusion, ok2 := triplesOf(t.Object)
		if !ok1 || !ok2 {
			return nil, false
		}
		return &term.Rule{Premise: premise, Conclusion: conclusion, Backward: false, HeadBlanks: headBlankLabels(conclusion)}, true
	case ns.LogImpliedBy:
		conclusion, ok1 := triplesOf(t.Subject)
		premise, ok2 := triplesOf(t.Object)
		if !ok1 || !ok2 {
			return nil, false
		}
		return &term.Rule{Premise: premise, Conclusion: conclusion, Backward: true, HeadBlanks: headBlankLabels(conclusion)}, true
	}
	return nil, false
}

// triplesOf accepts either a quoted formula or the bare literal `true`
// (standing in for the empty formula, a common N3 idiom for "always").
func triplesOf(t term.Term) ([]term.Triple, bool) {
	if f, ok := t.(*term.Formula); ok {
		return f.Triples, true
	}
	if lit, ok := t.(*term.Literal); ok && lit.Lex == "true" {
		return nil, true
	}
	return nil, false
}

func headBlankLabels(conclusion []term.Triple) map[string]bool {
	out := map[string]bool{}
	blanks := map[int64]*term.Blank{}
	for _, t := range conclusion {
		term.CollectBlanks(t.Subject, blanks)
		term.CollectBlanks(t.Predicate, blanks)
		term.CollectBlanks(t.Object, blanks)
	}
	for _, b := range blanks {
		out[b.Label] = true
	}
	return out
}

// addRule promotes a rule into ctx: forward rules join ForwardRules and
// backward rules join the Rules index, deduplicated by Rule.Key so
// re-deriving the same rule twice is a no-op. addRule does not touch the
// fact set: fireRule adds a promoted rule's triple form, and ForwardChain
// keeps a formula's rule triples among its facts; rules that reason.Reason
// loads from the input document are held in the rule lists only.
func addRule(ctx *engine.Context, rule *term.Rule) bool {
	if rule.Backward {
		return ctx.Rules.Add(rule)
	}
	for _, existing := range ctx.ForwardRules {
		if existing.Key() == rule.Key() {
			return false
		}
	}
	ctx.ForwardRules = append(ctx.ForwardRules, rule)
	return true
}

// innerFixedPoint scans every live forward rule, repeating the scan until
// a full scan produces no new triple or rule. It reports whether any scan
// produced something new.
func innerFixedPoint(ctx *engine.Context, goctx context.Context) (bool, error) {
	changed := false
	for {
		scanChanged := false
		// ForwardRules may grow mid-scan via rule promotion; indexing by
		// position (not ranging the slice header) picks up newly promoted
		// rules within the same scan.
		for i := 0; i < len(ctx.ForwardRules); i++ {
			rule := ctx.ForwardRules[i]
			if rule.Fuse && ruleAlreadyFired(ctx, rule) {
				continue
			}
			fired, err := fireRule(ctx, goctx, rule, i)
			if err != nil {
				return changed, err
			}
			if fired {
				scanChanged = true
			}
		}
		if !scanChanged {
			return changed, nil
		}
		changed = true
	}
}

// ruleAlreadyFired is reserved for a future optimization that would skip
// re-checking a fuse rule once its premise is known unsatisfiable; fuse
// rules are cheap to re-scan so this is not yet needed.
func ruleAlreadyFired(ctx *engine.Context, rule *term.Rule) bool {
	return false
}

// fireRule runs the prover over rule's premise against ctx's current state, and for every solution
// instantiates the conclusion, Skolemizing head blanks and adding any new
// fact or promoted rule. It returns whether anything new was produced.
func fireRule(ctx *engine.Context, goctx context.Context, rule *term.Rule, ruleIndex int) (changed bool, err error) {
	if groundHeadAlreadyKnown(ctx, rule) {
		return false, nil
	}

	prevDefer := ctx.DeferBuiltins
	ctx.DeferBuiltins = true
	defer func() { ctx.DeferBuiltins = prevDefer }()

	premiseVars := map[int64]*term.Variable{}
	for _, p := range rule.Premise {
		term.CollectVars(p.Subject, premiseVars)
		term.CollectVars(p.Predicate, premiseVars)
		term.CollectVars(p.Object, premiseVars)
	}

	var fireErr error
	tr := subst.NewTrail()
	ctx.Prove(ctx, goctx, rule.Premise, tr, 0, func(answer subst.Delta) bool {
		if rule.Fuse {
			// A fuse rule carries no conclusion triples: one satisfied
			// premise is the contradiction.
			fireErr = &ContradictionError{Rule: rule}
			return false
		}
		bindings := make(map[string]term.Term, len(premiseVars))
		for id, v := range premiseVars {
			if val, ok := answer[id]; ok {
				bindings[v.Name] = val
			}
		}
		premiseInstance := make([]term.Triple, len(rule.Premise))
		for i, p := range rule.Premise {
			premiseInstance[i] = subst.ApplyTriple(p, answer)
		}
		// The firing key is (rule, premise instance), so re-deriving the
		// same firing on a later fixed-point iteration reuses the same
		// existentials instead of minting fresh ones forever.
		firingKey := fmt.Sprintf("r%d", ruleIndex)
		for _, p := range premiseInstance {
			firingKey += "|" + term.EncodeTriple(p)
		}
		blankMap := buildBlankMap(ctx, rule, firingKey)

		for _, ct := range rule.Conclusion {
			inst := subst.ApplyTriple(ct, answer)
			inst = term.RenameTriple(inst, nil, blankMap)
			// Rule-triple heads are recognized before the ground check:
			// variables remaining inside their quoted formulas are
			// quantified by the promoted rule, not unbound.
			if headIsRuleTriple(inst) {
				if newRule, ok := ruleFromTriple(inst); ok {
					if addRule(ctx, newRule) {
						changed = true
						if rbRule, ok2 := ruleAsTriple(newRule, ctx); ok2 {
							if ctx.Facts.Add(rbRule) {
								ctx.Deriv.Record(rbRule, rule, premiseInstance, bindings)
								if ctx.OnDerived != nil {
									ctx.OnDerived(rbRule)
								}
							}
						}
					}
					continue
				}
			}
			if !inst.Ground() {
				continue // unbound premise-independent head variable: not yet derivable
			}
			if ctx.Facts.Add(inst) {
				changed = true
				ctx.Deriv.Record(inst, rule, premiseInstance, bindings)
				if ctx.OnDerived != nil {
					ctx.OnDerived(inst)
				}
			}
		}
		return true
	})
	return changed, fireErr
}

// buildBlankMap maps every head-blank id in rule.Conclusion to a fresh
// blank memoized per (firingKey, label) so one firing produces the same
// existential across every head triple.
func buildBlankMap(ctx *engine.Context, rule *term.Rule, firingKey string) map[int64]term.Term {
	out := map[int64]term.Term{}
	blanks := map[int64]*term.Blank{}
	for _, t := range rule.Conclusion {
		term.CollectBlanks(t.Subject, blanks)
		term.CollectBlanks(t.Predicate, blanks)
		term.CollectBlanks(t.Object, blanks)
	}
	for id, b := range blanks {
		if !rule.HeadBlanks[b.Label] {
			continue
		}
		out[id] = ctx.BlankMapper.Fresh(firingKey, b.Label)
	}
	return out
}

// headIsRuleTriple reports whether an instantiated head triple (which may
// still hold variables inside its quoted formulas) is itself a
// log:implies/log:impliedBy declaration, triggering rule promotion.
func headIsRuleTriple(t term.Triple) bool {
	iri, ok := t.Predicate.(*term.IRI)
	return ok && (iri.Value == ns.LogImplies || iri.Value == ns.LogImpliedBy)
}

// ruleAsTriple renders a promoted rule back to its canonical
// log:implies-shaped triple for the fact set.
func ruleAsTriple(rule *term.Rule, ctx *engine.Context) (term.Triple, bool) {
	premise := ctx.Interner.NewFormula(rule.Premise)
	conclusion := ctx.Interner.NewFormula(rule.Conclusion)
	if rule.Backward {
		return term.Triple{Subject: conclusion, Predicate: ctx.Interner.IRI(ns.LogImpliedBy), Object: premise}, true
	}
	return term.Triple{Subject: premise, Predicate: ctx.Interner.IRI(ns.LogImplies), Object: conclusion}, true
}

// groundHeadAlreadyKnown reports whether a rule's conclusion is written
// fully ground (no variables, no head blanks) and every conclusion triple
// is already a known fact, in which case its premise doesn't need
// re-proving.
func groundHeadAlreadyKnown(ctx *engine.Context, rule *term.Rule) bool {
	if len(rule.HeadBlanks) > 0 {
		return false
	}
	for _, t := range rule.Conclusion {
		if !t.Ground() {
			return false
		}
		if !ctx.Facts.Has(t) {
			return false
		}
	}
	return len(rule.Conclusion) > 0
}

// scopeArgOf reports whether t is a scoped-closure builtin goal and
// returns its scope argument: the subject for includes/notIncludes, the
// object for forAllIn, and the first element of the subject list for
// collectAllIn (whose object is its output list).
func scopeArgOf(t term.Triple) (term.Term, bool) {
	iri, ok := t.Predicate.(*term.IRI)
	if !ok {
		return nil, false
	}
	switch iri.Value {
	case ns.Log + "includes", ns.Log + "notIncludes":
		return t.Subject, true
	case ns.Log + "forAllIn":
		return t.Object, true
	case ns.Log + "collectAllIn":
		if lst, ok := t.Subject.(*term.List); ok && len(lst.Elems) > 0 {
			return lst.Elems[0], true
		}
		return t.Subject, true
	}
	return nil, false
}

// scanHasScoped reports whether any live rule's premise references a
// scoped-closure builtin anywhere; if not, Phase B is skipped entirely
// .
func scanHasScoped(ctx *engine.Context) bool {
	check := func(premise []term.Triple) bool {
		for _, t := range premise {
			if _, found := scopeArgOf(t); found {
				return true
			}
		}
		return false
	}
	for _, r := range ctx.ForwardRules {
		if check(r.Premise) {
			return true
		}
	}
	for _, r := range ctx.Rules.All() {
		if check(r.Premise) {
			return true
		}
	}
	return false
}

// scanMaxPriority discovers the maximum scoped priority referenced by any
// rule: a positive integer literal scope contributes its value, a
// variable or other non-formula scope contributes priority 1, and an
// explicit formula scope contributes no gating at all.
func scanMaxPriority(ctx *engine.Context) int {
	max := 0
	scan := func(premise []term.Triple) {
		for _, t := range premise {
			scope, found := scopeArgOf(t)
			if !found {
				continue
			}
			switch v := scope.(type) {
			case *term.Formula:
				// no priority gating
			case *term.Literal:
				if n, ok := term.ParseNumber(v); ok && n.Int != nil && n.Int.Sign() > 0 && n.Int.IsInt64() {
					if p := int(n.Int.Int64()); p > max {
						max = p
					}
					continue
				}
				if max < 1 {
					max = 1
				}
			default:
				if max < 1 {
					max = 1
				}
			}
		}
	}
	for _, r := range ctx.ForwardRules {
		scan(r.Premise)
	}
	for _, r := range ctx.Rules.All() {
		scan(r.Premise)
	}
	return max
}
