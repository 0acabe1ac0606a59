package builtin

import (
	"context"
	"strconv"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func registerLog() {
	constraintBuiltins[ns.Log+"equalTo"] = true
	constraintBuiltins[ns.Log+"notEqualTo"] = true
	constraintBuiltins[ns.Log+"trace"] = true
	constraintBuiltins[ns.Log+"outputString"] = true

	register(ns.Log+"equalTo", false, logEqualTo(false))
	register(ns.Log+"notEqualTo", false, logEqualTo(true))
	register(ns.Log+"implies", true, logImplies(false))
	register(ns.Log+"impliedBy", true, logImplies(true))
	register(ns.Log+"conjunction", true, logConjunction)
	register(ns.Log+"conclusion", true, logConclusion)
	register(ns.Log+"content", true, logContent)
	register(ns.Log+"semantics", true, logSemantics(false))
	register(ns.Log+"semanticsOrError", true, logSemantics(true))
	register(ns.Log+"parsedAsN3", true, logSemantics(false))
	register(ns.Log+"rawType", true, logRawType)
	register(ns.Log+"dtlit", true, logDtlit)
	register(ns.Log+"langlit", true, logLanglit)
	register(ns.Log+"uri", true, logURI)
	register(ns.Log+"skolem", true, logSkolem)
	register(ns.Log+"trace", false, logTrace)
	register(ns.Log+"outputString", false, logOutputString)
}

// logEqualTo compares subject and object by structural term equality:
// alpha-equivalence for quoted formulas, datatype-aware equality for
// literals, identity otherwise.
func logEqualTo(negate bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		a := tr.Apply(goal.Subject)
		b := tr.Apply(goal.Object)
		eq := termsEquivalent(a, b)
		if eq == negate {
			return true
		}
		return onAlt()
	}
}

func termsEquivalent(a, b term.Term) bool {
	if fa, ok := a.(*term.Formula); ok {
		fb, ok2 := b.(*term.Formula)
		return ok2 && term.AlphaEqual(fa, fb)
	}
	la, ok1 := a.(*term.Literal)
	lb, ok2 := b.(*term.Literal)
	if ok1 && ok2 {
		return term.LiteralEqual(la, lb, term.EqOpts{BooleanByValue: true, IntDecimalCross: true})
	}
	return a.Id() != 0 && a.Id() == b.Id()
}

// logImplies treats `?P log:implies ?C` (or impliedBy, which swaps the
// roles) as data: it enumerates the live rule list, standardizing each
// rule's variables apart per instance, and unifies the goal's subject and
// object with the instance's premise and conclusion formulas.
func logImplies(swap bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		var rules []*term.Rule
		if swap {
			if ctx.Rules != nil {
				rules = ctx.Rules.All()
			}
		} else {
			rules = ctx.ForwardRules
		}
		for _, r := range rules {
			if r.Fuse {
				continue
			}
			premise, conclusion := standardizedFormulas(ctx, r)
			subjF, objF := premise, conclusion
			if swap {
				subjF, objF = conclusion, premise
			}
			if !unifyPairAlt(goal.Subject, subjF, goal.Object, objF, tr, onAlt) {
				return false
			}
		}
		return true
	}
}

// standardizedFormulas renames a rule's variables apart for one
// enumeration instance and wraps premise and conclusion as formulas.
func standardizedFormulas(ctx *engine.Context, r *term.Rule) (premise, conclusion *term.Formula) {
	suffix := "_" + strconv.FormatInt(ctx.NextRunID(), 10)
	vars := map[int64]*term.Variable{}
	for _, ts := range [][]term.Triple{r.Premise, r.Conclusion} {
		for _, t := range ts {
			term.CollectVars(t.Subject, vars)
			term.CollectVars(t.Predicate, vars)
			term.CollectVars(t.Object, vars)
		}
	}
	varMap := make(map[int64]term.Term, len(vars))
	for id, v := range vars {
		varMap[id] = ctx.Interner.Rename(v.Name + suffix)
	}
	p := make([]term.Triple, len(r.Premise))
	for i, t := range r.Premise {
		p[i] = term.RenameTriple(t, varMap, nil)
	}
	c := make([]term.Triple, len(r.Conclusion))
	for i, t := range r.Conclusion {
		c[i] = term.RenameTriple(t, varMap, nil)
	}
	return ctx.Interner.NewFormula(p), ctx.Interner.NewFormula(c)
}

// logConjunction takes a subject list of formulas and unifies the object
// with the formula holding the concatenation of their triples.
func logConjunction(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok {
		return true
	}
	var triples []term.Triple
	for _, e := range lst.Elems {
		f, ok := tr.Apply(e).(*term.Formula)
		if !ok {
			return true
		}
		triples = append(triples, f.Triples...)
	}
	out := ctx.Interner.NewFormula(triples)
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// logConclusion unifies the object with the deductive closure of the
// subject formula under the rules embedded within it.
func logConclusion(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	f, ok := tr.Apply(goal.Subject).(*term.Formula)
	if !ok || ctx.ForwardChain == nil {
		return true
	}
	closure, err := ctx.ForwardChain(ctx, goctx, f)
	if err != nil {
		return true
	}
	return unifyAlt(goal.Object, closure, tr, onAlt)
}

func logContent(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	iri, ok := asIRI(tr.Apply(goal.Subject))
	if !ok || ctx.Deref == nil {
		return true
	}
	text, err := ctx.Deref.Content(goctx, iri.Value)
	if err != nil {
		return true
	}
	out := ctx.Interner.Literal(text, ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

func logSemantics(orError bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		iri, ok := asIRI(tr.Apply(goal.Subject))
		if !ok || ctx.Deref == nil {
			return true
		}
		f, err := ctx.Deref.Semantics(goctx, iri.Value)
		if err != nil {
			if !orError {
				return true
			}
			errLit := ctx.Interner.Literal("error("+err.Error()+")", ns.XSDString, "")
			return unifyAlt(goal.Object, errLit, tr, onAlt)
		}
		return unifyAlt(goal.Object, f, tr, onAlt)
	}
}

// logRawType unifies the object with the datatype IRI of a literal subject
// (xsd:string when untyped and unlang-tagged).
func logRawType(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lit, ok := asLiteral(tr.Apply(goal.Subject))
	if !ok {
		return true
	}
	dt := lit.Datatype
	if dt == "" {
		dt = ns.XSDString
	}
	return unifyAlt(goal.Object, ctx.Interner.IRI(dt), tr, onAlt)
}

// logDtlit takes a subject list [lexical, datatype-IRI] and unifies the
// object with the resulting typed literal.
func logDtlit(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 2 {
		return true
	}
	lex, ok1 := lexOf(tr.Apply(lst.Elems[0]))
	dt, ok2 := asIRI(tr.Apply(lst.Elems[1]))
	if !ok1 || !ok2 {
		return true
	}
	out := ctx.Interner.Literal(lex, dt.Value, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// logLanglit takes a subject list [lexical, language-tag] and unifies the
// object with the resulting language-tagged literal.
func logLanglit(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 2 {
		return true
	}
	lex, ok1 := lexOf(tr.Apply(lst.Elems[0]))
	lang, ok2 := lexOf(tr.Apply(lst.Elems[1]))
	if !ok1 || !ok2 {
		return true
	}
	out := ctx.Interner.Literal(lex, "", lang)
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// logURI converts between an IRI and its string lexical form, whichever
// direction the subject is ground in.
func logURI(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	subj := tr.Apply(goal.Subject)
	switch v := subj.(type) {
	case *term.IRI:
		out := ctx.Interner.Literal(v.Value, ns.XSDString, "")
		return unifyAlt(goal.Object, out, tr, onAlt)
	case *term.Literal:
		return unifyAlt(goal.Object, ctx.Interner.IRI(v.Lex), tr, onAlt)
	}
	return true
}

func logSkolem(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	ground := tr.Apply(goal.Subject)
	if !term.Ground(ground) {
		return true
	}
	iri := ctx.Skolem.Skolemize(ground)
	return unifyAlt(goal.Object, iri, tr, onAlt)
}

// logTrace is a diagnostic predicate: it always succeeds (constraint
// builtin, produces no bindings) and writes no output.
func logTrace(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	return onAlt()
}

// logOutputString records its object string under its subject key for the
// CLI's --strings flag: the run accumulates these in call order and the
// host sorts them by key and prints the values once the run completes
// (the ordering rule is the host's concern, not the builtin's).
func logOutputString(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	ctx.Outputs = append(ctx.Outputs, engine.Output{Key: tr.Apply(goal.Subject), Value: tr.Apply(goal.Object)})
	return onAlt()
}
