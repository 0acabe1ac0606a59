package prover

import (
	"strconv"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/term"
)

// standardizeApart renames every variable and blank in a backward rule's
// premise and (single) head to fresh ones for this expansion, so repeated
// uses of the same rule within one search never alias each other's
// bindings.
func standardizeApart(ctx *engine.Context, rule *term.Rule) (premise []term.Triple, head term.Triple) {
	suffix := "_" + strconv.FormatInt(ctx.NextRunID(), 10)

	vars := map[int64]*term.Variable{}
	blanks := map[int64]*term.Blank{}
	for _, t := range rule.Premise {
		term.CollectVars(t.Subject, vars)
		term.CollectVars(t.Predicate, vars)
		term.CollectVars(t.Object, vars)
		term.CollectBlanks(t.Subject, blanks)
		term.CollectBlanks(t.Predicate, blanks)
		term.CollectBlanks(t.Object, blanks)
	}
	for _, t := range rule.Conclusion {
		term.CollectVars(t.Subject, vars)
		term.CollectVars(t.Predicate, vars)
		term.CollectVars(t.Object, vars)
		term.CollectBlanks(t.Subject, blanks)
		term.CollectBlanks(t.Predicate, blanks)
		term.CollectBlanks(t.Object, blanks)
	}

	varMap := make(map[int64]term.Term, len(vars))
	for id, v := range vars {
		varMap[id] = ctx.Interner.Rename(v.Name + suffix)
	}
	blankMap := make(map[int64]term.Term, len(blanks))
	for id, b := range blanks {
		blankMap[id] = ctx.Interner.FreshBlank(b.Label + suffix)
	}

	premise = make([]term.Triple, len(rule.Premise))
	for i, t := range rule.Premise {
		premise[i] = term.RenameTriple(t, varMap, blankMap)
	}
	// Rule.Key()/queryability requires a single-head backward rule;
	// callers only invoke standardizeApart for such rules.
	head = term.RenameTriple(rule.Conclusion[0], varMap, blankMap)
	return premise, head
}
