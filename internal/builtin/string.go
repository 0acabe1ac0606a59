package builtin

import (
	"context"
	"regexp"
	"strings"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func registerString() {
	constraintBuiltins[ns.Str+"contains"] = true
	constraintBuiltins[ns.Str+"containsIgnoringCase"] = true
	constraintBuiltins[ns.Str+"startsWith"] = true
	constraintBuiltins[ns.Str+"endsWith"] = true
	constraintBuiltins[ns.Str+"equalsIgnoringCase"] = true
	constraintBuiltins[ns.Str+"notEqualsIgnoringCase"] = true
	constraintBuiltins[ns.Str+"matches"] = true
	constraintBuiltins[ns.Str+"notMatches"] = true

	register(ns.Str+"concatenation", true, strConcatenation)
	register(ns.Str+"format", true, strFormat)
	register(ns.Str+"contains", false, strPredicate(func(s, sub string) bool { return strings.Contains(s, sub) }))
	register(ns.Str+"containsIgnoringCase", false, strPredicate(func(s, sub string) bool {
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	}))
	register(ns.Str+"startsWith", false, strPredicate(strings.HasPrefix))
	register(ns.Str+"endsWith", false, strPredicate(strings.HasSuffix))
	register(ns.Str+"equalsIgnoringCase", false, strPredicate(func(s, o string) bool {
		return strings.EqualFold(s, o)
	}))
	register(ns.Str+"notEqualsIgnoringCase", false, strPredicate(func(s, o string) bool {
		return !strings.EqualFold(s, o)
	}))
	register(ns.Str+"matches", false, strMatches(false))
	register(ns.Str+"notMatches", false, strMatches(true))
	register(ns.Str+"replace", true, strReplace)
	register(ns.Str+"scrape", true, strScrape)
}

// strPredicate wires a two-argument (subject string, object string) test
// builtin that produces no bindings, the shape shared by contains/
// startsWith/endsWith/equalsIgnoringCase.
func strPredicate(test func(subj, obj string) bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		s, ok1 := lexOf(tr.Apply(goal.Subject))
		o, ok2 := lexOf(tr.Apply(goal.Object))
		if !ok1 || !ok2 || !test(s, o) {
			return true
		}
		return onAlt()
	}
}

func strMatches(negate bool) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		s, ok1 := lexOf(tr.Apply(goal.Subject))
		pat, ok2 := lexOf(tr.Apply(goal.Object))
		if !ok1 || !ok2 {
			return true
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return true
		}
		matched := re.MatchString(s)
		if matched == negate {
			return true
		}
		return onAlt()
	}
}

// strConcatenation takes a subject list of strings and unifies the object
// with their concatenation.
func strConcatenation(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok {
		return true
	}
	var sb strings.Builder
	for _, e := range lst.Elems {
		s, ok := lexOf(tr.Apply(e))
		if !ok {
			return true
		}
		sb.WriteString(s)
	}
	out := ctx.Interner.Literal(sb.String(), ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// strFormat takes a subject list whose head is a printf-style template and
// whose tail is the arguments, unifying the object with the formatted
// result. Each %s, %d, %f or %g slot takes the next argument's lexical form
// positionally, with no Go printf formatting applied; "%%" yields a literal
// percent, and a slot with no argument left is dropped.
func strFormat(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) == 0 {
		return true
	}
	tmpl, ok := lexOf(tr.Apply(lst.Elems[0]))
	if !ok {
		return true
	}
	args := lst.Elems[1:]
	var sb strings.Builder
	ai := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) {
			switch tmpl[i+1] {
			case '%':
				sb.WriteByte('%')
				i++
				continue
			case 's', 'd', 'f', 'g':
				if ai < len(args) {
					s, _ := lexOf(tr.Apply(args[ai]))
					sb.WriteString(s)
					ai++
				}
				i++
				continue
			}
		}
		sb.WriteByte(tmpl[i])
	}
	out := ctx.Interner.Literal(sb.String(), ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// strReplace takes a subject list [string, pattern, replacement] and
// unifies the object with the result of the regex substitution.
func strReplace(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 3 {
		return true
	}
	s, ok1 := lexOf(tr.Apply(lst.Elems[0]))
	pat, ok2 := lexOf(tr.Apply(lst.Elems[1]))
	repl, ok3 := lexOf(tr.Apply(lst.Elems[2]))
	if !ok1 || !ok2 || !ok3 {
		return true
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return true
	}
	out := ctx.Interner.Literal(re.ReplaceAllString(s, repl), ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// strScrape takes a subject list [string, pattern] and unifies the object
// with the first capture group (or whole match, if the pattern has no
// group) of the first match.
func strScrape(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 2 {
		return true
	}
	s, ok1 := lexOf(tr.Apply(lst.Elems[0]))
	pat, ok2 := lexOf(tr.Apply(lst.Elems[1]))
	if !ok1 || !ok2 {
		return true
	}
	re, err := regexp.Compile(pat)
	if err != nil {
		return true
	}
	m := re.FindStringSubmatch(s)
	if m == nil {
		return true
	}
	result := m[0]
	if len(m) > 1 {
		result = m[1]
	}
	out := ctx.Interner.Literal(result, ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}
