package builtin

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func registerTime() {
	register(ns.Time+"localTime", true, timeLocalTime)
	register(ns.Time+"year", true, timeField(func(t time.Time) int { return t.Year() }))
	register(ns.Time+"month", true, timeField(func(t time.Time) int { return int(t.Month()) }))
	register(ns.Time+"day", true, timeField(func(t time.Time) int { return t.Day() }))
	register(ns.Time+"hour", true, timeField(func(t time.Time) int { return t.Hour() }))
	register(ns.Time+"minute", true, timeField(func(t time.Time) int { return t.Minute() }))
	register(ns.Time+"second", true, timeField(func(t time.Time) int { return t.Second() }))
	register(ns.Time+"timeZone", true, timeZone)
	register(ns.Time+"inSeconds", true, timeInSeconds)
}

func parseDateTime(lex string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, lex); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeLocalTime unifies the object with the current local time as an
// xsd:dateTime literal; the subject is ignored (cwm/EYE's time:localTime
// takes any term as subject and produces "now").
func timeLocalTime(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	now := time.Now()
	out := ctx.Interner.Literal(now.Format(time.RFC3339), ns.XSDDateTime, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

func timeField(get func(time.Time) int) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		lex, ok := lexOf(tr.Apply(goal.Subject))
		if !ok {
			return true
		}
		t, ok := parseDateTime(lex)
		if !ok {
			return true
		}
		out := ctx.Interner.Literal(fmt.Sprintf("%d", get(t)), ns.XSDInteger, "")
		return unifyAlt(goal.Object, out, tr, onAlt)
	}
}

func timeZone(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lex, ok := lexOf(tr.Apply(goal.Subject))
	if !ok {
		return true
	}
	t, ok := parseDateTime(lex)
	if !ok {
		return true
	}
	name, _ := t.Zone()
	out := ctx.Interner.Literal(name, ns.XSDString, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// timeInSeconds takes a subject list of two xsd:dateTime literals and
// unifies the object with their difference in seconds as an xsd:decimal
// (supplement: the distillation's "time:" prose covers duration arithmetic
// without naming an exact IRI; inSeconds is the original's convention for
// datetime subtraction).
func timeInSeconds(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 2 {
		return true
	}
	aLex, ok1 := lexOf(tr.Apply(lst.Elems[0]))
	bLex, ok2 := lexOf(tr.Apply(lst.Elems[1]))
	if !ok1 || !ok2 {
		return true
	}
	a, ok1 := parseDateTime(aLex)
	b, ok2 := parseDateTime(bLex)
	if !ok1 || !ok2 {
		return true
	}
	diff := a.Sub(b).Seconds()
	out := ctx.Interner.Literal(fmt.Sprintf("%g", diff), ns.XSDDecimal, "")
	return unifyAlt(goal.Object, out, tr, onAlt)
}

// temporalDifference handles math:difference over temporal operands:
// two xsd:date/xsd:dateTime literals subtract to an xsd:duration, and a
// dateTime minus an xsd:duration or a numeric second count yields an
// xsd:dateTime. handled=false hands the goal to the numeric path.
func temporalDifference(ctx *engine.Context, goal term.Triple, tr *subst.Trail, onAlt func() bool) (handled, cont bool) {
	lst, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(lst.Elems) != 2 {
		return false, true
	}
	aLit, okA := asLiteral(tr.Apply(lst.Elems[0]))
	bLit, okB := asLiteral(tr.Apply(lst.Elems[1]))
	if !okA || !okB || !isTemporalDatatype(aLit.Datatype) {
		return false, true
	}
	a, ok := parseDateTime(aLit.Lex)
	if !ok {
		return true, true
	}
	if isTemporalDatatype(bLit.Datatype) {
		b, ok := parseDateTime(bLit.Lex)
		if !ok {
			return true, true
		}
		out := ctx.Interner.Literal(formatDuration(a.Sub(b)), ns.XSDDuration, "")
		return true, unifyAlt(goal.Object, out, tr, onAlt)
	}
	var d time.Duration
	if bLit.Datatype == ns.XSDDuration {
		dd, ok := parseDuration(bLit.Lex)
		if !ok {
			return true, true
		}
		d = dd
	} else {
		n, ok := term.ParseNumber(bLit)
		if !ok {
			return true, true
		}
		d = time.Duration(n.Float * float64(time.Second))
	}
	out := ctx.Interner.Literal(a.Add(-d).Format(time.RFC3339), ns.XSDDateTime, "")
	return true, unifyAlt(goal.Object, out, tr, onAlt)
}

func isTemporalDatatype(dt string) bool {
	return dt == ns.XSDDateTime || dt == ns.XSDDate
}

// formatDuration renders a time.Duration as an xsd:duration lexical form,
// restricted to the day/hour/minute/second fields a time.Duration carries.
func formatDuration(d time.Duration) string {
	neg := d < 0
	if neg {
		d = -d
	}
	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	hours := secs / 3600
	secs %= 3600
	mins := secs / 60
	secs %= 60

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || mins > 0 || secs > 0 || days == 0 {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if mins > 0 {
			fmt.Fprintf(&b, "%dM", mins)
		}
		if secs > 0 || (hours == 0 && mins == 0) {
			fmt.Fprintf(&b, "%dS", secs)
		}
	}
	return b.String()
}

// parseDuration parses the day/time fields of an xsd:duration. Year and
// month fields have no fixed second length and are rejected.
func parseDuration(lex string) (time.Duration, bool) {
	s := lex
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, false
	}
	s = s[1:]
	datePart, timePart := s, ""
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}
	var total time.Duration
	readFields := func(part string, units map[byte]time.Duration) bool {
		for part != "" {
			j := 0
			for j < len(part) && (part[j] >= '0' && part[j] <= '9' || part[j] == '.') {
				j++
			}
			if j == 0 || j == len(part) {
				return false
			}
			val, err := strconv.ParseFloat(part[:j], 64)
			if err != nil {
				return false
			}
			unit, ok := units[part[j]]
			if !ok {
				return false
			}
			total += time.Duration(val * float64(unit))
			part = part[j+1:]
		}
		return true
	}
	if !readFields(datePart, map[byte]time.Duration{'D': 24 * time.Hour}) {
		return 0, false
	}
	if !readFields(timePart, map[byte]time.Duration{'H': time.Hour, 'M': time.Minute, 'S': time.Second}) {
		return 0, false
	}
	if neg {
		total = -total
	}
	return total, true
}
