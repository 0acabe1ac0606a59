// Package deriv implements the derivation recorder: it captures
// one append-only DerivedFact per fired rule head (conclusion triple,
// producing rule, instantiated premise snapshot, firing substitution) and
// can render a human-readable proof when the engine runs with --proof-comments.
package deriv

import (
	"fmt"
	"strings"

	"github.com/eyereasoner/eyeling/internal/term"
)

// Recorder accumulates DerivedFacts across a reasoning run. It never
// removes entries.
type Recorder struct {
	Records []*term.DerivedFact
}

// New returns an empty derivation recorder.
func New() *Recorder {
	return &Recorder{}
}

// Record appends one derivation: the conclusion triple, the rule that
// produced it, the ground premise instance, and the substitution active at
// firing time.
func (r *Recorder) Record(conclusion term.Triple, rule *term.Rule, premises []term.Triple, bindings map[string]term.Term) {
	r.Records = append(r.Records, &term.DerivedFact{
		Triple:   conclusion,
		Rule:     rule,
		Premises: premises,
		Bindings: bindings,
	})
}

// Explain renders a one-line, human-readable justification for a derived
// triple, in the style of EYE's `# ` proof comments: the conclusion
// followed by the premises it was derived from.
func Explain(d *term.DerivedFact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# derived %s", d.Triple.String())
	if len(d.Premises) > 0 {
		b.WriteString(" from")
		for _, p := range d.Premises {
			fmt.Fprintf(&b, " %s", p.String())
		}
	}
	return b.String()
}

// ForTriple returns the derivation record for a triple, or nil if it was
// an input fact rather than a derived one.
func (r *Recorder) ForTriple(t term.Triple) *term.DerivedFact {
	for _, d := range r.Records {
		if tripleEqual(d.Triple, t) {
			return d
		}
	}
	return nil
}

func tripleEqual(a, b term.Triple) bool {
	return termEqual(a.Subject, b.Subject) && termEqual(a.Predicate, b.Predicate) && termEqual(a.Object, b.Object)
}

func termEqual(a, b term.Term) bool {
	if a.Id() != 0 && b.Id() != 0 {
		return a.Id() == b.Id()
	}
	return a.String() == b.String()
}
