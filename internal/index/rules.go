package index

import "github.com/eyereasoner/eyeling/internal/term"

// Rules indexes backward ("<=") rules by their head predicate so the
// prover can narrow rule expansion candidates to those whose head could
// possibly unify with the goal. Single-head rules whose head
// predicate is an IRI are keyed by that IRI's string value; every other
// backward rule (non-IRI head predicate, or more than one head triple)
// goes into the wildcard bucket and is always considered.
type Rules struct {
	byHeadPred map[string][]*term.Rule
	wildcard   []*term.Rule
	seen       map[string]bool
}

// NewRules returns an empty backward-rule index.
func NewRules() *Rules {
	return &Rules{
		byHeadPred: make(map[string][]*term.Rule),
		seen:       make(map[string]bool),
	}
}

// Add indexes a backward rule, deduplicating by Rule.Key so promoted
// rules never register twice.
func (r *Rules) Add(rule *term.Rule) bool {
	key := rule.Key()
	if r.seen[key] {
		return false
	}
	r.seen[key] = true
	if len(rule.Conclusion) == 1 {
		if iri, ok := rule.Conclusion[0].Predicate.(*term.IRI); ok {
			r.byHeadPred[iri.Value] = append(r.byHeadPred[iri.Value], rule)
			return true
		}
	}
	r.wildcard = append(r.wildcard, rule)
	return true
}

// Candidates returns every backward rule whose head might unify with the
// given goal predicate: the predicate-specific bucket plus the wildcard
// bucket.
func (r *Rules) Candidates(predicate term.Term) []*term.Rule {
	out := append([]*term.Rule{}, r.wildcard...)
	if iri, ok := predicate.(*term.IRI); ok {
		out = append(out, r.byHeadPred[iri.Value]...)
	}
	return out
}

// All returns every indexed backward rule (wildcard and keyed), used by
// log:implies/log:impliedBy enumeration.
func (r *Rules) All() []*term.Rule {
	out := append([]*term.Rule{}, r.wildcard...)
	for _, rs := range r.byHeadPred {
		out = append(out, rs...)
	}
	return out
}
