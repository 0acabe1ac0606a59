package index

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/term"
)

func TestFactsAddDeduplicatesAtomicTriples(t *testing.T) {
	in := term.NewInterner()
	f := NewFacts()
	s, p, o := in.IRI("http://ex/s"), in.IRI("http://ex/p"), in.IRI("http://ex/o")
	tr := term.Triple{Subject: s, Predicate: p, Object: o}

	require.True(t, f.Add(tr))
	require.False(t, f.Add(tr))
	require.Len(t, f.All, 1)
}

func TestFactsCandidatesNarrowsBySubjectOrObject(t *testing.T) {
	in := term.NewInterner()
	f := NewFacts()
	p := in.IRI("http://ex/parent")
	a, b, c := in.IRI("http://ex/a"), in.IRI("http://ex/b"), in.IRI("http://ex/c")

	f.Add(term.Triple{Subject: a, Predicate: p, Object: b})
	f.Add(term.Triple{Subject: a, Predicate: p, Object: c})
	f.Add(term.Triple{Subject: b, Predicate: p, Object: c})

	goal := term.Triple{Subject: a, Predicate: p, Object: in.Variable("x")}
	cands := f.Candidates(goal)
	require.Len(t, cands, 2)
	for _, idx := range cands {
		require.Equal(t, a, f.All[idx].Subject)
	}
}

func TestFactsCandidatesFallBackToPredicateBucket(t *testing.T) {
	in := term.NewInterner()
	f := NewFacts()
	p := in.IRI("http://ex/parent")
	a, b := in.IRI("http://ex/a"), in.IRI("http://ex/b")
	f.Add(term.Triple{Subject: a, Predicate: p, Object: b})

	goal := term.Triple{Subject: in.Variable("x"), Predicate: p, Object: in.Variable("y")}
	require.Len(t, f.Candidates(goal), 1)
}

func TestFactsSnapshotIsIndependentlyGrowable(t *testing.T) {
	in := term.NewInterner()
	f := NewFacts()
	p := in.IRI("http://ex/p")
	a, b := in.IRI("http://ex/a"), in.IRI("http://ex/b")
	f.Add(term.Triple{Subject: a, Predicate: p, Object: b})

	snap := f.Snapshot()
	snap.Add(term.Triple{Subject: b, Predicate: p, Object: a})

	require.Len(t, f.All, 1)
	require.Len(t, snap.All, 2)
}

func TestRulesAddDedupesByKey(t *testing.T) {
	in := term.NewInterner()
	r := NewRules()
	head := in.IRI("http://ex/ancestor")
	x, y := in.Variable("x"), in.Variable("y")
	rule := &term.Rule{
		Premise:    []term.Triple{{Subject: x, Predicate: in.IRI("http://ex/parent"), Object: y}},
		Conclusion: []term.Triple{{Subject: x, Predicate: head, Object: y}},
		Backward:   true,
	}
	require.True(t, r.Add(rule))
	require.False(t, r.Add(rule))
	require.Len(t, r.All(), 1)
}

func TestRulesCandidatesIncludesWildcardAndHeadMatch(t *testing.T) {
	in := term.NewInterner()
	r := NewRules()
	head := in.IRI("http://ex/ancestor")
	x := in.Variable("x")

	keyed := &term.Rule{
		Conclusion: []term.Triple{{Subject: x, Predicate: head, Object: x}},
		Backward:   true,
	}
	wildcard := &term.Rule{
		Conclusion: []term.Triple{
			{Subject: x, Predicate: head, Object: x},
			{Subject: x, Predicate: head, Object: x},
		},
		Backward: true,
	}
	r.Add(keyed)
	r.Add(wildcard)

	require.Len(t, r.Candidates(head), 2)
	require.Len(t, r.Candidates(in.Variable("other")), 1)
}
