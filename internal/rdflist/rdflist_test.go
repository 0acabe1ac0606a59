package rdflist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/term"
)

const (
	rdfFirst = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	rdfRest  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	rdfNil   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
)

func TestMaterializeFoldsConsChain(t *testing.T) {
	in := term.NewInterner()
	first, rest, nilIRI := in.IRI(rdfFirst), in.IRI(rdfRest), in.IRI(rdfNil)
	b1, b2 := in.Blank("b1"), in.Blank("b2")
	a, b := in.IRI("http://ex/a"), in.IRI("http://ex/b")
	p := in.IRI("http://ex/p")

	triples := []term.Triple{
		{Subject: in.IRI("http://ex/s"), Predicate: p, Object: b1},
		{Subject: b1, Predicate: first, Object: a},
		{Subject: b1, Predicate: rest, Object: b2},
		{Subject: b2, Predicate: first, Object: b},
		{Subject: b2, Predicate: rest, Object: nilIRI},
	}

	out := Materialize(in, triples, rdfFirst, rdfRest, rdfNil)
	require.Len(t, out, 1)
	lst, ok := out[0].Object.(*term.List)
	require.True(t, ok)
	require.Equal(t, []term.Term{a, b}, lst.Elems)
}

func TestMaterializeLeavesIncompleteChainUntouched(t *testing.T) {
	in := term.NewInterner()
	first := in.IRI(rdfFirst)
	b1 := in.Blank("b1")
	a := in.IRI("http://ex/a")

	triples := []term.Triple{
		{Subject: b1, Predicate: first, Object: a},
	}
	out := Materialize(in, triples, rdfFirst, rdfRest, rdfNil)
	require.Equal(t, triples, out)
}

func TestMaterializeDetectsCycleAndLeavesItAlone(t *testing.T) {
	in := term.NewInterner()
	first, rest := in.IRI(rdfFirst), in.IRI(rdfRest)
	b1, b2 := in.Blank("b1"), in.Blank("b2")
	a := in.IRI("http://ex/a")

	triples := []term.Triple{
		{Subject: b1, Predicate: first, Object: a},
		{Subject: b1, Predicate: rest, Object: b2},
		{Subject: b2, Predicate: first, Object: a},
		{Subject: b2, Predicate: rest, Object: b1},
	}
	out := Materialize(in, triples, rdfFirst, rdfRest, rdfNil)
	require.Len(t, out, 4, "a cyclic chain is never well-formed, so nothing is consumed")
}

func TestMaterializeRewritesNestedFormula(t *testing.T) {
	in := term.NewInterner()
	first, rest, nilIRI := in.IRI(rdfFirst), in.IRI(rdfRest), in.IRI(rdfNil)
	b1 := in.Blank("b1")
	a := in.IRI("http://ex/a")
	p := in.IRI("http://ex/p")
	s := in.IRI("http://ex/s")

	inner := []term.Triple{{Subject: s, Predicate: p, Object: b1}}
	outer := []term.Triple{
		{Subject: s, Predicate: p, Object: in.NewFormula(inner)},
		{Subject: b1, Predicate: first, Object: a},
		{Subject: b1, Predicate: rest, Object: nilIRI},
	}

	out := Materialize(in, outer, rdfFirst, rdfRest, rdfNil)
	require.Len(t, out, 1)
	formula, ok := out[0].Object.(*term.Formula)
	require.True(t, ok)
	lst, ok := formula.Triples[0].Object.(*term.List)
	require.True(t, ok)
	require.Equal(t, []term.Term{a}, lst.Elems)
}
