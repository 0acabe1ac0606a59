package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func TestLogCollectAllInCollectsTemplatePerSolution(t *testing.T) {
	ctx, in := newTestContext()
	p := in.IRI("http://example.org/p")
	y := in.Variable("?y")
	body := in.NewFormula([]term.Triple{{Subject: y, Predicate: p, Object: intLit(in, "1")}})

	// Stub prover: two body solutions, binding the template variable.
	ctx.Prove = func(c *engine.Context, goctx context.Context, goals []term.Triple, tr *subst.Trail, depth int, onSolution func(subst.Delta) bool) bool {
		for _, lex := range []string{"1", "2"} {
			mark := tr.Mark()
			tr.Bind(y.Id(), intLit(in, lex))
			cont := onSolution(subst.Delta{y.Id(): intLit(in, lex)})
			tr.Undo(mark)
			if !cont {
				return false
			}
		}
		return true
	}

	scope := in.NewFormula(nil) // explicit formula scope: always open
	subj := in.NewList([]term.Term{scope, body, y})
	goal := term.Triple{Subject: subj, Predicate: in.IRI(ns.Log + "collectAllIn"), Object: in.Variable("?out")}
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	lst := got.(*term.List)
	require.Len(t, lst.Elems, 2)
	require.Equal(t, "1", lst.Elems[0].(*term.Literal).Lex)
	require.Equal(t, "2", lst.Elems[1].(*term.Literal).Lex)
}

func TestLogCollectAllInGatedUntilSnapshot(t *testing.T) {
	ctx, in := newTestContext()
	ctx.Prove = func(c *engine.Context, goctx context.Context, goals []term.Triple, tr *subst.Trail, depth int, onSolution func(subst.Delta) bool) bool {
		return true // body has no solutions
	}

	body := in.NewFormula(nil)
	subj := in.NewList([]term.Term{intLit(in, "1"), body, in.NewList(nil)})
	goal := term.Triple{Subject: subj, Predicate: in.IRI(ns.Log + "collectAllIn"), Object: in.Variable("?out")}

	// No snapshot yet: the integer scope stays gated closed.
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)

	// Once a snapshot at the scope's level exists, the gate opens and the
	// empty solution set collects the empty list.
	ctx.Snapshot = index.NewFacts()
	ctx.ClosureLevel = 1
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Empty(t, got.(*term.List).Elems)
}
