package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func listGoal(in *term.Interner, predIRI string, subj, obj term.Term) term.Triple {
	return term.Triple{Subject: subj, Predicate: in.IRI(predIRI), Object: obj}
}

func abcList(in *term.Interner) *term.List {
	return in.NewList([]term.Term{strLit(in, "a"), strLit(in, "b"), strLit(in, "c")})
}

func TestListLength(t *testing.T) {
	ctx, in := newTestContext()
	v := in.Variable("?n")
	goal := listGoal(in, ns.List+"length", abcList(in), v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "3", got.(*term.Literal).Lex)
}

func TestListMember(t *testing.T) {
	ctx, in := newTestContext()
	v := in.Variable("?m")
	goal := listGoal(in, ns.List+"member", abcList(in), v)
	got := evalAll(ctx, goal)
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].(*term.Literal).Lex)
	require.Equal(t, "c", got[2].(*term.Literal).Lex)
}

func TestListNotMember(t *testing.T) {
	ctx, in := newTestContext()
	present := listGoal(in, ns.List+"notMember", abcList(in), strLit(in, "a"))
	require.False(t, evalSucceeds(ctx, present))

	absent := listGoal(in, ns.List+"notMember", abcList(in), strLit(in, "z"))
	require.True(t, evalSucceeds(ctx, absent))
}

func TestListMemberAt(t *testing.T) {
	ctx, in := newTestContext()
	args := in.NewList([]term.Term{abcList(in), intLit(in, "1")})
	v := in.Variable("?e")
	goal := listGoal(in, ns.List+"memberAt", args, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "b", got.(*term.Literal).Lex)
}

func TestListMemberAtOutOfRangeFails(t *testing.T) {
	ctx, in := newTestContext()
	args := in.NewList([]term.Term{abcList(in), intLit(in, "5")})
	v := in.Variable("?e")
	goal := listGoal(in, ns.List+"memberAt", args, v)
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)
}

func TestListFirstAndRest(t *testing.T) {
	ctx, in := newTestContext()

	vf := in.Variable("?f")
	goalF := listGoal(in, ns.List+"first", abcList(in), vf)
	got, ok := evalFirst(ctx, goalF)
	require.True(t, ok)
	require.Equal(t, "a", got.(*term.Literal).Lex)

	vr := in.Variable("?r")
	goalR := listGoal(in, ns.List+"rest", abcList(in), vr)
	got, ok = evalFirst(ctx, goalR)
	require.True(t, ok)
	rest, ok := asList(got)
	require.True(t, ok)
	require.Len(t, rest.Elems, 2)
	require.Equal(t, "b", rest.Elems[0].(*term.Literal).Lex)
}

func TestListFirstRestDestructuring(t *testing.T) {
	ctx, in := newTestContext()
	vf := in.Variable("?f")
	vr := in.Variable("?r")
	pair := in.NewList([]term.Term{vf, vr})
	goal := listGoal(in, ns.List+"firstRest", abcList(in), pair)
	tr := subst.NewTrail()
	found := false
	var f, r term.Term
	Eval(ctx, context.Background(), goal, tr, 0, func() bool {
		f = tr.Apply(vf)
		r = tr.Apply(vr)
		found = true
		return false
	})
	require.True(t, found)
	require.Equal(t, "a", f.(*term.Literal).Lex)
	rl, ok := asList(r)
	require.True(t, ok)
	require.Len(t, rl.Elems, 2)
}

func TestListLast(t *testing.T) {
	ctx, in := newTestContext()
	v := in.Variable("?l")
	goal := listGoal(in, ns.List+"last", abcList(in), v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "c", got.(*term.Literal).Lex)
}

func TestListReverse(t *testing.T) {
	ctx, in := newTestContext()
	v := in.Variable("?rev")
	goal := listGoal(in, ns.List+"reverse", abcList(in), v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	lst, ok := asList(got)
	require.True(t, ok)
	require.Equal(t, []string{"c", "b", "a"}, lexSlice(lst.Elems))
}

func TestListSortNumeric(t *testing.T) {
	ctx, in := newTestContext()
	unsorted := in.NewList([]term.Term{intLit(in, "10"), intLit(in, "2"), intLit(in, "1")})
	v := in.Variable("?s")
	goal := listGoal(in, ns.List+"sort", unsorted, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	lst, ok := asList(got)
	require.True(t, ok)
	require.Equal(t, []string{"1", "2", "10"}, lexSlice(lst.Elems))
}

func TestListAppendConcatenates(t *testing.T) {
	ctx, in := newTestContext()
	first := in.NewList([]term.Term{strLit(in, "a"), strLit(in, "b")})
	second := in.NewList([]term.Term{strLit(in, "c")})
	lol := in.NewList([]term.Term{first, second})
	v := in.Variable("?all")
	goal := listGoal(in, ns.List+"append", lol, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	lst, ok := asList(got)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b", "c"}, lexSlice(lst.Elems))
}

func TestListAppendEnumeratesSplits(t *testing.T) {
	ctx, in := newTestContext()
	left := in.Variable("?left")
	right := in.Variable("?right")
	parts := in.NewList([]term.Term{left, right})
	goal := listGoal(in, ns.List+"append", parts, abcList(in))
	tr := subst.NewTrail()
	var splits [][2]int
	Eval(ctx, context.Background(), goal, tr, 0, func() bool {
		l, _ := asList(tr.Apply(left))
		r, _ := asList(tr.Apply(right))
		splits = append(splits, [2]int{len(l.Elems), len(r.Elems)})
		return true
	})
	require.Equal(t, [][2]int{{0, 3}, {1, 2}, {2, 1}, {3, 0}}, splits)
}

func TestListRemove(t *testing.T) {
	ctx, in := newTestContext()
	args := in.NewList([]term.Term{abcList(in), strLit(in, "b")})
	v := in.Variable("?out")
	goal := listGoal(in, ns.List+"remove", args, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	lst, ok := asList(got)
	require.True(t, ok)
	require.Equal(t, []string{"a", "c"}, lexSlice(lst.Elems))
}

func TestListIterate(t *testing.T) {
	ctx, in := newTestContext()
	v := in.Variable("?pair")
	goal := listGoal(in, ns.List+"iterate", abcList(in), v)
	got := evalAll(ctx, goal)
	require.Len(t, got, 3)
	first, ok := asList(got[0])
	require.True(t, ok)
	require.Equal(t, "0", first.Elems[0].(*term.Literal).Lex)
	require.Equal(t, "a", first.Elems[1].(*term.Literal).Lex)
}

func TestRDFFirstRestViaFactChain(t *testing.T) {
	ctx, in := newTestContext()
	head := in.Blank("l0")
	mid := in.Blank("l1")
	tail := in.Blank("l2")
	nilIRI := in.IRI(ns.RDFNil)
	firstPred := in.IRI(ns.RDFFirst)
	restPred := in.IRI(ns.RDFRest)

	ctx.Facts.Add(term.Triple{Subject: head, Predicate: firstPred, Object: strLit(in, "x")})
	ctx.Facts.Add(term.Triple{Subject: head, Predicate: restPred, Object: mid})
	ctx.Facts.Add(term.Triple{Subject: mid, Predicate: firstPred, Object: strLit(in, "y")})
	ctx.Facts.Add(term.Triple{Subject: mid, Predicate: restPred, Object: tail})
	ctx.Facts.Add(term.Triple{Subject: tail, Predicate: firstPred, Object: strLit(in, "z")})
	ctx.Facts.Add(term.Triple{Subject: tail, Predicate: restPred, Object: nilIRI})

	v := in.Variable("?n")
	goal := listGoal(in, ns.List+"length", head, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "3", got.(*term.Literal).Lex)
}

func lexSlice(ts []term.Term) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.(*term.Literal).Lex
	}
	return out
}
