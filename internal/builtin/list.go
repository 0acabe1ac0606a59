package builtin

import (
	"context"
	"sort"
	"strconv"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
	"github.com/eyereasoner/eyeling/internal/unify"
)

func registerList() {
	register(ns.List+"length", true, listLength)
	register(ns.List+"member", true, listMember)
	register(ns.List+"in", true, listMember) // list:in is member with swapped arg order at the syntax level; same semantics here
	register(ns.List+"notMember", false, listNotMember)
	register(ns.List+"notIn", false, listNotMember)
	register(ns.List+"memberAt", true, listMemberAt)
	register(ns.List+"first", true, listFirst)
	register(ns.List+"rest", true, listRest)
	register(ns.List+"last", true, listLast)
	register(ns.List+"reverse", true, listReverse)
	register(ns.List+"sort", true, listSort)
	register(ns.List+"append", true, listAppend)
	register(ns.List+"firstRest", true, listFirstRest)
	register(ns.List+"remove", true, listRemove)
	register(ns.List+"iterate", true, listIterate)
	register(ns.List+"map", true, listMap)

	register(ns.RDFFirst, true, listFirst)
	register(ns.RDFRest, true, listRest)

	constraintBuiltins[ns.List+"notMember"] = true
	constraintBuiltins[ns.List+"notIn"] = true
}

// resolveListLike resolves a term to its element slice whether it is a
// native list term or the head of an rdf:first/rdf:rest chain traversed
// through facts. Cycles through
// the fact graph are rejected rather than looped forever.
func resolveListLike(ctx *engine.Context, tr *subst.Trail, t term.Term) ([]term.Term, bool) {
	t = tr.Apply(t)
	if lst, ok := asList(t); ok {
		return lst.Elems, true
	}
	switch t.(type) {
	case *term.IRI, *term.Blank:
	default:
		return nil, false
	}
	facts := ctx.FactSource()
	var elems []term.Term
	visited := map[int64]bool{}
	cur := t
	for {
		var id int64
		switch v := cur.(type) {
		case *term.IRI:
			id = v.Id()
		case *term.Blank:
			id = v.Id()
		default:
			return nil, false
		}
		if v, ok := cur.(*term.IRI); ok && v.Value == ns.RDFNil {
			return elems, true
		}
		if visited[id] {
			return nil, false // cycle
		}
		visited[id] = true

		firstPred := ctx.Interner.IRI(ns.RDFFirst)
		restPred := ctx.Interner.IRI(ns.RDFRest)
		var first, rest term.Term
		for _, idx := range facts.Candidates(term.Triple{Subject: cur, Predicate: firstPred, Object: &term.Variable{}}) {
			f := facts.All[idx]
			if sameNode(f.Subject, cur) {
				first = f.Object
			}
		}
		for _, idx := range facts.Candidates(term.Triple{Subject: cur, Predicate: restPred, Object: &term.Variable{}}) {
			f := facts.All[idx]
			if sameNode(f.Subject, cur) {
				rest = f.Object
			}
		}
		if first == nil || rest == nil {
			return nil, false
		}
		elems = append(elems, first)
		cur = rest
	}
}

func sameNode(a, b term.Term) bool {
	if a.Id() != 0 && b.Id() != 0 {
		return a.Id() == b.Id()
	}
	return a.String() == b.String()
}

func listLength(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	n := ctx.Interner.Literal(strconv.Itoa(len(elems)), ns.XSDInteger, "")
	return unifyAlt(goal.Object, n, tr, onAlt)
}

func listMember(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	for _, e := range elems {
		if !unifyAlt(goal.Object, e, tr, onAlt) {
			return false
		}
	}
	return true
}

func listNotMember(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	target := tr.Apply(goal.Object)
	for _, e := range elems {
		if unifyEqualNoBind(e, target, tr) {
			return true // is a member: notMember goal fails
		}
	}
	return onAlt()
}

func unifyEqualNoBind(a, b term.Term, tr *subst.Trail) bool {
	mark := tr.Mark()
	ok := unify.Unify(a, b, tr, unify.General)
	tr.Undo(mark)
	return ok
}

// listMemberAt takes a two-element subject list (the target list and a
// zero-based integer index) and unifies the object with the element at
// that position.
func listMemberAt(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	args, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(args.Elems) != 2 {
		return true
	}
	elems, ok := resolveListLike(ctx, tr, args.Elems[0])
	idxLit, ok2 := asLiteral(args.Elems[1])
	if !ok || !ok2 {
		return true
	}
	idxN, ok := term.ParseNumber(idxLit)
	if !ok || idxN.Int == nil || !idxN.Int.IsInt64() {
		return true
	}
	i := idxN.Int.Int64()
	if i < 0 || i >= int64(len(elems)) {
		return true
	}
	return unifyAlt(goal.Object, elems[i], tr, onAlt)
}

func listFirst(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok || len(elems) == 0 {
		return true
	}
	return unifyAlt(goal.Object, elems[0], tr, onAlt)
}

func listRest(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok || len(elems) == 0 {
		return true
	}
	rest := &term.List{Elems: append([]term.Term{}, elems[1:]...)}
	return unifyAlt(goal.Object, rest, tr, onAlt)
}

func listFirstRest(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	pair, ok := asList(tr.Apply(goal.Object))
	elems, lok := resolveListLike(ctx, tr, goal.Subject)
	if !lok || len(elems) == 0 {
		return true
	}
	first := elems[0]
	rest := &term.List{Elems: append([]term.Term{}, elems[1:]...)}
	if ok && len(pair.Elems) == 2 {
		return unifyPairAlt(pair.Elems[0], first, pair.Elems[1], rest, tr, onAlt)
	}
	want := &term.List{Elems: []term.Term{first, rest}}
	return unifyAlt(goal.Object, want, tr, onAlt)
}

func listLast(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok || len(elems) == 0 {
		return true
	}
	return unifyAlt(goal.Object, elems[len(elems)-1], tr, onAlt)
}

func listReverse(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	rev := make([]term.Term, len(elems))
	for i, e := range elems {
		rev[len(elems)-1-i] = e
	}
	return unifyAlt(goal.Object, &term.List{Elems: rev}, tr, onAlt)
}

// listSort uses a type-tolerant comparator: numbers compare numerically,
// everything else lexicographically by rendered form.
func listSort(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	sorted := append([]term.Term{}, elems...)
	sort.SliceStable(sorted, func(i, j int) bool { return lessTolerant(sorted[i], sorted[j]) })
	return unifyAlt(goal.Object, &term.List{Elems: sorted}, tr, onAlt)
}

func lessTolerant(a, b term.Term) bool {
	an, aok := asLiteral(a)
	bn, bok := asLiteral(b)
	if aok && bok {
		na, nok := term.ParseNumber(an)
		nb, nbok := term.ParseNumber(bn)
		if nok && nbok {
			return term.Compare(na, nb) < 0
		}
	}
	return a.String() < b.String()
}

// listAppend implements the bidirectional splitting behavior:
// when every subject element is a list, concatenate them; otherwise, when
// the subject is a two-element list and the object is a list, enumerate
// every way to split the object into those two parts. Subjects of any
// other length are not split.
func listAppend(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	if lst, ok := asList(tr.Apply(goal.Subject)); ok {
		parts := make([][]term.Term, 0, len(lst.Elems))
		allLists := true
		for _, e := range lst.Elems {
			sub, ok := asList(tr.Apply(e))
			if !ok {
				allLists = false
				break
			}
			parts = append(parts, sub.Elems)
		}
		if allLists {
			out := []term.Term{}
			for _, p := range parts {
				out = append(out, p...)
			}
			return unifyAlt(goal.Object, &term.List{Elems: out}, tr, onAlt)
		}
	}
	// Enumerate splits of a ground object list into two parts when the
	// subject is a two-element list of unbound/partial pieces.
	if lst, ok := asList(tr.Apply(goal.Subject)); ok && len(lst.Elems) == 2 {
		whole, ok := asList(tr.Apply(goal.Object))
		if !ok {
			return true
		}
		for i := 0; i <= len(whole.Elems); i++ {
			left := &term.List{Elems: append([]term.Term{}, whole.Elems[:i]...)}
			right := &term.List{Elems: append([]term.Term{}, whole.Elems[i:]...)}
			if !unifyPairAltV(lst.Elems[0], left, lst.Elems[1], right, tr, unify.ListAppend, onAlt) {
				return false
			}
		}
	}
	return true
}

// listRemove takes a two-element subject list (the target list and the
// value to remove) and unifies the object with the list that has every
// occurrence of that value removed.
func listRemove(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	args, ok := asList(tr.Apply(goal.Subject))
	if !ok || len(args.Elems) != 2 {
		return true
	}
	elems, ok := resolveListLike(ctx, tr, args.Elems[0])
	if !ok {
		return true
	}
	target := tr.Apply(args.Elems[1])
	out := make([]term.Term, 0, len(elems))
	for _, e := range elems {
		if unifyEqualNoBind(e, target, tr) {
			continue
		}
		out = append(out, e)
	}
	return unifyAlt(goal.Object, &term.List{Elems: out}, tr, onAlt)
}

// listIterate enumerates (index, element) pairs as a two-element list,
// mirroring cwm/EYE's list:iterate.
func listIterate(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	for i, e := range elems {
		idx := ctx.Interner.Literal(strconv.Itoa(i), ns.XSDInteger, "")
		pair := &term.List{Elems: []term.Term{idx, e}}
		if !unifyAlt(goal.Object, pair, tr, onAlt) {
			return false
		}
	}
	return true
}

// listMap unifies the object with the subject list's elements unchanged;
// no per-element relation is applied.
func listMap(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
	elems, ok := resolveListLike(ctx, tr, goal.Subject)
	if !ok {
		return true
	}
	return unifyAlt(goal.Object, &term.List{Elems: elems}, tr, onAlt)
}
