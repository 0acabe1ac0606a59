package term

// AlphaEqual reports whether two quoted formulas are equal up to a
// consistent renaming of their variables and blank nodes, with triple
// order inside each formula irrelevant. This is a bounded
// backtracking multiset match: each triple of a is paired with some triple
// of b, threading a bijective variable/blank mapping through the pairing,
// pruning pairs whose predicate IRIs disagree — the same shape as the
// unifier's formula case, but building a renaming instead of a
// substitution.
func AlphaEqual(a, b *Formula) bool {
	if len(a.Triples) != len(b.Triples) {
		return false
	}
	used := make([]bool, len(b.Triples))
	return matchTriples(a.Triples, b.Triples, used, map[int64]int64{}, map[int64]int64{})
}

func matchTriples(as, bs []Triple, used []bool, fwd, bwd map[int64]int64) bool {
	if len(as) == 0 {
		return true
	}
	head := as[0]
	for j, cand := range bs {
		if used[j] {
			continue
		}
		if !samePredicateShape(head.Predicate, cand.Predicate) {
			continue
		}
		fwd2 := cloneMap(fwd)
		bwd2 := cloneMap(bwd)
		if !alphaEqualTerm(head.Subject, cand.Subject, fwd2, bwd2) {
			continue
		}
		if !alphaEqualTerm(head.Predicate, cand.Predicate, fwd2, bwd2) {
			continue
		}
		if !alphaEqualTerm(head.Object, cand.Object, fwd2, bwd2) {
			continue
		}
		used[j] = true
		if matchTriples(as[1:], bs, used, fwd2, bwd2) {
			return true
		}
		used[j] = false
	}
	return false
}

// samePredicateShape is a cheap pre-filter: if both predicates are
// grounded IRIs they must match exactly before we bother threading a
// mapping through the rest of the triple.
func samePredicateShape(p1, p2 Term) bool {
	i1, ok1 := p1.(*IRI)
	i2, ok2 := p2.(*IRI)
	if ok1 && ok2 {
		return i1.Value == i2.Value
	}
	return true
}

func cloneMap(m map[int64]int64) map[int64]int64 {
	n := make(map[int64]int64, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}

func alphaEqualTerm(a, b Term, fwd, bwd map[int64]int64) bool {
	switch av := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		if !ok {
			return false
		}
		return mapConsistent(av.id, bv.id, fwd, bwd)
	case *Blank:
		bv, ok := b.(*Blank)
		if !ok {
			return false
		}
		return mapConsistent(av.id, bv.id, fwd, bwd)
	case *IRI:
		bv, ok := b.(*IRI)
		return ok && av.Value == bv.Value
	case *Literal:
		bv, ok := b.(*Literal)
		return ok && LiteralEqual(av, bv, EqOpts{})
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !alphaEqualTerm(av.Elems[i], bv.Elems[i], fwd, bwd) {
				return false
			}
		}
		return true
	case *OpenList:
		bv, ok := b.(*OpenList)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !alphaEqualTerm(av.Elems[i], bv.Elems[i], fwd, bwd) {
				return false
			}
		}
		return alphaEqualTerm(av.Tail, bv.Tail, fwd, bwd)
	case *Formula:
		bv, ok := b.(*Formula)
		if !ok || len(av.Triples) != len(bv.Triples) {
			return false
		}
		used := make([]bool, len(bv.Triples))
		return matchTriples(av.Triples, bv.Triples, used, fwd, bwd)
	default:
		return false
	}
}

func mapConsistent(a, b int64, fwd, bwd map[int64]int64) bool {
	if existing, ok := fwd[a]; ok {
		return existing == b
	}
	if _, ok := bwd[b]; ok {
		return false
	}
	fwd[a] = b
	bwd[b] = a
	return true
}
