// Package index implements the fact and backward-rule indexes:
// an append-only fact array with three hash buckets (by predicate; by
// predicate+subject; by predicate+object) plus an atomic-triple set for
// O(1) duplicate detection, and a backward-rule index keyed by head
// predicate with a wildcard bucket for non-IRI or multi-head rules.
// Formulas, open lists and variables aren't hashable, so candidates
// involving them fall back to a linear scan over the predicate bucket.
package index

import "github.com/eyereasoner/eyeling/internal/term"

// Facts is the append-only fact store plus its three hash indexes.
type Facts struct {
	All []term.Triple

	byPred    map[int64][]int
	byPredSub map[int64]map[int64][]int
	byPredObj map[int64]map[int64][]int
	atomic    map[string]bool
}

// NewFacts returns an empty fact index.
func NewFacts() *Facts {
	return &Facts{
		byPred:    make(map[int64][]int),
		byPredSub: make(map[int64]map[int64][]int),
		byPredObj: make(map[int64]map[int64][]int),
		atomic:    make(map[string]bool),
	}
}

func atomicKey(t term.Triple) (string, bool) {
	s, ok1 := hashableId(t.Subject)
	p, ok2 := hashableId(t.Predicate)
	o, ok3 := hashableId(t.Object)
	if !ok1 || !ok2 || !ok3 {
		return "", false
	}
	return keyOf(s, p, o), true
}

func keyOf(s, p, o int64) string {
	b := make([]byte, 0, 32)
	b = appendInt(b, s)
	b = append(b, '|')
	b = appendInt(b, p)
	b = append(b, '|')
	b = appendInt(b, o)
	return string(b)
}

func appendInt(b []byte, v int64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
		b = append(b, '-')
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// hashableId returns a stable integer key for a term suitable for the hash
// indexes: IRIs, literals, and blanks hash by their interned id; lists,
// formulas, open lists and variables fall back to a linear scan.
func hashableId(t term.Term) (int64, bool) {
	switch t.(type) {
	case *term.IRI, *term.Literal, *term.Blank:
		return t.Id(), true
	default:
		return 0, false
	}
}

// Has reports whether an atomic (fully hashable) triple is already present;
// duplicate insertion of such a triple is then a guaranteed no-op.
func (f *Facts) Has(t term.Triple) bool {
	if key, ok := atomicKey(t); ok {
		return f.atomic[key]
	}
	for _, existing := range f.All {
		if tripleExactEqual(existing, t) {
			return true
		}
	}
	return false
}

func tripleExactEqual(a, b term.Triple) bool {
	return termExactEqual(a.Subject, b.Subject) &&
		termExactEqual(a.Predicate, b.Predicate) &&
		termExactEqual(a.Object, b.Object)
}

func termExactEqual(a, b term.Term) bool {
	if lit1, ok := a.(*term.Literal); ok {
		if lit2, ok := b.(*term.Literal); ok {
			return term.LiteralEqual(lit1, lit2, term.EqOpts{})
		}
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Id() != 0 && b.Id() != 0 {
		return a.Id() == b.Id()
	}
	return a.String() == b.String()
}

// Add appends a triple to the fact set and its indexes, returning false
// (a no-op) if an identical atomic triple is already present.
func (f *Facts) Add(t term.Triple) bool {
	if f.Has(t) {
		return false
	}
	idx := len(f.All)
	f.All = append(f.All, t)

	if key, ok := atomicKey(t); ok {
		f.atomic[key] = true
	}

	pid, pok := hashableId(t.Predicate)
	if !pok {
		return true
	}
	f.byPred[pid] = append(f.byPred[pid], idx)

	if sid, ok := hashableId(t.Subject); ok {
		m := f.byPredSub[pid]
		if m == nil {
			m = make(map[int64][]int)
			f.byPredSub[pid] = m
		}
		m[sid] = append(m[sid], idx)
	}
	if oid, ok := hashableId(t.Object); ok {
		m := f.byPredObj[pid]
		if m == nil {
			m = make(map[int64][]int)
			f.byPredObj[pid] = m
		}
		m[oid] = append(m[oid], idx)
	}
	return true
}

// Candidates returns the index positions of facts that might unify with a
// goal triple, picking the narrowest applicable bucket : the
// shorter of the (p,s) and (p,o) buckets when both are hashable, the one
// that is when only one is, else the full p bucket, else a full scan.
func (f *Facts) Candidates(goal term.Triple) []int {
	pid, pok := hashableId(goal.Predicate)
	if !pok {
		return f.allIdx()
	}
	sid, sok := hashableId(goal.Subject)
	oid, ook := hashableId(goal.Object)

	var subBucket, objBucket []int
	if sok {
		if m, ok := f.byPredSub[pid]; ok {
			subBucket = m[sid]
		} else {
			subBucket = nil
		}
	}
	if ook {
		if m, ok := f.byPredObj[pid]; ok {
			objBucket = m[oid]
		} else {
			objBucket = nil
		}
	}

	switch {
	case sok && ook:
		if len(subBucket) <= len(objBucket) {
			return subBucket
		}
		return objBucket
	case sok:
		return subBucket
	case ook:
		return objBucket
	default:
		return f.byPred[pid]
	}
}

func (f *Facts) allIdx() []int {
	idx := make([]int, len(f.All))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// Snapshot returns an independently-growable copy of the index, safe to
// Add to without affecting the original — used to freeze a scoped-closure
// snapshot for one forward-chaining phase.
func (f *Facts) Snapshot() *Facts {
	out := NewFacts()
	for _, t := range f.All {
		out.Add(t)
	}
	return out
}
