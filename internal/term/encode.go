package term

import (
	"sort"
	"strconv"
	"strings"
)

// Encode produces a canonical string encoding of a term: a tagged,
// JSON-like nested encoding (i:<iri>, l:<lex>^^<dt>@<lang>, b:<label>,
// v:<pos>, (...), {...}) used by the Skolem provider and by the backward
// prover's loop detection. One shared encoder keeps both uses from
// drifting apart.
func Encode(t Term) string {
	varPos := map[int64]int{}
	next := 0
	return encodeTerm(t, varPos, &next)
}

// EncodeTriple canonically encodes a goal triple, sharing one
// variable-position map across subject/predicate/object so the same
// variable gets the same canonical position wherever it recurs.
func EncodeTriple(tr Triple) string {
	varPos := map[int64]int{}
	next := 0
	return encodeTerm(tr.Subject, varPos, &next) + "|" +
		encodeTerm(tr.Predicate, varPos, &next) + "|" +
		encodeTerm(tr.Object, varPos, &next)
}

func encodeTerm(t Term, varPos map[int64]int, next *int) string {
	switch v := t.(type) {
	case *IRI:
		return "i:" + v.Value
	case *Literal:
		return "l:" + v.Lex + "^^" + v.Datatype + "@" + v.Lang
	case *Blank:
		return "b:" + v.Label
	case *Variable:
		pos, ok := varPos[v.id]
		if !ok {
			pos = *next
			*next++
			varPos[v.id] = pos
		}
		return "v:" + strconv.Itoa(pos)
	case *List:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = encodeTerm(e, varPos, next)
		}
		return "(" + strings.Join(parts, ",") + ")"
	case *OpenList:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = encodeTerm(e, varPos, next)
		}
		return "(" + strings.Join(parts, ",") + "|t:" + encodeTerm(v.Tail, varPos, next) + ")"
	case *Formula:
		parts := make([]string, len(v.Triples))
		for i, tr := range v.Triples {
			parts[i] = encodeTerm(tr.Subject, varPos, next) + "|" +
				encodeTerm(tr.Predicate, varPos, next) + "|" +
				encodeTerm(tr.Object, varPos, next)
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ";") + "}"
	default:
		return "?unknown"
	}
}
