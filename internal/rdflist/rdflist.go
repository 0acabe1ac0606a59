// Package rdflist implements the RDF-list materializer: it folds
// well-formed rdf:first/rdf:rest chains rooted at blank nodes into native
// list terms, detecting cycles and incomplete chains (leaving those
// triples untouched), and rewrites list nodes inside triples, rules and
// nested formulas to their canonical list form. Named list nodes (IRIs)
// are never rewritten so the list built-ins can still traverse them
// through facts. The walk carries a visited set so a malformed cyclic
// chain is detected rather than looping forever.
package rdflist

import "github.com/eyereasoner/eyeling/internal/term"

// Materialize scans triples for blank-node subjects forming rdf:first/
// rdf:rest chains, builds native list terms for the well-formed ones
// rooted at a blank, and returns the triple set with cons-chain triples
// removed and list-valued positions rewritten to the materialized list.
// first/rest/nil, rdfFirst/rdfRest/rdfNil give the interned predicate/nil
// IRIs to recognize.
func Materialize(in *term.Interner, triples []term.Triple, rdfFirst, rdfRest, rdfNil string) []term.Triple {
	firstOf := map[int64]term.Term{} // blank id -> first value
	restOf := map[int64]term.Term{}  // blank id -> rest term
	consumed := map[int]bool{}       // triple index -> part of a cons chain
	nodeTriple := map[int64][]int{}  // blank id -> triple indices defining it

	for i, t := range triples {
		b, ok := t.Subject.(*term.Blank)
		if !ok {
			continue
		}
		pred, ok := t.Predicate.(*term.IRI)
		if !ok {
			continue
		}
		switch pred.Value {
		case rdfFirst:
			if _, dup := firstOf[b.Id()]; dup {
				continue // malformed: two rdf:first for the same node
			}
			firstOf[b.Id()] = t.Object
			nodeTriple[b.Id()] = append(nodeTriple[b.Id()], i)
		case rdfRest:
			if _, dup := restOf[b.Id()]; dup {
				continue
			}
			restOf[b.Id()] = t.Object
			nodeTriple[b.Id()] = append(nodeTriple[b.Id()], i)
		}
	}

	// roots: blank nodes that have both rdf:first and rdf:rest defined.
	wellFormed := map[int64]*term.List{}
	building := map[int64]bool{}

	var build func(id int64) (*term.List, bool)
	build = func(id int64) (*term.List, bool) {
		if lst, ok := wellFormed[id]; ok {
			return lst, true
		}
		if building[id] {
			return nil, false // cycle
		}
		first, hasFirst := firstOf[id]
		rest, hasRest := restOf[id]
		if !hasFirst || !hasRest {
			return nil, false // incomplete chain
		}
		building[id] = true
		defer delete(building, id)

		var tail []term.Term
		switch r := rest.(type) {
		case *term.IRI:
			if r.Value != rdfNil {
				return nil, false
			}
			tail = nil
		case *term.Blank:
			sub, ok := build(r.Id())
			if !ok {
				return nil, false
			}
			tail = sub.Elems
		default:
			return nil, false
		}

		lst := &term.List{Elems: append([]term.Term{first}, tail...)}
		wellFormed[id] = lst
		return lst, true
	}

	for id := range firstOf {
		build(id)
	}
	// A list element that is itself a blank cons-chain root was captured
	// before its own root resolved; now that every chain is built, replace
	// those element references with their materialized lists.
	for _, lst := range wellFormed {
		for i, e := range lst.Elems {
			lst.Elems[i] = rewriteNode(e, wellFormed)
		}
	}
	// Mark the triples belonging to any successfully materialized root or
	// intermediate cons cell as consumed.
	for id := range wellFormed {
		for _, i := range nodeTriple[id] {
			consumed[i] = true
		}
	}

	out := make([]term.Triple, 0, len(triples))
	for i, t := range triples {
		if consumed[i] {
			continue
		}
		out = append(out, term.Triple{
			Subject:   rewriteNode(t.Subject, wellFormed),
			Predicate: rewriteNode(t.Predicate, wellFormed),
			Object:    rewriteNode(t.Object, wellFormed),
		})
	}
	return out
}

// rewriteNode replaces a blank node reference with its materialized list
// when that blank turned out to be a well-formed cons-chain root.
func rewriteNode(t term.Term, wellFormed map[int64]*term.List) term.Term {
	switch v := t.(type) {
	case *term.Blank:
		if lst, ok := wellFormed[v.Id()]; ok {
			return lst
		}
		return t
	case *term.Formula:
		triples := make([]term.Triple, len(v.Triples))
		for i, tr := range v.Triples {
			triples[i] = term.Triple{
				Subject:   rewriteNode(tr.Subject, wellFormed),
				Predicate: rewriteNode(tr.Predicate, wellFormed),
				Object:    rewriteNode(tr.Object, wellFormed),
			}
		}
		return &term.Formula{Triples: triples}
	default:
		return t
	}
}
