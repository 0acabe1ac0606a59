package term

// RenameTerm produces a structural copy of t with every *Variable replaced
// per varMap and every *Blank replaced per blankMap (entries absent from
// either map are left as-is). Used to standardize a rule's variables apart
// per instantiation and to Skolemize head blanks per firing;
// callers build the maps (typically via Interner.Rename / FreshBlank) and
// this function performs the structural substitution.
func RenameTerm(t Term, varMap map[int64]Term, blankMap map[int64]Term) Term {
	switch v := t.(type) {
	case *Variable:
		if r, ok := varMap[v.id]; ok {
			return r
		}
		return t
	case *Blank:
		if r, ok := blankMap[v.id]; ok {
			return r
		}
		return t
	case *List:
		elems := make([]Term, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = RenameTerm(e, varMap, blankMap)
		}
		return &List{Elems: elems}
	case *OpenList:
		elems := make([]Term, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = RenameTerm(e, varMap, blankMap)
		}
		tail := v.Tail
		if r, ok := varMap[tail.id]; ok {
			if tv, ok := r.(*Variable); ok {
				tail = tv
			}
		}
		return &OpenList{Elems: elems, Tail: tail}
	case *Formula:
		triples := make([]Triple, len(v.Triples))
		for i, tr := range v.Triples {
			triples[i] = RenameTriple(tr, varMap, blankMap)
		}
		return &Formula{Triples: triples}
	default:
		return t
	}
}

// RenameTriple applies RenameTerm to every position of a triple.
func RenameTriple(t Triple, varMap map[int64]Term, blankMap map[int64]Term) Triple {
	return Triple{
		Subject:   RenameTerm(t.Subject, varMap, blankMap),
		Predicate: RenameTerm(t.Predicate, varMap, blankMap),
		Object:    RenameTerm(t.Object, varMap, blankMap),
	}
}

// CollectVars appends the ids of every *Variable occurring in t to out.
func CollectVars(t Term, out map[int64]*Variable) {
	switch v := t.(type) {
	case *Variable:
		out[v.id] = v
	case *List:
		for _, e := range v.Elems {
			CollectVars(e, out)
		}
	case *OpenList:
		for _, e := range v.Elems {
			CollectVars(e, out)
		}
		out[v.Tail.id] = v.Tail
	case *Formula:
		for _, tr := range v.Triples {
			CollectVars(tr.Subject, out)
			CollectVars(tr.Predicate, out)
			CollectVars(tr.Object, out)
		}
	}
}

// CollectBlanks appends the ids of every *Blank occurring in t to out.
func CollectBlanks(t Term, out map[int64]*Blank) {
	switch v := t.(type) {
	case *Blank:
		out[v.id] = v
	case *List:
		for _, e := range v.Elems {
			CollectBlanks(e, out)
		}
	case *OpenList:
		for _, e := range v.Elems {
			CollectBlanks(e, out)
		}
	case *Formula:
		for _, tr := range v.Triples {
			CollectBlanks(tr.Subject, out)
			CollectBlanks(tr.Predicate, out)
			CollectBlanks(tr.Object, out)
		}
	}
}
