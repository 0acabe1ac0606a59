package term

// Interner canonicalizes IRIs, literals and blank nodes so that equal
// lexical values share identity, and hands out the stable integer ids the
// indexes and unifier fast path rely on. One Interner lives per reasoning
// run (see engine.Context) rather than behind a package-level global.
type Interner struct {
	nextID int64

	iris     map[string]*IRI
	literals map[literalKey]*Literal
	blanks   map[string]*Blank
	vars     map[string]*Variable
}

type literalKey struct {
	lex, datatype, lang string
}

// NewInterner returns an empty Interner ready for a fresh reasoning run.
func NewInterner() *Interner {
	return &Interner{
		iris:     make(map[string]*IRI),
		literals: make(map[literalKey]*Literal),
		blanks:   make(map[string]*Blank),
		vars:     make(map[string]*Variable),
	}
}

func (in *Interner) id() int64 {
	in.nextID++
	return in.nextID
}

// IRI returns the canonical IRI term for value, creating it on first use.
func (in *Interner) IRI(value string) *IRI {
	if t, ok := in.iris[value]; ok {
		return t
	}
	t := &IRI{id: in.id(), Value: value}
	in.iris[value] = t
	return t
}

// Literal returns the canonical literal term for the given lexical form,
// datatype and language tag (datatype and lang are mutually exclusive;
// lang takes precedence if both are supplied).
func (in *Interner) Literal(lex, datatype, lang string) *Literal {
	key := literalKey{lex, datatype, lang}
	if t, ok := in.literals[key]; ok {
		return t
	}
	t := &Literal{id: in.id(), Lex: lex, Datatype: datatype, Lang: lang}
	in.literals[key] = t
	return t
}

// Blank returns the canonical blank node for a label, scoped to this
// Interner (i.e. to one document/reasoning run).
func (in *Interner) Blank(label string) *Blank {
	if t, ok := in.blanks[label]; ok {
		return t
	}
	t := &Blank{id: in.id(), Label: label}
	in.blanks[label] = t
	return t
}

// FreshBlank allocates a new blank node with a generated label, used by
// the head-blank mapper, the prover's standardizing apart and the
// parser's [ ] blank nodes.
func (in *Interner) FreshBlank(label string) *Blank {
	t := &Blank{id: in.id(), Label: label}
	in.blanks[label] = t
	return t
}

// Variable returns the canonical variable for a name at parse time (within
// one document, the same name denotes the same variable unless a rule
// instantiation renames it — see Rename).
func (in *Interner) Variable(name string) *Variable {
	if t, ok := in.vars[name]; ok {
		return t
	}
	t := &Variable{id: in.id(), Name: name}
	in.vars[name] = t
	return t
}

// Rename allocates a fresh variable distinct from any interned variable,
// used by the prover to standardize rule variables apart per instance.
func (in *Interner) Rename(name string) *Variable {
	return &Variable{id: in.id(), Name: name}
}

// NewList constructs a list term with a freshly assigned id.
func (in *Interner) NewList(elems []Term) *List {
	return &List{id: in.id(), Elems: elems}
}

// NewOpenList constructs an open list term with a freshly assigned id.
// tail must be the canonical *Variable for that name within the current
// document/rule-instance scope (from Interner.Variable or Interner.Rename).
func (in *Interner) NewOpenList(elems []Term, tail *Variable) *OpenList {
	return &OpenList{id: in.id(), Elems: elems, Tail: tail}
}

// NewFormula constructs a formula term with a freshly assigned id.
func (in *Interner) NewFormula(triples []Triple) *Formula {
	return &Formula{id: in.id(), Triples: triples}
}
