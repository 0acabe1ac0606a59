// Package parse implements a tokenizer and recursive-descent parser that
// turns an N3 source document into (prefixes, triples, forward rules,
// backward rules). This component is explicitly out of the core — the
// reasoning engine only needs the Document it produces — so it is kept
// deliberately simpler than a standards-complete Turtle/N3
// implementation: enough surface syntax to drive the engine end to end
// (quoted formulas, `?var`, `( ... )` lists, `{ } => { }` / `{ } <= { }`
// rule triples, `[ ... ]` property lists, `@prefix`/`@base`) without
// chasing every Turtle corner case (no triple-quoted strings, no
// `@forSome`/`@forAll`, no numeric literal edge cases beyond
// sign/exponent).
package parse

import "fmt"

// Position is a 1-indexed line/column plus a 0-indexed byte offset into
// the source, carried on every token for syntax-error reporting.
type Position struct {
	Line, Column, Offset int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Kind tags a lexical token.
type Kind int

const (
	EOF Kind = iota
	ERROR

	DOT
	SEMICOLON
	COMMA
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	CARETCARET
	IMPLIES   // =>
	IMPLIEDBY // <=

	IRIREF         // <...>
	PNAME          // prefix:local (prefix may be empty)
	PNAME_NS       // prefix: with nothing after, inside @prefix/@base
	BLANK_NODE_LBL // _:label
	VAR            // ?name

	STRING
	LANGTAG // @xx-YY immediately after a string
	INTEGER
	DECIMAL
	DOUBLE
	TRUE
	FALSE
	A // the 'a' rdf:type keyword

	AT_PREFIX // @prefix
	AT_BASE   // @base
)

// Token is one lexical token: its kind, literal text (already unescaped
// for STRING; the bare digits for numbers; the IRI value without angle
// brackets for IRIREF; etc.) and source position.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string { return fmt.Sprintf("%v(%q)@%s", t.Kind, t.Text, t.Pos) }

// SyntaxError is a location-annotated parse failure; the CLI maps it to
// exit code 1.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Msg) }
