package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eyereasoner/eyeling/internal/builtin"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Document is the parser's output: the document's prefix environment,
// its plain (non-rule) data triples, and the forward/backward rule
// lists lifted out of "=>"/"<=" rule triples wherever they occur
// (document level or inside a quoted formula).
type Document struct {
	Prefixes      map[string]string
	Triples       []term.Triple
	ForwardRules  []*term.Rule
	BackwardRules []*term.Rule
}

type parser struct {
	lex      *lexer
	in       *term.Interner
	prefixes map[string]string
	base     string
	sinks    []*[]term.Triple
	blankN   int
}

// Parse tokenizes and parses an N3 source document, materializing rule
// triples into forward/backward rules but NOT yet folding RDF
// first/rest chains into native lists — that is internal/rdflist's job,
// run by the caller once the whole document (and any dereferenced
// formulas) is parsed.
func Parse(in *term.Interner, src, baseIRI string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	p := &parser{
		lex:      newLexer(src),
		in:       in,
		prefixes: cloneDefaultPrefixes(),
		base:     baseIRI,
	}
	var top []term.Triple
	p.sinks = []*[]term.Triple{&top}

	for {
		tok := p.lex.Peek(0)
		if tok.Kind == EOF {
			break
		}
		p.parseStatement()
	}

	triples, fwd, bwd := liftRules(top)
	return &Document{Prefixes: p.prefixes, Triples: triples, ForwardRules: fwd, BackwardRules: bwd}, nil
}

func cloneDefaultPrefixes() map[string]string {
	out := make(map[string]string, len(ns.DefaultPrefixes))
	for k, v := range ns.DefaultPrefixes {
		out[k] = v
	}
	return out
}

func (p *parser) fail(pos Position, format string, args ...interface{}) {
	panic(&SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) next() Token {
	t := p.lex.Next()
	if t.Kind == ERROR {
		p.fail(t.Pos, "%s", t.Text)
	}
	return t
}

func (p *parser) peek() Token { return p.lex.Peek(0) }

func (p *parser) expect(k Kind, what string) Token {
	t := p.next()
	if t.Kind != k {
		p.fail(t.Pos, "expected %s, got %v", what, t)
	}
	return t
}

func (p *parser) emit(t term.Triple) {
	top := p.sinks[len(p.sinks)-1]
	*top = append(*top, t)
}

func (p *parser) parseStatement() {
	tok := p.peek()
	switch tok.Kind {
	case AT_PREFIX:
		p.next()
		prefixLabel := p.expect(PNAME_NS, "prefix label").Text
		iri := p.resolveIRIToken(p.expect(IRIREF, "prefix IRI"))
		p.prefixes[prefixLabel] = iri
		p.expect(DOT, "'.' after @prefix directive")
	case AT_BASE:
		p.next()
		iri := p.resolveIRIToken(p.expect(IRIREF, "base IRI"))
		p.base = iri
		p.expect(DOT, "'.' after @base directive")
	default:
		subj := p.parseTerm()
		p.parsePredicateObjectList(subj)
		p.expect(DOT, "'.' terminating a statement")
	}
}

// parseStatementInFormula is like parseStatement but used inside `{ }`,
// where a trailing '.' before '}' is optional on the last statement.
func (p *parser) parseStatementInFormula() {
	subj := p.parseTerm()
	p.parsePredicateObjectList(subj)
	if p.peek().Kind == DOT {
		p.next()
	}
}

func (p *parser) parsePredicateObjectList(subj term.Term) {
	for {
		verb := p.parseVerb()
		p.parseObjectList(subj, verb)
		if p.peek().Kind != SEMICOLON {
			return
		}
		p.next() // consume ';'
		switch p.peek().Kind {
		case DOT, RBRACE, RBRACKET, EOF:
			return
		}
	}
}

func (p *parser) parseObjectList(subj, verb term.Term) {
	for {
		obj := p.parseTerm()
		p.emit(term.Triple{Subject: subj, Predicate: verb, Object: obj})
		if p.peek().Kind != COMMA {
			return
		}
		p.next()
	}
}

func (p *parser) parseVerb() term.Term {
	tok := p.peek()
	switch tok.Kind {
	case A:
		p.next()
		return p.in.IRI(ns.RDFType)
	case IMPLIES:
		p.next()
		return p.in.IRI(ns.LogImplies)
	case IMPLIEDBY:
		p.next()
		return p.in.IRI(ns.LogImpliedBy)
	default:
		return p.parseTerm()
	}
}

func (p *parser) parseTerm() term.Term {
	tok := p.peek()
	switch tok.Kind {
	case IRIREF:
		p.next()
		return p.in.IRI(p.resolveIRIToken(tok))
	case PNAME:
		p.next()
		return p.in.IRI(p.resolvePName(tok))
	case VAR:
		p.next()
		return p.in.Variable(tok.Text)
	case BLANK_NODE_LBL:
		p.next()
		return p.in.Blank(tok.Text)
	case LBRACKET:
		return p.parseBlankNodePropertyList()
	case LPAREN:
		return p.parseCollection()
	case LBRACE:
		return p.parseFormula()
	case STRING:
		return p.parseLiteral()
	case INTEGER:
		p.next()
		return p.in.Literal(tok.Text, ns.XSDInteger, "")
	case DECIMAL:
		p.next()
		return p.in.Literal(tok.Text, ns.XSDDecimal, "")
	case DOUBLE:
		p.next()
		return p.in.Literal(tok.Text, ns.XSDDouble, "")
	case TRUE:
		p.next()
		return p.in.Literal("true", ns.XSDBoolean, "")
	case FALSE:
		p.next()
		return p.in.Literal("false", ns.XSDBoolean, "")
	default:
		p.fail(tok.Pos, "unexpected token %v where a term was expected", tok)
		return nil
	}
}

func (p *parser) parseLiteral() term.Term {
	tok := p.next()
	lex, lang := splitLangMarker(tok.Text)
	if lang != "" {
		return p.in.Literal(lex, "", lang)
	}
	if p.peek().Kind == CARETCARET {
		p.next()
		dtTok := p.next()
		var dt string
		switch dtTok.Kind {
		case IRIREF:
			dt = p.resolveIRIToken(dtTok)
		case PNAME:
			dt = p.resolvePName(dtTok)
		default:
			p.fail(dtTok.Pos, "expected datatype IRI after '^^'")
		}
		return p.in.Literal(lex, dt, "")
	}
	return p.in.Literal(lex, "", "")
}

func splitLangMarker(text string) (lex, lang string) {
	if i := strings.Index(text, "\x00lang\x00"); i >= 0 {
		return text[:i], text[i+len("\x00lang\x00"):]
	}
	return text, ""
}

func (p *parser) parseBlankNodePropertyList() term.Term {
	p.next() // '['
	b := p.in.FreshBlank(p.nextBlankLabel())
	if p.peek().Kind == RBRACKET {
		p.next()
		return b
	}
	p.parsePredicateObjectList(b)
	p.expect(RBRACKET, "']' closing a property list")
	return b
}

func (p *parser) nextBlankLabel() string {
	p.blankN++
	return "pl" + strconv.Itoa(p.blankN)
}

func (p *parser) parseCollection() term.Term {
	p.next() // '('
	var elems []term.Term
	for p.peek().Kind != RPAREN {
		if p.peek().Kind == EOF {
			p.fail(p.peek().Pos, "unterminated collection")
		}
		elems = append(elems, p.parseTerm())
	}
	p.next() // ')'
	return p.in.NewList(elems)
}

func (p *parser) parseFormula() term.Term {
	p.next() // '{'
	var inner []term.Triple
	p.sinks = append(p.sinks, &inner)
	for p.peek().Kind != RBRACE {
		if p.peek().Kind == EOF {
			p.fail(p.peek().Pos, "unterminated formula")
		}
		p.parseStatementInFormula()
	}
	p.next() // '}'
	p.sinks = p.sinks[:len(p.sinks)-1]

	// Rule triples written inside a quoted formula are lifted the same
	// way document-level ones are: the formula's own content can
	// itself be `{...} => {...}` data the engine treats as a rule once
	// dereferenced/conjoined, same rule-promotion key as top-level rules.
	data, fwd, bwd := liftRules(inner)
	for _, r := range fwd {
		data = append(data, ruleAsTriple(p.in, r))
	}
	for _, r := range bwd {
		data = append(data, ruleAsTriple(p.in, r))
	}
	return p.in.NewFormula(data)
}

// ruleAsTriple renders a lifted rule back to its `{premise} => {head}` (or
// `<=`) triple form so a quoted formula's printed/encoded content still
// round-trips the rule as data, "a single canonical form: every
// rule exists once in the rule list and once as a triple in the fact set".
func ruleAsTriple(in *term.Interner, r *term.Rule) term.Triple {
	premise := in.NewFormula(r.Premise)
	conclusion := in.NewFormula(r.Conclusion)
	if r.Backward {
		return term.Triple{Subject: conclusion, Predicate: in.IRI(ns.LogImpliedBy), Object: premise}
	}
	return term.Triple{Subject: premise, Predicate: in.IRI(ns.LogImplies), Object: conclusion}
}

func (p *parser) resolveIRIToken(t Token) string {
	if strings.Contains(t.Text, "://") || p.base == "" {
		return t.Text
	}
	return p.base + t.Text
}

func (p *parser) resolvePName(t Token) string {
	i := strings.IndexByte(t.Text, ':')
	prefix, local := t.Text[:i], t.Text[i+1:]
	nsIRI, ok := p.prefixes[prefix]
	if !ok {
		p.fail(t.Pos, "undefined prefix %q", prefix)
	}
	return nsIRI + local
}

// liftRules splits triples into plain data and forward/backward rules,
// : any triple `{P} log:implies {H}` or `{H} log:impliedBy {P}`
// becomes a forward or backward Rule instead of a data triple; everything else passes through.
func liftRules(triples []term.Triple) (data []term.Triple, fwd, bwd []*term.Rule) {
	for _, t := range triples {
		predIRI, ok := t.Predicate.(*term.IRI)
		if !ok {
			data = append(data, t)
			continue
		}
		switch predIRI.Value {
		case ns.LogImplies:
			if pf, ok1 := t.Subject.(*term.Formula); ok1 {
				if hf, ok2 := t.Object.(*term.Formula); ok2 {
					fwd = append(fwd, buildRule(pf.Triples, hf.Triples, false))
					continue
				}
				if lit, ok2 := t.Object.(*term.Literal); ok2 && lit.Datatype == ns.XSDBoolean && lit.Lex == "false" {
					r := buildRule(pf.Triples, nil, false)
					r.Fuse = true
					fwd = append(fwd, r)
					continue
				}
			}
		case ns.LogImpliedBy:
			if hf, ok1 := t.Subject.(*term.Formula); ok1 {
				if pf, ok2 := t.Object.(*term.Formula); ok2 {
					bwd = append(bwd, buildRule(pf.Triples, hf.Triples, true))
					continue
				}
			}
		}
		data = append(data, t)
	}
	return data, fwd, bwd
}

func buildRule(premise, conclusion []term.Triple, backward bool) *term.Rule {
	r := &term.Rule{
		Premise:    reorderPremise(premise, backward),
		Conclusion: conclusion,
		Backward:   backward,
		HeadBlanks: headBlanks(conclusion),
	}
	return r
}

// reorderPremise moves pure-constraint built-ins to the end of
// a forward rule's premise list, preserving relative order otherwise;
// backward-rule bodies keep the author's order untouched.
func reorderPremise(premise []term.Triple, backward bool) []term.Triple {
	if backward {
		return premise
	}
	var binding, constraint []term.Triple
	for _, t := range premise {
		if iri, ok := t.Predicate.(*term.IRI); ok && builtin.IsConstraintBuiltin(iri.Value) {
			constraint = append(constraint, t)
			continue
		}
		binding = append(binding, t)
	}
	return append(binding, constraint...)
}

func headBlanks(conclusion []term.Triple) map[string]bool {
	out := map[string]bool{}
	var mark func(t term.Term)
	mark = func(t term.Term) {
		switch v := t.(type) {
		case *term.Blank:
			out[v.Label] = true
		case *term.List:
			for _, e := range v.Elems {
				mark(e)
			}
		case *term.OpenList:
			for _, e := range v.Elems {
				mark(e)
			}
		case *term.Formula:
			for _, tr := range v.Triples {
				mark(tr.Subject)
				mark(tr.Predicate)
				mark(tr.Object)
			}
		}
	}
	for _, t := range conclusion {
		mark(t.Subject)
		mark(t.Predicate)
		mark(t.Object)
	}
	return out
}
