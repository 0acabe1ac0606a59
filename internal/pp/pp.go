// Package pp renders a term or triple back to N3 text against a prefix
// environment, with log:implies/log:impliedBy/rdf:type/owl:sameAs
// recognized as syntactic sugar ("=>"/"<="/"a"/"="). Deliberately simple:
// no line-wrapping, no predicate-object-list compaction — one triple per
// line, which is what the CLI's --stream output and closure dump need.
package pp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Printer renders terms/triples against a fixed prefix environment,
// inverted once at construction time for fast IRI -> "prefix:local"
// lookup.
type Printer struct {
	byNamespace []prefixEntry
}

type prefixEntry struct {
	prefix, namespace string
}

// New returns a Printer for the given prefix -> namespace environment
// (typically the Document.Prefixes a parse.Document carries), longest
// namespace first so the most specific prefix wins when namespaces nest.
func New(prefixes map[string]string) *Printer {
	p := &Printer{}
	for k, v := range prefixes {
		p.byNamespace = append(p.byNamespace, prefixEntry{k, v})
	}
	sort.Slice(p.byNamespace, func(i, j int) bool {
		return len(p.byNamespace[i].namespace) > len(p.byNamespace[j].namespace)
	})
	return p
}

// IRI renders an absolute IRI as "prefix:local" if a known namespace is a
// prefix of it, else as "<...>".
func (p *Printer) IRI(value string) string {
	for _, e := range p.byNamespace {
		if strings.HasPrefix(value, e.namespace) && len(value) > len(e.namespace) {
			local := value[len(e.namespace):]
			if isSafeLocalName(local) {
				return e.prefix + ":" + local
			}
		}
	}
	return "<" + value + ">"
}

func isSafeLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Term renders a single term to N3 text.
func (p *Printer) Term(t term.Term) string {
	switch v := t.(type) {
	case *term.IRI:
		return p.IRI(v.Value)
	case *term.Literal:
		return p.literal(v)
	case *term.Blank:
		return "_:" + v.Label
	case *term.Variable:
		return "?" + v.Name
	case *term.List:
		return p.list(v.Elems, nil)
	case *term.OpenList:
		return p.list(v.Elems, v.Tail)
	case *term.Formula:
		return p.formula(v)
	default:
		return t.String()
	}
}

func (p *Printer) literal(l *term.Literal) string {
	// Numeric and boolean literals use N3's bare shorthand.
	switch l.Datatype {
	case ns.XSDInteger, ns.XSDDecimal, ns.XSDDouble, ns.XSDBoolean:
		return l.Lex
	}
	quoted := strconv.Quote(l.Lex)
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang
	case l.Datatype != "" && l.Datatype != ns.XSDString:
		return quoted + "^^" + p.IRI(l.Datatype)
	default:
		return quoted
	}
}

func (p *Printer) list(elems []term.Term, tail *term.Variable) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Term(e))
	}
	if tail != nil {
		if len(elems) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("| ?" + tail.Name)
	}
	b.WriteByte(')')
	return b.String()
}

func (p *Printer) formula(f *term.Formula) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range f.Triples {
		if i > 0 {
			b.WriteString(" . ")
		}
		b.WriteString(p.Triple(t))
	}
	b.WriteByte('}')
	return b.String()
}

// Verb renders a predicate position, substituting the well-known sugar
// forms: rdf:type -> "a", log:implies -> "=>", log:impliedBy -> "<=",
// owl:sameAs -> "=".
func (p *Printer) Verb(pred term.Term) string {
	if iri, ok := pred.(*term.IRI); ok {
		switch iri.Value {
		case ns.RDFType:
			return "a"
		case ns.LogImplies:
			return "=>"
		case ns.LogImpliedBy:
			return "<="
		case ns.OWLSameAs:
			return "="
		}
	}
	return p.Term(pred)
}

// Triple renders one triple as "subject verb object" (without a
// trailing period, so callers can compose a statement list).
func (p *Printer) Triple(t term.Triple) string {
	return fmt.Sprintf("%s %s %s", p.Term(t.Subject), p.Verb(t.Predicate), p.Term(t.Object))
}

// TripleLine renders one triple as a standalone N3 statement, trailing
// '.' included, for --stream / closure dump output.
func (p *Printer) TripleLine(t term.Triple) string {
	return p.Triple(t) + " ."
}

// Prefixes renders the @prefix directives for every entry of the given
// prefix -> namespace map, sorted by prefix label for deterministic
// output.
func (p *Printer) Prefixes(used map[string]string) string {
	keys := make([]string, 0, len(used))
	for k := range used {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "@prefix %s: <%s> .\n", k, used[k])
	}
	return b.String()
}
