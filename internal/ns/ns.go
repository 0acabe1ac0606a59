// Package ns holds the well-known IRI namespaces and prefixes the built-in
// catalogue and parser recognize out of the box.
package ns

// Well-known namespace prefixes, wired into every parser run before the
// document's own @prefix directives are applied.
const (
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	OWL    = "http://www.w3.org/2002/07/owl#"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
	Log    = "http://www.w3.org/2000/10/swap/log#"
	Math   = "http://www.w3.org/2000/10/swap/math#"
	List   = "http://www.w3.org/2000/10/swap/list#"
	Str    = "http://www.w3.org/2000/10/swap/string#"
	Time   = "http://www.w3.org/2000/10/swap/time#"
	Crypto = "http://www.w3.org/2000/10/swap/crypto#"
	Func   = "http://www.w3.org/2007/rif-builtin-function#"
)

// DefaultPrefixes is seeded into every document's prefix environment before
// parsing; a document's own @prefix directives may override any entry.
var DefaultPrefixes = map[string]string{
	"rdf":    RDF,
	"rdfs":   RDFS,
	"owl":    OWL,
	"xsd":    XSD,
	"log":    Log,
	"math":   Math,
	"list":   List,
	"string": Str,
	"time":   Time,
	"crypto": Crypto,
	"func":   Func,
}

// Frequently referenced terminal IRIs.
const (
	RDFFirst = RDF + "first"
	RDFRest  = RDF + "rest"
	RDFNil   = RDF + "nil"
	RDFType  = RDF + "type"

	XSDString   = XSD + "string"
	XSDBoolean  = XSD + "boolean"
	XSDInteger  = XSD + "integer"
	XSDDecimal  = XSD + "decimal"
	XSDFloat    = XSD + "float"
	XSDDouble   = XSD + "double"
	XSDDateTime = XSD + "dateTime"
	XSDDate     = XSD + "date"
	XSDDuration = XSD + "duration"

	LogImplies   = Log + "implies"
	LogImpliedBy = Log + "impliedBy"
	OWLSameAs    = OWL + "sameAs"
)
