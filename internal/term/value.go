// Literal value layer: canonical lexical literals plus datatype-aware
// equivalence and numeric parsing, the way an RDF store must: a plain
// string, a language-tagged string and an xsd:integer with the same
// spelling are three different terms, and numeric equality must respect
// datatype promotion.
package term

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/eyereasoner/eyeling/internal/ns"
)

// Literal is an opaque canonical lexical form carrying an optional
// datatype IRI or language tag (never both).
type Literal struct {
	id       int64
	Lex      string
	Datatype string // "" means plain string / xsd:string
	Lang     string
}

func (t *Literal) Kind() Kind { return KindLiteral }
func (t *Literal) Id() int64  { return t.id }
func (t *Literal) String() string {
	switch {
	case t.Lang != "":
		return strconv.Quote(t.Lex) + "@" + t.Lang
	case t.Datatype != "" && t.Datatype != ns.XSDString:
		return strconv.Quote(t.Lex) + "^^<" + t.Datatype + ">"
	default:
		return strconv.Quote(t.Lex)
	}
}

// IsPlainString reports whether a literal behaves as a plain/xsd:string
// literal (no language tag, datatype empty or xsd:string).
func (t *Literal) IsPlainString() bool {
	return t.Lang == "" && (t.Datatype == "" || t.Datatype == ns.XSDString)
}

// NumKind classifies the numeric promotion ladder integer -> decimal ->
// float -> double used to pick the output datatype of arithmetic builtins.
type NumKind int

const (
	NumNone NumKind = iota
	NumInteger
	NumDecimal
	NumFloat
	NumDouble
)

func (k NumKind) IRI() string {
	switch k {
	case NumInteger:
		return ns.XSDInteger
	case NumDecimal:
		return ns.XSDDecimal
	case NumFloat:
		return ns.XSDFloat
	case NumDouble:
		return ns.XSDDouble
	default:
		return ""
	}
}

func numKindOf(datatype string) NumKind {
	switch datatype {
	case ns.XSDInteger:
		return NumInteger
	case ns.XSDDecimal:
		return NumDecimal
	case ns.XSDFloat:
		return NumFloat
	case ns.XSDDouble:
		return NumDouble
	default:
		return NumNone
	}
}

// Promote returns the wider of two numeric kinds on the
// integer -> decimal -> float -> double ladder.
func Promote(a, b NumKind) NumKind {
	if a > b {
		return a
	}
	return b
}

// Number is a parsed numeric value retaining arbitrary-precision integer
// and fixed-point decimal forms alongside a float64 fallback for
// float/double arithmetic. Exactly one of Int/Rat is meaningful depending
// on Kind; Float is always populated for comparison convenience.
type Number struct {
	Kind  NumKind
	Int   *big.Int // valid when Kind == NumInteger
	Rat   *big.Rat // valid when Kind == NumDecimal (exact fixed-point value)
	Float float64  // valid when Kind == NumFloat or NumDouble; also mirrors Int/Rat
}

// ParseNumber parses a literal's lexical form as a number, honoring its
// datatype. Integer uses arbitrary precision (math/big.Int); decimal uses
// exact fixed-point scaling (math/big.Rat); float/double accept the
// special lexicals INF, -INF and NaN .
func ParseNumber(lit *Literal) (Number, bool) {
	kind := numKindOf(lit.Datatype)
	if kind == NumNone {
		return Number{}, false
	}
	switch kind {
	case NumInteger:
		i, ok := new(big.Int).SetString(strings.TrimSpace(lit.Lex), 10)
		if !ok {
			return Number{}, false
		}
		f := new(big.Float).SetInt(i)
		fv, _ := f.Float64()
		return Number{Kind: kind, Int: i, Float: fv}, true
	case NumDecimal:
		r, ok := new(big.Rat).SetString(strings.TrimSpace(lit.Lex))
		if !ok {
			return Number{}, false
		}
		fv, _ := r.Float64()
		return Number{Kind: kind, Rat: r, Float: fv}, true
	case NumFloat, NumDouble:
		lex := strings.TrimSpace(lit.Lex)
		switch lex {
		case "INF", "Infinity":
			return Number{Kind: kind, Float: math.Inf(1)}, true
		case "-INF", "-Infinity":
			return Number{Kind: kind, Float: math.Inf(-1)}, true
		case "NaN":
			return Number{Kind: kind, Float: math.NaN()}, true
		}
		fv, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return Number{}, false
		}
		return Number{Kind: kind, Float: fv}, true
	}
	return Number{}, false
}

// AsRat returns the number as an exact big.Rat when possible (integer or
// decimal); it returns ok=false for float/double, which are not exact.
func (n Number) AsRat() (*big.Rat, bool) {
	switch n.Kind {
	case NumInteger:
		return new(big.Rat).SetInt(n.Int), true
	case NumDecimal:
		return n.Rat, true
	default:
		return nil, false
	}
}

// Literal renders a Number back to a canonical Literal of the given
// output kind (used after an arithmetic builtin picks its promoted type).
func (n Number) Literal(out NumKind) *Literal {
	switch out {
	case NumInteger:
		i := n.Int
		if i == nil {
			if n.Rat != nil && n.Rat.IsInt() {
				i = n.Rat.Num()
			} else {
				i = big.NewInt(int64(n.Float))
			}
		}
		return &Literal{Lex: i.String(), Datatype: ns.XSDInteger}
	case NumDecimal:
		r := n.Rat
		if r == nil {
			r, _ = n.AsRat()
		}
		if r == nil {
			r = new(big.Rat).SetFloat64(n.Float)
		}
		return &Literal{Lex: formatRat(r), Datatype: ns.XSDDecimal}
	case NumFloat:
		return &Literal{Lex: formatFloat(n.Float), Datatype: ns.XSDFloat}
	default:
		return &Literal{Lex: formatFloat(n.Float), Datatype: ns.XSDDouble}
	}
}

func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	f := new(big.Float).SetPrec(200).SetRat(r)
	return f.Text('f', -1)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case math.IsNaN(f):
		return "NaN"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// Compare orders two numbers by value regardless of datatype, after
// promoting to the wider representation. Returns -1, 0, 1.
func Compare(a, b Number) int {
	ar, aok := a.AsRat()
	br, bok := b.AsRat()
	if aok && bok {
		return ar.Cmp(br)
	}
	switch {
	case a.Float < b.Float:
		return -1
	case a.Float > b.Float:
		return 1
	default:
		return 0
	}
}

// EqOpts toggles the two unifier-variant-dependent literal equivalences:
// boolean-by-value (general unifier only) and integer<->decimal
// cross-datatype equality (list-append variant only).
type EqOpts struct {
	BooleanByValue  bool
	IntDecimalCross bool
}

// LiteralEqual implements the datatype-aware literal equivalence rules:
// plain string == xsd:string; language-tagged literals never conflate
// with plain strings; numeric literals of matching datatype compare by
// value; booleans compare by value under the general unifier; under the
// list-append variant only, integer and decimal with the same scaled value
// are equal.
func LiteralEqual(a, b *Literal, opts EqOpts) bool {
	if a.Lang != b.Lang {
		return false
	}
	if a.Lang != "" {
		return a.Lex == b.Lex
	}
	if a.IsPlainString() && b.IsPlainString() {
		return a.Lex == b.Lex
	}
	if a.Datatype == ns.XSDBoolean && b.Datatype == ns.XSDBoolean {
		if opts.BooleanByValue {
			return parseBool(a.Lex) == parseBool(b.Lex)
		}
		return a.Lex == b.Lex
	}
	an, aok := ParseNumber(a)
	bn, bok := ParseNumber(b)
	if aok && bok {
		if an.Kind == bn.Kind {
			return Compare(an, bn) == 0
		}
		if opts.IntDecimalCross {
			if (an.Kind == NumInteger && bn.Kind == NumDecimal) ||
				(an.Kind == NumDecimal && bn.Kind == NumInteger) {
				ar, _ := an.AsRat()
				br, _ := bn.AsRat()
				return ar.Cmp(br) == 0
			}
		}
		return false
	}
	return a.Datatype == b.Datatype && a.Lex == b.Lex
}

func parseBool(lex string) bool {
	return lex == "true" || lex == "1"
}

// FormatBool renders a boolean as its canonical xsd:boolean lexical form.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
