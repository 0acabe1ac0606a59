// Package reason implements the engine-to-host API: Reason, which
// parses and saturates one N3 document and returns its closure plus
// derivation records, and RunFiles, which drives Reason over a batch of
// input files the way the CLI (cmd/eyeling) needs, independent of any
// flag-parsing or cobra dependency so both are independently testable.
package reason

import (
	"context"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/eyereasoner/eyeling/internal/deref"
	"github.com/eyereasoner/eyeling/internal/deriv"
	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/forward"
	"github.com/eyereasoner/eyeling/internal/index"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/parse"
	"github.com/eyereasoner/eyeling/internal/pp"
	"github.com/eyereasoner/eyeling/internal/prover"
	"github.com/eyereasoner/eyeling/internal/rdflist"
	"github.com/eyereasoner/eyeling/internal/skolem"
	"github.com/eyereasoner/eyeling/internal/term"
)

// Options configures one reasoning run.
type Options struct {
	BaseIRI                    string
	Proof                      bool
	IncludeInputFactsInClosure bool
	EnforceHTTPS               bool
	SuperRestricted            bool
	// DeterministicSkolem empties the Skolem salt so repeated runs over
	// the same input produce identical Skolem IRIs.
	DeterministicSkolem bool
	// MaxResults caps the number of solutions any single backward-prover
	// query accumulates before abandoning the rest of its search; 0 means
	// unbounded.
	MaxResults int
	// Salt overrides the per-run Skolem salt (tests pin this so golden
	// output is reproducible); empty with DeterministicSkolem=false means
	// "mint a fresh random salt", the default-mode behavior.
	Salt string
	// OnDerived, when non-nil, receives each derived triple rendered as an
	// N3 line the moment it is added to the closure; the CLI's --stream
	// flag hooks this.
	OnDerived func(line string)
}

// Result is the output of one reasoning run.
type Result struct {
	Prefixes map[string]string
	// Facts holds every derived triple, preceded by the input facts only
	// when Options.IncludeInputFactsInClosure is set.
	Facts []term.Triple
	// Derived holds one DerivedFact per newly added triple, in derivation
	// order. It is filled whether or not Options.Proof is set; Proof only
	// controls the proof comments in ClosureText.
	Derived []*term.DerivedFact
	// ClosureText is the closure rendered as N3 text.
	ClosureText string
	// Outputs holds every log:outputString value, sorted by subject key
	// per the ordering rule below, ready for the CLI's --strings flag.
	Outputs []string

	ctx *engine.Context
}

// ContradictionError is returned by Reason/RunFiles when a fuse rule
// fires; callers map this to exit code 2.
type ContradictionError = forward.ContradictionError

// Reason parses inputText, materializes RDF lists, saturates the
// forward-chaining fixed point, and returns the closure.
func Reason(goctx context.Context, inputText string, opts Options) (*Result, error) {
	in := term.NewInterner()

	doc, err := parse.Parse(in, inputText, opts.BaseIRI)
	if err != nil {
		return nil, err
	}

	facts := index.NewFacts()
	rules := index.NewRules()

	triples := rdflist.Materialize(in, doc.Triples, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
	for _, t := range triples {
		if t.Ground() {
			facts.Add(t)
		}
	}

	var forwardRules []*term.Rule
	for _, r := range doc.ForwardRules {
		r.Premise = rdflist.Materialize(in, r.Premise, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
		r.Conclusion = rdflist.Materialize(in, r.Conclusion, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
		forwardRules = append(forwardRules, r)
	}
	for _, r := range doc.BackwardRules {
		r.Premise = rdflist.Materialize(in, r.Premise, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
		r.Conclusion = rdflist.Materialize(in, r.Conclusion, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
		rules.Add(r)
	}

	salt := opts.Salt
	if opts.DeterministicSkolem {
		salt = ""
	} else if salt == "" {
		salt = randomSalt()
	}

	derefClient := deref.New()
	derefClient.EnforceHTTPS = opts.EnforceHTTPS
	derefClient.In = in
	derefClient.Parse = func(in *term.Interner, src, base string) (*term.Formula, error) {
		d, err := parse.Parse(in, src, base)
		if err != nil {
			return nil, err
		}
		return docToFormula(in, d), nil
	}

	ctx := &engine.Context{
		Interner:     in,
		Facts:        facts,
		Rules:        rules,
		ForwardRules: forwardRules,
		Skolem:       skolem.New(in, skolem.DefaultNamespace, salt),
		BlankMapper:  skolem.NewFreshBlankMapper(in),
		Deriv:        deriv.New(),
		Deref:        derefClient,
		Flags: engine.Flags{
			EnforceHTTPS:      opts.EnforceHTTPS,
			ProofComments:     opts.Proof,
			SuperRestricted:   opts.SuperRestricted,
			DeterministicSkol: opts.DeterministicSkolem,
			MaxResults:        opts.MaxResults,
		},
	}
	prover.Register(ctx)
	forward.Register(ctx)

	if opts.OnDerived != nil {
		streamPrinter := pp.New(doc.Prefixes)
		ctx.OnDerived = func(t term.Triple) {
			opts.OnDerived(streamPrinter.TripleLine(t))
		}
	}

	inputCount := len(ctx.Facts.All)
	runErr := forward.Run(ctx, goctx)

	return buildResult(ctx, doc, inputCount, opts), runErr
}

func buildResult(ctx *engine.Context, doc *parse.Document, inputCount int, opts Options) *Result {
	facts := ctx.Facts.All
	if !opts.IncludeInputFactsInClosure {
		facts = facts[inputCount:]
	}

	// log:outputString usually arrives as a derived (or asserted) triple
	// rather than as a premise goal; fold those into the builtin-recorded
	// outputs before sorting.
	for _, t := range ctx.Facts.All {
		if iri, ok := t.Predicate.(*term.IRI); ok && iri.Value == ns.Log+"outputString" {
			ctx.Outputs = append(ctx.Outputs, engine.Output{Key: t.Subject, Value: t.Object})
		}
	}

	printer := pp.New(doc.Prefixes)
	var text string
	for _, t := range facts {
		if opts.Proof {
			if rec := ctx.Deriv.ForTriple(t); rec != nil {
				text += deriv.Explain(rec) + "\n"
			}
		}
		text += printer.TripleLine(t) + "\n"
	}

	return &Result{
		Prefixes:    doc.Prefixes,
		Facts:       facts,
		Derived:     ctx.Deriv.Records,
		ClosureText: text,
		Outputs:     sortedOutputs(ctx),
		ctx:         ctx,
	}
}

// sortedOutputs renders every log:outputString value as text, sorted by
// subject key: numeric keys first (bigint order, then float order), then
// plain literal lexical order, then IRI order, then blank-node label
// order, then the canonical encoding of any other key; stable ties break
// by insertion (call) order, which sort.SliceStable preserves.
func sortedOutputs(ctx *engine.Context) []string {
	items := append([]engine.Output(nil), ctx.Outputs...)
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := outputRank(items[i].Key), outputRank(items[j].Key)
		if ri != rj {
			return ri < rj
		}
		if ri == 0 {
			ni, _ := term.ParseNumber(items[i].Key.(*term.Literal))
			nj, _ := term.ParseNumber(items[j].Key.(*term.Literal))
			return term.Compare(ni, nj) < 0
		}
		return outputKey(items[i].Key) < outputKey(items[j].Key)
	})

	out := make([]string, len(items))
	for i, o := range items {
		out[i] = outputText(o.Value)
	}
	return out
}

// outputRank buckets a subject key into the ordering above: numeric
// literals, then other plain literals, then IRIs, then blank nodes,
// then anything else (quoted formulas, lists).
func outputRank(t term.Term) int {
	switch v := t.(type) {
	case *term.Literal:
		if _, ok := term.ParseNumber(v); ok {
			return 0
		}
		return 1
	case *term.IRI:
		return 2
	case *term.Blank:
		return 3
	default:
		return 4
	}
}

// outputKey gives the within-bucket sort key: the literal's lexical form
// for literals, the IRI value for IRIs, the label for blanks, and the
// canonical encoding (term.Encode) for anything else.
func outputKey(t term.Term) string {
	switch v := t.(type) {
	case *term.Literal:
		return v.Lex
	case *term.IRI:
		return v.Value
	case *term.Blank:
		return v.Label
	default:
		return term.Encode(t)
	}
}

// outputText renders one printed value for --strings: a literal's
// lexical form stands alone (it's already the message text), anything
// else falls back to its term text.
func outputText(t term.Term) string {
	if lit, ok := t.(*term.Literal); ok {
		return lit.Lex
	}
	return t.String()
}

func docToFormula(in *term.Interner, d *parse.Document) *term.Formula {
	triples := rdflist.Materialize(in, d.Triples, ns.RDFFirst, ns.RDFRest, ns.RDFNil)
	return in.NewFormula(triples)
}

// RunFiles drives Reason over a batch of input files: per-file
// failures do not abort the batch, and the returned overall status is 0
// (ok), 1 (error on at least one file) or 2 (contradiction/fuse seen on
// at least one file), matching the CLI's exit-code contract.
func RunFiles(goctx context.Context, files []string, opts Options, onResult func(file string, res *Result, err error)) int {
	status := 0
	for _, f := range files {
		text, err := os.ReadFile(f)
		if err != nil {
			if onResult != nil {
				onResult(f, nil, err)
			}
			if status < 1 {
				status = 1
			}
			continue
		}
		res, err := Reason(goctx, string(text), opts)
		if onResult != nil {
			onResult(f, res, err)
		}
		switch {
		case isContradiction(err):
			if status < 2 {
				status = 2
			}
		case err != nil:
			if status < 1 {
				status = 1
			}
		}
	}
	return status
}

func isContradiction(err error) bool {
	_, ok := err.(*forward.ContradictionError)
	return ok
}

// Strings renders the CLI's --strings output: every log:outputString
// value concatenated in sortedOutputs order. Values carry their own
// newlines (or not) by convention, so nothing is inserted between them.
func (r *Result) Strings() string {
	var out string
	for _, s := range r.Outputs {
		out += s
	}
	return out
}

// randomSalt mints a per-run Skolem salt via uuid.NewString rather than
// math/rand, reusing the module's existing google/uuid dependency instead
// of introducing a second source of randomness for the same concern.
func randomSalt() string {
	return uuid.NewString()
}
