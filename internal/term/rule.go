package term

// Rule owns an ordered premise and conclusion triple list, a
// forward/backward flag, a fuse flag (a forward rule whose sole
// conclusion is the literal `false`), and the set of blank-node labels
// occurring in the head.
type Rule struct {
	Premise    []Triple
	Conclusion []Triple
	Backward   bool // true: "<=" rule, queried by the prover; false: "=>" forward rule
	Fuse       bool
	HeadBlanks map[string]bool
}

// Key returns a canonical structural key for deduplicating rules derived
// by promotion: two rules with alpha-equivalent premise and
// conclusion sequences (as formulas) and the same direction collapse to
// the same key.
func (r *Rule) Key() string {
	premise := Formula{Triples: r.Premise}
	conclusion := Formula{Triples: r.Conclusion}
	dir := "fwd"
	if r.Backward {
		dir = "bwd"
	}
	return dir + "/" + canonicalFormulaKey(&premise) + "=>" + canonicalFormulaKey(&conclusion)
}

// canonicalFormulaKey renders a formula's canonical encoding by sorting
// its triples' individually-encoded forms; this is a best-effort key
// sufficient to catch exact and alpha-equivalent
// duplicates produced by rule promotion.
func canonicalFormulaKey(f *Formula) string {
	return Encode(f)
}

// DerivedFact owns a derived triple, a reference to the rule that produced
// it, a snapshot of the instantiated premise triples, and the
// substitution at the point of firing — the raw material for the
// derivation recorder's proofs.
type DerivedFact struct {
	Triple   Triple
	Rule     *Rule
	Premises []Triple
	Bindings map[string]Term
}
