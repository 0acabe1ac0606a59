// Package skolem implements the deterministic-IRI provider: a
// canonical encoding of a ground term is mapped to a stable IRI under a
// configured namespace, cached per reasoning run, so the same ground
// term always mints the same Skolem IRI within one run.
package skolem

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/eyereasoner/eyeling/internal/term"
)

// DefaultNamespace is the IRI prefix Skolem IRIs are minted under, matching
// the well-known EYE/cwm convention so derived graphs interoperate with
// other N3 tools.
const DefaultNamespace = "http://josd.github.io/.well-known/genid/"

// Provider mints and caches Skolem IRIs for ground terms within one
// reasoning run. Salt is empty in deterministic mode (so the same input
// document always yields the same Skolem IRIs) and a fresh random value
// per run otherwise.
type Provider struct {
	Namespace string
	Salt      string

	in    *term.Interner
	cache map[string]*term.IRI
}

// New returns a Skolem provider for one reasoning run.
func New(in *term.Interner, namespace, salt string) *Provider {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Provider{Namespace: namespace, Salt: salt, in: in, cache: make(map[string]*term.IRI)}
}

// Skolemize returns the (cached) Skolem IRI for a ground term. Two calls
// with identical ground subjects within one run return identical IRIs
// ; across runs, default mode's per-run salt makes
// the id differ while deterministic mode (empty salt) reproduces it.
func (p *Provider) Skolemize(ground term.Term) *term.IRI {
	key := term.Encode(ground)
	if iri, ok := p.cache[key]; ok {
		return iri
	}
	sum := sha256.Sum256([]byte(p.Salt + key))
	id := hex.EncodeToString(sum[:])[:32]
	iri := p.in.IRI(p.Namespace + id)
	p.cache[key] = iri
	return iri
}

// FreshBlankMapper memoizes (rule firing id, blank label) -> fresh Blank so
// one rule firing produces the same existential across all of its head
// triples and across fixed-point iterations.
type FreshBlankMapper struct {
	in    *term.Interner
	cache map[string]*term.Blank
	next  int
}

// NewFreshBlankMapper returns an empty head-blank memoization table.
func NewFreshBlankMapper(in *term.Interner) *FreshBlankMapper {
	return &FreshBlankMapper{in: in, cache: make(map[string]*term.Blank)}
}

// Fresh returns the fresh blank for (firingKey, label), minting a new
// sequentially-labelled one ("sk_0", "sk_1", ...) on first request for
// that pair.
func (m *FreshBlankMapper) Fresh(firingKey, label string) *term.Blank {
	key := firingKey + "\x00" + label
	if b, ok := m.cache[key]; ok {
		return b
	}
	b := m.in.FreshBlank("sk_" + strconv.Itoa(m.next))
	m.next++
	m.cache[key] = b
	return b
}
