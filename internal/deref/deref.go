// Package deref implements the dereference collaborator: given an
// absolute IRI with its fragment stripped, fetch raw text over HTTP(S) or
// the local filesystem (for file: IRIs and bare paths used in tests),
// parse it as N3 when asked for semantics, and cache both forms per
// document IRI for the lifetime of the Client (one per reasoning run). Honours the engine's
// enforce-https flag, which rewrites "http://" to "https://" before fetching.
package deref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/eyereasoner/eyeling/internal/term"
)

// Client is the concrete Dereferencer: a small HTTP client plus a
// per-Client content/semantics cache. log:content/log:semantics are
// synchronous/blocking from the engine's point of view even though the
// underlying fetch uses context.Context for cancellation like any other
// idiomatic Go I/O.
type Client struct {
	HTTP *http.Client

	// EnforceHTTPS rewrites "http://" IRIs to "https://" before fetching,
	// read once at the start of a run.
	EnforceHTTPS bool

	// In is the reasoning run's Interner; dereferenced formulas intern
	// into it so their terms share identity with the rest of the run.
	// One Client is constructed per run (internal/reason), so caching
	// per document IRI holds for the lifetime of that run — caching
	// formulas across runs would otherwise mix terms from two different
	// Interners.
	In *term.Interner

	// Parse parses fetched text as N3 into a Formula, using the
	// reasoning run's own Interner so dereferenced terms intern into the
	// same term space as the rest of the document. Set by the caller
	// (internal/reason) to an adapter around internal/parse.Parse; it is
	// injected so this package stays testable without a parser.
	Parse func(in *term.Interner, src, baseIRI string) (*term.Formula, error)

	mu       sync.Mutex
	content  map[string]string
	formulas map[string]*term.Formula
}

// New returns a dereference client backed by a plain *http.Client (see
// DESIGN.md for why this one collaborator stays on net/http).
func New() *Client {
	return &Client{
		HTTP:     &http.Client{},
		content:  make(map[string]string),
		formulas: make(map[string]*term.Formula),
	}
}

func stripFragment(iri string) string {
	if i := strings.IndexByte(iri, '#'); i >= 0 {
		return iri[:i]
	}
	return iri
}

func (c *Client) rewrite(iri string) string {
	if c.EnforceHTTPS && strings.HasPrefix(iri, "http://") {
		return "https://" + strings.TrimPrefix(iri, "http://")
	}
	return iri
}

// Content implements engine.Dereferencer: fetch and cache the raw text at
// iri.
func (c *Client) Content(ctx context.Context, iri string) (string, error) {
	key := stripFragment(iri)

	c.mu.Lock()
	if text, ok := c.content[key]; ok {
		c.mu.Unlock()
		return text, nil
	}
	c.mu.Unlock()

	text, err := c.fetch(ctx, c.rewrite(key))
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.content[key] = text
	c.mu.Unlock()
	return text, nil
}

func (c *Client) fetch(ctx context.Context, iri string) (string, error) {
	u, err := url.Parse(iri)
	if err != nil {
		return "", fmt.Errorf("dereference %s: %w", iri, err)
	}
	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri, nil)
		if err != nil {
			return "", err
		}
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return "", fmt.Errorf("dereference %s: %w", iri, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("dereference %s: HTTP %d", iri, resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("dereference %s: %w", iri, err)
		}
		return string(body), nil
	case "file":
		body, err := os.ReadFile(u.Path)
		if err != nil {
			return "", fmt.Errorf("dereference %s: %w", iri, err)
		}
		return string(body), nil
	case "":
		body, err := os.ReadFile(iri)
		if err != nil {
			return "", fmt.Errorf("dereference %s: %w", iri, err)
		}
		return string(body), nil
	default:
		return "", fmt.Errorf("dereference %s: unsupported scheme %q", iri, u.Scheme)
	}
}

// Semantics implements engine.Dereferencer: fetch iri, parse it as N3 and
// cache the resulting formula. Requires Parse to be
// set; returns an error otherwise (a dereferencer constructed without a
// parser is only useful for log:content).
func (c *Client) Semantics(ctx context.Context, iri string) (*term.Formula, error) {
	key := stripFragment(iri)

	c.mu.Lock()
	if f, ok := c.formulas[key]; ok {
		c.mu.Unlock()
		return f, nil
	}
	c.mu.Unlock()

	if c.Parse == nil {
		return nil, fmt.Errorf("dereference %s: no parser configured", iri)
	}
	text, err := c.Content(ctx, iri)
	if err != nil {
		return nil, err
	}
	f, err := c.Parse(c.In, text, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.formulas[key] = f
	c.mu.Unlock()
	return f, nil
}
