package deref

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/term"
)

func TestContentFetchesAndCachesFile(t *testing.T) {
	path := t.TempDir() + "/doc.n3"
	require.NoError(t, os.WriteFile(path, []byte("hello n3"), 0o644))

	c := New()
	text, err := c.Content(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "hello n3", text)

	// Remove the file; a cached Content call must not need to re-read it.
	require.NoError(t, os.Remove(path))
	text2, err := c.Content(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "hello n3", text2)
}

func TestContentStripsFragmentForCacheKey(t *testing.T) {
	path := t.TempDir() + "/doc.n3"
	require.NoError(t, os.WriteFile(path, []byte("body"), 0o644))

	c := New()
	_, err := c.Content(context.Background(), path)
	require.NoError(t, err)
	text, err := c.Content(context.Background(), path+"#frag")
	require.NoError(t, err)
	require.Equal(t, "body", text)
}

func TestRewriteEnforcesHTTPS(t *testing.T) {
	c := New()
	c.EnforceHTTPS = true
	require.Equal(t, "https://example.org/x", c.rewrite("http://example.org/x"))
}

func TestSemanticsRequiresParser(t *testing.T) {
	path := t.TempDir() + "/doc.n3"
	require.NoError(t, os.WriteFile(path, []byte("irrelevant"), 0o644))

	c := New()
	c.In = term.NewInterner()
	_, err := c.Semantics(context.Background(), path)
	require.Error(t, err)
}

func TestSemanticsUsesInjectedParser(t *testing.T) {
	path := t.TempDir() + "/doc.n3"
	require.NoError(t, os.WriteFile(path, []byte("irrelevant"), 0o644))

	in := term.NewInterner()
	c := New()
	c.In = in
	c.Parse = func(in *term.Interner, src, baseIRI string) (*term.Formula, error) {
		return in.NewFormula(nil), nil
	}

	f, err := c.Semantics(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, f)
}
