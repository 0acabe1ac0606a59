package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/term"
)

func strGoal(in *term.Interner, predIRI string, subj, obj term.Term) term.Triple {
	return term.Triple{Subject: subj, Predicate: in.IRI(predIRI), Object: obj}
}

func TestStringConcatenation(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "foo"), strLit(in, "bar")})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"concatenation", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "foobar", got.(*term.Literal).Lex)
}

func TestStringFormat(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "%s is %d"), strLit(in, "x"), intLit(in, "3")})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"format", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "x is 3", got.(*term.Literal).Lex)
}

func TestStringFormatEscapedPercent(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "100%% done")})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"format", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "100% done", got.(*term.Literal).Lex)
}

func TestStringPredicates(t *testing.T) {
	cases := []struct {
		name string
		pred string
		subj string
		obj  string
		want bool
	}{
		{"contains true", ns.Str + "contains", "hello world", "world", true},
		{"contains false", ns.Str + "contains", "hello", "world", false},
		{"containsIgnoringCase true", ns.Str + "containsIgnoringCase", "Hello World", "WORLD", true},
		{"startsWith true", ns.Str + "startsWith", "hello world", "hello", true},
		{"startsWith false", ns.Str + "startsWith", "hello world", "world", false},
		{"endsWith true", ns.Str + "endsWith", "hello world", "world", true},
		{"equalsIgnoringCase true", ns.Str + "equalsIgnoringCase", "ABC", "abc", true},
		{"notEqualsIgnoringCase true", ns.Str + "notEqualsIgnoringCase", "ABC", "xyz", true},
		{"notEqualsIgnoringCase false", ns.Str + "notEqualsIgnoringCase", "ABC", "abc", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, in := newTestContext()
			goal := strGoal(in, c.pred, strLit(in, c.subj), strLit(in, c.obj))
			require.Equal(t, c.want, evalSucceeds(ctx, goal))
		})
	}
}

func TestStringMatches(t *testing.T) {
	ctx, in := newTestContext()
	matches := strGoal(in, ns.Str+"matches", strLit(in, "hello123"), strLit(in, `^[a-z]+\d+$`))
	require.True(t, evalSucceeds(ctx, matches))

	notMatches := strGoal(in, ns.Str+"notMatches", strLit(in, "hello123"), strLit(in, `^\d+$`))
	require.True(t, evalSucceeds(ctx, notMatches))
}

func TestStringReplace(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "foo bar foo"), strLit(in, "foo"), strLit(in, "baz")})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"replace", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "baz bar baz", got.(*term.Literal).Lex)
}

func TestStringScrape(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "age: 42"), strLit(in, `(\d+)`)})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"scrape", lst, v)
	got, ok := evalFirst(ctx, goal)
	require.True(t, ok)
	require.Equal(t, "42", got.(*term.Literal).Lex)
}

func TestStringScrapeNoMatchFails(t *testing.T) {
	ctx, in := newTestContext()
	lst := in.NewList([]term.Term{strLit(in, "no digits here"), strLit(in, `(\d+)`)})
	v := in.Variable("?s")
	goal := strGoal(in, ns.Str+"scrape", lst, v)
	_, ok := evalFirst(ctx, goal)
	require.False(t, ok)
}
