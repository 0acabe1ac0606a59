package subst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/term"
)

func TestTrailMarkUndo(t *testing.T) {
	in := term.NewInterner()
	tr := NewTrail()
	x := in.Variable("x")
	a := in.IRI("http://ex/a")

	mark := tr.Mark()
	tr.Bind(x.Id(), a)
	_, ok := tr.Lookup(x.Id())
	require.True(t, ok)

	tr.Undo(mark)
	_, ok = tr.Lookup(x.Id())
	require.False(t, ok)
}

func TestApplyResolvesNestedStructure(t *testing.T) {
	in := term.NewInterner()
	tr := NewTrail()
	x := in.Variable("x")
	y := in.Variable("y")
	a := in.IRI("http://ex/a")

	tr.Bind(x.Id(), a)
	tr.Bind(y.Id(), x)

	list := in.NewList([]term.Term{y, x})
	resolved := tr.Apply(list)
	rl, ok := resolved.(*term.List)
	require.True(t, ok)
	require.Equal(t, a, rl.Elems[0])
	require.Equal(t, a, rl.Elems[1])
}

func TestBindManyDoesNotOverwriteExisting(t *testing.T) {
	in := term.NewInterner()
	tr := NewTrail()
	x := in.Variable("x")
	a := in.IRI("http://ex/a")
	b := in.IRI("http://ex/b")

	tr.Bind(x.Id(), a)
	tr.BindMany(Delta{x.Id(): b})

	bound, _ := tr.Lookup(x.Id())
	require.Equal(t, a, bound, "BindMany must not clobber a binding already on the trail")
}

func TestProjectedCompactFollowsChains(t *testing.T) {
	in := term.NewInterner()
	x := in.Variable("x")
	y := in.Variable("y")
	a := in.IRI("http://ex/a")

	bindings := map[int64]term.Term{
		x.Id(): y,
		y.Id(): a,
	}
	out := ProjectedCompact([]int64{x.Id()}, bindings)
	require.Equal(t, y, out[x.Id()])
	require.Equal(t, a, out[y.Id()])
}

func TestComposeOverlaysDeltaOnBase(t *testing.T) {
	in := term.NewInterner()
	x := in.Variable("x")
	y := in.Variable("y")
	a := in.IRI("http://ex/a")
	b := in.IRI("http://ex/b")

	base := map[int64]term.Term{x.Id(): a}
	d := Delta{y.Id(): b}
	composed, ok := Compose(base, d)
	require.True(t, ok)
	require.Equal(t, a, composed[x.Id()])
	require.Equal(t, b, composed[y.Id()])
}
