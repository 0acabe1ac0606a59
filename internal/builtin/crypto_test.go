package builtin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/term"
)

func TestCryptoDigests(t *testing.T) {
	cases := []struct {
		name string
		pred string
		want string
	}{
		{"md5", ns.Crypto + "md5", "900150983cd24fb0d6963f7d28e17f72"},
		{"sha", ns.Crypto + "sha", "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{"sha256", ns.Crypto + "sha256", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{"sha512", ns.Crypto + "sha512", "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctx, in := newTestContext()
			v := in.Variable("?d")
			goal := term.Triple{Subject: strLit(in, "abc"), Predicate: in.IRI(c.pred), Object: v}
			got, ok := evalFirst(ctx, goal)
			require.True(t, ok)
			require.Equal(t, c.want, got.(*term.Literal).Lex)
		})
	}
}
