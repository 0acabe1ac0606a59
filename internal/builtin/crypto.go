package builtin

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/eyereasoner/eyeling/internal/engine"
	"github.com/eyereasoner/eyeling/internal/ns"
	"github.com/eyereasoner/eyeling/internal/subst"
	"github.com/eyereasoner/eyeling/internal/term"
)

func registerCrypto() {
	register(ns.Crypto+"md5", true, cryptoDigest(func(b []byte) []byte { h := md5.Sum(b); return h[:] }))
	register(ns.Crypto+"sha", true, cryptoDigest(func(b []byte) []byte { h := sha1.Sum(b); return h[:] }))
	register(ns.Crypto+"sha256", true, cryptoDigest(func(b []byte) []byte { h := sha256.Sum256(b); return h[:] }))
	register(ns.Crypto+"sha512", true, cryptoDigest(func(b []byte) []byte { h := sha512.Sum512(b); return h[:] }))
}

// cryptoDigest wires a subject-string -> hex-encoded digest builtin,
// mirroring cwm/EYE's crypto:* predicates.
func cryptoDigest(sum func([]byte) []byte) EvalFunc {
	return func(ctx *engine.Context, goctx context.Context, goal term.Triple, tr *subst.Trail, depth int, onAlt func() bool) bool {
		s, ok := lexOf(tr.Apply(goal.Subject))
		if !ok {
			return true
		}
		digest := hex.EncodeToString(sum([]byte(s)))
		out := ctx.Interner.Literal(digest, ns.XSDString, "")
		return unifyAlt(goal.Object, out, tr, onAlt)
	}
}
