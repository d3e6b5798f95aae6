package bbs

import (
	"math/big"
	"runtime"
)

// Zeroizing wraps a sensitive value (a SecretKey's scalar, a blinding
// factor, a Prover-held message) so that its memory can be explicitly
// cleared on every exit path, not just garbage-collected whenever the
// runtime gets around to it. The teacher's codebase clears secrets by hand
// at scattered call sites (e.g. the RFC6979 state in its deterministic
// signer); this generalizes that into one type. SecretKey.Zero uses it;
// CreateProof and NewBlindSignatureContext clear their blinding factors
// with the zeroScalars helper below instead.
type Zeroizing struct {
	v *big.Int
}

// NewZeroizing takes ownership of v; callers must not retain other
// references to the same *big.Int after wrapping it.
func NewZeroizing(v *big.Int) *Zeroizing {
	return &Zeroizing{v: v}
}

// Value returns the wrapped scalar. The returned pointer aliases the
// Zeroizing's internal storage; callers must not retain it past Zero().
func (z *Zeroizing) Value() *big.Int {
	if z == nil {
		return nil
	}
	return z.v
}

// Zero overwrites the wrapped value's backing words with zero. It is safe
// to call more than once and safe to call on a nil receiver.
func (z *Zeroizing) Zero() {
	if z == nil || z.v == nil {
		return
	}
	words := z.v.Bits()
	for i := range words {
		words[i] = 0
	}
	z.v.SetInt64(0)
	runtime.KeepAlive(z.v)
}

// zeroScalars clears every scalar in the slice; used on the full set of
// blinding factors and intermediate responses a Prover holds, since per
// DESIGN NOTES every intermediate (T, blinding, response) is as sensitive
// as the secret it blinds until the response is emitted.
func zeroScalars(scalars ...*big.Int) {
	for _, s := range scalars {
		if s == nil {
			continue
		}
		words := s.Bits()
		for i := range words {
			words[i] = 0
		}
		s.SetInt64(0)
	}
	runtime.KeepAlive(scalars)
}
