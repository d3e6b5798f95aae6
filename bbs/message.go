package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// A Scalar is an element of Fr, the scalar field of the pairing. Messages,
// nonces, blinding factors and Fiat-Shamir challenges are all Scalars.
// big.Int is the representation the teacher's codebase already uses for
// every group exponent, so it is kept here rather than introduced as a new
// wrapper type.
type Scalar = big.Int

// ScalarFromCanonicalBytes parses a 32-byte big-endian encoding of a
// Scalar, rejecting any value that is not strictly less than the group
// order r.
func ScalarFromCanonicalBytes(b []byte) (*Scalar, error) {
	if len(b) != ScalarByteLen {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d", ErrInvalidEncoding, ScalarByteLen, len(b))
	}
	s := new(big.Int).SetBytes(b)
	if s.Cmp(Order) >= 0 {
		return nil, ErrScalarOutOfRange
	}
	return s, nil
}

// ScalarToCanonicalBytes renders a Scalar as its fixed-width, big-endian,
// 32-byte encoding.
func ScalarToCanonicalBytes(s *Scalar) []byte {
	out := make([]byte, ScalarByteLen)
	s.FillBytes(out)
	return out
}

// MessageFromHash expands arbitrary-length bytes into a uniformly
// distributed element of Fr via the curve's documented hash-to-scalar
// primitive (RFC 9380 hash_to_field), so that messages of any byte length
// - not just 32-byte canonical scalars - can be signed directly. This is
// the `from_msg_hash` construction mode named in component design.
func MessageFromHash(message []byte, dst DomainSeparationTag) (*Scalar, error) {
	dstBytes, err := dst.Bytes()
	if err != nil {
		return nil, err
	}
	elems, err := fr.Hash(message, dstBytes, 1)
	if err != nil {
		return nil, fmt.Errorf("bbs: hash-to-scalar failed: %w", err)
	}
	bi := new(big.Int)
	elems[0].BigInt(bi)
	return bi, nil
}

// RandomScalar draws a uniformly random nonzero element of Fr from rng
// using rejection sampling, so the distribution is exact rather than merely
// approximately uniform from a naive mod-reduction.
func RandomScalar(rng io.Reader) (*Scalar, error) {
	if rng == nil {
		rng = rand.Reader
	}
	return constantTimeRandom(rng, Order)
}

// constantTimeRandom draws a value uniformly from [1, max) using masked
// rejection sampling; a zero sample is redrawn like an out-of-range one.
// The only secret-dependent branch is "was the sample in range", which
// leaks nothing about the sample's value, only whether a redraw was
// needed - an unavoidable property of any rejection sampler.
func constantTimeRandom(rng io.Reader, max *big.Int) (*big.Int, error) {
	byteLen := (max.BitLen() + 7) / 8
	bits := uint(max.BitLen() % 8)
	mask := byte(0xFF)
	if bits > 0 {
		mask = byte((1 << bits) - 1)
	}

	b := make([]byte, byteLen)
	result := new(big.Int)

	for attempts := 0; attempts < 256; attempts++ {
		if _, err := io.ReadFull(rng, b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRandomnessExhausted, err)
		}
		if len(b) > 0 {
			b[0] &= mask
		}
		result.SetBytes(b)
		if result.Sign() != 0 && result.Cmp(max) < 0 {
			return result, nil
		}
	}
	return nil, fmt.Errorf("%w: rejection sampling did not converge", ErrRandomnessExhausted)
}

// modNeg returns -a mod Order as a value in [0, Order).
func modNeg(a *big.Int) *big.Int {
	n := new(big.Int).Neg(a)
	n.Mod(n, Order)
	return n
}

// modAdd returns a+b mod Order.
func modAdd(a, b *big.Int) *big.Int {
	n := new(big.Int).Add(a, b)
	n.Mod(n, Order)
	return n
}

// modSub returns a-b mod Order.
func modSub(a, b *big.Int) *big.Int {
	n := new(big.Int).Sub(a, b)
	n.Mod(n, Order)
	return n
}

// modMul returns a*b mod Order.
func modMul(a, b *big.Int) *big.Int {
	n := new(big.Int).Mul(a, b)
	n.Mod(n, Order)
	return n
}

// modInverse returns a^-1 mod Order, or nil if a is zero.
func modInverse(a *big.Int) *big.Int {
	return new(big.Int).ModInverse(a, Order)
}
