package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// SecretKey holds the signer's secret exponent x. It is never serialized
// alongside public material; callers that are done issuing with a
// SecretKey should call Zero to erase X from memory rather than waiting
// on the garbage collector.
type SecretKey struct {
	X *big.Int
}

// Zero overwrites X's backing words through a Zeroizing wrapper (CreateProof
// clears its blinding factors the same way via zeroScalars). Safe to call
// more than once and safe to call on a nil receiver or nil X.
func (sk *SecretKey) Zero() {
	if sk == nil {
		return
	}
	NewZeroizing(sk.X).Zero()
}

// PublicKey is w = g2^x together with a Generators set fixed for exactly
// MessageCount messages.
type PublicKey struct {
	W            bls12381.G2Affine
	Generators
	MessageCount int
}

// DeterministicPublicKey carries only w; it has no generator set and so
// no message count until Expand binds one via a DST.
type DeterministicPublicKey struct {
	W bls12381.G2Affine
}

// KeyPair bundles a SecretKey with its PublicKey, mirroring the teacher's
// own GenerateKeyPair return shape.
type KeyPair struct {
	SecretKey *SecretKey
	PublicKey *PublicKey
}

// GenerateKeyPair samples x <- Fr\{0}, computes w = g2^x, and produces a
// random-mode Generators set sized for messageCount messages. This is
// `generate(L)` in component design.
func GenerateKeyPair(messageCount int, rng io.Reader) (*KeyPair, error) {
	if messageCount < 0 {
		return nil, fmt.Errorf("%w: negative message count", ErrInvalidMessageCount)
	}
	if rng == nil {
		rng = rand.Reader
	}

	x, err := sampleNonZeroScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to generate secret key: %w", err)
	}

	w, err := scalarMulG2(x)
	if err != nil {
		return nil, err
	}

	gens, err := randomGenerators(messageCount, rng)
	if err != nil {
		return nil, err
	}

	return &KeyPair{
		SecretKey: &SecretKey{X: x},
		PublicKey: &PublicKey{W: w, Generators: gens, MessageCount: messageCount},
	}, nil
}

// ShortKeys returns a DeterministicPublicKey carrying only w, paired with
// the same SecretKey produced by GenerateKeyPair's sampling step. Use this
// when the generator set will be derived later via Expand, e.g. because L
// is not known until a credential schema is agreed on out of band.
func ShortKeys(rng io.Reader) (*SecretKey, *DeterministicPublicKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	x, err := sampleNonZeroScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to generate secret key: %w", err)
	}
	w, err := scalarMulG2(x)
	if err != nil {
		return nil, nil, err
	}
	return &SecretKey{X: x}, &DeterministicPublicKey{W: w}, nil
}

// Expand derives a full PublicKey of the given message count from a
// DeterministicPublicKey by hash-to-curve under dst (deterministic mode).
// The message count and DST together bind every later protocol message
// exchanged under the resulting PublicKey: two expansions with the same
// (L, dst) always agree bit-for-bit on every generator.
func (dpk *DeterministicPublicKey) Expand(messageCount int, dst DomainSeparationTag) (*PublicKey, error) {
	if messageCount < 0 {
		return nil, fmt.Errorf("%w: negative message count", ErrInvalidMessageCount)
	}
	gens, err := deterministicGenerators(messageCount, dst)
	if err != nil {
		return nil, err
	}
	return &PublicKey{W: dpk.W, Generators: gens, MessageCount: messageCount}, nil
}

func sampleNonZeroScalar(rng io.Reader) (*big.Int, error) {
	for attempts := 0; attempts < 16; attempts++ {
		x, err := RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		if x.Sign() != 0 {
			return x, nil
		}
	}
	return nil, fmt.Errorf("%w: repeatedly drew zero", ErrRandomnessExhausted)
}

func scalarMulG2(x *big.Int) (bls12381.G2Affine, error) {
	_, _, _, g2 := bls12381.Generators()
	var jac bls12381.G2Jac
	jac.FromAffine(&g2)
	jac.ScalarMultiplication(&jac, x)
	var aff bls12381.G2Affine
	aff.FromJacobian(&jac)
	return aff, nil
}

// computeB evaluates B = g1 . h0^s . prod(h_i^m_i), the commitment shared
// by Signature.new, Signature.verify and the SPK commit phase.
func computeB(pk *PublicKey, messages []*big.Int, s *big.Int) bls12381.G1Affine {
	var bJac bls12381.G1Jac
	bJac.FromAffine(&pk.G1)

	var h0sJac bls12381.G1Jac
	h0sJac.FromAffine(&pk.H0)
	h0sJac.ScalarMultiplication(&h0sJac, s)
	bJac.AddAssign(&h0sJac)

	for i, m := range messages {
		var hiJac bls12381.G1Jac
		hiJac.FromAffine(&pk.H[i])
		hiJac.ScalarMultiplication(&hiJac, m)
		bJac.AddAssign(&hiJac)
	}

	var bAff bls12381.G1Affine
	bAff.FromJacobian(&bJac)
	return bAff
}
