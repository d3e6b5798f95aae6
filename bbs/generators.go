package bbs

import (
	"crypto/rand"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Generators holds the public generator set (g1, g2, h0, h1...hL) over
// G1/G2 that a PublicKey signs and verifies against. g1 and g2 are always
// the curve's standard fixed generators; h0 and h are either drawn
// uniformly at keygen (random mode) or derived deterministically from a
// DST and message count (deterministic mode, DeterministicPublicKey.expand).
type Generators struct {
	G1 bls12381.G1Affine
	G2 bls12381.G2Affine
	H0 bls12381.G1Affine
	H  []bls12381.G1Affine // h1...hL, len == L
}

// randomGenerators draws h0, h1...hL uniformly at random. This is the
// random mode named in component design: used by generate(L), where the
// generator set is produced once and stored alongside the key rather than
// re-derived from a DST.
func randomGenerators(l int, rng io.Reader) (Generators, error) {
	if rng == nil {
		rng = rand.Reader
	}
	_, _, g1, g2 := bls12381.Generators()

	h0, err := randomG1Point(rng)
	if err != nil {
		return Generators{}, fmt.Errorf("bbs: failed to sample h0: %w", err)
	}
	h := make([]bls12381.G1Affine, l)
	for i := 0; i < l; i++ {
		h[i], err = randomG1Point(rng)
		if err != nil {
			return Generators{}, fmt.Errorf("bbs: failed to sample h[%d]: %w", i, err)
		}
	}
	return Generators{G1: g1, G2: g2, H0: h0, H: h}, nil
}

// randomG1Point samples a uniformly random scalar and multiplies the
// fixed G1 generator by it, which lands uniformly on the subgroup g1
// generates (the whole of G1 for BLS12-381's prime-order G1).
func randomG1Point(rng io.Reader) (bls12381.G1Affine, error) {
	scalar, err := RandomScalar(rng)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	_, _, g1, _ := bls12381.Generators()
	var jac bls12381.G1Jac
	jac.FromAffine(&g1)
	jac.ScalarMultiplication(&jac, scalar)
	var aff bls12381.G1Affine
	aff.FromJacobian(&jac)
	return aff, nil
}

// deterministicGenerators derives h0, h1...hL from a DST and message count
// L by hash-to-curve on G1 of distinct, canonical inputs, as required by
// DeterministicPublicKey.expand. Each generator's input is a role byte
// followed by a big-endian index, hashed under the DST bytes as the
// hash-to-curve domain-separation tag, so h0 and every h_i hash to a
// distinct, reproducible point regardless of platform - the
// teacher's own GenerateGenerators iterated a domain-separated seed per
// index in the same spirit, but set raw hash bytes as Jacobian X/Y
// coordinates directly, which is not a real hash-to-curve map and offers
// no guarantee of landing on the curve; gnark-crypto's HashToG1 implements
// RFC 9380 hash-to-curve properly and replaces that step.
func deterministicGenerators(l int, dst DomainSeparationTag) (Generators, error) {
	dstBytes, err := dst.Bytes()
	if err != nil {
		return Generators{}, err
	}
	_, _, g1, g2 := bls12381.Generators()

	h0, err := hashToGenerator(dstBytes, 0, 'Q')
	if err != nil {
		return Generators{}, fmt.Errorf("bbs: failed to derive h0: %w", err)
	}
	h := make([]bls12381.G1Affine, l)
	for i := 0; i < l; i++ {
		h[i], err = hashToGenerator(dstBytes, i+1, 'H')
		if err != nil {
			return Generators{}, fmt.Errorf("bbs: failed to derive h[%d]: %w", i, err)
		}
	}
	return Generators{G1: g1, G2: g2, H0: h0, H: h}, nil
}

// hashToGenerator hashes role || big-endian(index) to a point on G1 via the
// curve's hash-to-curve primitive, with dst as its domain-separation tag.
func hashToGenerator(dst []byte, index int, role byte) (bls12381.G1Affine, error) {
	msg := make([]byte, 0, 5)
	msg = append(msg, role)
	msg = append(msg, byte(index>>24), byte(index>>16), byte(index>>8), byte(index))
	return bls12381.HashToG1(msg, dst)
}
