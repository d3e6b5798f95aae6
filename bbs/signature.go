package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Signature is the (A, e, s) triple produced by Sign or by a Prover
// unblinding a BlindSignature.
type Signature struct {
	A bls12381.G1Affine
	E *big.Int
	S *big.Int
}

// Sign computes B = g1 . h0^s . prod(h_i^m_i) for fresh e, s <- Fr and
// returns A = B^(1/(x+e)). If x+e happens to be zero - a negligible-
// probability degenerate sample - it resamples e, per the zero-divisor
// failure semantics in component design; that resampling is internal and
// never surfaced to the caller.
func Sign(sk *SecretKey, pk *PublicKey, messages []*big.Int, rng io.Reader) (*Signature, error) {
	if len(messages) != pk.MessageCount {
		return nil, structuralErr(ErrInvalidMessageCount)
	}
	if rng == nil {
		rng = rand.Reader
	}

	for attempts := 0; attempts < 16; attempts++ {
		e, err := RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to sample e: %w", err)
		}
		s, err := RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to sample s: %w", err)
		}

		xPlusE := new(big.Int).Add(sk.X, e)
		xPlusE.Mod(xPlusE, Order)
		if xPlusE.Sign() == 0 {
			continue // degenerate sample: resample e, s silently
		}

		b := computeB(pk, messages, s)

		inv := modInverse(xPlusE)
		var aJac bls12381.G1Jac
		aJac.FromAffine(&b)
		aJac.ScalarMultiplication(&aJac, inv)
		var a bls12381.G1Affine
		a.FromJacobian(&aJac)

		return &Signature{A: a, E: e, S: s}, nil
	}
	return nil, fmt.Errorf("bbs: signing did not converge after repeated degenerate samples")
}

// Verify accepts iff e(A, w.g2^e) = e(B, g2) for the recomputed B, and A is
// not the identity element.
func Verify(pk *PublicKey, sig *Signature, messages []*big.Int) error {
	if len(messages) != pk.MessageCount {
		return structuralErr(ErrInvalidMessageCount)
	}
	if sig.A.IsInfinity() {
		return cryptographicErr(ErrInvalidSignature)
	}

	b := computeB(pk, messages, sig.S)

	var wg2eJac bls12381.G2Jac
	wg2eJac.FromAffine(&pk.W)
	var g2eJac bls12381.G2Jac
	g2eJac.FromAffine(&pk.G2)
	g2eJac.ScalarMultiplication(&g2eJac, sig.E)
	wg2eJac.AddAssign(&g2eJac)
	var wg2e bls12381.G2Affine
	wg2e.FromJacobian(&wg2eJac)

	var negG2Jac bls12381.G2Jac
	negG2Jac.FromAffine(&pk.G2)
	negG2Jac.Neg(&negG2Jac)
	var negG2 bls12381.G2Affine
	negG2.FromJacobian(&negG2Jac)

	// e(A, w.g2^e) . e(B, -g2) == 1  <=>  e(A, w.g2^e) == e(B, g2)
	result, err := bls12381.Pair(
		[]bls12381.G1Affine{sig.A, b},
		[]bls12381.G2Affine{wg2e, negG2},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	if !result.IsOne() {
		return cryptographicErr(ErrInvalidSignature)
	}
	return nil
}

// BatchVerify checks many (pk, signature, messages) triples under one
// randomized multi-pairing instead of one pairing per signature. It is a
// pure performance optimization over Verify: a batch of all-valid
// signatures is accepted, and a batch containing any invalid signature is
// rejected with overwhelming probability, but the caller learns nothing
// about which entry failed.
func BatchVerify(pks []*PublicKey, sigs []*Signature, messagesList [][]*big.Int) error {
	if len(pks) != len(sigs) || len(sigs) != len(messagesList) {
		return structuralErr(ErrIndexOutOfRange)
	}
	if len(sigs) == 0 {
		return nil
	}
	if len(sigs) == 1 {
		return Verify(pks[0], sigs[0], messagesList[0])
	}

	for i := range sigs {
		if len(messagesList[i]) != pks[i].MessageCount {
			return structuralErr(ErrInvalidMessageCount)
		}
		if sigs[i].A.IsInfinity() {
			return cryptographicErr(ErrInvalidSignature)
		}
	}

	batchScalars := make([]*big.Int, len(sigs))
	for i := range batchScalars {
		bs, err := RandomScalar(rand.Reader)
		if err != nil {
			return fmt.Errorf("bbs: failed to generate batch scalars: %w", err)
		}
		batchScalars[i] = bs
	}

	g1Points := GetG1AffineSlice(2 * len(sigs))
	g2Points := GetG2AffineSlice(2 * len(sigs))
	defer PutG1AffineSlice(g1Points)
	defer PutG2AffineSlice(g2Points)

	for i, sig := range sigs {
		pk := pks[i]
		b := computeB(pk, messagesList[i], sig.S)

		var aScaledJac bls12381.G1Jac
		aScaledJac.FromAffine(&sig.A)
		aScaledJac.ScalarMultiplication(&aScaledJac, batchScalars[i])
		var aScaled bls12381.G1Affine
		aScaled.FromJacobian(&aScaledJac)

		var bScaledJac bls12381.G1Jac
		bScaledJac.FromAffine(&b)
		bScaledJac.ScalarMultiplication(&bScaledJac, batchScalars[i])
		var bScaled bls12381.G1Affine
		bScaled.FromJacobian(&bScaledJac)

		var wg2eJac bls12381.G2Jac
		wg2eJac.FromAffine(&pk.W)
		var g2eJac bls12381.G2Jac
		g2eJac.FromAffine(&pk.G2)
		g2eJac.ScalarMultiplication(&g2eJac, sig.E)
		wg2eJac.AddAssign(&g2eJac)
		var wg2e bls12381.G2Affine
		wg2e.FromJacobian(&wg2eJac)

		var negG2Jac bls12381.G2Jac
		negG2Jac.FromAffine(&pk.G2)
		negG2Jac.Neg(&negG2Jac)
		var negG2 bls12381.G2Affine
		negG2.FromJacobian(&negG2Jac)

		g1Points = append(g1Points, aScaled, bScaled)
		g2Points = append(g2Points, wg2e, negG2)
	}

	result, err := bls12381.Pair(g1Points, g2Points)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	if !result.IsOne() {
		return cryptographicErr(ErrInvalidSignature)
	}
	return nil
}
