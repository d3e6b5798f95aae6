package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// BlindSignatureContext is the holder-side commitment to a subset of
// messages, together with a Schnorr-style proof of knowledge that the
// holder knows the blinding s' and every committed message, without
// revealing either. It is short-lived: built by the holder, sent once to
// the signer, and discarded after BlindSign consumes it.
type BlindSignatureContext struct {
	C         bls12381.G1Affine
	Indices   []int // I, the committed indices, ascending
	Challenge *big.Int
	ZPrime    *big.Int          // z_s', response for s'
	ZMessages map[int]*big.Int // z_mi, response for each i in Indices
}

// NewBlindSignatureContext samples s' <- Fr, computes
// C = h0^s' . prod_{i in I} h_i^m_i, and runs the three-move Schnorr PoK
// over that multi-exponentiation, binding the signer-supplied nonce into
// the challenge so the resulting context cannot be replayed against a
// different issuance session. It returns the context and s' itself: the
// holder must retain s' (zeroized once no longer needed) to unblind the
// eventual BlindSignature.
func NewBlindSignatureContext(pk *PublicKey, committed map[int]*big.Int, nonce []byte, rng io.Reader) (*BlindSignatureContext, *big.Int, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for idx := range committed {
		if idx < 0 || idx >= pk.MessageCount {
			return nil, nil, structuralErr(ErrIndexOutOfRange)
		}
	}

	sPrime, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to sample s': %w", err)
	}

	indices := sortedKeys(committed)

	var cJac bls12381.G1Jac
	cJac.FromAffine(&pk.H0)
	cJac.ScalarMultiplication(&cJac, sPrime)
	for _, i := range indices {
		var hiJac bls12381.G1Jac
		hiJac.FromAffine(&pk.H[i])
		hiJac.ScalarMultiplication(&hiJac, committed[i])
		cJac.AddAssign(&hiJac)
	}
	var c bls12381.G1Affine
	c.FromJacobian(&cJac)

	sPrimeBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
	}
	mBlind := make(map[int]*big.Int, len(indices))
	for _, i := range indices {
		mBlind[i], err = RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
		}
	}

	var tJac bls12381.G1Jac
	tJac.FromAffine(&pk.H0)
	tJac.ScalarMultiplication(&tJac, sPrimeBlind)
	for _, i := range indices {
		var hiJac bls12381.G1Jac
		hiJac.FromAffine(&pk.H[i])
		hiJac.ScalarMultiplication(&hiJac, mBlind[i])
		tJac.AddAssign(&hiJac)
	}
	var t bls12381.G1Affine
	t.FromJacobian(&tJac)

	challenge, err := blindContextChallenge(pk, c, t, nonce)
	if err != nil {
		return nil, nil, err
	}

	zPrime := modAdd(sPrimeBlind, modMul(challenge, sPrime))
	zMessages := make(map[int]*big.Int, len(indices))
	for _, i := range indices {
		zMessages[i] = modAdd(mBlind[i], modMul(challenge, committed[i]))
	}
	zeroScalars(sPrimeBlind)
	for _, v := range mBlind {
		zeroScalars(v)
	}

	return &BlindSignatureContext{
		C:         c,
		Indices:   indices,
		Challenge: challenge,
		ZPrime:    zPrime,
		ZMessages: zMessages,
	}, sPrime, nil
}

// Verify recomputes T' = h0^z_s' . prod h_i^z_mi . C^-c and accepts iff
// the recomputed challenge matches the one carried in the context and the
// committed indices do not overlap the signer's own indices signerIndices.
func (ctx *BlindSignatureContext) Verify(pk *PublicKey, signerIndices []int, nonce []byte) error {
	signerSet := make(map[int]bool, len(signerIndices))
	for _, i := range signerIndices {
		signerSet[i] = true
	}
	for _, i := range ctx.Indices {
		if signerSet[i] {
			return structuralErr(ErrIndexOverlap)
		}
	}

	var tJac bls12381.G1Jac
	tJac.FromAffine(&pk.H0)
	tJac.ScalarMultiplication(&tJac, ctx.ZPrime)
	for _, i := range ctx.Indices {
		var hiJac bls12381.G1Jac
		hiJac.FromAffine(&pk.H[i])
		hiJac.ScalarMultiplication(&hiJac, ctx.ZMessages[i])
		tJac.AddAssign(&hiJac)
	}
	negC := modNeg(ctx.Challenge)
	var cNegJac bls12381.G1Jac
	cNegJac.FromAffine(&ctx.C)
	cNegJac.ScalarMultiplication(&cNegJac, negC)
	tJac.AddAssign(&cNegJac)

	var tPrime bls12381.G1Affine
	tPrime.FromJacobian(&tJac)

	recomputed, err := blindContextChallenge(pk, ctx.C, tPrime, nonce)
	if err != nil {
		return err
	}
	if recomputed.Cmp(ctx.Challenge) != 0 {
		return cryptographicErr(ErrContextPoKFailed)
	}
	return nil
}

func blindContextChallenge(pk *PublicKey, c, t bls12381.G1Affine, nonce []byte) (*big.Int, error) {
	tr := newTranscript(DefaultDST)
	tr.writeG2(pk.W).writeG1(c).writeG1(t).writeBytes(nonce)
	return tr.challenge(DefaultDST)
}

// BlindSignature is (A, e, s-tilde) with s-tilde = s - s', the form the
// signer hands back before the holder folds in s' to recover a full
// Signature.
type BlindSignature struct {
	A      bls12381.G1Affine
	E      *big.Int
	STilde *big.Int
}

// BlindSign verifies ctx against the signer's own nonce and indices, then
// completes B' = g1 . C . h0^s-tilde . prod_{j in J} hj^mj and sets
// A = B'^(1/(x+e)). messages supplies only the signer's own messages,
// keyed by index; any index committed in ctx must not appear here.
func BlindSign(sk *SecretKey, pk *PublicKey, ctx *BlindSignatureContext, messages map[int]*big.Int, nonce []byte, rng io.Reader) (*BlindSignature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	signerIndices := sortedKeys(messages)
	if err := ctx.Verify(pk, signerIndices, nonce); err != nil {
		return nil, err
	}

	for attempts := 0; attempts < 16; attempts++ {
		e, err := RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to sample e: %w", err)
		}
		sTilde, err := RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to sample s-tilde: %w", err)
		}

		xPlusE := new(big.Int).Add(sk.X, e)
		xPlusE.Mod(xPlusE, Order)
		if xPlusE.Sign() == 0 {
			continue
		}

		var bJac bls12381.G1Jac
		bJac.FromAffine(&pk.G1)
		var cJac bls12381.G1Jac
		cJac.FromAffine(&ctx.C)
		bJac.AddAssign(&cJac)
		var h0sJac bls12381.G1Jac
		h0sJac.FromAffine(&pk.H0)
		h0sJac.ScalarMultiplication(&h0sJac, sTilde)
		bJac.AddAssign(&h0sJac)
		for _, j := range signerIndices {
			var hjJac bls12381.G1Jac
			hjJac.FromAffine(&pk.H[j])
			hjJac.ScalarMultiplication(&hjJac, messages[j])
			bJac.AddAssign(&hjJac)
		}
		var b bls12381.G1Affine
		b.FromJacobian(&bJac)

		inv := modInverse(xPlusE)
		var aJac bls12381.G1Jac
		aJac.FromAffine(&b)
		aJac.ScalarMultiplication(&aJac, inv)
		var a bls12381.G1Affine
		a.FromJacobian(&aJac)

		return &BlindSignature{A: a, E: e, STilde: sTilde}, nil
	}
	return nil, fmt.Errorf("bbs: blind signing did not converge after repeated degenerate samples")
}

// Unblind folds the holder's s' into the signer's s-tilde to produce a
// full Signature: s = s-tilde + s'. The caller MUST verify the result
// before accepting it - failure here indicates either a signer error or
// transport corruption, not a new failure mode of Unblind itself.
func (bs *BlindSignature) Unblind(sPrime *big.Int) *Signature {
	return &Signature{A: bs.A, E: bs.E, S: modAdd(bs.STilde, sPrime)}
}

func sortedKeys(m map[int]*big.Int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
