package bbs

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sort"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ProofRequest is the verifier-owned statement of what a Prover must
// reveal: the set R of revealed indices together with the PublicKey the
// proof must verify against. R is stable for the lifetime of the request.
type ProofRequest struct {
	Revealed  []int
	PublicKey *PublicKey
}

// SignatureProof is the non-interactive proof of knowledge of a signature
// produced by CreateProof and checked by VerifyProof: the three commit-
// phase points, the Fiat-Shamir challenge, every Schnorr response, and the
// revealed (index, message) pairs.
type SignatureProof struct {
	AHat bls12381.G1Affine
	ABar bls12381.G1Affine
	D    bls12381.G1Affine

	Challenge *big.Int
	ZE        *big.Int
	ZR2       *big.Int
	ZR3       *big.Int
	ZSPrime   *big.Int
	ZMessages map[int]*big.Int // hidden indices only

	Revealed map[int]*big.Int // i -> m_i for i in R
}

// CreateProof runs the commit/challenge/response SPK over sig and
// messages, revealing exactly the indices tagged Revealed in disclosures
// and hiding the rest - with externally-shared blindings honored for any
// index tagged HiddenExternalBlinding, so two proofs built with the same
// shared blinding expose linkable (but not message-revealing) response
// components.
func CreateProof(pk *PublicKey, sig *Signature, messages []*big.Int, disclosures []Disclosure, nonce []byte, rng io.Reader) (*SignatureProof, error) {
	if len(messages) != pk.MessageCount || len(disclosures) != pk.MessageCount {
		return nil, structuralErr(ErrInvalidMessageCount)
	}
	if rng == nil {
		rng = rand.Reader
	}

	var hidden, revealedIdx []int
	for i, d := range disclosures {
		if d.Kind == Revealed {
			revealedIdx = append(revealedIdx, i)
		} else {
			hidden = append(hidden, i)
		}
	}

	r1, err := sampleNonZeroScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample r1: %w", err)
	}
	r2, err := sampleNonZeroScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample r2: %w", err)
	}
	r3 := modInverse(r1)

	b := computeB(pk, messages, sig.S)

	aHat := scaleG1(sig.A, r1)

	// ABar = AHat^-e . B^r1
	abarJac := scaleG1Jac(aHat, modNeg(sig.E))
	bR1Jac := scaleG1Jac(b, r1)
	abarJac.AddAssign(&bR1Jac)
	var abar bls12381.G1Affine
	abar.FromJacobian(&abarJac)

	// D = B^r1 . h0^-r2
	dJac := scaleG1Jac(b, r1)
	h0NegR2 := scaleG1Jac(pk.H0, modNeg(r2))
	dJac.AddAssign(&h0NegR2)
	var d bls12381.G1Affine
	d.FromJacobian(&dJac)

	sPrime := modSub(sig.S, modMul(r2, r3))

	eBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
	}
	r2Blind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
	}
	r3Blind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
	}
	sPrimeBlind, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
	}

	mBlind := make(map[int]*big.Int, len(hidden))
	for _, i := range hidden {
		switch disclosures[i].Kind {
		case HiddenExternalBlinding:
			if disclosures[i].SharedBlinding == nil {
				return nil, fmt.Errorf("bbs: index %d tagged HiddenExternalBlinding with no shared blinding", i)
			}
			mBlind[i] = disclosures[i].SharedBlinding
		default:
			mBlind[i], err = RandomScalar(rng)
			if err != nil {
				return nil, fmt.Errorf("bbs: failed to sample blinding: %w", err)
			}
		}
	}

	// T1 = AHat^eBlind . h0^r2Blind
	t1Jac := scaleG1Jac(aHat, eBlind)
	t1Jac.AddAssign(ptr(scaleG1Jac(pk.H0, r2Blind)))
	var t1 bls12381.G1Affine
	t1.FromJacobian(&t1Jac)

	// T2 = D^-r3Blind . h0^sPrimeBlind . prod hi^mBlindI (hidden only)
	t2Jac := scaleG1Jac(d, modNeg(r3Blind))
	t2Jac.AddAssign(ptr(scaleG1Jac(pk.H0, sPrimeBlind)))
	for _, i := range hidden {
		t2Jac.AddAssign(ptr(scaleG1Jac(pk.H[i], mBlind[i])))
	}
	var t2 bls12381.G1Affine
	t2.FromJacobian(&t2Jac)

	revealed := make(map[int]*big.Int, len(revealedIdx))
	for _, i := range revealedIdx {
		revealed[i] = messages[i]
	}

	challenge, err := spkChallenge(pk, aHat, abar, d, t1, t2, revealed, nonce)
	if err != nil {
		return nil, err
	}

	// ABar . D^-1 = AHat^-e . h0^r2, so z_r2 carries the opposite sign to
	// z_e for T1' = AHat^zE . h0^zR2 . (ABar . D^-1)^c to reproduce T1.
	zE := modAdd(eBlind, modMul(challenge, sig.E))
	zR2 := modSub(r2Blind, modMul(challenge, r2))
	zR3 := modAdd(r3Blind, modMul(challenge, r3))
	zSPrime := modAdd(sPrimeBlind, modMul(challenge, sPrime))
	zMessages := make(map[int]*big.Int, len(hidden))
	for _, i := range hidden {
		zMessages[i] = modAdd(mBlind[i], modMul(challenge, messages[i]))
	}

	zeroScalars(eBlind, r2Blind, r3Blind, sPrimeBlind, r2, r3, sPrime)
	for i, v := range mBlind {
		if disclosures[i].Kind != HiddenExternalBlinding {
			zeroScalars(v)
		}
	}

	return &SignatureProof{
		AHat: aHat, ABar: abar, D: d,
		Challenge: challenge,
		ZE:        zE, ZR2: zR2, ZR3: zR3, ZSPrime: zSPrime,
		ZMessages: zMessages,
		Revealed:  revealed,
	}, nil
}

// VerifyProof rejects an identity AHat, checks the pairing relation
// e(AHat, w) = e(ABar, g2), recomputes both Schnorr commitments from the
// responses, and accepts iff the recomputed challenge matches the one
// carried in proof. On success it returns nothing beyond nil error; the
// revealed messages the caller already supplied are the ones attested.
func VerifyProof(pk *PublicKey, proof *SignatureProof, nonce []byte) error {
	for idx := range proof.Revealed {
		if idx < 0 || idx >= pk.MessageCount {
			return structuralErr(ErrIndexOutOfRange)
		}
	}
	for idx := range proof.ZMessages {
		if idx < 0 || idx >= pk.MessageCount {
			return structuralErr(ErrIndexOutOfRange)
		}
		if _, dup := proof.Revealed[idx]; dup {
			return structuralErr(ErrIndexOverlap)
		}
	}
	if len(proof.Revealed)+len(proof.ZMessages) != pk.MessageCount {
		return structuralErr(ErrInvalidMessageCount)
	}
	if proof.AHat.IsInfinity() {
		return cryptographicErr(ErrInvalidSignature)
	}

	var negG2Jac bls12381.G2Jac
	negG2Jac.FromAffine(&pk.G2)
	negG2Jac.Neg(&negG2Jac)
	var negG2 bls12381.G2Affine
	negG2.FromJacobian(&negG2Jac)

	pairingResult, err := bls12381.Pair(
		[]bls12381.G1Affine{proof.AHat, proof.ABar},
		[]bls12381.G2Affine{pk.W, negG2},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPairingFailed, err)
	}
	if !pairingResult.IsOne() {
		return cryptographicErr(ErrInvalidSignature)
	}

	// T1' = AHat^zE . h0^zR2 . (ABar . D^-1)^c
	t1Jac := scaleG1Jac(proof.AHat, proof.ZE)
	t1Jac.AddAssign(ptr(scaleG1Jac(pk.H0, proof.ZR2)))
	abarMinusD := groupSub(proof.ABar, proof.D)
	t1Jac.AddAssign(ptr(scaleG1Jac(abarMinusD, proof.Challenge)))
	var t1Prime bls12381.G1Affine
	t1Prime.FromJacobian(&t1Jac)

	// T2' = D^-zR3 . h0^zSPrime . prod hi^zMi (hidden) . (g1 . prod_R hi^mi)^c
	t2Jac := scaleG1Jac(proof.D, modNeg(proof.ZR3))
	t2Jac.AddAssign(ptr(scaleG1Jac(pk.H0, proof.ZSPrime)))
	for i, zmi := range proof.ZMessages {
		t2Jac.AddAssign(ptr(scaleG1Jac(pk.H[i], zmi)))
	}
	var yJac bls12381.G1Jac
	yJac.FromAffine(&pk.G1)
	for i, mi := range proof.Revealed {
		yJac.AddAssign(ptr(scaleG1Jac(pk.H[i], mi)))
	}
	var y bls12381.G1Affine
	y.FromJacobian(&yJac)
	t2Jac.AddAssign(ptr(scaleG1Jac(y, proof.Challenge)))
	var t2Prime bls12381.G1Affine
	t2Prime.FromJacobian(&t2Jac)

	recomputed, err := spkChallenge(pk, proof.AHat, proof.ABar, proof.D, t1Prime, t2Prime, proof.Revealed, nonce)
	if err != nil {
		return err
	}
	if recomputed.Cmp(proof.Challenge) != 0 {
		return cryptographicErr(ErrChallengeMismatch)
	}
	return nil
}

// batchVerifyConcurrency bounds the number of VerifyProof calls
// BatchVerifyProofs runs at once, mirroring the teacher's own
// BatchVerifyProofs semaphore width.
const batchVerifyConcurrency = 4

// BatchVerifyProofs verifies many proofs, each against its own public key
// and nonce. It starts one goroutine per proof and a semaphore lets at most
// batchVerifyConcurrency of them run VerifyProof at once - the same
// goroutine+semaphore shape the teacher's BatchVerifyProofs uses for its
// independent challenge-recomputation pass. Unlike
// BatchVerify for plain Signatures, this does not fold the per-proof
// pairing checks into one combined multi-pairing: each SignatureProof
// carries its own AHat/ABar/D under a potentially different PublicKey and
// nonce, so there is no single randomized linear combination across them
// to check in one pairing the way BatchVerify combines same-shape
// Signature checks. It is a throughput optimization over calling
// VerifyProof in a loop and changes no acceptance semantics; on failure it
// reports one of the failing indices, not necessarily the lowest.
func BatchVerifyProofs(pks []*PublicKey, proofs []*SignatureProof, nonces [][]byte) error {
	if len(pks) != len(proofs) || len(proofs) != len(nonces) {
		return structuralErr(ErrIndexOutOfRange)
	}
	if len(proofs) == 0 {
		return nil
	}
	if len(proofs) == 1 {
		return VerifyProof(pks[0], proofs[0], nonces[0])
	}

	sem := make(chan struct{}, batchVerifyConcurrency)
	errs := make(chan error, len(proofs))
	var wg sync.WaitGroup

	for i := range proofs {
		wg.Add(1)
		go func(idx int) {
			sem <- struct{}{}
			defer func() { <-sem; wg.Done() }()
			if err := VerifyProof(pks[idx], proofs[idx], nonces[idx]); err != nil {
				errs <- fmt.Errorf("proof %d: %w", idx, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		return err
	}
	return nil
}

func spkChallenge(pk *PublicKey, aHat, abar, d, t1, t2 bls12381.G1Affine, revealed map[int]*big.Int, nonce []byte) (*big.Int, error) {
	tr := newTranscript(DefaultDST)
	tr.writeG2(pk.W).writeG1(aHat).writeG1(abar).writeG1(d).writeG1(t1).writeG1(t2)
	tr.writeRevealedMap(revealed)
	tr.writeBytes(nonce)
	return tr.challenge(DefaultDST)
}

func scaleG1(p bls12381.G1Affine, s *big.Int) bls12381.G1Affine {
	var jac bls12381.G1Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, s)
	var aff bls12381.G1Affine
	aff.FromJacobian(&jac)
	return aff
}

func scaleG1Jac(p bls12381.G1Affine, s *big.Int) bls12381.G1Jac {
	var jac bls12381.G1Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, s)
	return jac
}

func groupSub(a, b bls12381.G1Affine) bls12381.G1Affine {
	var jac bls12381.G1Jac
	jac.FromAffine(&a)
	var bJac bls12381.G1Jac
	bJac.FromAffine(&b)
	bJac.Neg(&bJac)
	jac.AddAssign(&bJac)
	var aff bls12381.G1Affine
	aff.FromJacobian(&jac)
	return aff
}

func ptr(j bls12381.G1Jac) *bls12381.G1Jac { return &j }

// sortedIndices returns the keys of m in ascending order; SignatureProof's
// Marshal uses it to write hidden and revealed entries by index.
func sortedIndices(m map[int]*big.Int) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
