package bbs

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Issuer is the signer-side role: it owns a KeyPair and hands out
// signatures and blind signatures over it. It holds no other state - a
// fresh nonce is generated per blind-issuance session rather than kept on
// the struct, so one Issuer value is safe to reuse across sessions.
type Issuer struct {
	SecretKey *SecretKey
	PublicKey *PublicKey
}

// NewIssuer generates a fresh random-mode key pair for messageCount
// messages.
func NewIssuer(messageCount int, rng io.Reader) (*Issuer, error) {
	kp, err := GenerateKeyPair(messageCount, rng)
	if err != nil {
		return nil, err
	}
	return &Issuer{SecretKey: kp.SecretKey, PublicKey: kp.PublicKey}, nil
}

// GenerateSigningNonce returns fresh randomness the Issuer sends to a
// Prover ahead of a blind-issuance session, binding the resulting context
// PoK to this session.
func (iss *Issuer) GenerateSigningNonce(rng io.Reader) ([]byte, error) {
	return randomNonce(rng)
}

// Sign issues a signature over a message vector the Issuer itself knows in
// full.
func (iss *Issuer) Sign(messages []*big.Int, rng io.Reader) (*Signature, error) {
	return Sign(iss.SecretKey, iss.PublicKey, messages, rng)
}

// BlindSign completes a blind signature over ctx (the Prover's committed
// messages) and the Issuer's own messages, keyed by index.
func (iss *Issuer) BlindSign(ctx *BlindSignatureContext, messages map[int]*big.Int, nonce []byte, rng io.Reader) (*BlindSignature, error) {
	return BlindSign(iss.SecretKey, iss.PublicKey, ctx, messages, nonce, rng)
}

// Prover is the holder-side role: it holds an optional link secret, a
// message value it commits in every credential it wants to link. It keeps
// no record of the messages or signatures it has received.
type Prover struct {
	LinkSecret *big.Int
}

// NewProver samples a fresh link secret, the message value a Prover
// commits at the same index in every credential it wants to link across
// proofs (e.g. always committing message index 0 to this value).
func NewProver(rng io.Reader) (*Prover, error) {
	secret, err := RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return &Prover{LinkSecret: secret}, nil
}

// NewBlindSignatureContext commits to the messages at committed under pk,
// proving knowledge of s' and every committed message without revealing
// either.
func (p *Prover) NewBlindSignatureContext(pk *PublicKey, committed map[int]*big.Int, nonce []byte, rng io.Reader) (*BlindSignatureContext, *big.Int, error) {
	return NewBlindSignatureContext(pk, committed, nonce, rng)
}

// CompleteSignature folds a BlindSignature returned by an Issuer together
// with the holder's retained s' into a full, verifiable Signature.
func (p *Prover) CompleteSignature(bs *BlindSignature, sPrime *big.Int) *Signature {
	return bs.Unblind(sPrime)
}

// CommitSignaturePoK and GenerateSignaturePoK are split in the teacher's
// own two-phase proof API: commit runs steps 1-6 of the SPK (sampling
// everything and fixing the three commitment points) and generate runs the
// challenge/response. Here they are folded into a single call - nothing in
// component design requires the split to be visible across a network
// boundary - and CreateProof performs both.
func (p *Prover) GenerateSignaturePoK(pk *PublicKey, sig *Signature, messages []*big.Int, disclosures []Disclosure, nonce []byte, rng io.Reader) (*SignatureProof, error) {
	return CreateProof(pk, sig, messages, disclosures, nonce, rng)
}

// Verifier is the relying-party role: it issues fresh nonces and checks
// proofs of knowledge against the revealed index set it requested.
type Verifier struct{}

// NewVerifier returns a stateless Verifier; its methods take every piece
// of state they need as arguments.
func NewVerifier() *Verifier { return &Verifier{} }

// GenerateProofNonce returns fresh randomness to bind into the next SPK a
// Prover builds, preventing replay of a previously observed proof.
func (v *Verifier) GenerateProofNonce(rng io.Reader) ([]byte, error) {
	return randomNonce(rng)
}

// NewProofRequest names which indices a Prover must reveal in the clear.
func (v *Verifier) NewProofRequest(pk *PublicKey, revealed []int) *ProofRequest {
	return &ProofRequest{Revealed: revealed, PublicKey: pk}
}

// VerifySignaturePoK checks proof against req's public key and nonce, and
// additionally enforces that proof discloses exactly the indices req
// requires - a Prover cannot satisfy a request by revealing a different
// index set, even one that would otherwise verify. On success it returns
// the revealed (index, message) pairs the caller asked for.
func (v *Verifier) VerifySignaturePoK(req *ProofRequest, proof *SignatureProof, nonce []byte) (map[int]*big.Int, error) {
	if len(req.Revealed) != len(proof.Revealed) {
		return nil, structuralErr(ErrInvalidMessageCount)
	}
	for _, i := range req.Revealed {
		if _, ok := proof.Revealed[i]; !ok {
			return nil, structuralErr(ErrInvalidMessageCount)
		}
	}
	if err := VerifyProof(req.PublicKey, proof, nonce); err != nil {
		return nil, err
	}
	return proof.Revealed, nil
}

func randomNonce(rng io.Reader) ([]byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	nonce := make([]byte, ScalarByteLen)
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, ErrRandomnessExhausted
	}
	return nonce, nil
}
