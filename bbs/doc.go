/*
Package bbs implements the BBS+ signature scheme, which allows for selective
disclosure of signed messages.

BBS+ is a pairing-based cryptographic signature scheme that enables:
 1. Signing a vector of messages under a single signature
 2. Blind issuance, where a holder commits to a subset of messages the
    signer never sees
 3. Selectively disclosing a subset of signed messages via a
    zero-knowledge proof of knowledge, without revealing the rest or the
    signature itself

The implementation uses the BLS12-381 pairing-friendly curve via
gnark-crypto, giving 128 bits of security.

Key features:
  - Random-mode and deterministic-mode key generation
  - Sign and verify signatures over a fixed-length message vector
  - Blind signature contexts for holder-committed messages
  - Non-interactive proofs of knowledge for selective disclosure, with
    optional external blinding for cross-proof linkage
  - Fixed-width canonical serialization and batch verification

Usage example:

	// Generate a key pair for 3 messages.
	kp, _ := bbs.GenerateKeyPair(3, nil)

	msgs := []*big.Int{
		mustMessage("message 1"),
		mustMessage("message 2"),
		mustMessage("message 3"),
	}

	sig, _ := bbs.Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	err := bbs.Verify(kp.PublicKey, sig, msgs)

	// Prove messages 0 and 2, keeping message 1 hidden.
	disclosures := bbs.RevealAll(3, []int{0, 2})
	proof, _ := bbs.CreateProof(kp.PublicKey, sig, msgs, disclosures, nonce, nil)
	err = bbs.VerifyProof(kp.PublicKey, proof, nonce)
*/
package bbs
