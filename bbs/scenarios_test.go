package bbs

import "testing"

// Scenario 1: fresh signature over 5 ASCII messages verifies, and
// re-verifying after replacing one message is rejected.
func TestScenarioSignVerifyReject(t *testing.T) {
	kp, err := GenerateKeyPair(5, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3", "message 4", "message 5")

	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(kp.PublicKey, sig, msgs); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	tampered := append([]*Scalar{}, msgs...)
	tampered[2] = testMessages(t, "message X")[0]
	if err := Verify(kp.PublicKey, sig, tampered); err == nil {
		t.Fatal("Verify accepted a signature over a replaced message")
	}
}

// Scenario 2: blind issuance over 5 messages, index 0 committed by the
// holder as a link secret, indices 1-4 supplied by the signer.
func TestScenarioBlindIssuance(t *testing.T) {
	kp, err := GenerateKeyPair(5, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	m0 := testMessages(t, "link-secret")[0]
	m1 := testMessages(t, "message_1")[0]
	m2 := testMessages(t, "message_2")[0]
	m3 := testMessages(t, "message_3")[0]
	m4 := testMessages(t, "message_4")[0]

	nonce := testMessages(t, "issuer-nonce-1")[0]
	nonceBytes := ScalarToCanonicalBytes(nonce)

	ctx, sPrime, err := NewBlindSignatureContext(kp.PublicKey, map[int]*Scalar{0: m0}, nonceBytes, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}

	bs, err := BlindSign(kp.SecretKey, kp.PublicKey, ctx, map[int]*Scalar{1: m1, 2: m2, 3: m3, 4: m4}, nonceBytes, nil)
	if err != nil {
		t.Fatalf("BlindSign: %v", err)
	}

	sig := bs.Unblind(sPrime)
	full := []*Scalar{m0, m1, m2, m3, m4}
	if err := Verify(kp.PublicKey, sig, full); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

// Scenario 3: over a signature on scenario 2's five messages (signed
// directly with Sign here, not blind-issued), the Prover reveals indices
// {1,3}, marks index 0 as externally blinded and indices 2,4 as
// proof-specific. The Verifier accepts and recovers the revealed map.
func TestScenarioSelectiveDisclosure(t *testing.T) {
	kp, err := GenerateKeyPair(5, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	m0 := testMessages(t, "link-secret")[0]
	m1 := testMessages(t, "message_1")[0]
	m2 := testMessages(t, "message_2")[0]
	m3 := testMessages(t, "message_3")[0]
	m4 := testMessages(t, "message_4")[0]
	full := []*Scalar{m0, m1, m2, m3, m4}

	sig, err := Sign(kp.SecretKey, kp.PublicKey, full, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	bShared, err := RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	disclosures := []Disclosure{
		{Kind: HiddenExternalBlinding, SharedBlinding: bShared},
		{Kind: Revealed},
		{Kind: HiddenProofSpecific},
		{Kind: Revealed},
		{Kind: HiddenProofSpecific},
	}

	proofNonce := ScalarToCanonicalBytes(testMessages(t, "verifier-nonce-1")[0])

	proof, err := CreateProof(kp.PublicKey, sig, full, disclosures, proofNonce, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if err := VerifyProof(kp.PublicKey, proof, proofNonce); err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}

	if len(proof.Revealed) != 2 {
		t.Fatalf("expected 2 revealed entries, got %d", len(proof.Revealed))
	}
	if proof.Revealed[1].Cmp(m1) != 0 {
		t.Fatal("revealed map entry at index 1 does not match message_1")
	}
	if proof.Revealed[3].Cmp(m3) != 0 {
		t.Fatal("revealed map entry at index 3 does not match message_3")
	}
}

// Scenario 4: flipping one byte of z_{r2} in an otherwise-valid proof must
// be rejected as a cryptographic failure, not a structural one.
func TestScenarioTamperedZR2Rejected(t *testing.T) {
	kp, err := GenerateKeyPair(5, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	full := testMessages(t, "link-secret", "message_1", "message_2", "message_3", "message_4")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, full, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	disclosures := []Disclosure{
		{Kind: HiddenProofSpecific},
		{Kind: Revealed},
		{Kind: HiddenProofSpecific},
		{Kind: Revealed},
		{Kind: HiddenProofSpecific},
	}
	proofNonce := ScalarToCanonicalBytes(testMessages(t, "verifier-nonce-1")[0])
	proof, err := CreateProof(kp.PublicKey, sig, full, disclosures, proofNonce, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}

	zr2Bytes := ScalarToCanonicalBytes(proof.ZR2)
	zr2Bytes[len(zr2Bytes)-1] ^= 0x01
	flipped := new(Scalar).SetBytes(zr2Bytes)
	flipped.Mod(flipped, Order)
	proof.ZR2 = flipped

	err = VerifyProof(kp.PublicKey, proof, proofNonce)
	if err == nil {
		t.Fatal("VerifyProof accepted a proof with a flipped z_r2 byte")
	}
	var verr *VerificationError
	if e, ok := err.(*VerificationError); ok {
		verr = e
	}
	if verr == nil || verr.Kind != FailureCryptographic {
		t.Fatalf("expected a cryptographic-failure subcode, got %v", err)
	}
}

// Scenario 5: two signatures over disjoint messages sharing the same
// link-secret value and the same external blinding at their respective
// index-0 slots decompose to the same shared blinding once each proof's
// own challenge contribution is subtracted out - the algebraic property an
// external linkage check relies on.
func TestScenarioExternalLinkageAlgebraicProperty(t *testing.T) {
	kp, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	linkSecret := testMessages(t, "link-secret")[0]
	msgA := testMessages(t, "message_1")[0]
	msgB := testMessages(t, "message_2")[0]

	sigA, err := Sign(kp.SecretKey, kp.PublicKey, []*Scalar{linkSecret, msgA}, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sigB, err := Sign(kp.SecretKey, kp.PublicKey, []*Scalar{linkSecret, msgB}, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	bShared, err := RandomScalar(nil)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	disclosures := []Disclosure{{Kind: HiddenExternalBlinding, SharedBlinding: bShared}, {Kind: Revealed}}
	nonce := []byte("shared-verifier-nonce")

	proofA, err := CreateProof(kp.PublicKey, sigA, []*Scalar{linkSecret, msgA}, disclosures, nonce, nil)
	if err != nil {
		t.Fatalf("CreateProof A: %v", err)
	}
	proofB, err := CreateProof(kp.PublicKey, sigB, []*Scalar{linkSecret, msgB}, disclosures, nonce, nil)
	if err != nil {
		t.Fatalf("CreateProof B: %v", err)
	}

	if err := VerifyProof(kp.PublicKey, proofA, nonce); err != nil {
		t.Fatalf("VerifyProof A: %v", err)
	}
	if err := VerifyProof(kp.PublicKey, proofB, nonce); err != nil {
		t.Fatalf("VerifyProof B: %v", err)
	}

	decomposedA := modSub(proofA.ZMessages[0], modMul(proofA.Challenge, linkSecret))
	decomposedB := modSub(proofB.ZMessages[0], modMul(proofB.Challenge, linkSecret))
	if decomposedA.Cmp(decomposedB) != 0 {
		t.Fatal("the two proofs do not decompose to the same shared blinding")
	}
	if decomposedA.Cmp(bShared) != 0 {
		t.Fatal("the decomposed blinding does not match the externally supplied shared blinding")
	}
}

// Scenario 6: signing 4 messages under a key generated for L=3 fails
// before any field arithmetic runs.
func TestScenarioMessageCountMismatch(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3", "message 4")

	_, err = Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err == nil {
		t.Fatal("Sign accepted a message vector longer than the key's message count")
	}
	var verr *VerificationError
	if e, ok := err.(*VerificationError); ok {
		verr = e
	}
	if verr == nil || verr.Kind != FailureStructural {
		t.Fatalf("expected a structural-failure subcode, got %v", err)
	}
}
