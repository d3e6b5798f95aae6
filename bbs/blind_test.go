package bbs

import "testing"

func TestBlindIssuanceRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(4, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	linkSecret, err := MessageFromHash([]byte("link-secret"), DefaultDST)
	if err != nil {
		t.Fatalf("MessageFromHash: %v", err)
	}
	msg1, err := MessageFromHash([]byte("message_1"), DefaultDST)
	if err != nil {
		t.Fatalf("MessageFromHash: %v", err)
	}
	msg2, err := MessageFromHash([]byte("message_2"), DefaultDST)
	if err != nil {
		t.Fatalf("MessageFromHash: %v", err)
	}
	msg3, err := MessageFromHash([]byte("message_3"), DefaultDST)
	if err != nil {
		t.Fatalf("MessageFromHash: %v", err)
	}

	committed := map[int]*Scalar{0: linkSecret, 1: msg1}
	nonce := []byte("issuer-nonce-1")

	ctx, sPrime, err := NewBlindSignatureContext(kp.PublicKey, committed, nonce, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}

	signerMessages := map[int]*Scalar{2: msg2, 3: msg3}
	bs, err := BlindSign(kp.SecretKey, kp.PublicKey, ctx, signerMessages, nonce, nil)
	if err != nil {
		t.Fatalf("BlindSign: %v", err)
	}

	sig := bs.Unblind(sPrime)
	fullMessages := []*Scalar{linkSecret, msg1, msg2, msg3}
	if err := Verify(kp.PublicKey, sig, fullMessages); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestBlindSignatureContextPoKRejectsTamperedResponse(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	committed := testMessages(t, "message 1")
	nonce := []byte("issuer-nonce-2")

	ctx, _, err := NewBlindSignatureContext(kp.PublicKey, map[int]*Scalar{0: committed[0]}, nonce, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}

	ctx.ZPrime = modAdd(ctx.ZPrime, big1)

	if err := ctx.Verify(kp.PublicKey, nil, nonce); err == nil {
		t.Fatal("Verify accepted a tampered z_s' response")
	}
}

func TestBlindSignatureContextWithNoCommittedMessages(t *testing.T) {
	kp, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	nonce := []byte("issuer-nonce-4")

	ctx, sPrime, err := NewBlindSignatureContext(kp.PublicKey, nil, nonce, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}
	if len(ctx.Indices) != 0 {
		t.Fatalf("expected no committed indices, got %d", len(ctx.Indices))
	}
	// |I| = 0 still carries a PoK of s' alone.
	if ctx.ZPrime == nil || ctx.ZPrime.Sign() == 0 {
		t.Fatal("expected a nonzero z_s' response even with no committed messages")
	}
	if err := ctx.Verify(kp.PublicKey, nil, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	msgs := testMessages(t, "message 1", "message 2")
	bs, err := BlindSign(kp.SecretKey, kp.PublicKey, ctx, map[int]*Scalar{0: msgs[0], 1: msgs[1]}, nonce, nil)
	if err != nil {
		t.Fatalf("BlindSign: %v", err)
	}
	sig := bs.Unblind(sPrime)
	if err := Verify(kp.PublicKey, sig, msgs); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestBlindSignRejectsOverlappingIndices(t *testing.T) {
	kp, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	committed := testMessages(t, "message 1")
	nonce := []byte("issuer-nonce-3")

	ctx, _, err := NewBlindSignatureContext(kp.PublicKey, map[int]*Scalar{0: committed[0]}, nonce, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}

	overlapping := testMessages(t, "message 2")
	if _, err := BlindSign(kp.SecretKey, kp.PublicKey, ctx, map[int]*Scalar{0: overlapping[0]}, nonce, nil); err == nil {
		t.Fatal("BlindSign accepted a signer message index overlapping the committed index")
	}
}
