package bbs

import (
	"math/big"
	"testing"
)

func TestSignatureMarshalRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	encoded := sig.Marshal()
	if len(encoded) != SignatureByteLen {
		t.Fatalf("expected %d bytes, got %d", SignatureByteLen, len(encoded))
	}

	decoded, err := UnmarshalSignature(encoded)
	if err != nil {
		t.Fatalf("UnmarshalSignature: %v", err)
	}
	if err := Verify(kp.PublicKey, decoded, msgs); err != nil {
		t.Fatalf("Verify(decoded): %v", err)
	}
}

func TestUnmarshalSignatureRejectsWrongLength(t *testing.T) {
	if _, err := UnmarshalSignature(make([]byte, SignatureByteLen-1)); err == nil {
		t.Fatal("expected an error for a short signature encoding")
	}
}

func TestPublicKeyMarshalRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(4, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	encoded := kp.PublicKey.Marshal()
	expectedLen := G2ByteLen + G1ByteLen + 4 + G1ByteLen*4
	if len(encoded) != expectedLen {
		t.Fatalf("expected %d bytes, got %d", expectedLen, len(encoded))
	}

	decoded, err := UnmarshalPublicKey(encoded)
	if err != nil {
		t.Fatalf("UnmarshalPublicKey: %v", err)
	}
	if decoded.MessageCount != 4 {
		t.Fatalf("expected message count 4, got %d", decoded.MessageCount)
	}

	msgs := testMessages(t, "message 1", "message 2", "message 3", "message 4")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(decoded, sig, msgs); err != nil {
		t.Fatalf("Verify(decoded public key): %v", err)
	}
}

func TestDeterministicPublicKeyMarshalRoundTrip(t *testing.T) {
	_, dpk, err := ShortKeys(nil)
	if err != nil {
		t.Fatalf("ShortKeys: %v", err)
	}
	encoded := dpk.Marshal()
	if len(encoded) != G2ByteLen {
		t.Fatalf("expected %d bytes, got %d", G2ByteLen, len(encoded))
	}
	decoded, err := UnmarshalDeterministicPublicKey(encoded)
	if err != nil {
		t.Fatalf("UnmarshalDeterministicPublicKey: %v", err)
	}
	if decoded.W.X.String() != dpk.W.X.String() {
		t.Fatal("decoded deterministic public key does not match original")
	}
}

func TestBlindSignatureMarshalRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	m0 := testMessages(t, "link-secret")[0]
	nonce := []byte("issuer-nonce")
	ctx, sPrime, err := NewBlindSignatureContext(kp.PublicKey, map[int]*big.Int{0: m0}, nonce, nil)
	if err != nil {
		t.Fatalf("NewBlindSignatureContext: %v", err)
	}
	m1 := testMessages(t, "message-1")[0]
	bs, err := BlindSign(kp.SecretKey, kp.PublicKey, ctx, map[int]*big.Int{1: m1}, nonce, nil)
	if err != nil {
		t.Fatalf("BlindSign: %v", err)
	}

	encoded := bs.Marshal()
	if len(encoded) != SignatureByteLen {
		t.Fatalf("expected %d bytes, got %d", SignatureByteLen, len(encoded))
	}
	decoded, err := UnmarshalBlindSignature(encoded)
	if err != nil {
		t.Fatalf("UnmarshalBlindSignature: %v", err)
	}
	sig := decoded.Unblind(sPrime)
	if err := Verify(kp.PublicKey, sig, []*big.Int{m0, m1}); err != nil {
		t.Fatalf("Verify(unblinded from decoded): %v", err)
	}
}

func TestSignatureProofMarshalRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	nonce := []byte("verifier-nonce")
	proof, err := CreateProof(kp.PublicKey, sig, msgs, RevealAll(3, []int{1}), nonce, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}

	encoded := proof.Marshal()
	decoded, err := UnmarshalSignatureProof(encoded)
	if err != nil {
		t.Fatalf("UnmarshalSignatureProof: %v", err)
	}
	if err := VerifyProof(kp.PublicKey, decoded, nonce); err != nil {
		t.Fatalf("VerifyProof(decoded): %v", err)
	}
}

func TestScalarCanonicalBytesRejectsOutOfRange(t *testing.T) {
	encoded := make([]byte, ScalarByteLen)
	Order.FillBytes(encoded) // Order itself is not a valid scalar.
	if _, err := ScalarFromCanonicalBytes(encoded); err == nil {
		t.Fatal("expected an error for a scalar equal to the group order")
	}
}
