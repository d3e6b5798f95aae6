package bbs

import (
	"testing"
)

func testMessages(t *testing.T, strs ...string) []*Scalar {
	t.Helper()
	out := make([]*Scalar, len(strs))
	for i, s := range strs {
		m, err := MessageFromHash([]byte(s), DefaultDST)
		if err != nil {
			t.Fatalf("MessageFromHash(%q): %v", s, err)
		}
		out[i] = m
	}
	return out
}

func TestSignAndVerify(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
	}{
		{"single message", []string{"message 1"}},
		{"three messages", []string{"message 1", "message 2", "message 3"}},
		{"five messages", []string{"message 1", "message 2", "message 3", "message 4", "message 5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kp, err := GenerateKeyPair(len(tc.messages), nil)
			if err != nil {
				t.Fatalf("GenerateKeyPair: %v", err)
			}
			msgs := testMessages(t, tc.messages...)

			sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
			if err != nil {
				t.Fatalf("Sign: %v", err)
			}
			if err := Verify(kp.PublicKey, sig, msgs); err != nil {
				t.Fatalf("Verify: %v", err)
			}
		})
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3")

	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := make([]*Scalar, len(msgs))
	copy(tampered, msgs)
	tampered[1] = modAdd(msgs[1], big1)

	if err := Verify(kp.PublicKey, sig, tampered); err == nil {
		t.Fatal("Verify accepted a tampered message vector")
	}
}

func TestVerifyRejectsWrongMessageCount(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2", "message 3")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if err := Verify(kp.PublicKey, sig, msgs[:2]); err == nil {
		t.Fatal("Verify accepted a short message vector")
	}
}

func TestShortKeysExpand(t *testing.T) {
	sk, dpk, err := ShortKeys(nil)
	if err != nil {
		t.Fatalf("ShortKeys: %v", err)
	}
	dst := DomainSeparationTag{ProtocolID: "BBS_TEST", Version: "1.0", Ciphersuite: "BLS12381G1_XMD:SHA-256_SSWU_RO", Encoding: "H2C"}

	pk1, err := dpk.Expand(4, dst)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	pk2, err := dpk.Expand(4, dst)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	if pk1.H0.X.String() != pk2.H0.X.String() || pk1.H0.Y.String() != pk2.H0.Y.String() {
		t.Fatal("Expand is not deterministic for h0")
	}
	for i := range pk1.H {
		if pk1.H[i].X.String() != pk2.H[i].X.String() {
			t.Fatalf("Expand is not deterministic for h[%d]", i)
		}
	}

	msgs := testMessages(t, "message 1", "message 2", "message 3", "message 4")
	sig, err := Sign(sk, pk1, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(pk1, sig, msgs); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

var big1 = newBigInt(1)

func newBigInt(v int64) *Scalar {
	return new(Scalar).SetInt64(v)
}
