package bbs

import "testing"

func TestBatchVerifyAllValid(t *testing.T) {
	const n = 4
	pks := make([]*PublicKey, n)
	sigs := make([]*Signature, n)
	messagesList := make([][]*Scalar, n)

	for i := 0; i < n; i++ {
		kp, err := GenerateKeyPair(2, nil)
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		msgs := testMessages(t, "message 1", "message 2")
		sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		pks[i], sigs[i], messagesList[i] = kp.PublicKey, sig, msgs
	}

	if err := BatchVerify(pks, sigs, messagesList); err != nil {
		t.Fatalf("BatchVerify: %v", err)
	}
}

func TestBatchVerifyRejectsOneInvalid(t *testing.T) {
	const n = 3
	pks := make([]*PublicKey, n)
	sigs := make([]*Signature, n)
	messagesList := make([][]*Scalar, n)

	for i := 0; i < n; i++ {
		kp, err := GenerateKeyPair(2, nil)
		if err != nil {
			t.Fatalf("GenerateKeyPair: %v", err)
		}
		msgs := testMessages(t, "message 1", "message 2")
		sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		pks[i], sigs[i], messagesList[i] = kp.PublicKey, sig, msgs
	}

	messagesList[1][0] = modAdd(messagesList[1][0], big1)

	if err := BatchVerify(pks, sigs, messagesList); err == nil {
		t.Fatal("BatchVerify accepted a batch containing a tampered message")
	}
}

func TestBatchVerifyRejectsLengthMismatch(t *testing.T) {
	kp, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	msgs := testMessages(t, "message 1", "message 2")
	sig, err := Sign(kp.SecretKey, kp.PublicKey, msgs, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	err = BatchVerify([]*PublicKey{kp.PublicKey}, []*Signature{sig, sig}, [][]*Scalar{msgs})
	if err == nil {
		t.Fatal("BatchVerify accepted mismatched slice lengths")
	}
}
