package bbs

import (
	"encoding/binary"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// Marshal encodes sig as A (48 bytes, compressed G1) . e (32 bytes) . s
// (32 bytes), exactly SignatureByteLen bytes.
func (sig *Signature) Marshal() []byte {
	out := make([]byte, 0, SignatureByteLen)
	aBytes := sig.A.Bytes()
	out = append(out, aBytes[:]...)
	out = append(out, ScalarToCanonicalBytes(sig.E)...)
	out = append(out, ScalarToCanonicalBytes(sig.S)...)
	return out
}

// UnmarshalSignature decodes the fixed SignatureByteLen-byte form written
// by Marshal, rejecting any scalar at or above the group order.
func UnmarshalSignature(data []byte) (*Signature, error) {
	if len(data) != SignatureByteLen {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	var a bls12381.G1Affine
	var aBytes [G1ByteLen]byte
	copy(aBytes[:], data[:G1ByteLen])
	if _, err := a.SetBytes(aBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	e, err := ScalarFromCanonicalBytes(data[G1ByteLen : G1ByteLen+ScalarByteLen])
	if err != nil {
		return nil, err
	}
	s, err := ScalarFromCanonicalBytes(data[G1ByteLen+ScalarByteLen:])
	if err != nil {
		return nil, err
	}
	return &Signature{A: a, E: e, S: s}, nil
}

// Marshal encodes pk as w (96 bytes, compressed G2) . h0 (48 bytes) . L
// (4-byte big-endian message count) . h1...hL (48 bytes each).
func (pk *PublicKey) Marshal() []byte {
	out := make([]byte, 0, G2ByteLen+G1ByteLen+4+G1ByteLen*len(pk.H))
	wBytes := pk.W.Bytes()
	out = append(out, wBytes[:]...)
	h0Bytes := pk.H0.Bytes()
	out = append(out, h0Bytes[:]...)
	var lBuf [4]byte
	binary.BigEndian.PutUint32(lBuf[:], uint32(len(pk.H)))
	out = append(out, lBuf[:]...)
	for _, h := range pk.H {
		hBytes := h.Bytes()
		out = append(out, hBytes[:]...)
	}
	return out
}

// UnmarshalPublicKey decodes the form written by PublicKey.Marshal.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	if len(data) < G2ByteLen+G1ByteLen+4 {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	var w bls12381.G2Affine
	var wBytes [G2ByteLen]byte
	copy(wBytes[:], data[:G2ByteLen])
	if _, err := w.SetBytes(wBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	offset := G2ByteLen

	var h0 bls12381.G1Affine
	var h0Bytes [G1ByteLen]byte
	copy(h0Bytes[:], data[offset:offset+G1ByteLen])
	if _, err := h0.SetBytes(h0Bytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	offset += G1ByteLen

	l := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	if len(data) != offset+G1ByteLen*l {
		return nil, structuralErr(ErrInvalidEncoding)
	}

	_, _, g1, g2 := bls12381.Generators()
	h := make([]bls12381.G1Affine, l)
	for i := 0; i < l; i++ {
		var hiBytes [G1ByteLen]byte
		copy(hiBytes[:], data[offset:offset+G1ByteLen])
		if _, err := h[i].SetBytes(hiBytes[:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
		}
		offset += G1ByteLen
	}

	return &PublicKey{
		W:            w,
		Generators:   Generators{G1: g1, G2: g2, H0: h0, H: h},
		MessageCount: l,
	}, nil
}

// Marshal encodes dpk as its bare 96-byte compressed w point.
func (dpk *DeterministicPublicKey) Marshal() []byte {
	out := dpk.W.Bytes()
	return out[:]
}

// UnmarshalDeterministicPublicKey decodes the form written by
// DeterministicPublicKey.Marshal.
func UnmarshalDeterministicPublicKey(data []byte) (*DeterministicPublicKey, error) {
	if len(data) != G2ByteLen {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	var w bls12381.G2Affine
	var wBytes [G2ByteLen]byte
	copy(wBytes[:], data)
	if _, err := w.SetBytes(wBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	return &DeterministicPublicKey{W: w}, nil
}

// Marshal encodes a BlindSignatureContext as C (48 bytes) . challenge
// (32 bytes) . z_s' (32 bytes) . count (4-byte BE) . (index (4-byte BE) .
// z_mi (32 bytes)) for each committed index, ascending.
func (ctx *BlindSignatureContext) Marshal() []byte {
	out := make([]byte, 0, G1ByteLen+2*ScalarByteLen+4+len(ctx.Indices)*(4+ScalarByteLen))
	cBytes := ctx.C.Bytes()
	out = append(out, cBytes[:]...)
	out = append(out, ScalarToCanonicalBytes(ctx.Challenge)...)
	out = append(out, ScalarToCanonicalBytes(ctx.ZPrime)...)
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(ctx.Indices)))
	out = append(out, countBuf[:]...)
	for _, i := range ctx.Indices {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(i))
		out = append(out, idxBuf[:]...)
		out = append(out, ScalarToCanonicalBytes(ctx.ZMessages[i])...)
	}
	return out
}

// UnmarshalBlindSignatureContext decodes the form written by
// BlindSignatureContext.Marshal.
func UnmarshalBlindSignatureContext(data []byte) (*BlindSignatureContext, error) {
	if len(data) < G1ByteLen+2*ScalarByteLen+4 {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	var c bls12381.G1Affine
	var cBytes [G1ByteLen]byte
	copy(cBytes[:], data[:G1ByteLen])
	if _, err := c.SetBytes(cBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	offset := G1ByteLen

	challenge, err := ScalarFromCanonicalBytes(data[offset : offset+ScalarByteLen])
	if err != nil {
		return nil, err
	}
	offset += ScalarByteLen
	zPrime, err := ScalarFromCanonicalBytes(data[offset : offset+ScalarByteLen])
	if err != nil {
		return nil, err
	}
	offset += ScalarByteLen

	count := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4

	if len(data) != offset+count*(4+ScalarByteLen) {
		return nil, structuralErr(ErrInvalidEncoding)
	}

	indices := make([]int, count)
	zMessages := make(map[int]*big.Int, count)
	for k := 0; k < count; k++ {
		idx := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
		z, err := ScalarFromCanonicalBytes(data[offset : offset+ScalarByteLen])
		if err != nil {
			return nil, err
		}
		offset += ScalarByteLen
		indices[k] = idx
		zMessages[idx] = z
	}

	return &BlindSignatureContext{
		C: c, Indices: indices, Challenge: challenge, ZPrime: zPrime, ZMessages: zMessages,
	}, nil
}

// Marshal encodes bs as A (48 bytes) . e (32 bytes) . s-tilde (32 bytes),
// the same fixed-width shape as Signature.Marshal since a BlindSignature
// carries no index metadata of its own.
func (bs *BlindSignature) Marshal() []byte {
	out := make([]byte, 0, SignatureByteLen)
	aBytes := bs.A.Bytes()
	out = append(out, aBytes[:]...)
	out = append(out, ScalarToCanonicalBytes(bs.E)...)
	out = append(out, ScalarToCanonicalBytes(bs.STilde)...)
	return out
}

// UnmarshalBlindSignature decodes the form written by BlindSignature.Marshal.
func UnmarshalBlindSignature(data []byte) (*BlindSignature, error) {
	if len(data) != SignatureByteLen {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	var a bls12381.G1Affine
	var aBytes [G1ByteLen]byte
	copy(aBytes[:], data[:G1ByteLen])
	if _, err := a.SetBytes(aBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
	}
	e, err := ScalarFromCanonicalBytes(data[G1ByteLen : G1ByteLen+ScalarByteLen])
	if err != nil {
		return nil, err
	}
	sTilde, err := ScalarFromCanonicalBytes(data[G1ByteLen+ScalarByteLen:])
	if err != nil {
		return nil, err
	}
	return &BlindSignature{A: a, E: e, STilde: sTilde}, nil
}

// Marshal encodes proof as AHat . ABar . D (48 bytes each) . challenge .
// zE . zR2 . zR3 . zSPrime (32 bytes each) . hiddenCount (4-byte BE) .
// (index (4-byte BE) . z_mi (32 bytes)) ascending by index . revealedCount
// (4-byte BE) . (index (4-byte BE) . m_i (32 bytes)) ascending by index.
func (proof *SignatureProof) Marshal() []byte {
	hiddenIdx := sortedIndices(proof.ZMessages)
	revealedIdx := sortedIndices(proof.Revealed)

	size := 3*G1ByteLen + 4*ScalarByteLen + 4 + len(hiddenIdx)*(4+ScalarByteLen) + 4 + len(revealedIdx)*(4+ScalarByteLen)
	out := make([]byte, 0, size)

	aHatBytes := proof.AHat.Bytes()
	out = append(out, aHatBytes[:]...)
	aBarBytes := proof.ABar.Bytes()
	out = append(out, aBarBytes[:]...)
	dBytes := proof.D.Bytes()
	out = append(out, dBytes[:]...)

	out = append(out, ScalarToCanonicalBytes(proof.Challenge)...)
	out = append(out, ScalarToCanonicalBytes(proof.ZE)...)
	out = append(out, ScalarToCanonicalBytes(proof.ZR2)...)
	out = append(out, ScalarToCanonicalBytes(proof.ZR3)...)
	out = append(out, ScalarToCanonicalBytes(proof.ZSPrime)...)

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(hiddenIdx)))
	out = append(out, countBuf[:]...)
	for _, i := range hiddenIdx {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(i))
		out = append(out, idxBuf[:]...)
		out = append(out, ScalarToCanonicalBytes(proof.ZMessages[i])...)
	}

	binary.BigEndian.PutUint32(countBuf[:], uint32(len(revealedIdx)))
	out = append(out, countBuf[:]...)
	for _, i := range revealedIdx {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(i))
		out = append(out, idxBuf[:]...)
		out = append(out, ScalarToCanonicalBytes(proof.Revealed[i])...)
	}

	return out
}

// UnmarshalSignatureProof decodes the form written by SignatureProof.Marshal.
func UnmarshalSignatureProof(data []byte) (*SignatureProof, error) {
	if len(data) < 3*G1ByteLen+4*ScalarByteLen+4 {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	offset := 0
	readG1 := func() (bls12381.G1Affine, error) {
		var p bls12381.G1Affine
		var pBytes [G1ByteLen]byte
		copy(pBytes[:], data[offset:offset+G1ByteLen])
		if _, err := p.SetBytes(pBytes[:]); err != nil {
			return p, fmt.Errorf("%w: %v", ErrInvalidCurvePoint, err)
		}
		offset += G1ByteLen
		return p, nil
	}
	readScalar := func() (*big.Int, error) {
		s, err := ScalarFromCanonicalBytes(data[offset : offset+ScalarByteLen])
		offset += ScalarByteLen
		return s, err
	}

	aHat, err := readG1()
	if err != nil {
		return nil, err
	}
	aBar, err := readG1()
	if err != nil {
		return nil, err
	}
	d, err := readG1()
	if err != nil {
		return nil, err
	}

	challenge, err := readScalar()
	if err != nil {
		return nil, err
	}
	zE, err := readScalar()
	if err != nil {
		return nil, err
	}
	zR2, err := readScalar()
	if err != nil {
		return nil, err
	}
	zR3, err := readScalar()
	if err != nil {
		return nil, err
	}
	zSPrime, err := readScalar()
	if err != nil {
		return nil, err
	}

	if len(data) < offset+4 {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	hiddenCount := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	zMessages := make(map[int]*big.Int, hiddenCount)
	for k := 0; k < hiddenCount; k++ {
		if len(data) < offset+4+ScalarByteLen {
			return nil, structuralErr(ErrInvalidEncoding)
		}
		idx := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
		z, err := readScalar()
		if err != nil {
			return nil, err
		}
		zMessages[idx] = z
	}

	if len(data) < offset+4 {
		return nil, structuralErr(ErrInvalidEncoding)
	}
	revealedCount := int(binary.BigEndian.Uint32(data[offset : offset+4]))
	offset += 4
	revealed := make(map[int]*big.Int, revealedCount)
	for k := 0; k < revealedCount; k++ {
		if len(data) < offset+4+ScalarByteLen {
			return nil, structuralErr(ErrInvalidEncoding)
		}
		idx := int(binary.BigEndian.Uint32(data[offset : offset+4]))
		offset += 4
		m, err := readScalar()
		if err != nil {
			return nil, err
		}
		revealed[idx] = m
	}

	if offset != len(data) {
		return nil, structuralErr(ErrInvalidEncoding)
	}

	return &SignatureProof{
		AHat: aHat, ABar: aBar, D: d,
		Challenge: challenge, ZE: zE, ZR2: zR2, ZR3: zR3, ZSPrime: zSPrime,
		ZMessages: zMessages, Revealed: revealed,
	}, nil
}
