package bbs

import (
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// transcript accumulates the canonical byte assembly that every
// Fiat-Shamir challenge in this package is computed over: domain-tag
// followed by field encodings in the order each caller appends them,
// exactly the order named in component design for the blind-context PoK
// and the SPK.
type transcript struct {
	buf []byte
}

func newTranscript(dst DomainSeparationTag) *transcript {
	t := &transcript{}
	if tag, err := dst.Bytes(); err == nil {
		t.buf = append(t.buf, tag...)
	}
	return t
}

func (t *transcript) writeG1(p bls12381.G1Affine) *transcript {
	t.buf = append(t.buf, p.Marshal()...)
	return t
}

func (t *transcript) writeG2(p bls12381.G2Affine) *transcript {
	t.buf = append(t.buf, p.Marshal()...)
	return t
}

func (t *transcript) writeScalar(s *big.Int) *transcript {
	t.buf = append(t.buf, ScalarToCanonicalBytes(s)...)
	return t
}

func (t *transcript) writeBytes(b []byte) *transcript {
	t.buf = append(t.buf, b...)
	return t
}

func (t *transcript) writeUint32(v int) *transcript {
	t.buf = append(t.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	return t
}

// writeRevealedMap appends the canonical encoding of a revealed-message
// map: entries sorted by index ascending (the safe default this package
// resolves component design's open ordering question to), each rendered
// as a 4-byte big-endian index followed by the message's 32-byte scalar
// encoding.
func (t *transcript) writeRevealedMap(revealed map[int]*big.Int) *transcript {
	indices := make([]int, 0, len(revealed))
	for i := range revealed {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		t.writeUint32(i)
		t.writeScalar(revealed[i])
	}
	return t
}

// challenge reduces the accumulated transcript to a scalar via the
// curve's documented hash-to-scalar primitive.
func (t *transcript) challenge(dst DomainSeparationTag) (*big.Int, error) {
	dstBytes, err := dst.Bytes()
	if err != nil {
		return nil, err
	}
	elems, err := fr.Hash(t.buf, dstBytes, 1)
	if err != nil {
		return nil, err
	}
	out := new(big.Int)
	elems[0].BigInt(out)
	return out, nil
}
