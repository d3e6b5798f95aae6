package bbs

import "fmt"

// DomainSeparationTag distinguishes uses of the same hash-to-curve /
// hash-to-scalar machinery across protocols, versions, ciphersuites and
// encodings. MessageFromHash and DeterministicPublicKey.Expand take it as a
// caller-supplied parameter. The Fiat-Shamir challenges of the blind-context
// PoK and the SPK are always computed under DefaultDST; callers cannot
// choose the tag for those.
type DomainSeparationTag struct {
	ProtocolID string
	Version    string
	Ciphersuite string
	Encoding   string
}

// DefaultDST is the tag used when a caller does not need cross-deployment
// domain separation; it still obeys the 255-byte bound.
var DefaultDST = DomainSeparationTag{
	ProtocolID:  "BBS_SIGNATURES",
	Version:     "1.0",
	Ciphersuite: "BLS12381G1_XMD:SHA-256_SSWU_RO",
	Encoding:    "H2C",
}

// Bytes returns the canonical concatenation of the tag's four components,
// separated by a single 0x2d byte ('-'). Components that themselves contain
// '-' (DefaultDST's ciphersuite does) can give two different tags the same
// bytes; the separator does not rule that out.
func (d DomainSeparationTag) Bytes() ([]byte, error) {
	sep := byte('-')
	out := make([]byte, 0, len(d.ProtocolID)+len(d.Version)+len(d.Ciphersuite)+len(d.Encoding)+3)
	out = append(out, []byte(d.ProtocolID)...)
	out = append(out, sep)
	out = append(out, []byte(d.Version)...)
	out = append(out, sep)
	out = append(out, []byte(d.Ciphersuite)...)
	out = append(out, sep)
	out = append(out, []byte(d.Encoding)...)
	if len(out) > 255 {
		return nil, fmt.Errorf("%w: %d bytes", ErrDSTTooLong, len(out))
	}
	return out, nil
}
