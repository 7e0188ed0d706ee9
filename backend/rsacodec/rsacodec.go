// Package rsacodec serializes and parses a Key: the inner (modulus,
// exponent) integer pair, the RFC 5208 / X.509-shaped outer envelopes that
// wrap it, and the PEM text armor around an envelope.
package rsacodec

import (
	"bytes"
	"encoding/asn1"
	"encoding/base64"
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"rsakit/backend/rsakeys"
)

// rsaAlgorithmOID is the RSA encryption object identifier, 1.2.840.113549.1.1.1.
var rsaAlgorithmOID = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

const pemLineLength = 64

type algorithmIdentifier struct {
	Algorithm asn1.ObjectIdentifier
}

type innerPair struct {
	N *big.Int
	E *big.Int
}

type privateKeyEnvelope struct {
	Version    int
	Algorithm  algorithmIdentifier
	PrivateKey []byte
}

type publicKeyEnvelope struct {
	Algorithm        algorithmIdentifier
	SubjectPublicKey asn1.BitString
}

// EncodeInnerPair serializes k's (modulus, exponent) as a two-element DER
// SEQUENCE of INTEGERs, modulus first.
func EncodeInnerPair(k *rsakeys.Key) []byte {
	encoded, err := asn1.Marshal(innerPair{N: k.N, E: k.E})
	if err != nil {
		// Key fields are always valid *big.Int values; asn1 cannot fail here.
		panic(fmt.Sprintf("rsacodec: marshaling inner pair: %v", err))
	}
	return encoded
}

// DecodeInnerPair parses the two-element SEQUENCE produced by
// EncodeInnerPair, returning the modulus and exponent in that order.
func DecodeInnerPair(b []byte) (n, e *big.Int, err error) {
	var pair innerPair
	rest, err := asn1.Unmarshal(b, &pair)
	if err != nil {
		return nil, nil, fmt.Errorf("rsacodec: malformed inner integer pair: %w", err)
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("rsacodec: %d trailing bytes after inner integer pair", len(rest))
	}
	return pair.N, pair.E, nil
}

// EncodePrivateEnvelope wraps k in the RFC 5208 PrivateKeyInfo shape:
// version 0, the RSA algorithm identifier, and the inner pair as an octet
// string.
func EncodePrivateEnvelope(k *rsakeys.Key) []byte {
	envelope := privateKeyEnvelope{
		Version:    0,
		Algorithm:  algorithmIdentifier{Algorithm: rsaAlgorithmOID},
		PrivateKey: EncodeInnerPair(k),
	}
	encoded, err := asn1.Marshal(envelope)
	if err != nil {
		panic(fmt.Sprintf("rsacodec: marshaling private envelope: %v", err))
	}
	return encoded
}

// EncodePublicEnvelope wraps k in the X.509 SubjectPublicKeyInfo shape: the
// RSA algorithm identifier and the inner pair as a bit string with zero
// unused bits.
func EncodePublicEnvelope(k *rsakeys.Key) []byte {
	inner := EncodeInnerPair(k)
	envelope := publicKeyEnvelope{
		Algorithm: algorithmIdentifier{Algorithm: rsaAlgorithmOID},
		SubjectPublicKey: asn1.BitString{
			Bytes:     inner,
			BitLength: len(inner) * 8,
		},
	}
	encoded, err := asn1.Marshal(envelope)
	if err != nil {
		panic(fmt.Sprintf("rsacodec: marshaling public envelope: %v", err))
	}
	return encoded
}

// DecodeEnvelope parses either envelope shape and returns the reconstructed
// Key, trying the private-key shape first.
func DecodeEnvelope(b []byte) (*rsakeys.Key, error) {
	var priv privateKeyEnvelope
	if rest, err := asn1.Unmarshal(b, &priv); err == nil && len(rest) == 0 {
		n, e, err := DecodeInnerPair(priv.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("rsacodec: decoding private envelope payload: %w", err)
		}
		return &rsakeys.Key{N: n, E: e, Kind: rsakeys.Private}, nil
	}

	var pub publicKeyEnvelope
	rest, err := asn1.Unmarshal(b, &pub)
	if err != nil {
		return nil, fmt.Errorf("rsacodec: malformed key envelope: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("rsacodec: %d trailing bytes after key envelope", len(rest))
	}
	n, e, err := DecodeInnerPair(pub.SubjectPublicKey.Bytes)
	if err != nil {
		return nil, fmt.Errorf("rsacodec: decoding public envelope payload: %w", err)
	}
	return &rsakeys.Key{N: n, E: e, Kind: rsakeys.Public}, nil
}

// EncodePEM base64-armors envelope, wraps it to 64-character lines, and
// brackets it with BEGIN/END banners naming kind.
func EncodePEM(envelope []byte, kind rsakeys.KeyKind) []byte {
	encoded := base64.StdEncoding.EncodeToString(envelope)

	var wrapped strings.Builder
	for i := 0; i < len(encoded); i += pemLineLength {
		end := i + pemLineLength
		if end > len(encoded) {
			end = len(encoded)
		}
		if i > 0 {
			wrapped.WriteByte('\n')
		}
		wrapped.WriteString(encoded[i:end])
	}

	label := kind.String()
	var out bytes.Buffer
	fmt.Fprintf(&out, "-----BEGIN %s KEY-----\n", label)
	out.WriteString(wrapped.String())
	fmt.Fprintf(&out, "\n-----END %s KEY-----\n", label)
	return out.Bytes()
}

// DecodePEM detects the key kind from the first line, strips the PEM
// banners, and base64-decodes the interior lines back into envelope bytes.
func DecodePEM(pem []byte) (envelope []byte, kind rsakeys.KeyKind, err error) {
	lines := strings.Split(strings.TrimRight(string(pem), "\n"), "\n")
	if len(lines) < 3 {
		return nil, 0, fmt.Errorf("rsacodec: PEM input too short to contain banners")
	}

	header := lines[0]
	if !strings.Contains(header, "BEGIN") {
		return nil, 0, fmt.Errorf("rsacodec: missing BEGIN banner")
	}
	if strings.Contains(header, "PRIVATE") {
		kind = rsakeys.Private
	} else {
		kind = rsakeys.Public
	}

	var encoded strings.Builder
	for _, line := range lines[1 : len(lines)-1] {
		encoded.WriteString(line)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded.String())
	if err != nil {
		return nil, 0, fmt.Errorf("rsacodec: base64 decoding PEM body: %w", err)
	}
	return decoded, kind, nil
}

// KeyPath joins dir, name and a role suffix (e.g. "pub" or "sec") into the
// conventional "<dir>/<name>_<suffix>.pem" key file path.
func KeyPath(dir, name, suffix string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.pem", name, suffix))
}
