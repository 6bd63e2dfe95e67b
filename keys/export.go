package keys

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cloudflare/circl/sign/ed448"
)

const issuerKeyPrefix = "ed448:"

// IssuerKeyFromPublicKey encodes an Ed448 public key into the issuer-key string.
func IssuerKeyFromPublicKey(pub ed448.PublicKey) (string, error) {
	if l := len(pub); l != ed448.PublicKeySize {
		return "", fmt.Errorf("ed448 public key must be %d bytes, got %d", ed448.PublicKeySize, l)
	}
	return issuerKeyPrefix + hex.EncodeToString(pub), nil
}

// ParseIssuerKey decodes an "ed448:<hex>" issuer key.
func ParseIssuerKey(issuerKey string) (ed448.PublicKey, error) {
	alg, enc, ok := strings.Cut(issuerKey, ":")
	if !ok {
		return nil, fmt.Errorf("invalid issuer key encoding")
	}
	if alg != "ed448" {
		return nil, fmt.Errorf("unsupported issuer key algorithm %q", alg)
	}
	pub, err := hex.DecodeString(enc)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer key hex: %w", err)
	}
	if len(pub) != ed448.PublicKeySize {
		return nil, fmt.Errorf("ed448 public key must be %d bytes, got %d", ed448.PublicKeySize, len(pub))
	}
	return ed448.PublicKey(pub), nil
}
