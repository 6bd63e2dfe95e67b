package keys

import (
	"fmt"

	"github.com/cloudflare/circl/sign/ed448"
	"golang.org/x/crypto/sha3"
)

// SeedSize is the length of an Ed448 private key seed.
const SeedSize = ed448.SeedSize

// IssuerKeyFromSeed returns the issuer key string for an Ed448 seed.
//
// Format: "ed448:" + lowercase hex(pubkey).
func IssuerKeyFromSeed(seed []byte) (string, error) {
	pub, err := PublicKeyFromSeed(seed)
	if err != nil {
		return "", err
	}
	return IssuerKeyFromPublicKey(pub)
}

// PublicKeyFromSeed returns the Ed448 public key for seed.
func PublicKeyFromSeed(seed []byte) (ed448.PublicKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	priv := ed448.NewKeyFromSeed(seed)
	return priv.Public().(ed448.PublicKey), nil
}

// DeriveRoleSeed deterministically derives a role-specific Ed448 seed from a root seed.
//
// The derivation is SHAKE256(root || 0 || label || 0 || "role:" || role)
// truncated to SeedSize bytes.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha3.NewShake256()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("xdao-sig448-kms-lite-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	out := make([]byte, SeedSize)
	if _, err := h.Read(out); err != nil {
		return nil, fmt.Errorf("kdf: %w", err)
	}
	return out, nil
}
