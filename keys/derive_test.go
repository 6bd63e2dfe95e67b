package keys

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/cloudflare/circl/sign/ed448"
)

func testSeed(b byte) []byte {
	seed := make([]byte, SeedSize)
	for i := range seed {
		seed[i] = b + byte(i)
	}
	return seed
}

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := testSeed(0)

	a, err := DeriveRoleSeed(root, "approver")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	b, err := DeriveRoleSeed(root, "approver")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}
	if len(a) != SeedSize {
		t.Fatalf("expected %d byte seed, got %d", SeedSize, len(a))
	}

	c, err := DeriveRoleSeed(root, "issuer")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different roles to derive different seeds")
	}
}

func TestDeriveRoleSeedRejectsBadInput(t *testing.T) {
	if _, err := DeriveRoleSeed(make([]byte, 32), "issuer"); err == nil {
		t.Fatalf("expected short root seed to fail")
	}
	if _, err := DeriveRoleSeed(testSeed(1), "bad role"); err == nil {
		t.Fatalf("expected invalid role to fail")
	}
}

func TestIssuerKeyFromSeedFormat(t *testing.T) {
	issuerKey, err := IssuerKeyFromSeed(testSeed(0x42))
	if err != nil {
		t.Fatalf("IssuerKeyFromSeed: %v", err)
	}
	if !strings.HasPrefix(issuerKey, "ed448:") {
		t.Fatalf("expected ed448 prefix, got %q", issuerKey)
	}
	pubBytes, err := hex.DecodeString(strings.TrimPrefix(issuerKey, "ed448:"))
	if err != nil {
		t.Fatalf("expected valid hex: %v", err)
	}
	if len(pubBytes) != ed448.PublicKeySize {
		t.Fatalf("expected %d pubkey bytes, got %d", ed448.PublicKeySize, len(pubBytes))
	}

	pub, err := ParseIssuerKey(issuerKey)
	if err != nil {
		t.Fatalf("ParseIssuerKey: %v", err)
	}
	if string(pub) != string(pubBytes) {
		t.Fatalf("ParseIssuerKey mismatch")
	}
}

func TestParseIssuerKeyRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"ed448",
		"ed25519:" + strings.Repeat("00", ed448.PublicKeySize),
		"ed448:zz",
		"ed448:" + strings.Repeat("00", ed448.PublicKeySize-1),
	} {
		if _, err := ParseIssuerKey(in); err == nil {
			t.Fatalf("expected ParseIssuerKey(%q) to fail", in)
		}
	}
}
