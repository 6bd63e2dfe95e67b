package keys

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed448"

	"xdao.co/sig448/sig448"
)

// GenerateSeed reads a fresh Ed448 seed from rand.
func GenerateSeed(rand io.Reader) ([]byte, error) {
	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(rand, seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// Sign returns the pure Ed448 signature of message under the key derived from seed.
// ctx is the Ed448 context string and may be empty.
func Sign(seed, message []byte, ctx string) (sig448.Signature, error) {
	if len(seed) != SeedSize {
		return sig448.Signature{}, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	if len(ctx) > ed448.ContextMaxSize {
		return sig448.Signature{}, fmt.Errorf("context must be at most %d bytes", ed448.ContextMaxSize)
	}
	priv := ed448.NewKeyFromSeed(seed)
	return sig448.FromBytes(ed448.Sign(priv, message, ctx))
}

// Verify reports whether sig is a valid Ed448 signature of message by pub.
func Verify(pub ed448.PublicKey, message []byte, sig sig448.Signature, ctx string) bool {
	if len(pub) != ed448.PublicKeySize || len(ctx) > ed448.ContextMaxSize {
		return false
	}
	return ed448.Verify(pub, message, sig.Bytes(), ctx)
}
