package testkit

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/sig448/cidutil"
	"xdao.co/sig448/sig448"
	"xdao.co/sig448/storage"
)

// NewSignatureStore constructs a fresh, empty SignatureStore for a test.
type NewSignatureStore func(t *testing.T) storage.SignatureStore

func sigFilledWith(b byte) sig448.Signature {
	var r, s [sig448.ComponentSize]byte
	for i := range r {
		r[i] = b
		s[i] = ^b
	}
	return sig448.New(r, s)
}

func RunSignatureStoreConformance(t *testing.T, newStore NewSignatureStore) {
	t.Helper()

	msg, err := cidutil.CIDv1RawSHA256CID([]byte("signed payload"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}

	t.Run("PutListRoundTrip", func(t *testing.T) {
		store := newStore(t)
		a, b := sigFilledWith(0x01), sigFilledWith(0xab)
		if err := store.PutSignature(msg, "alice", a); err != nil {
			t.Fatalf("PutSignature(alice) failed: %v", err)
		}
		if err := store.PutSignature(msg, "bob", b); err != nil {
			t.Fatalf("PutSignature(bob) failed: %v", err)
		}
		got, err := store.Signatures(msg)
		if err != nil {
			t.Fatalf("Signatures failed: %v", err)
		}
		if len(got) != 2 || !got["alice"].Equal(a) || !got["bob"].Equal(b) {
			t.Fatalf("unexpected signatures: %v", got)
		}
	})

	t.Run("PutIdempotentAndImmutable", func(t *testing.T) {
		store := newStore(t)
		sig := sigFilledWith(0x42)
		if err := store.PutSignature(msg, "alice", sig); err != nil {
			t.Fatalf("PutSignature(1) failed: %v", err)
		}
		if err := store.PutSignature(msg, "alice", sig); err != nil {
			t.Fatalf("PutSignature(2) failed: %v", err)
		}
		err := store.PutSignature(msg, "alice", sigFilledWith(0x43))
		if !errors.Is(err, storage.ErrImmutable) {
			t.Fatalf("PutSignature(different): got %v want ErrImmutable", err)
		}
	})

	t.Run("EmptyForUnknownMessage", func(t *testing.T) {
		store := newStore(t)
		got, err := store.Signatures(msg)
		if err != nil {
			t.Fatalf("Signatures failed: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no signatures, got %d", len(got))
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		store := newStore(t)
		var undef cid.Cid
		if err := store.PutSignature(undef, "alice", sigFilledWith(1)); err == nil {
			t.Fatalf("PutSignature should fail for undefined CID")
		}
		if _, err := store.Signatures(undef); err == nil {
			t.Fatalf("Signatures should fail for undefined CID")
		}
	})
}
