package storage

import (
	"github.com/ipfs/go-cid"

	"xdao.co/sig448/sig448"
)

// CAS is a minimal content-addressable store for signed messages.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written.
// - Get MUST return ErrNotFound when the CID is absent.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// SignatureStore keeps detached signatures for messages, keyed by message CID
// and a signer name.
//
// Contract:
// - PutSignature MUST be idempotent for an identical signature and MUST return
//   ErrImmutable when a different signature is already stored under the name.
// - Signatures MUST return ErrCorruptSignature if a stored record no longer parses.
// - Signatures returns an empty map (not an error) when none are stored.
type SignatureStore interface {
	PutSignature(message cid.Cid, signer string, sig sig448.Signature) error
	Signatures(message cid.Cid) (map[string]sig448.Signature, error)
}
