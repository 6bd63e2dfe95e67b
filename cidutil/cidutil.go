// Package cidutil derives content identifiers for signed messages.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256 returns the CIDv1 (raw + sha2-256) string for message.
func CIDv1RawSHA256(message []byte) string {
	id, err := CIDv1RawSHA256CID(message)
	if err != nil {
		// multihash.Sum only errors for unknown codes or bad lengths.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns the CIDv1 (raw + sha2-256) derived from message.
func CIDv1RawSHA256CID(message []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(message, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse decodes s and requires it to use the raw codec with a sha2-256 multihash.
func Parse(s string) (cid.Cid, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, err
	}
	if id.Type() != cid.Raw {
		return cid.Undef, fmt.Errorf("cid %s: expected raw codec", s)
	}
	if id.Prefix().MhType != multihash.SHA2_256 {
		return cid.Undef, fmt.Errorf("cid %s: expected sha2-256 multihash", s)
	}
	return id, nil
}
