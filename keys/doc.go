// Package keys provides Ed448 key helpers built on cloudflare/circl.
//
// API stability:
//
// Stable (SemVer-protected):
//   - Pure, deterministic primitives for issuer-key formatting, role-seed
//     derivation, signing and verification.
//
// Experimental:
//   - Filesystem-backed key storage and convenience helpers (KeyStore and related functions).
//     These are local-first utilities and are not part of the long-term API contract.
package keys
