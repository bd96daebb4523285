// Package keys provides Ed25519 key derivation, issuer-key formatting,
// Dilithium3 signing, and the SignedData wrapper around a cell.Ref's
// content hash.
//
// Stable:
//   - Pure, deterministic primitives for issuer-key formatting and role-seed derivation.
//
// Experimental:
//   - Filesystem-backed key storage and convenience helpers (KeyStore and related functions).
//     These are local-first utilities and are not part of the long-term protocol contract.
package keys
