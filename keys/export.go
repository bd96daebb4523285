package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"
)

// IssuerKeyFromPublicKey encodes an Ed25519 public key into the
// "ed25519:"+base64 issuer-key string.
func IssuerKeyFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return "ed25519:" + base64.StdEncoding.EncodeToString(pub), nil
}

// LegacyPeerAddress encodes an Ed25519 public key as a bare base58 string,
// the format Convex peers historically advertised for an account key before
// the "ed25519:"+base64 issuer-key convention. Kept alongside the base64
// form since older tooling in the wild still expects it.
func LegacyPeerAddress(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return base58.Encode(pub), nil
}

// ParseLegacyPeerAddress decodes a base58 legacy peer address back into an
// Ed25519 public key.
func ParseLegacyPeerAddress(s string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid legacy peer address: %w", err)
	}
	if l := len(raw); l != ed25519.PublicKeySize {
		return nil, fmt.Errorf("legacy peer address decodes to %d bytes, want %d", l, ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}
