// Package peeridentity implements an optional post-quantum keypair a peer
// can use to authenticate itself by signing a challenge, independent of the
// Ed25519 Signed-Data cell kind the wire format itself is fixed to. It
// supplies the keypair, a fingerprint ID, and challenge sign/verify only;
// peerstream does not use it and runs no challenge exchange of its own.
package peeridentity

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"

	"convex.dev/convex/keys"
)

// ChallengeHashAlg is the hash used under the Dilithium3 signature for a
// peer handshake challenge. Fixed (not negotiated) since both ends of a
// handshake need to agree on it before any algorithm negotiation exists.
const ChallengeHashAlg = "sha3-256"

// ID is the fingerprint of a peer's Dilithium3 public key: a sha3-256 digest
// of its encoded bytes, used to name peers in logs and routing tables
// without carrying the full public key (~1952 bytes for Dilithium3) around.
type ID [32]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// IDFromPublicKey derives a peer ID from a raw public key.
func IDFromPublicKey(pub *mode3.PublicKey) ID {
	return sha3.Sum256(pub.Bytes())
}

// Identity is a peer's post-quantum keypair. The private half is nil for an
// Identity built from a peer's advertised public key alone (FromPublicKey),
// which can verify challenges but not sign them.
type Identity struct {
	Public  *mode3.PublicKey
	private *mode3.PrivateKey
}

// Generate creates a new peer identity from rand.
func Generate(rand io.Reader) (*Identity, error) {
	pk, sk, err := keys.GenerateDilithium3Keypair(rand)
	if err != nil {
		return nil, fmt.Errorf("peeridentity: generate: %w", err)
	}
	return &Identity{Public: pk, private: sk}, nil
}

// FromKeypair wraps an already-loaded Dilithium3 keypair.
func FromKeypair(pub *mode3.PublicKey, priv *mode3.PrivateKey) *Identity {
	return &Identity{Public: pub, private: priv}
}

// FromPublicKey wraps a peer's advertised public key with no signing
// capability -- enough to verify challenges from that peer, not issue them.
func FromPublicKey(pub *mode3.PublicKey) *Identity {
	return &Identity{Public: pub}
}

// CanSign reports whether this Identity holds a private key.
func (id *Identity) CanSign() bool {
	return id.private != nil
}

// PeerID returns the identity's fingerprint.
func (id *Identity) PeerID() ID {
	return IDFromPublicKey(id.Public)
}

// SignChallenge signs a handshake challenge -- typically a random nonce the
// remote peer just sent -- returning a base64 Dilithium3 signature.
func (id *Identity) SignChallenge(challenge []byte) (string, error) {
	if !id.CanSign() {
		return "", fmt.Errorf("peeridentity: identity has no private key to sign with")
	}
	return keys.SignDilithium3(challenge, ChallengeHashAlg, id.private)
}

// VerifyChallenge verifies a base64 Dilithium3 signature produced by
// SignChallenge against this identity's public key.
func (id *Identity) VerifyChallenge(challenge []byte, sigB64 string) (bool, error) {
	return keys.VerifyDilithium3(challenge, ChallengeHashAlg, sigB64, id.Public)
}
