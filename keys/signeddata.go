package keys

import (
	"crypto/ed25519"
	"fmt"

	"convex.dev/convex/cell"
)

// SignValue builds a cell.SignedData wrapping value, signing value's content
// hash with priv. This is the Ed25519 path the cell format's Signed-Data kind
// (tag 0xCD) is fixed to -- unlike SignDilithium3, the wire format leaves no
// room for an algorithm choice here: account-key is exactly 32 bytes and
// signature exactly 64.
func SignValue(value *cell.Ref, priv ed25519.PrivateKey) (*cell.SignedData, error) {
	if l := len(priv); l != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519 private key must be %d bytes, got %d", ed25519.PrivateKeySize, l)
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("private key has no ed25519 public key")
	}
	h := value.Hash()
	sig := ed25519.Sign(priv, h[:])

	sd := &cell.SignedData{Value: value}
	copy(sd.AccountKey[:], pub)
	copy(sd.Signature[:], sig)
	return sd, nil
}

// VerifySignedData reports whether sd.Signature is a valid Ed25519 signature
// by sd.AccountKey over sd.Value's content hash.
func VerifySignedData(sd *cell.SignedData) bool {
	if sd == nil || sd.Value == nil {
		return false
	}
	h := sd.Value.Hash()
	return ed25519.Verify(sd.AccountKey[:], h[:], sd.Signature[:])
}
