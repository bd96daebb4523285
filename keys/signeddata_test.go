package keys

import (
	"crypto/ed25519"
	"testing"

	"convex.dev/convex/cell"
)

func TestSignValueRoundTrip(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)

	value := cell.NewDirect(cell.Long(42))
	sd, err := SignValue(value, priv)
	if err != nil {
		t.Fatalf("SignValue: %v", err)
	}
	if !VerifySignedData(sd) {
		t.Fatalf("expected valid signature")
	}
}

func TestVerifySignedDataRejectsTamperedValue(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)

	value := cell.NewDirect(cell.Long(42))
	sd, err := SignValue(value, priv)
	if err != nil {
		t.Fatalf("SignValue: %v", err)
	}
	sd.Value = cell.NewDirect(cell.Long(43))
	if VerifySignedData(sd) {
		t.Fatalf("expected signature to fail on a tampered value")
	}
}

func TestVerifySignedDataRejectsWrongKey(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	value := cell.NewDirect(cell.Long(7))
	sd, err := SignValue(value, priv)
	if err != nil {
		t.Fatalf("SignValue: %v", err)
	}
	sd.AccountKey[0] ^= 0xFF
	if VerifySignedData(sd) {
		t.Fatalf("expected signature to fail against a mismatched account key")
	}
}

func TestLegacyPeerAddressRoundTrip(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	addr, err := LegacyPeerAddress(pub)
	if err != nil {
		t.Fatalf("LegacyPeerAddress: %v", err)
	}
	back, err := ParseLegacyPeerAddress(addr)
	if err != nil {
		t.Fatalf("ParseLegacyPeerAddress: %v", err)
	}
	if !back.Equal(pub) {
		t.Fatalf("round-tripped key mismatch")
	}
}

func TestParseLegacyPeerAddressRejectsWrongLength(t *testing.T) {
	if _, err := ParseLegacyPeerAddress("2NEpo7TZRRrLZSi2U"); err == nil {
		t.Fatalf("expected error for wrong-length decode")
	}
}
