package peeridentity

import "testing"

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func TestGenerateAndSignVerifyChallenge(t *testing.T) {
	id, err := Generate(&deterministicReader{b: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !id.CanSign() {
		t.Fatalf("expected a freshly generated identity to be able to sign")
	}

	challenge := []byte("handshake-nonce-0001")
	sig, err := id.SignChallenge(challenge)
	if err != nil {
		t.Fatalf("SignChallenge: %v", err)
	}

	ok, err := id.VerifyChallenge(challenge, sig)
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if !ok {
		t.Fatalf("expected challenge signature to verify")
	}
}

func TestVerifyChallengeRejectsTamperedChallenge(t *testing.T) {
	id, err := Generate(&deterministicReader{b: 7})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sig, err := id.SignChallenge([]byte("original"))
	if err != nil {
		t.Fatalf("SignChallenge: %v", err)
	}
	ok, err := id.VerifyChallenge([]byte("tampered"), sig)
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if ok {
		t.Fatalf("expected verification to fail against a tampered challenge")
	}
}

func TestFromPublicKeyCannotSign(t *testing.T) {
	full, err := Generate(&deterministicReader{b: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pubOnly := FromPublicKey(full.Public)
	if pubOnly.CanSign() {
		t.Fatalf("expected a public-key-only identity to report CanSign() == false")
	}
	if _, err := pubOnly.SignChallenge([]byte("x")); err == nil {
		t.Fatalf("expected SignChallenge to fail without a private key")
	}

	sig, err := full.SignChallenge([]byte("x"))
	if err != nil {
		t.Fatalf("SignChallenge: %v", err)
	}
	ok, err := pubOnly.VerifyChallenge([]byte("x"), sig)
	if err != nil {
		t.Fatalf("VerifyChallenge: %v", err)
	}
	if !ok {
		t.Fatalf("expected public-key-only identity to verify the full identity's signature")
	}
}

func TestPeerIDStableAndDistinct(t *testing.T) {
	a, err := Generate(&deterministicReader{b: 10})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(&deterministicReader{b: 200})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.PeerID() != a.PeerID() {
		t.Fatalf("PeerID not stable across calls")
	}
	if a.PeerID() == b.PeerID() {
		t.Fatalf("distinct keys produced the same PeerID")
	}
}
