// Package storetest holds a backend-agnostic conformance suite any
// store.Store implementation should pass.
package storetest

import (
	"bytes"
	"context"
	"testing"

	"convex.dev/convex/store"
)

// NewStore constructs a fresh, empty store.Store for a test. The returned
// store must be isolated from other tests.
type NewStore func(t *testing.T) store.Store

// RunConformance exercises the store.Store contract against a backend.
func RunConformance(t *testing.T, newStore NewStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := []byte("hello, convex store")

		key, err := s.Put(ctx, want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		got, err := s.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch: got %q want %q", got, want)
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		s := newStore(t)
		b := []byte("same bytes")

		key1, err := s.Put(ctx, b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		key2, err := s.Put(ctx, b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if key1 != key2 {
			t.Fatalf("Put not idempotent: %s vs %s", key1, key2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		s := newStore(t)
		b := []byte("missing")
		probe, err := newStore(t).Put(ctx, b)
		if err != nil {
			t.Fatalf("Put on probe store failed: %v", err)
		}

		if s.Has(ctx, probe) {
			t.Fatalf("Has returned true for a key never Put on this store")
		}
		if _, err := s.Get(ctx, probe); !store.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		key, err := s.Put(ctx, b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !s.Has(ctx, key) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefinedKey", func(t *testing.T) {
		s := newStore(t)
		var undef store.Key
		if s.Has(ctx, undef) {
			t.Fatalf("Has should be false for an undefined key")
		}
		if _, err := s.Get(ctx, undef); err == nil {
			t.Fatalf("Get should fail for an undefined key")
		}
	})
}
