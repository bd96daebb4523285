package store

import (
	"context"
	"sync"
	"testing"

	"github.com/multiformats/go-multihash"
)

// memStore is a trivial in-memory store.Store used only by this package's
// own tests (store/localstore provides the real on-disk implementation;
// importing it here would create an import cycle since it depends on this
// package).
type memStore struct {
	mu   sync.Mutex
	objs map[Key][]byte
}

func newMemStore() *memStore { return &memStore{objs: map[Key][]byte{}} }

func (m *memStore) Put(ctx context.Context, encoding []byte) (Key, error) {
	key := keyOf(encoding)
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.objs[key]; ok && string(existing) != string(encoding) {
		return Key{}, ErrImmutable
	}
	m.objs[key] = encoding
	return key, nil
}

func (m *memStore) Get(ctx context.Context, key Key) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *memStore) Has(ctx context.Context, key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objs[key]
	return ok
}

func keyOf(encoding []byte) Key {
	sum, err := multihash.Sum(encoding, multihash.SHA3_256, -1)
	if err != nil {
		panic(err)
	}
	decoded, err := multihash.Decode(sum)
	if err != nil {
		panic(err)
	}
	var digest [32]byte
	copy(digest[:], decoded.Digest)
	return KeyFromHash(digest)
}

func TestKeyRoundTripsThroughString(t *testing.T) {
	var digest [32]byte
	for i := range digest {
		digest[i] = byte(i)
	}
	key := KeyFromHash(digest)
	parsed, err := ParseKey(key.String())
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if parsed.Hash() != digest {
		t.Fatalf("round-tripped hash mismatch: got %x want %x", parsed.Hash(), digest)
	}
}

func TestMultiStorePutReadsThroughFallback(t *testing.T) {
	primary := newMemStore()
	secondary := newMemStore()
	ctx := context.Background()

	payload := []byte("fallback me")
	key, err := secondary.Put(ctx, payload)
	if err != nil {
		t.Fatalf("Put on secondary: %v", err)
	}

	m := MultiStore{Adapters: []Store{primary, secondary}}
	if !m.Has(ctx, key) {
		t.Fatalf("Has should find key in the secondary adapter")
	}
	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}

	if _, err := m.Put(ctx, []byte("new object")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if primary.objs == nil || len(primary.objs) != 1 {
		t.Fatalf("MultiStore.Put should only write to the first adapter")
	}
}

func TestLRUStoreEvictsLeastRecentlyUsed(t *testing.T) {
	backing := newMemStore()
	ctx := context.Background()
	cache := NewLRUStore(backing, 2)

	k1, _ := cache.Put(ctx, []byte("one"))
	k2, _ := cache.Put(ctx, []byte("two"))
	k3, _ := cache.Put(ctx, []byte("three"))

	cache.mu.Lock()
	_, k1Cached := cache.index[k1]
	cache.mu.Unlock()
	if k1Cached {
		t.Fatalf("k1 should have been evicted once a third entry was cached")
	}

	// Still retrievable through the backing store even though evicted from
	// the cache.
	if _, err := cache.Get(ctx, k1); err != nil {
		t.Fatalf("Get(k1) after eviction: %v", err)
	}
	for _, k := range []Key{k2, k3} {
		if _, err := cache.Get(ctx, k); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
}
