package store

import (
	"context"
	"fmt"
)

// NamedStore associates a Store with a stable backend name, so callers that
// write to several backends at once can report which ones disagreed.
type NamedStore struct {
	Name  string
	Store Store
}

// ReplicatingStore writes to every configured backend and requires them all
// to agree on the resulting Key. Reads fall back across backends in order,
// same as MultiStore. Use this instead of MultiStore when every backend
// must actually hold a copy (e.g. a local cache plus an off-site mirror),
// rather than just the first one in the list.
type ReplicatingStore struct {
	Backends []NamedStore
}

var _ Store = ReplicatingStore{}

// PutAll writes encoding to every backend, returning the canonical Key
// (derived from encoding itself) plus a map of backend name to the Key that
// backend reported. A disagreeing backend makes PutAll fail with
// ErrImmutable.
func (r ReplicatingStore) PutAll(ctx context.Context, encoding []byte) (Key, map[string]Key, error) {
	want := KeyFromEncoding(encoding)
	if len(r.Backends) == 0 {
		return Key{}, nil, fmt.Errorf("store: ReplicatingStore has no backends")
	}

	out := make(map[string]Key, len(r.Backends))
	for _, b := range r.Backends {
		if b.Store == nil {
			return Key{}, nil, fmt.Errorf("store: nil Store for backend %q", b.Name)
		}
		got, err := b.Store.Put(ctx, encoding)
		if err != nil {
			return Key{}, nil, err
		}
		out[b.Name] = got
		if got.String() != want.String() {
			return want, out, ErrImmutable
		}
	}
	return want, out, nil
}

func (r ReplicatingStore) Put(ctx context.Context, encoding []byte) (Key, error) {
	key, _, err := r.PutAll(ctx, encoding)
	return key, err
}

func (r ReplicatingStore) Get(ctx context.Context, key Key) ([]byte, error) {
	for _, b := range r.Backends {
		if b.Store == nil {
			continue
		}
		out, err := b.Store.Get(ctx, key)
		if err == nil {
			return out, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (r ReplicatingStore) Has(ctx context.Context, key Key) bool {
	for _, b := range r.Backends {
		if b.Store != nil && b.Store.Has(ctx, key) {
			return true
		}
	}
	return false
}
