// Package localstore is a filesystem-backed store.Store, laid out and
// guarded the way a local filesystem CAS adapter typically is: one file per key,
// opened exclusively so a concurrent writer can never clobber an existing
// object, sharded into subdirectories to keep any one directory small.
package localstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lukechampine.com/blake3"

	"convex.dev/convex/store"
)

// checksumSuffix names the sidecar file holding a blake3 checksum of the
// payload, used to detect on-disk bitrot independent of the store.Key
// itself (which addresses the cell's own SHA3-256 content hash, not
// anything about how it happens to be laid out on this particular disk).
const checksumSuffix = ".b3"

// Store is a local filesystem store.Store implementation.
//
// It is offline and deterministic: it never touches the network and never
// depends on wall-clock time.
type Store struct {
	root string
}

var _ store.Store = (*Store)(nil)

// New constructs a filesystem store rooted at root, creating it if needed.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("localstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) Put(ctx context.Context, encoding []byte) (store.Key, error) {
	select {
	case <-ctx.Done():
		return store.Key{}, ctx.Err()
	default:
	}

	hash := blake3Hash32(encoding)
	key := store.KeyFromEncoding(encoding)

	path := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return store.Key{}, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := s.Get(ctx, key)
			if rerr != nil {
				return store.Key{}, store.ErrImmutable
			}
			if string(existing) != string(encoding) {
				return store.Key{}, store.ErrImmutable
			}
			return key, nil
		}
		return store.Key{}, err
	}
	defer f.Close()

	if _, err := f.Write(encoding); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return store.Key{}, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return store.Key{}, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return store.Key{}, err
	}

	checksum := hex.EncodeToString(hash[:])
	if err := os.WriteFile(path+checksumSuffix, []byte(checksum), 0o444); err != nil {
		return store.Key{}, err
	}

	return key, nil
}

func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path := s.pathFor(key)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	checksum, err := os.ReadFile(path + checksumSuffix)
	if err == nil {
		got := blake3Hash32(b)
		if hex.EncodeToString(got[:]) != string(checksum) {
			return nil, fmt.Errorf("localstore: checksum mismatch for %s: %w", key, store.ErrImmutable)
		}
	}

	got := store.KeyFromEncoding(b)
	if got != key {
		return nil, store.ErrInvalidKey
	}
	return b, nil
}

func (s *Store) Has(ctx context.Context, key store.Key) bool {
	if !key.Defined() {
		return false
	}
	_, err := os.Stat(s.pathFor(key))
	return err == nil
}

func (s *Store) pathFor(key store.Key) string {
	name := key.String()
	if len(name) < 2 {
		return filepath.Join(s.root, name)
	}
	return filepath.Join(s.root, name[:2], name)
}

func blake3Hash32(data []byte) [32]byte {
	return blake3.Sum256(data)
}
