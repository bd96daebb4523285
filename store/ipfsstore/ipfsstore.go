// Package ipfsstore implements store.Store backed by a local Kubo ("ipfs")
// CLI binary. It is an optional adapter: this module remains
// storage-provider agnostic, and any other content-addressed backend can be
// wired in the same way by implementing store.Store.
//
// It operates offline against the local IPFS repo (no daemon round trip
// required beyond what the CLI itself needs) and never trusts the CLI's
// output -- every Put/Get re-derives the key from the bytes and rejects a
// mismatch, the same content-addressing guarantee store.Store promises.
package ipfsstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"convex.dev/convex/store"
)

// Store shells out to the local Kubo CLI for each operation.
type Store struct {
	bin string
	env []string
}

// Options configures Store.
type Options struct {
	// Bin is the path to the ipfs binary. If empty, "ipfs" is used.
	Bin string
	// Env optionally overrides the command environment (e.g. to set
	// IPFS_PATH). If nil, the process environment is used.
	Env []string
}

// New returns a Store using opts.
func New(opts Options) *Store {
	bin := opts.Bin
	if bin == "" {
		bin = "ipfs"
	}
	return &Store{bin: bin, env: opts.Env}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, encoding []byte) (store.Key, error) {
	key := store.KeyFromEncoding(encoding)

	out, err := s.run(ctx, encoding,
		"block", "put",
		"--quiet",
		"--format=raw",
		"--mhtype=sha3-256",
		"--cid-version=1",
		"/dev/stdin",
	)
	if err != nil {
		return store.Key{}, err
	}

	got, err := store.ParseKey(strings.TrimSpace(string(out)))
	if err != nil {
		return store.Key{}, fmt.Errorf("ipfsstore: unexpected block put output: %w", err)
	}
	if got.String() != key.String() {
		return store.Key{}, store.ErrInvalidKey
	}
	return key, nil
}

func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	if !key.Defined() {
		return nil, store.ErrInvalidKey
	}
	out, err := s.run(ctx, nil, "block", "get", key.String())
	if err != nil {
		if isLikelyNotFound(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if got := store.KeyFromEncoding(out); got.String() != key.String() {
		return nil, store.ErrInvalidKey
	}
	return out, nil
}

func (s *Store) Has(ctx context.Context, key store.Key) bool {
	if !key.Defined() {
		return false
	}
	_, err := s.run(ctx, nil, "block", "stat", key.String())
	return err == nil
}

func (s *Store) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.bin, args...)
	if s.env != nil {
		cmd.Env = s.env
	}
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		msg := strings.TrimSpace(string(ee.Stderr))
		if msg == "" {
			return nil, fmt.Errorf("ipfsstore: %v", err)
		}
		return nil, fmt.Errorf("ipfsstore: %s", msg)
	}
	return nil, err
}

func isLikelyNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "block not found")
}
