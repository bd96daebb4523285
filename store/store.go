// Package store defines the content-addressed durability contract for cell
// encodings: a place to put an encoded cell and get it back by the hash the
// codec already computed for it. The cell and multicell packages do not
// import it; multicell.Persister writes through a put callback instead.
package store

import (
	"context"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"convex.dev/convex/cidutil"
)

// Key identifies a stored encoding. It wraps a cid.Cid so backends that
// speak CID natively (localstore, storegrpc) can use it directly, while
// exposing Hash so the cell/multicell packages -- which only ever deal in
// bare 32-byte SHA3-256 digests -- never need to import go-cid themselves.
type Key struct {
	id cid.Cid
}

// KeyFromHash builds a Key from a cell's content hash (cell.Hash(c)).
func KeyFromHash(hash [32]byte) Key {
	return Key{id: cidutil.CIDv1SHA3256(hash)}
}

// KeyFromCID wraps an already-parsed CID, e.g. one received over gRPC or
// parsed from a CLI flag.
func KeyFromCID(id cid.Cid) Key {
	return Key{id: id}
}

// ParseKey decodes a Key from its string CID form, as sent over the wire by
// storegrpc or typed on a CLI.
func ParseKey(s string) (Key, error) {
	id, err := cid.Decode(s)
	if err != nil {
		return Key{}, err
	}
	return Key{id: id}, nil
}

// KeyFromEncoding derives a Key straight from raw encoded bytes, using the
// same SHA3-256 multihash path cell.Hash uses internally. store sits below
// cell in the dependency graph -- cell never imports store -- so a backend
// that only has the bytes it was asked to store (not the Cell value that
// produced them) derives the identical digest independently rather than
// calling into cell.Hash.
func KeyFromEncoding(encoding []byte) Key {
	sum, err := multihash.Sum(encoding, multihash.SHA3_256, -1)
	if err != nil {
		panic("store: sha3-256 hashing failed: " + err.Error())
	}
	decoded, err := multihash.Decode(sum)
	if err != nil {
		panic("store: malformed multihash from Sum: " + err.Error())
	}
	var digest [32]byte
	copy(digest[:], decoded.Digest)
	return KeyFromHash(digest)
}

// Hash returns the bare 32-byte digest this Key addresses.
func (k Key) Hash() [32]byte {
	return cidutil.HashFromCID(k.id)
}

// CID returns the underlying CID, for backends that transmit or persist it
// directly (gRPC wire format, on-disk path sharding).
func (k Key) CID() cid.Cid { return k.id }

func (k Key) String() string { return k.id.String() }

// Defined reports whether k addresses anything -- the zero Key does not.
func (k Key) Defined() bool { return k.id.Defined() }

// Store is a minimal content-addressable store for cell encodings.
//
// Contract:
//   - Put is idempotent: storing the same bytes twice returns the same Key
//     and does not error.
//   - Stored objects are immutable; a backend that detects a write to an
//     existing Key with different bytes must return ErrImmutable rather than
//     overwrite.
//   - Get returns ErrNotFound when the Key is absent.
//   - Every method accepts a context so network-facing backends (storegrpc)
//     can honor cancellation and deadlines; the pure cell/multicell core
//     never blocks and so never takes one.
type Store interface {
	Put(ctx context.Context, encoding []byte) (Key, error)
	Get(ctx context.Context, key Key) ([]byte, error)
	Has(ctx context.Context, key Key) bool
}

// RootTracker is an optional capability: a Store that can additionally
// remember a single named "root" hash, e.g. the current head of a locally
// maintained Belief or Order chain. Most backends don't implement it; a
// type assertion is the intended way to discover support.
type RootTracker interface {
	RootHash(ctx context.Context) (Key, bool, error)
	SetRootHash(ctx context.Context, key Key) error
}
