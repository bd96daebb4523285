// Package cell implements Convex's canonical binary cell encoding: the
// variable-length integer codecs (see the sibling vlq package), the closed
// registry of cell kinds, the encoder and decoder that enforce the
// embedded-vs-indirect child discipline, and SHA3-256 content hashing.
//
// A Cell is an immutable, content-addressed value. Two cells are equal iff
// their canonical encodings are equal iff their hashes are equal.
package cell

import "math/big"

// Cell is the sole representable unit of the encoding. Every concrete type
// in this package implements Cell.
type Cell interface {
	Kind() Kind
}

// Null is the single cell value representing the absence of a value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// Bool wraps a boolean, sharing the byte-flag tag range with ByteFlag.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// ByteFlag is a 4-bit tag-embedded value (2..15), distinct from Bool which
// occupies the same nibble range at values 0 and 1.
type ByteFlag uint8

func (ByteFlag) Kind() Kind { return KindByteFlag }

// Long is a signed 64-bit integer cell.
type Long int64

func (Long) Kind() Kind { return KindLong }

// Double is an IEEE-754 double, with all NaN bit patterns canonicalized to
// one representation on encode.
type Double float64

func (Double) Kind() Kind { return KindDouble }

// BigInteger is an arbitrary-precision signed integer too large to fit in
// eight bytes.
type BigInteger struct {
	Value *big.Int
}

func (BigInteger) Kind() Kind { return KindBigInteger }

// StringShort is a UTF-8 string of at most 4096 bytes held inline.
type StringShort string

func (StringShort) Kind() Kind { return KindStringShort }

// StringTree is a string too long to hold as a single chunk, represented as
// a sequence of child string chunks.
type StringTree struct {
	CharCount uint64
	Children  []*Ref
}

func (StringTree) Kind() Kind { return KindStringTree }

// BlobShort is a raw byte string of at most 4096 bytes held inline.
type BlobShort []byte

func (BlobShort) Kind() Kind { return KindBlobShort }

// BlobTree is a blob too long to hold as a single chunk, represented as a
// sequence of child blob chunks.
type BlobTree struct {
	ByteCount uint64
	Children  []*Ref
}

func (BlobTree) Kind() Kind { return KindBlobTree }

// Keyword is a short interned name, embedded inline whenever its encoding
// fits within MaxEmbeddedLength.
type Keyword string

func (Keyword) Kind() Kind { return KindKeyword }

// Symbol is a short interned name, embedded inline whenever its encoding
// fits within MaxEmbeddedLength.
type Symbol string

func (Symbol) Kind() Kind { return KindSymbol }

// Address is a non-negative account number.
type Address uint64

func (Address) Kind() Kind { return KindAddress }
