package cell

import "github.com/multiformats/go-multihash"

// Hash returns the content hash of c: SHA3-256 of its canonical encoding.
// Two cells are equal iff their hashes are equal iff their canonical
// encodings are equal.
//
// multihash.Sum's SHA3_256 multicodec is a bit-exact SHA3-256 implementation
// (golang.org/x/crypto/sha3 underneath); we strip its multihash framing and
// keep only the 32-byte digest, since this format's hashes are bare, not
// multihash-wrapped.
func Hash(c Cell) [32]byte {
	enc := Encode(c)
	sum, err := multihash.Sum(enc, multihash.SHA3_256, -1)
	if err != nil {
		// multihash.Sum only fails for unsupported codecs or negative custom
		// lengths that exceed the digest size; SHA3_256 with -1 never does.
		panic("cell: sha3-256 hashing failed: " + err.Error())
	}
	decoded, err := multihash.Decode(sum)
	if err != nil {
		panic("cell: malformed multihash from Sum: " + err.Error())
	}
	var out [32]byte
	copy(out[:], decoded.Digest)
	return out
}
