package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// CIDv1SHA3256 wraps an already-computed 32-byte SHA3-256 digest (as
// produced by cell.Hash) into a CIDv1 (raw + sha3-256), without re-hashing
// anything. The store package uses this to mint Keys directly from a
// cell's content hash.
func CIDv1SHA3256(digest [32]byte) cid.Cid {
	mh, err := multihash.Encode(digest[:], multihash.SHA3_256)
	if err != nil {
		// multihash.Encode only errors on a length/code mismatch; digest is
		// always exactly 32 bytes for SHA3_256, so this is unreachable.
		panic(err)
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// HashFromCID extracts the bare digest from a CID minted by CIDv1SHA3256.
// It panics if id does not decode to a 32-byte multihash digest, which
// should not occur for CIDs produced by this package.
func HashFromCID(id cid.Cid) [32]byte {
	decoded, err := multihash.Decode(id.Hash())
	if err != nil {
		panic(err)
	}
	var out [32]byte
	copy(out[:], decoded.Digest)
	return out
}
