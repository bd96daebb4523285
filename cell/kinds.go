package cell

// Kind identifies which variant of Cell a value is. The registry of kinds is
// closed: decode rejects any tag byte that does not map to one of these.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindByteFlag
	KindLong
	KindDouble
	KindBigInteger
	KindStringShort
	KindStringTree
	KindBlobShort
	KindBlobTree
	KindVectorLeaf
	KindVectorTree
	KindMapLeaf
	KindMapTree
	KindIndex
	KindAddress
	KindKeyword
	KindSymbol
	KindRecord
	KindSignedData
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindByteFlag:
		return "ByteFlag"
	case KindLong:
		return "Long"
	case KindDouble:
		return "Double"
	case KindBigInteger:
		return "BigInteger"
	case KindStringShort:
		return "StringShort"
	case KindStringTree:
		return "StringTree"
	case KindBlobShort:
		return "BlobShort"
	case KindBlobTree:
		return "BlobTree"
	case KindVectorLeaf:
		return "VectorLeaf"
	case KindVectorTree:
		return "VectorTree"
	case KindMapLeaf:
		return "MapLeaf"
	case KindMapTree:
		return "MapTree"
	case KindIndex:
		return "Index"
	case KindAddress:
		return "Address"
	case KindKeyword:
		return "Keyword"
	case KindSymbol:
		return "Symbol"
	case KindRecord:
		return "Record"
	case KindSignedData:
		return "SignedData"
	default:
		return "Unknown"
	}
}

// Concrete one-byte tags. See SPEC_FULL.md §3 "Implementation note on
// disjoint tags" for the derivation of the Long and Byte-flag formulas from
// the normative §8 test vectors.
const (
	tagNull        byte = 0x00
	tagByteFlagLo  byte = 0xB0 // tag = tagByteFlagLo | nibble; nibble 0/1 decode as Bool
	tagByteFlagHi  byte = 0xBF
	tagLongBase    byte = 0x10 // tag = tagLongBase + n, n = 0..8 raw two's-complement bytes
	tagDouble      byte = 0x1D
	tagBigInteger  byte = 0x19
	tagStringShort byte = 0x30
	tagStringTree  byte = 0x31
	tagBlobShort   byte = 0x38
	tagBlobTree    byte = 0x39
	tagVectorLeaf  byte = 0x80
	tagVectorTree  byte = 0x81
	tagMapLeaf     byte = 0x88
	tagMapTree     byte = 0x89
	tagIndex       byte = 0x8A
	tagAddress     byte = 0x34
	tagKeyword     byte = 0x33
	tagSymbol      byte = 0x32
	tagRecordLo    byte = 0xE0 // tag = tagRecordLo | recordKind, recordKind 0..15
	tagRecordHi    byte = 0xEF
	tagSignedData  byte = 0xCD
	tagIndirectRef byte = 0xFF
)

// MaxEmbeddedLength is the largest encoding, in bytes, that may be spliced
// inline as a child instead of referenced indirectly by hash.
const MaxEmbeddedLength = 140

// LimitEncodingLength is the largest canonical encoding permitted for any
// single cell.
const LimitEncodingLength = 8192

// MaxDepth bounds recursive descent through nested encodings (embedded
// children, multi-cell graphs) to guard against pathological or adversarial
// input.
const MaxDepth = 64

// embeddableFamily reports whether cells of kind k are ever eligible for
// inline embedding. Collections (vectors, maps, index, records, signed data)
// are never embeddable regardless of size; only primitives, keywords/symbols,
// short strings/blobs, and addresses are.
func embeddableFamily(k Kind) bool {
	switch k {
	case KindNull, KindBool, KindByteFlag, KindLong, KindDouble, KindBigInteger,
		KindStringShort, KindBlobShort, KindKeyword, KindSymbol, KindAddress:
		return true
	default:
		return false
	}
}
