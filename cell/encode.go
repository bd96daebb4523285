package cell

import (
	"math"
	"math/big"

	"convex.dev/convex/vlq"
)

// IsEmbeddable reports whether c qualifies to be spliced inline wherever it
// is referenced, rather than replaced by a 32-byte indirect hash ref: its
// kind must belong to the embeddable family and its canonical encoding must
// be at most MaxEmbeddedLength bytes.
func IsEmbeddable(c Cell) bool {
	if !embeddableFamily(c.Kind()) {
		return false
	}
	return len(Encode(c)) <= MaxEmbeddedLength
}

// Encode returns the canonical tag+payload encoding of c.
func Encode(c Cell) []byte {
	buf := encodeInto(nil, c)
	if len(buf) > LimitEncodingLength {
		panic("cell: encoding exceeds LimitEncodingLength")
	}
	return buf
}

func encodeInto(buf []byte, c Cell) []byte {
	switch v := c.(type) {
	case Null:
		return append(buf, tagNull)
	case Bool:
		if v {
			return append(buf, tagByteFlagLo|0x01)
		}
		return append(buf, tagByteFlagLo|0x00)
	case ByteFlag:
		if v < 2 || v > 15 {
			panic("cell: ByteFlag value out of range 2..15")
		}
		return append(buf, tagByteFlagLo|byte(v))
	case Long:
		raw := longBytes(int64(v))
		buf = append(buf, tagLongBase+byte(len(raw)))
		return append(buf, raw...)
	case Double:
		bits := math.Float64bits(float64(v))
		if math.IsNaN(float64(v)) {
			bits = 0x7ff8000000000000 // canonical quiet NaN
		}
		buf = append(buf, tagDouble)
		for i := 7; i >= 0; i-- {
			buf = append(buf, byte(bits>>(8*uint(i))))
		}
		return buf
	case BigInteger:
		raw := bigIntBytes(v.Value)
		buf = append(buf, tagBigInteger)
		buf = vlq.WriteCount(buf, uint64(len(raw)))
		return append(buf, raw...)
	case StringShort:
		b := []byte(v)
		buf = append(buf, tagStringShort)
		buf = vlq.WriteCount(buf, uint64(len(b)))
		return append(buf, b...)
	case *StringTree:
		buf = append(buf, tagStringTree)
		buf = vlq.WriteCount(buf, v.CharCount)
		buf = vlq.WriteCount(buf, uint64(len(v.Children)))
		for _, ch := range v.Children {
			buf = encodeRef(buf, ch)
		}
		return buf
	case BlobShort:
		buf = append(buf, tagBlobShort)
		buf = vlq.WriteCount(buf, uint64(len(v)))
		return append(buf, v...)
	case *BlobTree:
		buf = append(buf, tagBlobTree)
		buf = vlq.WriteCount(buf, v.ByteCount)
		buf = vlq.WriteCount(buf, uint64(len(v.Children)))
		for _, ch := range v.Children {
			buf = encodeRef(buf, ch)
		}
		return buf
	case Keyword:
		b := []byte(v)
		buf = append(buf, tagKeyword)
		buf = vlq.WriteCount(buf, uint64(len(b)))
		return append(buf, b...)
	case Symbol:
		b := []byte(v)
		buf = append(buf, tagSymbol)
		buf = vlq.WriteCount(buf, uint64(len(b)))
		return append(buf, b...)
	case Address:
		buf = append(buf, tagAddress)
		return vlq.WriteCount(buf, uint64(v))
	case *VectorLeaf:
		buf = append(buf, tagVectorLeaf)
		buf = vlq.WriteCount(buf, v.Count)
		for _, el := range v.Elements {
			buf = encodeRef(buf, el)
		}
		if v.Tail != nil {
			buf = encodeRef(buf, v.Tail)
		}
		return buf
	case *VectorTree:
		buf = append(buf, tagVectorTree)
		buf = vlq.WriteCount(buf, v.Count)
		buf = vlq.WriteCount(buf, uint64(v.Shift))
		buf = vlq.WriteCount(buf, uint64(len(v.Children)))
		for _, ch := range v.Children {
			buf = encodeRef(buf, ch)
		}
		return buf
	case *MapLeaf:
		buf = append(buf, tagMapLeaf)
		buf = vlq.WriteCount(buf, uint64(len(v.Entries)))
		for _, e := range v.Entries {
			buf = encodeRef(buf, e.Key)
			buf = encodeRef(buf, e.Value)
		}
		return buf
	case *MapTree:
		buf = append(buf, tagMapTree)
		buf = vlq.WriteCount(buf, v.Count)
		buf = vlq.WriteCount(buf, uint64(v.Bitmap))
		for _, ch := range v.Children {
			buf = encodeRef(buf, ch)
		}
		return buf
	case *Index:
		buf = append(buf, tagIndex)
		buf = vlq.WriteCount(buf, uint64(len(v.Prefix)))
		buf = append(buf, v.Prefix...)
		if v.Value != nil {
			buf = append(buf, 0x01)
			buf = encodeRef(buf, v.Value)
		} else {
			buf = append(buf, 0x00)
		}
		buf = vlq.WriteCount(buf, uint64(len(v.Children)))
		for _, ch := range v.Children {
			buf = encodeRef(buf, ch)
		}
		return buf
	case *Record:
		if v.RecordKind > 15 {
			panic("cell: record kind out of range 0..15")
		}
		buf = append(buf, tagRecordLo|v.RecordKind)
		buf = vlq.WriteCount(buf, uint64(len(v.Fields)))
		for _, f := range v.Fields {
			buf = encodeRef(buf, f)
		}
		return buf
	case *SignedData:
		buf = append(buf, tagSignedData)
		buf = append(buf, v.AccountKey[:]...)
		buf = append(buf, v.Signature[:]...)
		return encodeRef(buf, v.Value)
	default:
		panic("cell: unknown Cell implementation")
	}
}

// encodeRef appends r's encoding to buf: inline if r is embedded, or the
// indirect hash-ref tag followed by its 32-byte hash otherwise.
func encodeRef(buf []byte, r *Ref) []byte {
	if r.Status() == StatusEmbedded {
		v, ok := r.Value()
		if !ok {
			panic("cell: embedded ref has no resident value")
		}
		return encodeInto(buf, v)
	}
	buf = append(buf, tagIndirectRef)
	h := r.Hash()
	return append(buf, h[:]...)
}

// longBytes returns the minimal big-endian two's-complement representation
// of v, 0..8 bytes. Zero is the empty slice.
func longBytes(v int64) []byte {
	if v == 0 {
		return nil
	}
	var full [8]byte
	u := uint64(v)
	for i := 7; i >= 0; i-- {
		full[i] = byte(u)
		u >>= 8
	}
	start := 0
	for start < 7 {
		b0, b1 := full[start], full[start+1]
		if b0 == 0x00 && b1&0x80 == 0 {
			start++
			continue
		}
		if b0 == 0xFF && b1&0x80 != 0 {
			start++
			continue
		}
		break
	}
	return full[start:]
}

// bigIntBytes returns the minimal big-endian two's-complement representation
// of v, always including room for a sign bit (mirrors the classic
// BigInteger.toByteArray construction: bitLen/8+1 bytes).
//
// Negative powers of two need one fewer bit than math/big's BitLen reports:
// BitLen always measures the absolute value, but e.g. -128 fits a full
// 1-byte two's-complement range ([-128,127]) that 128's 8-bit magnitude
// would naively suggest needs a 9th bit. Go's big.Int has no equivalent of
// Java BigInteger.bitLength()'s special case for this, so it is replicated
// here explicitly.
func bigIntBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0x00}
	}
	bitLen := v.BitLen()
	twos := new(big.Int).Set(v)
	if v.Sign() < 0 {
		if isPowerOfTwo(new(big.Int).Neg(v)) {
			bitLen--
		}
	}
	nbytes := bitLen/8 + 1
	if v.Sign() < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
		twos.Add(v, mod)
	}
	buf := make([]byte, nbytes)
	tb := twos.Bytes()
	copy(buf[nbytes-len(tb):], tb)
	return buf
}

func isPowerOfTwo(v *big.Int) bool {
	if v.Sign() <= 0 {
		return false
	}
	t := new(big.Int).Sub(v, big.NewInt(1))
	return new(big.Int).And(v, t).Sign() == 0
}
