package vlq

import (
	"bytes"
	"testing"
)

func TestWriteCountLiteralVectors(t *testing.T) {
	cases := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"0x40", 0x40, []byte{0x40}},
		{"0x80", 0x80, []byte{0x81, 0x00}},
		{"1GiB", 1 << 30, []byte{0x84, 0x80, 0x80, 0x80, 0x00}},
		{"zero", 0, []byte{0x00}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WriteCount(nil, c.v)
			if !bytes.Equal(got, c.want) {
				t.Fatalf("WriteCount(%d) = % x, want % x", c.v, got, c.want)
			}
			if n := CountLen(c.v); n != len(c.want) {
				t.Fatalf("CountLen(%d) = %d, want %d", c.v, n, len(c.want))
			}
			rv, off, err := ReadCount(c.want, 0)
			if err != nil {
				t.Fatalf("ReadCount: %v", err)
			}
			if rv != c.v || off != len(c.want) {
				t.Fatalf("ReadCount() = (%d, %d), want (%d, %d)", rv, off, c.v, len(c.want))
			}
		})
	}
}

func TestCountRoundTripBoundaries(t *testing.T) {
	boundaries := []uint64{
		0, 1, 0x7f, 0x80, 0x81,
		0x3fff, 0x4000, 0x4001,
		1<<63 - 1, ^uint64(0),
	}
	for _, v := range boundaries {
		enc := WriteCount(nil, v)
		got, n, err := ReadCount(enc, 0)
		if err != nil {
			t.Fatalf("ReadCount(%d) failed: %v", v, err)
		}
		if got != v {
			t.Fatalf("round-trip mismatch: wrote %d, read %d", v, got)
		}
		if n != len(enc) {
			t.Fatalf("ReadCount consumed %d bytes, encoding is %d bytes", n, len(enc))
		}
		if n != CountLen(v) {
			t.Fatalf("CountLen(%d) = %d, actual encoding length %d", v, CountLen(v), n)
		}
	}
}

func TestReadCountRejectsNonMinimal(t *testing.T) {
	if _, _, err := ReadCount([]byte{0x80, 0x00}, 0); err == nil {
		t.Fatalf("expected non-minimal rejection for leading 0x80")
	}
}

func TestReadCountRejectsOverlong(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, 11)
	if _, _, err := ReadCount(buf, 0); err == nil {
		t.Fatalf("expected overflow rejection for 11-byte VLQ-Count")
	}
}

func TestPeekCountLengthPrefix(t *testing.T) {
	enc := WriteCount(nil, 1<<30)
	for i := 0; i < len(enc); i++ {
		n, err := PeekCountLengthPrefix(enc[:i])
		if err != nil {
			t.Fatalf("unexpected error at prefix len %d: %v", i, err)
		}
		if n != -1 {
			t.Fatalf("expected -1 (incomplete) at prefix len %d, got %d", i, n)
		}
	}
	n, err := PeekCountLengthPrefix(enc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(enc) {
		t.Fatalf("PeekCountLengthPrefix = %d, want %d", n, len(enc))
	}
}

func TestLongLiteralsAndSingleByteRange(t *testing.T) {
	for v := int64(-64); v <= 63; v++ {
		enc := WriteLong(nil, v)
		if len(enc) != 1 {
			t.Fatalf("LongLen(%d) = %d, want 1", v, len(enc))
		}
		got, n, err := ReadLong(enc, 0)
		if err != nil {
			t.Fatalf("ReadLong(%d): %v", v, err)
		}
		if got != v || n != 1 {
			t.Fatalf("ReadLong round-trip(%d) = (%d, %d)", v, got, n)
		}
	}
}

func TestLongRoundTripBoundaries(t *testing.T) {
	boundaries := []int64{
		0, 1, -1, 63, 64, -64, -65,
		8191, 8192, -8192, -8193,
		1<<62 - 1, -(1 << 62),
		1<<63 - 1, -1 << 63,
	}
	for _, v := range boundaries {
		enc := WriteLong(nil, v)
		if len(enc) != LongLen(v) {
			t.Fatalf("LongLen(%d) = %d, encoding length %d", v, LongLen(v), len(enc))
		}
		got, n, err := ReadLong(enc, 0)
		if err != nil {
			t.Fatalf("ReadLong(%d) failed: %v", v, err)
		}
		if got != v {
			t.Fatalf("round-trip mismatch: wrote %d, read %d (enc=% x)", v, got, enc)
		}
		if n != len(enc) {
			t.Fatalf("ReadLong consumed %d bytes, want %d", n, len(enc))
		}
	}
}

func TestReadLongLiteralVectors(t *testing.T) {
	cases := []struct {
		name string
		enc  []byte
		want int64
	}{
		{"positive-one-byte", []byte{0x0f}, 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, n, err := ReadLong(c.enc, 0)
			if err != nil {
				t.Fatalf("ReadLong: %v", err)
			}
			if got != c.want || n != len(c.enc) {
				t.Fatalf("ReadLong() = (%d,%d), want (%d,%d)", got, n, c.want, len(c.enc))
			}
		})
	}
}

func TestReadLongRejectsNonMinimal(t *testing.T) {
	cases := [][]byte{
		{0x80, 0x00}, // redundant 0x00 leading sign byte
		{0xff, 0x7f}, // redundant 0x7f-payload leading sign byte (both bytes decode -1 alone)
	}
	for _, enc := range cases {
		if _, _, err := ReadLong(enc, 0); err == nil {
			t.Fatalf("expected non-minimal rejection for % x", enc)
		}
	}
}

func TestReadLongRejectsOverlong(t *testing.T) {
	buf := bytes.Repeat([]byte{0xff}, 11)
	if _, _, err := ReadLong(buf, 0); err == nil {
		t.Fatalf("expected overflow rejection for 11-byte VLQ-Long")
	}
}

func TestReadLongUnderrun(t *testing.T) {
	if _, _, err := ReadLong([]byte{0x80}, 0); err == nil {
		t.Fatalf("expected underrun error for truncated continuation byte")
	}
	if _, _, err := ReadLong(nil, 0); err == nil {
		t.Fatalf("expected underrun error for empty buffer")
	}
}
