// Package multicell implements transmission framing over cell.Cell graphs:
// encoding a root plus every non-embedded descendant into one contiguous
// buffer (or just the novel subset, for delta broadcast), and rebuilding the
// graph from such a buffer on the receiving side.
package multicell

import (
	"convex.dev/convex/cell"
	"convex.dev/convex/vlq"
)

// EncodeMultiCell writes root's canonical encoding, then the encoding of
// every non-embedded cell transitively reachable through its Refs (each
// prefixed by a VLQ-Count byte length), deduplicated by hash. When
// includeAll is false, descendants already flagged ANNOUNCED are skipped
// (delta mode) -- the caller is expected to pass includeAll=true for a full
// transfer and false when riding on top of an Announcer's novelty tracking.
func EncodeMultiCell(root cell.Cell, includeAll bool) []byte {
	buf := cell.Encode(root)
	seen := map[[32]byte]bool{}
	return appendReachable(buf, root, includeAll, seen)
}

// EncodeDelta writes a novelty list (as produced by Announcer.Announce) as a
// multi-cell buffer: the first element is the root, the rest are
// length-prefixed. An empty novelty list encodes to nothing -- callers
// should not invoke EncodeDelta when there is nothing new to send.
func EncodeDelta(novelty []cell.Cell) []byte {
	if len(novelty) == 0 {
		return nil
	}
	buf := cell.Encode(novelty[0])
	for _, c := range novelty[1:] {
		enc := cell.Encode(c)
		buf = vlq.WriteCount(buf, uint64(len(enc)))
		buf = append(buf, enc...)
	}
	return buf
}

func appendReachable(buf []byte, c cell.Cell, includeAll bool, seen map[[32]byte]bool) []byte {
	for _, r := range cell.ChildRefs(c) {
		if r.Status() == cell.StatusEmbedded {
			continue
		}
		h := r.Hash()
		if seen[h] {
			continue
		}
		if !includeAll && r.Status() >= cell.StatusAnnounced {
			continue
		}
		v, ok := r.Value()
		if !ok {
			// Nothing resident to transmit for this child; the receiver
			// will see it as an unresolved indirect ref of the parent.
			continue
		}
		seen[h] = true
		enc := cell.Encode(v)
		buf = vlq.WriteCount(buf, uint64(len(enc)))
		buf = append(buf, enc...)
		buf = appendReachable(buf, v, includeAll, seen)
	}
	return buf
}

// DecodeMultiCell parses a multi-cell buffer: the root cell, then zero or
// more length-prefixed descendant encodings staged into a hash->cell
// dictionary. Every indirect Ref reachable from the root (recursively
// through resolved replacements) is replaced by a direct Ref when its hash
// is found in the dictionary; unresolved hashes are left as indirect Refs.
func DecodeMultiCell(buf []byte) (cell.Cell, error) {
	root, rootLen, err := decodeOne(buf, 0)
	if err != nil {
		return nil, err
	}
	off := rootLen
	dict := map[[32]byte]cell.Cell{}
	for off < len(buf) {
		l, newOff, err := vlq.ReadCount(buf, off)
		if err != nil {
			return nil, &cell.FormatError{Rule: cell.RuleVLQNonMinimal, Msg: err.Error()}
		}
		off = newOff
		if off+int(l) > len(buf) {
			return nil, &cell.FormatError{Rule: cell.RuleTruncated, Msg: "truncated multi-cell descendant"}
		}
		encoding := buf[off : off+int(l)]
		off += int(l)
		c, consumed, err := decodeOne(encoding, 0)
		if err != nil {
			return nil, err
		}
		if consumed != len(encoding) {
			return nil, &cell.FormatError{Rule: cell.RuleTrailingBytes, Msg: "descendant length disagrees with declared length"}
		}
		if cell.IsEmbeddable(c) {
			return nil, &cell.FormatError{Rule: cell.RuleEmbedRequired, Msg: "descendant is embeddable and should not have been transmitted indirectly"}
		}
		h := cell.Hash(c)
		if existing, ok := dict[h]; ok {
			if !equalEncoding(existing, c) {
				return nil, &DictionaryConflictError{Hash: h}
			}
			continue
		}
		dict[h] = c
	}
	resolveRefs(root, dict, map[[32]byte]bool{})
	return root, nil
}

func decodeOne(buf []byte, off int) (cell.Cell, int, error) {
	return cell.DecodeAt(buf, off)
}

func equalEncoding(a, b cell.Cell) bool {
	ea, eb := cell.Encode(a), cell.Encode(b)
	if len(ea) != len(eb) {
		return false
	}
	for i := range ea {
		if ea[i] != eb[i] {
			return false
		}
	}
	return true
}

// resolveRefs walks c's Refs, replacing any indirect (valueless) Ref whose
// hash is present in dict with a direct one, recursing into newly-resolved
// children. visiting guards against revisiting the same cell twice in one
// resolution pass.
func resolveRefs(c cell.Cell, dict map[[32]byte]cell.Cell, visited map[[32]byte]bool) {
	for _, r := range cell.ChildRefs(c) {
		h := r.Hash()
		if _, resident := r.Value(); !resident {
			if repl, ok := dict[h]; ok {
				_ = r.Resolve(repl)
			}
		}
		if visited[h] {
			continue
		}
		visited[h] = true
		if v, ok := r.Value(); ok {
			resolveRefs(v, dict, visited)
		}
	}
}
