package cell

import "bytes"

// VectorLeaf is a vector of at most 16 directly-held elements, or the head
// of a larger vector whose remaining elements hang off Tail.
type VectorLeaf struct {
	Count    uint64 // total logical element count of the vector this leaf roots
	Elements []*Ref // up to 16 elements
	Tail     *Ref   // nil if Count <= len(Elements)
}

func (VectorLeaf) Kind() Kind { return KindVectorLeaf }

// VectorTree is an internal branch node of a larger vector's 16-way trie.
type VectorTree struct {
	Count    uint64
	Shift    uint8 // index bits spanned by each child: 4 per level below this node
	Children []*Ref
}

func (VectorTree) Kind() Kind { return KindVectorTree }

// vectorNode pairs a built Ref with the logical element count it spans, so
// NewVector can fold leaves into tree levels without re-deriving counts from
// already-embedded children.
type vectorNode struct {
	ref   *Ref
	count uint64
}

// NewVector builds the canonical 16-way trie for a flat sequence of
// elements: groups of up to 16 become VectorLeaf nodes, which fold in
// groups of up to 16 into VectorTree levels, each consuming 4 more bits of
// shift than the one below, until a single root Ref remains.
func NewVector(elements []*Ref) *Ref {
	if len(elements) == 0 {
		return NewDirect(&VectorLeaf{})
	}

	nodes := make([]vectorNode, 0, (len(elements)+15)/16)
	for i := 0; i < len(elements); i += 16 {
		end := i + 16
		if end > len(elements) {
			end = len(elements)
		}
		chunk := elements[i:end]
		n := uint64(len(chunk))
		nodes = append(nodes, vectorNode{ref: NewDirect(&VectorLeaf{Count: n, Elements: chunk}), count: n})
	}
	if len(nodes) == 1 {
		return nodes[0].ref
	}

	for shift := uint8(4); len(nodes) > 1; shift += 4 {
		next := make([]vectorNode, 0, (len(nodes)+15)/16)
		for i := 0; i < len(nodes); i += 16 {
			end := i + 16
			if end > len(nodes) {
				end = len(nodes)
			}
			var total uint64
			children := make([]*Ref, 0, end-i)
			for _, n := range nodes[i:end] {
				total += n.count
				children = append(children, n.ref)
			}
			next = append(next, vectorNode{
				ref:   NewDirect(&VectorTree{Count: total, Shift: shift, Children: children}),
				count: total,
			})
		}
		nodes = next
	}
	return nodes[0].ref
}

// MapLeaf is an association of keys to values, stored as alternating
// key/value child refs.
type MapLeaf struct {
	Entries []MapEntry
}

// MapEntry is one key/value pair of a MapLeaf.
type MapEntry struct {
	Key   *Ref
	Value *Ref
}

func (MapLeaf) Kind() Kind { return KindMapLeaf }

// MapTree is an internal branch node of a larger hash map's 16-way trie,
// keyed by successive hex digits of each entry's key hash.
type MapTree struct {
	Count    uint64
	Bitmap   uint16 // which of the 16 hex-digit slots have a child
	Children []*Ref
}

func (MapTree) Kind() Kind { return KindMapTree }

// Index is a radix tree over raw byte-string keys. Prefix holds the bytes
// this node consumes from any key reaching it; Value is set when Prefix
// itself is a complete key; Children are sub-Index nodes keyed by their own
// (longer) Prefix, linearly distinguished by their first byte.
type Index struct {
	Prefix   []byte
	Value    *Ref
	Children []*Ref
}

func (Index) Kind() Kind { return KindIndex }

// ContainsKey reports whether key is mapped in idx, resolving only through
// children already held directly in memory.
func (idx *Index) ContainsKey(key []byte) bool {
	if !bytes.HasPrefix(key, idx.Prefix) {
		return false
	}
	rest := key[len(idx.Prefix):]
	if len(rest) == 0 {
		return idx.Value != nil
	}
	for _, ch := range idx.Children {
		c, ok := ch.Value()
		if !ok {
			continue
		}
		child, ok := c.(*Index)
		if !ok {
			continue
		}
		if bytes.HasPrefix(rest, child.Prefix) {
			return child.ContainsKey(rest)
		}
	}
	return false
}

// Record is a fixed-shape positional tuple, selected by a 4-bit RecordKind
// (tag range E0-EF). Field layouts for each kind are defined by higher
// layers; this package only enforces the shared framing.
type Record struct {
	RecordKind uint8 // 0..15
	Fields     []*Ref
}

func (Record) Kind() Kind { return KindRecord }

// Record kinds exercising the E0-EF tag range with concrete layouts.
const (
	RecordKindTransfer uint8 = iota // [to Address, amount Long]
	RecordKindBlock                  // [timestamp Long, transactions VectorLeaf/VectorTree]
	RecordKindOrder                  // [blocks VectorLeaf/VectorTree, consensusPoint Long]
	RecordKindBelief                  // [orders MapLeaf/MapTree keyed by peer Address]
)

// SignedData pairs a value with an Ed25519 signature over its hash.
type SignedData struct {
	AccountKey [32]byte
	Signature  [64]byte
	Value      *Ref
}

func (SignedData) Kind() Kind { return KindSignedData }
