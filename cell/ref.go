package cell

import "sync/atomic"

// Status is a Ref's position in the residency/announce lifecycle. Status
// only ever advances; it never regresses.
//
// Persistence is tracked separately (see Persisted/MarkPersisted): whether a
// cell has been written to a Store is an independent fact from whether it
// has been broadcast to a given peer, and the two can happen in either
// order, so they cannot share one monotonic field.
type Status uint32

const (
	StatusEmbedded Status = iota
	StatusDirect
	StatusStored
	StatusAnnounced
)

func (s Status) String() string {
	switch s {
	case StatusEmbedded:
		return "EMBEDDED"
	case StatusDirect:
		return "DIRECT"
	case StatusStored:
		return "STORED"
	case StatusAnnounced:
		return "ANNOUNCED"
	default:
		return "UNKNOWN"
	}
}

// Ref is a runtime handle to a child cell: its content hash, an optional
// in-memory value (when the cell is resident), a monotonically advancing
// status, and an independent persisted flag. An embedded Ref is always
// direct: its value is always resident, since the child's bytes were
// spliced inline at decode time.
type Ref struct {
	hash      [32]byte
	value     Cell
	status    atomic.Uint32
	persisted atomic.Bool
}

// NewDirect wraps a resident cell in a Ref, computing and caching its hash.
// Its initial status is EMBEDDED if the cell qualifies for inline embedding,
// DIRECT otherwise.
func NewDirect(c Cell) *Ref {
	r := &Ref{value: c, hash: Hash(c)}
	if IsEmbeddable(c) {
		r.status.Store(uint32(StatusEmbedded))
	} else {
		r.status.Store(uint32(StatusDirect))
	}
	return r
}

// NewIndirect wraps a bare hash with no resident value, as produced when
// decoding an indirect child reference that has not yet been resolved
// against a dictionary or Store.
func NewIndirect(hash [32]byte) *Ref {
	r := &Ref{hash: hash}
	r.status.Store(uint32(StatusStored))
	return r
}

// Hash returns the referenced cell's content hash.
func (r *Ref) Hash() [32]byte { return r.hash }

// Value returns the resident cell and true if this Ref currently holds one.
func (r *Ref) Value() (Cell, bool) {
	if r.value == nil {
		return nil, false
	}
	return r.value, true
}

// Status returns the Ref's current lifecycle status.
func (r *Ref) Status() Status { return Status(r.status.Load()) }

// Persisted reports whether this Ref has been written to a Store.
func (r *Ref) Persisted() bool { return r.persisted.Load() }

// MarkPersisted records that this Ref has been written to a Store. It is
// idempotent and independent of Status: a cell may be persisted before or
// after it is announced.
func (r *Ref) MarkPersisted() { r.persisted.Store(true) }

// Resolve attaches a resident value to a previously-indirect Ref, verifying
// it hashes to the Ref's expected hash. It does not regress status.
func (r *Ref) Resolve(c Cell) error {
	h := Hash(c)
	if h != r.hash {
		return badFormat(RuleBadLength, "resolved value hash does not match ref hash")
	}
	r.value = c
	min := StatusDirect
	if IsEmbeddable(c) {
		min = StatusEmbedded
	}
	r.Advance(min)
	return nil
}

// Advance moves the Ref's status forward to at least min, using a
// compare-and-swap loop so concurrent advances never regress or lose an
// update.
func (r *Ref) Advance(min Status) {
	for {
		cur := Status(r.status.Load())
		if cur >= min {
			return
		}
		if r.status.CompareAndSwap(uint32(cur), uint32(min)) {
			return
		}
	}
}
