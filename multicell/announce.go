package multicell

import "convex.dev/convex/cell"

// Announcer tracks, per broadcaster instance, which non-embedded cells have
// already been flagged ANNOUNCED on their Ref, and performs the post-order
// traversal that produces a novelty list for EncodeDelta.
//
// This core models a single shared "announced" bit per Ref rather than a
// true per-peer bitset; running one Announcer per peer connection, each
// operating on its own copy of the graph's Refs, achieves the same
// per-peer semantics the protocol description calls for.
type Announcer struct {
	cache *NoveltyCache
}

// NewAnnouncer returns an Announcer with its own novelty-dedup cache.
func NewAnnouncer() *Announcer {
	return &Announcer{cache: NewNoveltyCache()}
}

// Announce performs a post-order traversal of root's Refs (children visited
// before root), advancing every non-embedded, not-yet-ANNOUNCED cell's
// status to ANNOUNCED. It returns the novel cells in the order EncodeDelta
// expects: root first (if root itself was novel), then descendants in the
// post-order they were discovered. Calling Announce twice in a row on the
// same Ref yields an empty novelty list the second time.
func (a *Announcer) Announce(root *cell.Ref) []cell.Cell {
	v, ok := root.Value()
	if !ok {
		return nil
	}
	var descendants []cell.Cell
	for _, r := range cell.ChildRefs(v) {
		if cv, ok := r.Value(); ok {
			a.announce(cv, r, &descendants)
		}
	}
	if !a.checkAndMark(v, root) {
		return descendants
	}
	novelty := make([]cell.Cell, 0, len(descendants)+1)
	novelty = append(novelty, v)
	return append(novelty, descendants...)
}

// announce visits c, appending newly-novel descendants to *novelty in
// post-order.
func (a *Announcer) announce(c cell.Cell, selfRef *cell.Ref, novelty *[]cell.Cell) {
	for _, r := range cell.ChildRefs(c) {
		if v, ok := r.Value(); ok {
			a.announce(v, r, novelty)
		}
	}
	if a.checkAndMark(c, selfRef) {
		*novelty = append(*novelty, c)
	}
}

// checkAndMark reports whether selfRef is newly novel (not embedded, not
// already ANNOUNCED, and not a duplicate -- by hash -- of something already
// seen by this Announcer), advancing its status to ANNOUNCED either way.
func (a *Announcer) checkAndMark(c cell.Cell, selfRef *cell.Ref) bool {
	if selfRef.Status() == cell.StatusEmbedded {
		return false
	}
	if selfRef.Status() >= cell.StatusAnnounced {
		return false
	}
	// Distinct *Ref instances can carry equal content (structural sharing
	// built from separately-decoded subtrees); dedup by hash within this
	// Announcer's lifetime so each distinct cell is still only announced
	// once even when reached through more than one Ref.
	alreadySeen := a.cache.CheckAndMark(selfRef.Hash())
	selfRef.Advance(cell.StatusAnnounced)
	return !alreadySeen
}

// Persister writes each emitted encoding to a Store under its hash during a
// traversal identical in shape to Announce, and marks each Ref persisted via
// Ref.MarkPersisted instead of advancing its announce Status. Persistence
// and announcement are independent facts tracked on separate fields, so a
// cell persisted before being announced still announces normally, and a
// cell announced first still persists normally afterward.
type Persister struct {
	put func(hash [32]byte, encoding []byte) error
}

// NewPersister returns a Persister that writes through put, the shape of a
// Store's Put method.
func NewPersister(put func(hash [32]byte, encoding []byte) error) *Persister {
	return &Persister{put: put}
}

// Persist writes root and every non-embedded descendant to the Store,
// children before parents, so a reader following a hash never encounters a
// dangling child reference.
func (p *Persister) Persist(root *cell.Ref) error {
	v, ok := root.Value()
	if !ok {
		return nil
	}
	return p.persist(v, root)
}

func (p *Persister) persist(c cell.Cell, selfRef *cell.Ref) error {
	for _, r := range cell.ChildRefs(c) {
		if v, ok := r.Value(); ok {
			if err := p.persist(v, r); err != nil {
				return err
			}
		}
	}
	if selfRef.Status() == cell.StatusEmbedded {
		return nil
	}
	if selfRef.Persisted() {
		return nil
	}
	if err := p.put(selfRef.Hash(), cell.Encode(c)); err != nil {
		return err
	}
	selfRef.MarkPersisted()
	return nil
}
