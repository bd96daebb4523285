package store

import (
	"container/list"
	"context"
	"sync"
)

// LRUStore decorates a backing Store with a bounded in-memory cache of
// recently read or written encodings, keyed by Key. It is the "warm tier"
// MultiStore's ordered fallback is meant to sit in front of: a cache miss
// here falls through to the backing Store; a cache hit never touches it.
//
// None of the example repos in this corpus depend on a third-party LRU
// library (the one cache-shaped dependency present anywhere in the wider
// retrieval pack, groupcache, is a distributed peer-to-peer cache daemon --
// the wrong shape entirely for an in-process decorator), so this is built
// directly on container/list the way the standard library itself documents
// as the idiomatic LRU construction.
type LRUStore struct {
	backing  Store
	capacity int

	mu    sync.Mutex
	ll    *list.List
	index map[Key]*list.Element
}

type lruEntry struct {
	key      Key
	encoding []byte
}

// NewLRUStore wraps backing with an in-memory cache holding up to capacity
// entries. capacity <= 0 disables caching (every call passes straight
// through).
func NewLRUStore(backing Store, capacity int) *LRUStore {
	return &LRUStore{
		backing:  backing,
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[Key]*list.Element),
	}
}

var _ Store = (*LRUStore)(nil)

func (c *LRUStore) Put(ctx context.Context, encoding []byte) (Key, error) {
	key, err := c.backing.Put(ctx, encoding)
	if err != nil {
		return Key{}, err
	}
	c.promote(key, encoding)
	return key, nil
}

func (c *LRUStore) Get(ctx context.Context, key Key) ([]byte, error) {
	if b, ok := c.lookup(key); ok {
		return b, nil
	}
	b, err := c.backing.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.promote(key, b)
	return b, nil
}

func (c *LRUStore) Has(ctx context.Context, key Key) bool {
	if _, ok := c.lookup(key); ok {
		return true
	}
	return c.backing.Has(ctx, key)
}

func (c *LRUStore) lookup(key Key) ([]byte, bool) {
	if c.capacity <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).encoding, true
}

func (c *LRUStore) promote(key Key, encoding []byte) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*lruEntry).encoding = encoding
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, encoding: encoding})
	c.index[key] = el
	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.ll.Remove(oldest)
		delete(c.index, oldest.Value.(*lruEntry).key)
	}
}
