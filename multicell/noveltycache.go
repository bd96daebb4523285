package multicell

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

const noveltyShards = 32

// NoveltyCache is a sharded seen-hash set used to deduplicate cells across
// back-to-back announce/encodeMultiCell calls without serializing every
// broadcast loop on a single mutex. Each cell hash is already a
// cryptographic digest, so murmur3 here is purely a fast shard selector, not
// a second membership hash.
type NoveltyCache struct {
	shards [noveltyShards]struct {
		mu   sync.Mutex
		seen map[[32]byte]struct{}
	}
}

// NewNoveltyCache returns an empty cache.
func NewNoveltyCache() *NoveltyCache {
	c := &NoveltyCache{}
	for i := range c.shards {
		c.shards[i].seen = make(map[[32]byte]struct{})
	}
	return c
}

func shardFor(hash [32]byte) int {
	return int(murmur3.Sum32(hash[:])) % noveltyShards
}

// CheckAndMark reports whether hash has been seen before, marking it seen
// either way.
func (c *NoveltyCache) CheckAndMark(hash [32]byte) (alreadySeen bool) {
	idx := shardFor(hash) % noveltyShards
	if idx < 0 {
		idx += noveltyShards
	}
	s := &c.shards[idx]
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[hash]; ok {
		return true
	}
	s.seen[hash] = struct{}{}
	return false
}
