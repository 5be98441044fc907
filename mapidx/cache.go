package mapidx

import "sort"

// blockCache is the bounded, ageing-approximated LRU cache of decoded
// reference fragments keyed by their file offset. Capacity is
// MaxCacheSize. Ageing and eviction iterate entries in ascending key order
// (mirroring the original C++ implementation's std::map<uint64_t, ...>,
// which is ordered by key), so ties during eviction are broken
// deterministically: among entries sharing the maximum age, the
// lowest-offset one is evicted, matching
// original_source/mapping/IOHandler.cpp's add_to_cache exactly, quirks
// included (see DESIGN.md on the ageing-before-short-circuit order).
type blockCache struct {
	entries map[uint64]*cacheEntry
}

type cacheEntry struct {
	frag *ReferenceFragment
	age  int
}

func newBlockCache() *blockCache {
	return &blockCache{entries: make(map[uint64]*cacheEntry)}
}

// get returns the cached fragment for offset, if present, without touching
// its age. Ageing happens only on touch, matching the original's split
// between get_from_cache (read-only) and add_to_cache (the only place
// ageing happens).
func (c *blockCache) get(offset uint64) (*ReferenceFragment, bool) {
	e, ok := c.entries[offset]
	if !ok {
		return nil, false
	}
	return e.frag, true
}

// touch records that offset was just produced (freshly decoded, or a cache
// hit being re-confirmed), ageing every other entry and evicting the
// oldest if this insertion would exceed MaxCacheSize.
func (c *blockCache) touch(offset uint64, frag *ReferenceFragment) {
	if e, ok := c.entries[offset]; ok && e.age == 0 {
		return
	}
	for _, e := range c.entries {
		e.age++
	}
	if e, ok := c.entries[offset]; ok {
		e.age = 0
		return
	}
	if len(c.entries) == MaxCacheSize {
		c.evictOldest()
	}
	c.entries[offset] = &cacheEntry{frag: frag, age: 0}
}

func (c *blockCache) evictOldest() {
	keys := make([]uint64, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	maxAge, evict := -1, keys[0]
	for _, k := range keys {
		if c.entries[k].age > maxAge {
			maxAge = c.entries[k].age
			evict = k
		}
	}
	delete(c.entries, evict)
}
