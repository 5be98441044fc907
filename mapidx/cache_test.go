package mapidx

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestBlockCacheGetMiss(t *testing.T) {
	c := newBlockCache()
	_, ok := c.get(42)
	expect.EQ(t, ok, false)
}

func TestBlockCacheTouchAndGet(t *testing.T) {
	c := newBlockCache()
	frag := &ReferenceFragment{chrPos: 7}
	c.touch(100, frag)

	got, ok := c.get(100)
	expect.EQ(t, ok, true)
	expect.EQ(t, got, frag)
}

func TestBlockCacheEvictsOldestOnOverflow(t *testing.T) {
	c := newBlockCache()
	frags := make(map[uint64]*ReferenceFragment)
	for offset := uint64(1); offset <= MaxCacheSize; offset++ {
		frag := &ReferenceFragment{chrPos: int64(offset)}
		frags[offset] = frag
		c.touch(offset, frag)
	}
	expect.EQ(t, len(c.entries), MaxCacheSize)

	// One more insertion must evict offset 1, the entry that has gone the
	// longest without being touched.
	extra := &ReferenceFragment{chrPos: 999}
	c.touch(uint64(MaxCacheSize+1), extra)
	expect.EQ(t, len(c.entries), MaxCacheSize)

	_, ok := c.get(1)
	expect.EQ(t, ok, false)
	for offset := uint64(2); offset <= MaxCacheSize+1; offset++ {
		_, ok := c.get(offset)
		expect.EQ(t, ok, true)
	}
}

func TestBlockCacheTouchExistingResetsAge(t *testing.T) {
	c := newBlockCache()
	frag1 := &ReferenceFragment{chrPos: 1}
	c.touch(1, frag1)
	for offset := uint64(2); offset <= MaxCacheSize; offset++ {
		c.touch(offset, &ReferenceFragment{chrPos: int64(offset)})
	}
	// Re-touch offset 1 so it is no longer the oldest entry.
	c.touch(1, frag1)

	c.touch(uint64(MaxCacheSize+1), &ReferenceFragment{chrPos: 999})
	_, ok := c.get(1)
	expect.EQ(t, ok, true)
	_, ok = c.get(2)
	expect.EQ(t, ok, false)
}
