package mapidx

import "sort"

// BlockDescriptor is one entry of the on-disk block index: the strand,
// starting base position and base count of a reference block, and the
// offset in the block file (or bgzf virtual offset, when compressed) at
// which its encoded form begins.
type BlockDescriptor struct {
	Strand     bool
	ChrPos     int64
	BasesCount int64
	FileOffset uint64
}

// blockIndex is the per-reference-chromosome ordered sequence of
// BlockDescriptors, sorted by ChrPos with non-overlapping blocks.
type blockIndex []BlockDescriptor

// findContaining returns the index of the descriptor whose [ChrPos,
// ChrPos+BasesCount) interval contains pos, or -1 if none does. It binary
// searches the same way encoding/bam's GIndex.RecordOffset and
// interval.SearchPosTypes do: a single sort.Search over the boundary
// condition, narrowed to the candidate entry.
func (idx blockIndex) findContaining(pos int64) int {
	i := sort.Search(len(idx), func(i int) bool {
		return idx[i].ChrPos+idx[i].BasesCount > pos
	})
	if i >= len(idx) || idx[i].ChrPos > pos {
		return -1
	}
	return i
}
