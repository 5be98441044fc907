package mapidx

// BitSequence is a bit vector of some length together with sampling data
// that accelerates either select (index of the k-th set bit) or rank (count
// of set bits before a position). Reference fragments are select-sampled;
// informant fragments are either rank-sampled or unsampled, see Rank.
type BitSequence struct {
	bits []byte // packed, MSB-first within each byte
	n    int    // number of valid bits

	selectSamples []int32 // sentinel -1 at index 0, set when select-sampled
	rankSamples   []int32 // set when rank-sampled

	// basePos is added to the result of Rank: a Rank(p) call reports a
	// base coordinate, which is the fragment's chr_pos plus the count of
	// set bits strictly before p.
	basePos int64
}

// Len returns the number of bits (the column length of the fragment).
func (b *BitSequence) Len() int { return b.n }

// Test reports whether bit i is set.
func (b *BitSequence) Test(i int) bool {
	return (b.bits[i/8]>>(7-uint(i%8)))&1 != 0
}

func (b *BitSequence) setBit(i int) {
	b.bits[i/8] |= 1 << (7 - uint(i%8))
}

// newBitSequence allocates a BitSequence for n bits.
func newBitSequence(n int, basePos int64) *BitSequence {
	return &BitSequence{
		bits:    make([]byte, (n+7)/8),
		n:       n,
		basePos: basePos,
	}
}

// Select returns the column index of the (k+1)-th set bit (k is 0-based),
// i.e. the smallest result with popcount(bits[0:result+1]) == k+1. It
// requires select sampling; see decodeMask.
func (b *BitSequence) Select(k int) int {
	pos := int(b.selectSamples[k/SelectBits])
	rem := k % SelectBits
	for pos+1 < b.n && (rem > 0 || !b.Test(pos+1)) {
		pos++
		if b.Test(pos) {
			rem--
		}
	}
	return pos + 1
}

// Rank returns the base coordinate of the position immediately before
// column p: basePos + popcount(bits[0:p)). When the sequence was built with
// rank sampling it uses the sampled shortcut; otherwise it falls back to a
// linear scan, which is the variant the original implementation actually
// runs (see DESIGN.md).
func (b *BitSequence) Rank(p int) int64 {
	if b.rankSamples != nil {
		ret := b.basePos + int64(b.rankSamples[p/RankBits])
		from := p - p%RankBits
		for i := 0; i < p%RankBits; i++ {
			if b.Test(from + i) {
				ret++
			}
		}
		return ret
	}
	ret := b.basePos
	for i := 0; i < p; i++ {
		if b.Test(i) {
			ret++
		}
	}
	return ret
}
