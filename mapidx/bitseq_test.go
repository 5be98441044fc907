package mapidx

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

// buildBits constructs a BitSequence directly from a slice of booleans,
// bypassing decodeMask's byte-packing so the expected set positions are
// explicit in the test.
func buildBits(t *testing.T, bits []bool, basePos int64) *BitSequence {
	b := newBitSequence(len(bits), basePos)
	for i, set := range bits {
		if set {
			b.setBit(i)
		}
	}
	return b
}

func TestBitSequenceTest(t *testing.T) {
	pattern := []bool{true, true, false, true, false, false, true, false}
	b := buildBits(t, pattern, 0)
	for i, want := range pattern {
		expect.EQ(t, b.Test(i), want)
	}
}

func TestBitSequenceSelectUnsampled(t *testing.T) {
	// Fewer than SelectBits ones, so selectSamples only carries the
	// sentinel entry and Select falls back to its linear walk.
	pattern := []bool{true, true, false, true, false, false, true, false}
	b := buildBits(t, pattern, 0)
	b.selectSamples = []int32{-1}

	cases := []struct {
		k    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 6},
	}
	for _, c := range cases {
		expect.EQ(t, b.Select(c.k), c.want)
	}
}

func TestBitSequenceRankLinear(t *testing.T) {
	pattern := []bool{true, true, false, true, false, false, true, false}
	b := buildBits(t, pattern, 100)

	cases := []struct {
		p    int
		want int64
	}{
		{0, 100},
		{1, 101},
		{2, 102},
		{3, 102},
		{4, 103},
		{6, 103},
		{7, 104},
		{8, 104},
	}
	for _, c := range cases {
		expect.EQ(t, b.Rank(c.p), c.want)
	}
}

func TestBitSequenceRankSampled(t *testing.T) {
	pattern := []bool{true, true, false, true, false, false, true, false}
	b := buildBits(t, pattern, 100)
	// n=8 is within the first RankBits-wide sample, so a single all-zero
	// sample reproduces the same counts as the linear fallback.
	b.rankSamples = []int32{0}

	cases := []struct {
		p    int
		want int64
	}{
		{0, 100},
		{4, 103},
		{8, 104},
	}
	for _, c := range cases {
		expect.EQ(t, b.Rank(c.p), c.want)
	}
}
