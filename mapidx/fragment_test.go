package mapidx

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func newMaskFragment(bits []bool) *BitSequence {
	b := newBitSequence(len(bits), 0)
	for i, set := range bits {
		if set {
			b.setBit(i)
		}
	}
	return b
}

func TestFindInformantWithinFirst(t *testing.T) {
	ref := &ReferenceFragment{}
	inf0 := &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 0}
	inf1 := &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 10}
	ref.addInformant(1, inf0)
	ref.addInformant(1, inf1)

	idx, ok := ref.FindInformant(1, 2, 1)
	expect.EQ(t, ok, true)
	expect.EQ(t, idx, 0)
}

func TestFindInformantGapForward(t *testing.T) {
	ref := &ReferenceFragment{}
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 0})
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 10})

	idx, ok := ref.FindInformant(1, 7, 1)
	expect.EQ(t, ok, true)
	expect.EQ(t, idx, 1)
}

func TestFindInformantGapBackward(t *testing.T) {
	ref := &ReferenceFragment{}
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 0})
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 10})

	idx, ok := ref.FindInformant(1, 7, -1)
	expect.EQ(t, ok, true)
	expect.EQ(t, idx, 0)
}

func TestFindInformantOffEndForward(t *testing.T) {
	ref := &ReferenceFragment{}
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 0})
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 10})

	_, ok := ref.FindInformant(1, 20, 1)
	expect.EQ(t, ok, false)
}

func TestFindInformantOffStartBackward(t *testing.T) {
	ref := &ReferenceFragment{}
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 0})
	ref.addInformant(1, &InformantFragment{mask: newMaskFragment(make([]bool, 5)), seqPos: 10})

	_, ok := ref.FindInformant(1, -5, -1)
	expect.EQ(t, ok, false)
}

func TestFindInformantEmpty(t *testing.T) {
	ref := &ReferenceFragment{}
	_, ok := ref.FindInformant(1, 0, 1)
	expect.EQ(t, ok, false)
}

func TestFindAlignedOneWalksToMatch(t *testing.T) {
	ref := &ReferenceFragment{mask: newMaskFragment([]bool{false, true, false, true, false})}
	inf := &InformantFragment{mask: newMaskFragment([]bool{false, false, true, true, false}), ref: ref}

	jinf, jref, ok := inf.FindAlignedOne(1, 0, 0)
	expect.EQ(t, ok, true)
	expect.EQ(t, jinf, 3)
	expect.EQ(t, jref, 3)
}

func TestFindAlignedOneRunsOffEnd(t *testing.T) {
	ref := &ReferenceFragment{mask: newMaskFragment([]bool{false, false, false, false, false})}
	inf := &InformantFragment{mask: newMaskFragment([]bool{false, false, false, false, false}), ref: ref}

	_, _, ok := inf.FindAlignedOne(1, 0, 0)
	expect.EQ(t, ok, false)
}
