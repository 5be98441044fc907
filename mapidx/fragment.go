package mapidx

import "sort"

// ReferenceFragment is a contiguous column range of the alignment, indexed
// by the reference genome: a select-sampled column mask plus, per informant
// genome, the ordered list of InformantFragments aligned to those columns.
type ReferenceFragment struct {
	mask      *BitSequence
	chrID     BioID
	chrPos    int64
	strand    bool
	basesCnt  BioCount
	informant map[BioID][]*InformantFragment
}

// ChrID returns the chromosome id this fragment belongs to.
func (r *ReferenceFragment) ChrID() BioID { return r.chrID }

// ChrPos returns the base position at which this fragment begins.
func (r *ReferenceFragment) ChrPos() int64 { return r.chrPos }

// Strand returns the fragment's strand; true is forward (+).
func (r *ReferenceFragment) Strand() bool { return r.strand }

// BasesCount returns the number of reference bases covered.
func (r *ReferenceFragment) BasesCount() BioCount { return r.basesCnt }

// Length returns the column width of the fragment (the alignment mask's bit
// count), not the base count.
func (r *ReferenceFragment) Length() int { return r.mask.Len() }

// Select translates a base offset (relative to ChrPos) into a column.
func (r *ReferenceFragment) Select(baseOffset int) int { return r.mask.Select(baseOffset) }

// Test reports whether alignment column c is present (set) in this
// reference fragment's mask.
func (r *ReferenceFragment) Test(c int) bool { return r.mask.Test(c) }

// Informants returns the ordered, column-sorted informant fragments this
// reference fragment carries for the given informant genome. The slice must
// not be mutated by callers.
func (r *ReferenceFragment) Informants(genome BioID) []*InformantFragment {
	return r.informant[genome]
}

func (r *ReferenceFragment) addInformant(genome BioID, inf *InformantFragment) {
	if r.informant == nil {
		r.informant = make(map[BioID][]*InformantFragment)
	}
	r.informant[genome] = append(r.informant[genome], inf)
}

// FindInformant locates, among this fragment's informants for genome, the
// index of the fragment aligned at column seqPos when walking in direction
// way (+1 or -1). It mirrors Reference::find_informant in
// original_source/mapping/Sequence.cpp, including its handling of seqPos
// falling in a gap between two informant fragments (it walks to the
// neighbor in the direction of way) and off either end of the list (it
// reports failure so the caller can cross into the next/previous reference
// fragment).
func (r *ReferenceFragment) FindInformant(genome BioID, seqPos int, way int) (int, bool) {
	infs := r.informant[genome]
	hi := len(infs)
	if hi == 0 {
		return 0, false
	}
	if seqPos < int(infs[0].seqPos) && way == -1 {
		return 0, false
	}
	last := infs[hi-1]
	if seqPos >= int(last.seqPos)+last.Length() && way == 1 {
		return 0, false
	}
	if seqPos < int(infs[0].seqPos)+infs[0].Length() && way == 1 {
		return 0, true
	}
	if seqPos >= int(last.seqPos) && way == -1 {
		return hi - 1, true
	}
	// seqPos lies within [infs[0], infs[hi-1]]; binary search for either
	// the fragment containing it, or (if it falls in a gap) the
	// neighbor in the direction of way.
	idx := sort.Search(hi, func(i int) bool {
		return int(infs[i].seqPos)+infs[i].Length() > seqPos
	})
	if idx >= hi {
		idx = hi - 1
	}
	if int(infs[idx].seqPos) <= seqPos && seqPos < int(infs[idx].seqPos)+infs[idx].Length() {
		return idx, true
	}
	// seqPos is in the gap before infs[idx].
	if way == 1 {
		return idx, true
	}
	if idx == 0 {
		return 0, false
	}
	return idx - 1, true
}

// InformantFragment is an aligned segment of one informant genome, placed at
// column offset SeqPos inside a parent ReferenceFragment's mask.
type InformantFragment struct {
	mask     *BitSequence
	chrID    BioID
	chrPos   int64
	strand   bool
	basesCnt BioCount
	seqPos   int64
	ref      *ReferenceFragment // non-owning; see DESIGN.md on cyclic ownership
}

func (i *InformantFragment) ChrID() BioID        { return i.chrID }
func (i *InformantFragment) ChrPos() int64       { return i.chrPos }
func (i *InformantFragment) Strand() bool        { return i.strand }
func (i *InformantFragment) BasesCount() BioCount { return i.basesCnt }
func (i *InformantFragment) Length() int         { return i.mask.Len() }
func (i *InformantFragment) SeqPos() int64       { return i.seqPos }
func (i *InformantFragment) Ref() *ReferenceFragment { return i.ref }
func (i *InformantFragment) Rank(col int) int64  { return i.mask.Rank(col) }
func (i *InformantFragment) Test(col int) bool   { return i.mask.Test(col) }

// FindAlignedOne walks from (jinf, jref) in direction way until both the
// informant mask at jinf and the parent reference mask at jref are set, or
// jinf steps off either end of this fragment. It mirrors
// Informant::find_aligned_one in original_source/mapping/Sequence.cpp.
func (i *InformantFragment) FindAlignedOne(way, jinf, jref int) (int, int, bool) {
	for !i.mask.Test(jinf) || !i.ref.mask.Test(jref) {
		jinf += way
		jref += way
		if jinf >= i.Length() || jinf < 0 {
			return jinf, jref, false
		}
	}
	return jinf, jref, true
}
