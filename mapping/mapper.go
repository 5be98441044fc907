package mapping

import (
	"github.com/grailbio/base/errors"

	"github.com/hzzv/maptool/bedio"
	"github.com/hzzv/maptool/mapidx"
)

type chrInfo struct {
	Name   string
	Length int64
}

// Mapper coordinates mapidx.ReferenceFragment/InformantFragment lookups
// and bedio.Query composition to answer one get_answer call at a time. A
// Mapper holds a non-owning reference to its Reader; it must not be used
// concurrently with another Mapper over the same Reader (spec §5).
type Mapper struct {
	reader *mapidx.Reader
	cfg    Config

	infID    mapidx.BioID
	idToInfo map[mapidx.BioID]chrInfo

	query *bedio.Query
}

// NewMapper resolves cfg.Informant against reader's genome dictionary and
// builds the informant chromosome id -> (name, length) lookup the mapper
// needs to construct output records.
func NewMapper(reader *mapidx.Reader, cfg Config) (*Mapper, error) {
	infID, ok := reader.Header.GenomeMap[cfg.Informant]
	if !ok {
		return nil, errors.Errorf("mapping: unknown informant genome %q", cfg.Informant)
	}
	idToInfo := make(map[mapidx.BioID]chrInfo, len(reader.Header.ChrMaps[infID]))
	for name, info := range reader.Header.ChrMaps[infID] {
		idToInfo[info.ID] = chrInfo{Name: name, Length: info.Length}
	}
	return &Mapper{reader: reader, cfg: cfg, infID: infID, idToInfo: idToInfo}, nil
}

func (m *Mapper) fail(kind Kind) error {
	return Errors{Failure{Kind: kind}}
}

func (m *Mapper) failGap(kind Kind, gap int64) error {
	return Errors{Failure{Kind: kind, Gap: gap}}
}

// GetAnswer maps q's interval, thick sub-interval (if any), and exon list
// (if any) against the configured informant genome, per spec §4.C.4. The
// returned query is closed-coordinate; callers convert back to
// half-closed before printing.
func (m *Mapper) GetAnswer(q *bedio.Query) (*bedio.Query, error) {
	m.query = q
	if q.Start > q.End {
		return nil, m.fail(InvalidQuery)
	}

	refInfo, ok := m.reader.Header.ChrMaps[mapidx.ReferenceGenome][q.Chromosome]
	if !ok {
		return nil, m.fail(NoMapping)
	}
	references, err := m.getReferences(refInfo.ID, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	if len(references) == 0 {
		return nil, m.fail(NoMapping)
	}
	informants := m.fillInformantVector(references)

	savedInfMaxGap := m.cfg.InfMaxGap
	if len(q.ExonStarts) > 0 {
		// Large informant gaps between exons are fine for the enclosing
		// interval; only the exon-level mapping enforces inf_maxgap.
		m.cfg.InfMaxGap = -1
	}
	refIt1, refIt2 := 0, len(references)-1
	answer, err := m.getMapping(q.Start, q.End, references, informants, &refIt1, &refIt2)
	if err != nil {
		m.cfg.InfMaxGap = savedInfMaxGap
		return nil, err
	}

	// Thick mapping still runs with inf_maxgap disabled when exons are
	// present, exactly like the interval step above; it is only restored
	// immediately before the exon loop below.
	if q.ThickStart != -1 {
		var thickAnswer *bedio.Query
		var thickErr error
		if q.ThickStart == q.Start && q.ThickEnd == q.End {
			thickAnswer = answer
		} else {
			tRefIt1, tRefIt2 := 0, len(references)-1
			if thickErr = m.setRefIterators(q.ThickStart, q.ThickEnd, references, &tRefIt1, &tRefIt2); thickErr == nil {
				thickAnswer, thickErr = m.getMapping(q.ThickStart, q.ThickEnd, references, informants, &tRefIt1, &tRefIt2)
			}
		}
		if thickErr != nil {
			if !m.cfg.AlwaysMap {
				m.cfg.InfMaxGap = savedInfMaxGap
				return nil, thickErr
			}
		} else {
			answer.MergeThick(thickAnswer)
		}
	}

	m.cfg.InfMaxGap = savedInfMaxGap
	if len(q.ExonStarts) > 0 {
		exons := make([]*bedio.Query, 0, len(q.ExonStarts))
		for i := range q.ExonStarts {
			eRefIt1, eRefIt2 := 0, len(references)-1
			exonStart := q.Start + q.ExonStarts[i]
			exonEnd := q.Start + q.ExonEnds[i]
			if err := m.setRefIterators(exonStart, exonEnd, references, &eRefIt1, &eRefIt2); err != nil {
				return nil, err
			}
			exon, err := m.getMapping(exonStart, exonEnd, references, informants, &eRefIt1, &eRefIt2)
			if err != nil {
				return nil, err
			}
			exons = append(exons, exon)
		}
		if !answer.MergeExons(exons) && !m.cfg.AlwaysMap {
			return nil, m.fail(NoExonMapping)
		}
	}
	return answer, nil
}

// getReferences resolves the reference blocks spanning [start, end] and
// decodes them, per spec §4.C.1.
func (m *Mapper) getReferences(refChr mapidx.BioID, start, end int64) ([]*mapidx.ReferenceFragment, error) {
	i0, i1, ok := m.reader.FindBlockRange(refChr, start, end)
	if !ok {
		return nil, m.fail(NoMapping)
	}
	refs, err := m.reader.ReadReferences(refChr, i0, i1)
	if err != nil {
		return nil, errors.Wrap(err, "mapping: decoding reference blocks")
	}
	return refs, nil
}

// fillInformantVector flattens the informant fragments of the configured
// genome across references, in order.
func (m *Mapper) fillInformantVector(references []*mapidx.ReferenceFragment) []*mapidx.InformantFragment {
	var out []*mapidx.InformantFragment
	for _, ref := range references {
		out = append(out, ref.Informants(m.infID)...)
	}
	return out
}

// infCountBefore sums the informant fragment counts of references[:to].
func (m *Mapper) infCountBefore(references []*mapidx.ReferenceFragment, to int) int {
	n := 0
	for i := 0; i < to; i++ {
		n += len(references[i].Informants(m.infID))
	}
	return n
}

// mapPosition translates one endpoint base position into a column, then an
// aligned informant column, per spec §4.C.2. *refIt is advanced in place
// to the reference fragment the endpoint ultimately resolved in, for use
// by check_informants. Returns the mapped record and the resolved index
// into informants.
func (m *Mapper) mapPosition(references []*mapidx.ReferenceFragment, informants []*mapidx.InformantFragment, position int64, way int, refIt *int) (*bedio.Query, int, error) {
	seqPos := references[*refIt].Select(int(position - references[*refIt].ChrPos()))

	var infIndex int
	var ok bool
	gap := int64(0)
	for {
		infIndex, ok = references[*refIt].FindInformant(m.infID, seqPos, way)
		if ok {
			break
		}
		if way == 1 {
			gap += int64(references[*refIt].Length() - seqPos)
			*refIt++
			if *refIt >= len(references) {
				return nil, 0, m.fail(PosToGap)
			}
			seqPos = 0
		} else {
			if *refIt == 0 {
				return nil, 0, m.fail(PosToGap)
			}
			gap += int64(seqPos)
			*refIt--
			seqPos = references[*refIt].Length() - 1
		}
		if m.cfg.RefMaxGap > -1 && gap > m.cfg.RefMaxGap {
			return nil, 0, m.failGap(RefGap, gap)
		}
	}
	infIt := infIndex + m.infCountBefore(references, *refIt)

	var jinf int
	if way == 1 {
		jinf = max(0, seqPos-int(informants[infIt].SeqPos()))
	} else {
		jinf = min(informants[infIt].Length()-1, seqPos-int(informants[infIt].SeqPos()))
	}
	jref := int(informants[infIt].SeqPos()) + jinf
	ref := informants[infIt].Ref()

	for {
		var aligned bool
		jinf, jref, aligned = informants[infIt].FindAlignedOne(way, jinf, jref)
		if aligned {
			break
		}
		if jinf >= informants[infIt].Length() {
			// Fixed per the conformant-rewrite guidance: fail instead of
			// stepping an index past the end of informants.
			if infIt+1 >= len(informants) {
				return nil, 0, m.fail(PosToGap)
			}
			infIt++
			if ref.ChrPos() != informants[infIt].Ref().ChrPos() {
				ref = informants[infIt].Ref()
				jref = 0
			}
			jinf = 0
		}
		if jinf < 0 {
			if infIt == 0 {
				return nil, 0, m.fail(PosToGap)
			}
			infIt--
			if ref.ChrPos() != informants[infIt].Ref().ChrPos() {
				ref = informants[infIt].Ref()
				jref = ref.Length() - 1
			}
			jinf = informants[infIt].Length() - 1
		}
	}

	infPos := informants[infIt].Rank(jinf)
	info := m.idToInfo[informants[infIt].ChrID()]
	result := bedio.NewMappedQuery(m.query, info.Name, informants[infIt].Strand(), info.Length, infPos)
	return result, infIt, nil
}

// checkInformants walks informants[i1:i2] inclusive, verifying order,
// strand, chromosome and gap invariants between each adjacent pair, per
// spec §4.C.3.
func (m *Mapper) checkInformants(informants []*mapidx.InformantFragment, i1, i2 int) error {
	if i1 > i2 {
		return m.fail(InfPreceed)
	}
	var errs Errors
	for i1 != i2 {
		prev := informants[i1]
		lastInfEnd := prev.ChrPos() + int64(prev.BasesCount())
		lastRefEnd := prev.SeqPos() + int64(prev.BasesCount())
		lastStrand := prev.Strand()
		lastChrID := prev.ChrID()
		i1++
		cur := informants[i1]

		violated := false
		if lastInfEnd > cur.ChrPos() {
			errs = append(errs, Failure{Kind: InfPreceed})
			violated = true
		}
		if lastStrand != cur.Strand() {
			errs = append(errs, Failure{Kind: InfStrand})
			violated = true
		}
		if lastChrID != cur.ChrID() {
			errs = append(errs, Failure{Kind: InfContig})
			violated = true
		}
		if m.cfg.InfMaxGap > -1 && cur.ChrPos()-lastInfEnd > m.cfg.InfMaxGap {
			errs = append(errs, Failure{Kind: InfGap, Gap: cur.ChrPos() - lastInfEnd})
			violated = true
		}
		if m.cfg.RefMaxGap > -1 && cur.SeqPos()-lastRefEnd > m.cfg.RefMaxGap {
			errs = append(errs, Failure{Kind: RefGap, Gap: cur.SeqPos() - lastRefEnd})
			violated = true
		}
		if violated {
			return errs
		}
	}
	return nil
}

// getMapping maps both endpoints of [start, end] and composes them into
// one interval record, per spec §4.C.4 step 4 (also reused verbatim for
// the thick sub-interval and each exon).
func (m *Mapper) getMapping(start, end int64, references []*mapidx.ReferenceFragment, informants []*mapidx.InformantFragment, refIt1, refIt2 *int) (*bedio.Query, error) {
	if start > end {
		return nil, m.fail(InvalidQuery)
	}
	way := -1
	if m.cfg.Inner {
		way = 1
	}
	answer1, infIt1, err := m.mapPosition(references, informants, start, way, refIt1)
	if err != nil {
		return nil, err
	}
	answer2, infIt2, err := m.mapPosition(references, informants, end, -way, refIt2)
	if err != nil {
		return nil, err
	}
	if !answer1.MergeQuery(answer2, m.query.Strand) {
		return nil, m.fail(NoMapping)
	}
	if err := m.checkInformants(informants, infIt1, infIt2); err != nil {
		return nil, err
	}
	return answer1, nil
}

// setRefIterators advances refIt1 forward and refIt2 backward until they
// bracket [start, end]. Carried over verbatim from the original: the
// refIt2 step condition compares against start rather than end (see
// DESIGN.md); flagged, not fixed, per spec §9.
func (m *Mapper) setRefIterators(start, end int64, references []*mapidx.ReferenceFragment, refIt1, refIt2 *int) error {
	for {
		r1 := references[*refIt1]
		r2 := references[*refIt2]
		cond1 := r1.ChrPos()+int64(r1.BasesCount()) <= start
		cond2 := r2.ChrPos() > end
		if !cond1 && !cond2 {
			return nil
		}
		if cond1 {
			*refIt1++
		}
		if r2.ChrPos() > start {
			*refIt2--
		}
		if *refIt1 >= len(references) ||
			(*refIt2 == 0 && references[*refIt2].ChrPos() > start) ||
			*refIt1 > *refIt2 {
			return m.fail(NoThickMapping)
		}
	}
}
