// Package bedio implements the minimal textual interval record used by
// maptool: parsing and formatting of the tab/space-separated record
// format, and the coordinate-mode and merge operations the mapping
// engine composes endpoint, thick-interval, and exon results with.
package bedio

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Query is one interval record: a chromosome, a half-closed or closed
// coordinate pair, and the optional name/score/strand/thick/exon fields
// of the BED-style textual format (spec §6.4).
type Query struct {
	Chromosome string
	Start, End int64
	Name       string
	Score      int64
	// Strand is the record's current strand; OriginalStrand is the
	// strand at parse time and never changes, used by MergeQuery and
	// MergeExons to decide flip direction.
	Strand, OriginalStrand bool
	ThickStart, ThickEnd   int64
	RGB                    string
	ExonStarts, ExonEnds   []int64

	// ChrSize is the informant chromosome length; only set on records
	// produced by NewMappedQuery, used by MergeQuery's reverse-strand
	// coordinate flip.
	ChrSize int64
	Closed  bool
}

// ParseQuery parses one whitespace-separated textual record (spec §6.4).
// Trailing optional fields may be omitted; a default name of
// "default_name" and rgb of "0,0,0" are used when absent.
func ParseQuery(line string) (*Query, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, errors.E("bed line has fewer than the required 3 fields")
	}
	q := &Query{
		End:        -1,
		Name:       "default_name",
		Score:      -1,
		ThickStart: -1,
		ThickEnd:   -1,
		RGB:        "0,0,0",
	}
	q.Chromosome = fields[0]
	var err error
	if q.Start, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
		return nil, errors.Wrap(err, "parsing start")
	}
	if q.End, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
		return nil, errors.Wrap(err, "parsing end")
	}
	strand := "+"
	if len(fields) > 3 {
		q.Name = fields[3]
	}
	if len(fields) > 4 {
		if q.Score, err = strconv.ParseInt(fields[4], 10, 64); err != nil {
			return nil, errors.Wrap(err, "parsing score")
		}
	}
	if len(fields) > 5 {
		strand = fields[5]
	}
	q.Strand = len(strand) == 0 || strand[0] == '+'
	q.OriginalStrand = q.Strand
	if len(fields) > 7 {
		if q.ThickStart, err = strconv.ParseInt(fields[6], 10, 64); err != nil {
			return nil, errors.Wrap(err, "parsing thick start")
		}
		if q.ThickEnd, err = strconv.ParseInt(fields[7], 10, 64); err != nil {
			return nil, errors.Wrap(err, "parsing thick end")
		}
	}
	if len(fields) > 8 {
		q.RGB = fields[8]
	}
	var exonCount int
	if len(fields) > 11 {
		if exonCount, err = strconv.Atoi(fields[9]); err != nil {
			return nil, errors.Wrap(err, "parsing exon count")
		}
		sizes, err := parseNumbers(fields[10])
		if err != nil {
			return nil, errors.Wrap(err, "parsing exon sizes")
		}
		starts, err := parseNumbers(fields[11])
		if err != nil {
			return nil, errors.Wrap(err, "parsing exon starts")
		}
		if len(sizes) < exonCount {
			exonCount = len(sizes)
		}
		if len(starts) < exonCount {
			exonCount = len(starts)
		}
		q.ExonStarts = starts[:exonCount]
		q.ExonEnds = make([]int64, exonCount)
		for i := 0; i < exonCount; i++ {
			q.ExonEnds[i] = starts[i] + sizes[i]
		}
	}
	q.ChrSize = -1
	q.Closed = false
	return q, nil
}

// parseNumbers splits a comma-separated list of integers, ignoring spaces,
// the way BedQuery::set_numbers in original_source/mapping/Query.cpp does.
func parseNumbers(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// NewMappedQuery constructs the per-endpoint mapped record produced by
// the mapping engine's mapPosition: same name/score/rgb as bq, placed on the given
// informant chromosome/strand/length at the computed start.
func NewMappedQuery(bq *Query, chromosome string, strand bool, chrSize, start int64) *Query {
	return &Query{
		Chromosome:     chromosome,
		Start:          start,
		End:            -1,
		Name:           bq.Name,
		Score:          bq.Score,
		Strand:         strand,
		OriginalStrand: strand,
		ThickStart:     -1,
		ThickEnd:       -1,
		RGB:            bq.RGB,
		ChrSize:        chrSize,
		Closed:         true,
	}
}

// Bedline renders the record back to the textual format, omitting
// trailing optional fields when they carry their default/absent value.
func (q *Query) Bedline() string {
	strand := "+"
	if !q.Strand {
		strand = "-"
	}
	var b strings.Builder
	b.WriteString(q.Chromosome)
	b.WriteByte('\t')
	b.WriteString(strconv.FormatInt(q.Start, 10))
	b.WriteByte('\t')
	b.WriteString(strconv.FormatInt(q.End, 10))
	if q.Name != "default_name" || q.Score != -1 {
		b.WriteByte('\t')
		b.WriteString(q.Name)
	}
	if q.Score != -1 {
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(q.Score, 10))
	}
	if !q.Strand || (q.ThickStart != -1 && q.ThickEnd != -1) {
		b.WriteByte('\t')
		b.WriteString(strand)
	}
	if q.ThickStart != -1 && q.ThickEnd != -1 {
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(q.ThickStart, 10))
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(q.ThickEnd, 10))
	}
	if q.RGB != "0,0,0" || len(q.ExonStarts) > 0 {
		b.WriteByte('\t')
		b.WriteString(q.RGB)
	}
	if len(q.ExonStarts) > 0 {
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(len(q.ExonStarts)))
		b.WriteByte('\t')
		c := int64(0)
		if q.Closed {
			c = 1
		}
		for i := range q.ExonStarts {
			if i != 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(q.ExonEnds[i]-q.ExonStarts[i]+c, 10))
		}
		b.WriteByte('\t')
		for i := range q.ExonStarts {
			if i != 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatInt(q.ExonStarts[i], 10))
		}
	}
	return b.String()
}

// ToClosed converts the record from half-closed [start, end) to closed
// [start, end].
func (q *Query) ToClosed() {
	if q.Closed {
		return
	}
	q.End--
	q.ThickEnd--
	for i := range q.ExonEnds {
		q.ExonEnds[i]--
	}
	q.Closed = true
}

// ToHalfClosed is the inverse of ToClosed.
func (q *Query) ToHalfClosed() {
	if !q.Closed {
		return
	}
	q.End++
	q.ThickEnd++
	for i := range q.ExonEnds {
		q.ExonEnds[i]++
	}
	q.Closed = false
}

// MergeQuery absorbs other as this record's end, requiring same
// strand/chromosome/closure and this.Start <= other.Start. On a reverse
// strand record the coordinates are re-expressed on the informant
// chromosome's plus strand. queryStrand is the original query's strand,
// used to decide whether the composed record's own strand flips.
func (q *Query) MergeQuery(other *Query, queryStrand bool) bool {
	if q.Strand != other.Strand || q.Chromosome != other.Chromosome ||
		q.Start > other.Start || q.Closed != other.Closed {
		return false
	}
	start, end := q.Start, other.Start
	if !q.Strand {
		start = q.ChrSize - other.Start - 1
		end = q.ChrSize - q.Start - 1
	} else if !queryStrand && q.Strand {
		q.Strand = false
	}
	if !queryStrand && !q.OriginalStrand {
		q.Strand = true
	}
	q.Start = start
	q.End = end
	return true
}

// MergeThick attaches other's coordinates as this record's thick
// sub-interval, requiring matching strand/chromosome/closure.
func (q *Query) MergeThick(other *Query) bool {
	if q.Strand != other.Strand || q.Chromosome != other.Chromosome || q.Closed != other.Closed {
		return false
	}
	q.ThickStart = other.Start
	q.ThickEnd = other.End
	return true
}

// MergeExons attaches queries as this record's exon list, offset relative
// to q.Start. An empty list clears the exon set and always succeeds.
// Adjacent exons (walked in original-strand order) must be strictly
// increasing and share strand/chromosome/closure with each other and
// with q.
func (q *Query) MergeExons(queries []*Query) bool {
	if len(queries) == 0 {
		q.ExonStarts, q.ExonEnds = nil, nil
		return true
	}
	way, m, n := 1, 0, len(queries)
	if !q.OriginalStrand {
		way, m, n = -1, len(queries)-1, -1
	}
	for i := m + way; i != n; i += way {
		prev, cur := queries[i-way], queries[i]
		if prev.Strand != cur.Strand || prev.Chromosome != cur.Chromosome ||
			prev.End >= cur.Start || prev.Closed != cur.Closed {
			return false
		}
	}
	if q.Strand != queries[0].Strand || q.Chromosome != queries[0].Chromosome || q.Closed != queries[0].Closed {
		return false
	}
	starts := make([]int64, 0, len(queries))
	ends := make([]int64, 0, len(queries))
	for i := m; i != n; i += way {
		starts = append(starts, queries[i].Start-q.Start)
		ends = append(ends, queries[i].End-q.Start)
	}
	q.ExonStarts, q.ExonEnds = starts, ends
	return true
}
