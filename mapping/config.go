// Package mapping implements the interval mapping engine: given a parsed
// query and a mapidx.Reader, it locates reference blocks, walks rank/select
// translations across fragments and gaps, and composes the endpoint, thick,
// and exon mappings into a bedio.Query.
package mapping

// Config holds the per-Mapper settings of spec §4.C: the informant genome
// to map against and the gap/rounding/fallback behavior.
type Config struct {
	// Informant is the target genome's name, as it appears in the header's
	// genome dictionary.
	Informant string
	// InfMaxGap bounds the informant-chromosome gap tolerated between
	// adjacent informant fragments; -1 means unbounded.
	InfMaxGap int64
	// RefMaxGap bounds the column gap tolerated while walking reference
	// fragments (and the corresponding informant seq_pos gap during
	// check_informants); -1 means unbounded.
	RefMaxGap int64
	// Inner selects inward endpoint rounding (Inner=true) over outward
	// (Inner=false) when an endpoint falls on an unaligned column.
	Inner bool
	// AlwaysMap swallows a thick-interval mapping failure and a failure to
	// merge the mapped exons, producing a partial result instead of failing
	// the whole query. A failure to map an individual exon still fails the
	// query.
	AlwaysMap bool
}
