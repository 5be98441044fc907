package mapping

import "fmt"

// Kind labels one of the mapping engine's fixed set of per-query failure
// reasons (spec §7). There is no ecosystem type for "one of a closed set
// of domain-specific status codes with a canned message per code" the way
// there is for wrapping an I/O error (grailbio/base/errors' Kind enum
// covers transport-ish failures like NotExist/Canceled, not this); a
// small hand-rolled type is the direct translation of the label+message
// table instead of stretching that enum to cover an unrelated domain.
type Kind int

const (
	NoMapping Kind = iota
	NoThickMapping
	NoExonMapping
	PosToGap
	InfPreceed
	InfStrand
	InfContig
	InfGap
	RefGap
	InvalidQuery
)

var messages = map[Kind]string{
	NoMapping:      "There is no mapping of the interval (maybe try --outer?)",
	NoThickMapping: "There is no mapping of the thick region",
	NoExonMapping:  "There is no mapping of the exons",
	PosToGap:       "Position maps to gap",
	InfPreceed:     "In informant: one sequence does not preceed the next one",
	InfStrand:      "In informant: sequences are from different strands",
	InfContig:      "In informant: sequences are from different contigs",
	InfGap:         "In informant: there is a gap of width %d",
	RefGap:         "In reference: there is a gap of width %d",
	InvalidQuery:   "The query is invalid",
}

var labels = map[Kind]string{
	NoMapping:      "no_mapping",
	NoThickMapping: "no_thick_mapping",
	NoExonMapping:  "no_exon_mapping",
	PosToGap:       "pos_to_gap",
	InfPreceed:     "inf_preceed",
	InfStrand:      "inf_strand",
	InfContig:      "inf_contig",
	InfGap:         "inf_gap",
	RefGap:         "ref_gap",
	InvalidQuery:   "invalid_query",
}

func (k Kind) String() string { return labels[k] }

// Failure is one accumulated per-query error: a Kind plus, for InfGap and
// RefGap, the offending gap width.
type Failure struct {
	Kind Kind
	Gap  int64
}

func (f Failure) Error() string {
	if f.Kind == InfGap || f.Kind == RefGap {
		return fmt.Sprintf(messages[f.Kind], f.Gap)
	}
	return messages[f.Kind]
}

// Errors is the per-query accumulated failure list a Mapper builds up
// before aborting the query, mirroring Mapping::errors_ in
// original_source/mapping/Mapping.cpp: check_informants can push several
// labels (inf_preceed/inf_strand/inf_contig/inf_gap/ref_gap) before the
// query is abandoned.
type Errors []Failure

func (e Errors) Error() string {
	if len(e) == 0 {
		return "mapping failed"
	}
	return e[0].Error()
}
