// Package mapidx reads the binary alignment index used to map genomic
// intervals from a reference genome onto an informant genome: a header file
// describing genomes, chromosomes and the block index, and a block file
// holding the bit-packed alignment columns themselves.
package mapidx

const (
	// SelectBits is the sampling interval for select samples: the k-th
	// sample stores the position of the (k*SelectBits)-th set bit.
	SelectBits = 32
	// RankBits is the sampling interval for rank samples.
	RankBits = 32
	// MaxCacheSize is the number of decoded reference blocks the Reader
	// keeps warm.
	MaxCacheSize = 10
)

// BioID identifies a genome or a chromosome within a genome.
type BioID uint16

// SeqPos is a coordinate or length; -1 is used as a "no value" sentinel in
// the textual record layer (package bedio), never inside the index itself.
type SeqPos int64

// BioCount is a small cardinality, e.g. a base count.
type BioCount uint16

// ReferenceGenome is the BioID of the reference genome; it is always 0.
const ReferenceGenome BioID = 0
