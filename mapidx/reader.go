package mapidx

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bgzf"
)

// Opts configures a Reader.
type Opts struct {
	// RankSampling selects the sampled rank variant (see bitseq.go) instead
	// of the default linear-scan rank. Both satisfy the rank invariant of
	// spec §4.A; the original implementation ships with sampling disabled
	// and performs a linear scan, which is this package's default.
	RankSampling bool
}

// blockSeeker is the minimal surface a Reader needs from its block file: a
// readable, seekable byte stream. Both the plain-file and bgzf-backed
// implementations below satisfy it.
type blockSeeker interface {
	io.Reader
	seek(offset uint64) error
}

// plainSeeker wraps an uncompressed block file.
type plainSeeker struct {
	r interface {
		io.Reader
		io.Seeker
	}
}

func (p *plainSeeker) Read(buf []byte) (int, error) { return p.r.Read(buf) }
func (p *plainSeeker) seek(offset uint64) error {
	_, err := p.r.Seek(int64(offset), io.SeekStart)
	return err
}

// bgzfSeeker wraps a block-compressed block file; file_offset values in
// the index are bgzf virtual offsets, the same convention
// encoding/bam/gindex.go uses for .bai/.gbai chunk offsets.
type bgzfSeeker struct {
	r *bgzf.Reader
}

func (b *bgzfSeeker) Read(buf []byte) (int, error) { return b.r.Read(buf) }
func (b *bgzfSeeker) seek(offset uint64) error {
	return b.r.Seek(bgzf.Offset{File: int64(offset >> 16), Block: uint16(offset)})
}

// Reader parses the header file into a Header, and decodes reference
// blocks from the block file on demand, caching them. It corresponds to
// spec's BlockReader. A Reader must not be shared between concurrent
// mappers (see spec §5).
type Reader struct {
	Header *Header
	opts   Opts

	blockFile  file.File
	stream     blockSeeker
	compressed bool
	opened     bool

	cache *blockCache
}

// Open parses the header file at headerPath. The block file is not opened
// until OpenToMap, matching the original's split between always-available
// header metadata (used by e.g. "info") and the block stream, which is
// only needed to actually decode alignment columns.
func Open(ctx context.Context, headerPath string, opts Opts) (*Reader, error) {
	f, err := file.Open(ctx, headerPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening header file")
	}
	defer f.Close(ctx)
	h, err := readHeader(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "parsing header")
	}
	return &Reader{Header: h, opts: opts, cache: newBlockCache()}, nil
}

// OpenToMap opens the block file for random access, as either a plain
// seekable stream or a bgzf-compressed one depending on compressed. It
// must be called before ReadReferences, and the caller must call Close
// when done mapping.
func (r *Reader) OpenToMap(ctx context.Context, blockPath string, compressed bool) error {
	f, err := file.Open(ctx, blockPath)
	if err != nil {
		return errors.Wrap(err, "opening block file")
	}
	r.blockFile = f
	r.compressed = compressed
	if compressed {
		br, err := bgzf.NewReader(f.Reader(ctx), 1)
		if err != nil {
			f.Close(ctx)
			return errors.Wrap(err, "opening bgzf block stream")
		}
		r.stream = &bgzfSeeker{r: br}
	} else {
		seeker, ok := f.Reader(ctx).(interface {
			io.Reader
			io.Seeker
		})
		if !ok {
			f.Close(ctx)
			return errors.E("block file does not support seeking")
		}
		r.stream = &plainSeeker{r: seeker}
	}
	r.opened = true
	return nil
}

// Close releases the block stream, if open.
func (r *Reader) Close(ctx context.Context) error {
	if !r.opened {
		return nil
	}
	r.opened = false
	if r.blockFile == nil {
		return nil
	}
	return r.blockFile.Close(ctx)
}

// InformantGenomes returns the names of every non-reference genome in the
// header.
func (r *Reader) InformantGenomes() []string {
	names := make([]string, 0, len(r.Header.GenomeMap)-1)
	for name, id := range r.Header.GenomeMap {
		if id != ReferenceGenome {
			names = append(names, name)
		}
	}
	return names
}

// ReferenceChromosomes returns the names of every reference chromosome in
// the header.
func (r *Reader) ReferenceChromosomes() []string {
	names := make([]string, 0, len(r.Header.ChrMaps[ReferenceGenome]))
	for name := range r.Header.ChrMaps[ReferenceGenome] {
		names = append(names, name)
	}
	return names
}

// FindBlockRange locates the indices [i0, i1] of the block descriptors for
// refChr containing start and end respectively (spec §4.C.1). It returns
// ok=false when either endpoint is not covered by any block.
func (r *Reader) FindBlockRange(refChr BioID, start, end int64) (i0, i1 int, ok bool) {
	idx := r.Header.BlockIndex[refChr]
	i0 = idx.findContaining(start)
	if i0 == -1 {
		return 0, 0, false
	}
	i1 = idx.findContaining(end)
	if i1 == -1 {
		return 0, 0, false
	}
	return i0, i1, true
}

// ReadReferences decodes (or fetches from cache) the reference fragments
// for refChr's block descriptors in the inclusive range [i0, i1], in
// order. It mirrors IOHandler::read_references, including cache refresh
// for every index in range, not just freshly-decoded ones.
func (r *Reader) ReadReferences(refChr BioID, i0, i1 int) ([]*ReferenceFragment, error) {
	descs := r.Header.BlockIndex[refChr]
	out := make([]*ReferenceFragment, 0, i1-i0+1)
	for i := i0; i <= i1; i++ {
		d := descs[i]
		if frag, ok := r.cache.get(d.FileOffset); ok {
			log.Debug.Printf("mapidx: cache hit at offset %d", d.FileOffset)
			out = append(out, frag)
			continue
		}
		log.Debug.Printf("mapidx: cache miss at offset %d, decoding", d.FileOffset)
		frag, err := r.decodeReference(refChr, d)
		if err != nil {
			return nil, errors.Wrap(err, "decoding reference block")
		}
		out = append(out, frag)
	}
	for i := i0; i <= i1; i++ {
		r.cache.touch(descs[i].FileOffset, out[i-i0])
	}
	return out, nil
}

// decodeReference reads one reference block (and all its informant
// fragments) starting at d.FileOffset, per spec §4.B/§6.2.
func (r *Reader) decodeReference(refChr BioID, d BlockDescriptor) (*ReferenceFragment, error) {
	if !r.opened {
		return &ReferenceFragment{}, nil
	}
	if err := r.stream.seek(d.FileOffset); err != nil {
		return nil, errors.Wrap(err, "seeking block file")
	}

	length, err := readUint(r.stream, 4)
	if err != nil {
		return nil, errors.Wrap(err, "reading column length")
	}
	mask, err := decodeMask(r.stream, int(length), 0, true, false)
	if err != nil {
		return nil, errors.Wrap(err, "reading reference mask")
	}
	ref := &ReferenceFragment{
		mask:     mask,
		chrID:    refChr,
		chrPos:   d.ChrPos,
		strand:   d.Strand,
		basesCnt: BioCount(d.BasesCount),
	}

	infGroupCount, err := readUint(r.stream, 1)
	if err != nil {
		return nil, errors.Wrap(err, "reading informant group count")
	}
	type group struct {
		genome BioID
		count  uint64
	}
	groups := make([]group, infGroupCount)
	for i := range groups {
		genome, err := readUint(r.stream, 1)
		if err != nil {
			return nil, errors.Wrap(err, "reading informant genome id")
		}
		count, err := readUint(r.stream, 4)
		if err != nil {
			return nil, errors.Wrap(err, "reading informant sub-block count")
		}
		groups[i] = group{genome: BioID(genome), count: count}
	}
	for _, g := range groups {
		for k := uint64(0); k < g.count; k++ {
			chrID, err := readUint(r.stream, 2)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant chr id")
			}
			strand, err := readUint(r.stream, 1)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant strand")
			}
			chrPos, err := readUint(r.stream, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant chr_pos")
			}
			seqPos1b, err := readUint(r.stream, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant seq_pos")
			}
			seqLen, err := readUint(r.stream, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant seq_len")
			}
			basesCount, err := readUint(r.stream, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant bases_count")
			}
			infMask, err := decodeMask(r.stream, int(seqLen), int64(chrPos), false, r.opts.RankSampling)
			if err != nil {
				return nil, errors.Wrap(err, "reading informant mask")
			}
			inf := &InformantFragment{
				mask:     infMask,
				chrID:    BioID(chrID),
				chrPos:   int64(chrPos),
				strand:   strand != 0,
				basesCnt: BioCount(basesCount),
				seqPos:   int64(seqPos1b) - 1,
				ref:      ref,
			}
			ref.addInformant(g.genome, inf)
		}
	}
	return ref, nil
}

// decodeMask reads the ceil(length/8)-byte packed column mask per spec
// §4.B's byte-to-bits expansion, optionally building select or rank
// samples inline as the original's read_bin_sequence does in a single
// pass.
func decodeMask(r io.Reader, length int, basePos int64, buildSelect, buildRank bool) (*BitSequence, error) {
	realLength := (length + 7) / 8
	data := make([]byte, realLength)
	if realLength > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
	}
	bs := newBitSequence(length, basePos)
	if buildSelect {
		bs.selectSamples = append(bs.selectSamples, -1)
	}
	if buildRank {
		bs.rankSamples = make([]int32, 0)
	}
	pos := 0
	oneBits := 0
	for i := 0; i < realLength; i++ {
		if buildRank && (i*8)%RankBits == 0 {
			bs.rankSamples = append(bs.rankSamples, int32(oneBits))
		}
		start := 8 - length + i*8
		if start < 0 {
			start = 0
		}
		for j := start; j < 8; j++ {
			bit := (data[i]>>(7-uint(j)))&1 == 1
			if bit {
				bs.setBit(pos)
				oneBits++
			}
			pos++
			if buildSelect && oneBits == SelectBits {
				oneBits = 0
				bs.selectSamples = append(bs.selectSamples, int32(pos-1))
			}
		}
	}
	return bs, nil
}
