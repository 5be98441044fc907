package mapidx

import (
	"io"

	"github.com/grailbio/base/errors"
)

// ChrInfo is a chromosome's id (namespaced by genome) and its length in
// bases.
type ChrInfo struct {
	ID     BioID
	Length int64
}

// Header is everything readHeader parses out of the header file: the
// genome name->id dictionary, the per-genome chromosome dictionaries, and
// the block index for every reference chromosome.
type Header struct {
	GenomeMap  map[string]BioID
	ChrMaps    []map[string]ChrInfo // indexed by genome BioID
	BlockIndex map[BioID]blockIndex // keyed by reference chromosome id
}

// readUint reads a big-endian unsigned integer of the given byte width
// (<=8) from r, the way original_source/mapping/IOHandler.cpp's
// bytes_to_number does.
func readUint(r io.Reader, width int) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:width]); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<8 | uint64(buf[i])
	}
	return v, nil
}

func readName(r io.Reader) (string, error) {
	nameLen, err := readUint(r, 1)
	if err != nil {
		return "", err
	}
	buf := make([]byte, nameLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// readHeader parses the header file format of spec §6.1: a strictly
// sequential, big-endian, width-tagged stream of genome dictionary,
// chromosome dictionaries, then the block index for reference
// chromosomes. Any failure here is fatal, per spec §6/§7: the header
// describes the shape of the whole index and there's no sensible partial
// recovery.
func readHeader(r io.Reader) (*Header, error) {
	h := &Header{
		GenomeMap:  make(map[string]BioID),
		BlockIndex: make(map[BioID]blockIndex),
	}

	genomeCount, err := readUint(r, 1)
	if err != nil {
		return nil, errors.Wrap(err, "reading genome count")
	}
	for i := uint64(0); i < genomeCount; i++ {
		name, err := readName(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading genome name")
		}
		id, err := readUint(r, 1)
		if err != nil {
			return nil, errors.Wrap(err, "reading genome id")
		}
		h.GenomeMap[name] = BioID(id)
	}

	h.ChrMaps = make([]map[string]ChrInfo, genomeCount)
	for g := uint64(0); g < genomeCount; g++ {
		chrCount, err := readUint(r, 2)
		if err != nil {
			return nil, errors.Wrap(err, "reading chromosome count")
		}
		chrMap := make(map[string]ChrInfo, chrCount)
		for c := uint64(0); c < chrCount; c++ {
			name, err := readName(r)
			if err != nil {
				return nil, errors.Wrap(err, "reading chromosome name")
			}
			id, err := readUint(r, 2)
			if err != nil {
				return nil, errors.Wrap(err, "reading chromosome id")
			}
			length, err := readUint(r, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading chromosome length")
			}
			chrMap[name] = ChrInfo{ID: BioID(id), Length: int64(length)}
		}
		h.ChrMaps[g] = chrMap
	}

	for i := 0; i < len(h.ChrMaps[0]); i++ {
		chrID, err := readUint(r, 2)
		if err != nil {
			return nil, errors.Wrap(err, "reading reference chromosome id")
		}
		blockCount, err := readUint(r, 4)
		if err != nil {
			return nil, errors.Wrap(err, "reading block count")
		}
		idx := make(blockIndex, 0, blockCount)
		for b := uint64(0); b < blockCount; b++ {
			strand, err := readUint(r, 1)
			if err != nil {
				return nil, errors.Wrap(err, "reading block strand")
			}
			chrPos, err := readUint(r, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading block chr_pos")
			}
			basesCount, err := readUint(r, 4)
			if err != nil {
				return nil, errors.Wrap(err, "reading block bases_count")
			}
			fileOffset, err := readUint(r, 8)
			if err != nil {
				return nil, errors.Wrap(err, "reading block file_offset")
			}
			idx = append(idx, BlockDescriptor{
				Strand:     strand != 0,
				ChrPos:     int64(chrPos),
				BasesCount: int64(basesCount),
				FileOffset: fileOffset,
			})
		}
		h.BlockIndex[BioID(chrID)] = idx
	}

	return h, nil
}
