package mapping

import (
	"testing"

	"github.com/grailbio/testutil/expect"

	"github.com/hzzv/maptool/bedio"
	"github.com/hzzv/maptool/mapidx"
)

func testQuery() *bedio.Query {
	return &bedio.Query{
		Chromosome: "chr1",
		Start:      10,
		End:        20,
		Name:       "q1",
		Strand:     true,
		ThickStart: -1,
		ThickEnd:   -1,
		Closed:     true,
	}
}

func testHeader() *mapidx.Header {
	return &mapidx.Header{
		GenomeMap: map[string]mapidx.BioID{
			"hg38": mapidx.ReferenceGenome,
			"mm10": 1,
		},
		ChrMaps: []map[string]mapidx.ChrInfo{
			{"chr1": {ID: 0, Length: 1000}},
			{"chr1": {ID: 0, Length: 900}, "chr2": {ID: 1, Length: 500}},
		},
	}
}

func TestNewMapperResolvesInformant(t *testing.T) {
	r := &mapidx.Reader{Header: testHeader()}
	m, err := NewMapper(r, Config{Informant: "mm10"})
	expect.NoError(t, err)
	expect.EQ(t, m.infID, mapidx.BioID(1))
	expect.EQ(t, m.idToInfo[0].Name, "chr1")
	expect.EQ(t, m.idToInfo[0].Length, int64(900))
	expect.EQ(t, m.idToInfo[1].Name, "chr2")
}

func TestNewMapperUnknownInformant(t *testing.T) {
	r := &mapidx.Reader{Header: testHeader()}
	_, err := NewMapper(r, Config{Informant: "panTro6"})
	if err == nil {
		t.Fatal("expected an error for an unregistered informant genome")
	}
}

func TestGetAnswerInvalidQuery(t *testing.T) {
	r := &mapidx.Reader{Header: testHeader()}
	m, err := NewMapper(r, Config{Informant: "mm10"})
	expect.NoError(t, err)

	q := testQuery()
	q.Start, q.End = 20, 10

	_, err = m.GetAnswer(q)
	fs, ok := err.(Errors)
	if !ok || len(fs) != 1 || fs[0].Kind != InvalidQuery {
		t.Fatalf("expected a single invalid_query failure, got %v", err)
	}
}

func TestGetAnswerUnknownChromosome(t *testing.T) {
	r := &mapidx.Reader{Header: testHeader()}
	m, err := NewMapper(r, Config{Informant: "mm10"})
	expect.NoError(t, err)

	q := testQuery()
	q.Chromosome = "chrZ"
	q.Start, q.End = 10, 20

	_, err = m.GetAnswer(q)
	fs, ok := err.(Errors)
	if !ok || len(fs) != 1 || fs[0].Kind != NoMapping {
		t.Fatalf("expected a single no_mapping failure, got %v", err)
	}
}
