package mapping

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestKindString(t *testing.T) {
	expect.EQ(t, NoMapping.String(), "no_mapping")
	expect.EQ(t, InfGap.String(), "inf_gap")
	expect.EQ(t, InvalidQuery.String(), "invalid_query")
}

func TestFailureErrorPlainMessage(t *testing.T) {
	f := Failure{Kind: NoThickMapping}
	expect.EQ(t, f.Error(), "There is no mapping of the thick region")
}

func TestFailureErrorFormatsGap(t *testing.T) {
	f := Failure{Kind: InfGap, Gap: 42}
	expect.EQ(t, f.Error(), "In informant: there is a gap of width 42")
}

func TestErrorsUsesFirstFailure(t *testing.T) {
	errs := Errors{
		{Kind: InfPreceed},
		{Kind: InfStrand},
	}
	expect.EQ(t, errs.Error(), "In informant: one sequence does not preceed the next one")
}

func TestErrorsEmpty(t *testing.T) {
	var errs Errors
	expect.EQ(t, errs.Error(), "mapping failed")
}
