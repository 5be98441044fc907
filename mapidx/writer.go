package mapidx

import "github.com/grailbio/base/errors"

// Build would construct a header and block file pair from a multiple
// sequence alignment, the counterpart to Open/ReadReferences. The original
// tool's own preprocessing front-end was never wired into its CLI either;
// building the binary index is out of scope here (see spec's Non-goals),
// so this is a stub that reports as much rather than silently doing
// nothing.
func Build(_ interface{}) error {
	return errors.E("building a new index is not supported; use the original preprocessing tool to produce header/block files")
}
