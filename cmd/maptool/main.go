// Command maptool maps genomic intervals from a reference genome's
// coordinate system onto an informant genome's, using a precomputed
// alignment index built by the (separate, unimplemented here)
// preprocessing pipeline.
package main

import (
	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

func newCmdInfo() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "info",
		Short:    "Print informant genome and reference chromosome names",
		ArgsName: "<header>",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return argCountError(argv)
		}
		return runInfo(vcontext.Background(), argv[0])
	})
	return cmd
}

func newCmdBed() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "bed",
		Short:    "Map BED-style intervals from standard input to an informant genome",
		ArgsName: "<header> <block-file> <informant>",
	}
	flags := bedFlags{
		maxGap:       cmd.Flags.Int("maxgap", 10, "Max gap (informant and reference) tolerated while walking alignments; -1 for unbounded"),
		outer:        cmd.Flags.Bool("outer", false, "Round endpoints outward instead of inward when they fall on an unaligned column"),
		alwaysMap:    cmd.Flags.Bool("alwaysmap", false, "Emit a partial result instead of failing when the thick region can't be mapped or the mapped exons can't be merged"),
		uncompressed: cmd.Flags.Bool("uncompressed", false, "Treat the block file as a plain, uncompressed stream"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return argCountError(argv)
		}
		return runBed(vcontext.Background(), argv[0], argv[1], argv[2], flags)
	})
	return cmd
}

func main() {
	cleanup := grail.Init()
	defer cleanup()
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:  "maptool",
		Short: "Map genomic intervals across a precomputed alignment",
		Children: []*cmdline.Command{
			newCmdInfo(),
			newCmdBed(),
		},
	})
}
