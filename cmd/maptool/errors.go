package main

import (
	"fmt"
	"os"

	"v.io/x/lib/cmdline"
)

// Exit codes per the command surface: 0 normal, 1 wrong argument count, 2
// inaccessible file, 3 malformed arguments.
const (
	exitWrongArgNum = 1
	exitFileMissing = 2
	exitBadArgs     = 3
)

func argCountError(argv []string) error {
	return cmdline.ErrExitCode(exitWrongArgNum)
}

func badArgsError(msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	return cmdline.ErrExitCode(exitBadArgs)
}

func fileAccessError(path string) error {
	fmt.Fprintf(os.Stderr, "file %s is not accessible\n", path)
	return cmdline.ErrExitCode(exitFileMissing)
}
