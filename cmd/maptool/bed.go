package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/grailbio/base/log"

	"github.com/hzzv/maptool/bedio"
	"github.com/hzzv/maptool/mapidx"
	"github.com/hzzv/maptool/mapping"
)

type bedFlags struct {
	maxGap       *int
	outer        *bool
	alwaysMap    *bool
	uncompressed *bool
}

func runBed(ctx context.Context, headerPath, blockPath, informant string, flags bedFlags) error {
	r, err := mapidx.Open(ctx, headerPath, mapidx.Opts{})
	if err != nil {
		return fileAccessError(headerPath)
	}
	if err := r.OpenToMap(ctx, blockPath, !*flags.uncompressed); err != nil {
		return fileAccessError(blockPath)
	}
	defer r.Close(ctx)

	cfg := mapping.Config{
		Informant: informant,
		InfMaxGap: int64(*flags.maxGap),
		RefMaxGap: int64(*flags.maxGap),
		Inner:     !*flags.outer,
		AlwaysMap: *flags.alwaysMap,
	}
	mapper, err := mapping.NewMapper(r, cfg)
	if err != nil {
		return badArgsError(err.Error())
	}

	scanner := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		query, err := bedio.ParseQuery(line)
		if err != nil {
			log.Error.Printf("skipping unparseable line: %v", err)
			continue
		}
		query.ToClosed()

		answer, err := mapper.GetAnswer(query)
		if err != nil {
			printQueryErrors(query.Name, err)
			continue
		}
		answer.ToHalfClosed()
		fmt.Fprintf(os.Stderr, "%s\tmapped\n", query.Name)
		fmt.Fprintln(out, answer.Bedline())
	}
	return scanner.Err()
}

// printQueryErrors reports every accumulated failure label and message for
// one query to standard error, the way print_errors does in
// original_source/mapping/Mapping.cpp.
func printQueryErrors(name string, err error) {
	if fs, ok := err.(mapping.Errors); ok {
		for _, f := range fs {
			fmt.Fprintf(os.Stderr, "%s %s %s\n", name, f.Kind, f.Error())
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", name, err)
}
