package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/hzzv/maptool/mapidx"
)

func runInfo(ctx context.Context, headerPath string) error {
	r, err := mapidx.Open(ctx, headerPath, mapidx.Opts{})
	if err != nil {
		return fileAccessError(headerPath)
	}

	informants := r.InformantGenomes()
	sort.Strings(informants)
	fmt.Printf("Informants (total %d):", len(informants))
	for _, name := range informants {
		fmt.Printf(" %s", name)
	}
	fmt.Println()

	chrs := r.ReferenceChromosomes()
	sort.Strings(chrs)
	fmt.Printf("Reference chromosomes (total %d):", len(chrs))
	for _, name := range chrs {
		fmt.Printf(" %s", name)
	}
	fmt.Println()
	return nil
}
