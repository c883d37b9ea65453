// Command coogle-index builds a store from a gzip-compressed archive.
//
// Usage: coogle-index <archive.gz> <output_dir>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/wizenheimer/coogle"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: coogle-index <archive.gz> <output_dir>")
		os.Exit(1)
	}

	archivePath, outputDir := os.Args[1], os.Args[2]

	ix := coogle.NewIndexer()
	if err := ix.Index(archivePath, outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "indexing failed: %v\n", err)
		if errors.Is(err, coogle.ErrStoreExists) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	fmt.Printf("indexed %s -> %s\n", archivePath, outputDir)
}
