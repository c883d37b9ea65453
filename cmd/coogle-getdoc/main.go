// Command coogle-getdoc dumps a single stored document by DOCNO or internal id.
//
// Usage: coogle-getdoc <store_dir> <docno-or-id>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/wizenheimer/coogle"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: coogle-getdoc <store_dir> <docno-or-id>")
		os.Exit(1)
	}

	r, err := coogle.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}

	ref := os.Args[2]

	var raw []byte
	if id, convErr := strconv.Atoi(ref); convErr == nil {
		raw, err = r.ReadByID(id)
	} else {
		raw, err = r.ReadByDocNo(ref)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(raw))
}
