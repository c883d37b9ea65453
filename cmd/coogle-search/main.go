// Command coogle-search is the interactive retrieval front-end.
//
// Usage: coogle-search <store_dir>
//
// Reads queries from standard input; for each query prints up to 10
// decorated hits, then prompts for a rank (dump that document), "n" (next
// query), or "q" (quit).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wizenheimer/coogle"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: coogle-search <store_dir>")
		os.Exit(1)
	}

	r, err := coogle.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}

	in := bufio.NewScanner(os.Stdin)
	fmt.Print("query> ")
	for in.Scan() {
		query := strings.TrimSpace(in.Text())
		if query == "" {
			fmt.Print("query> ")
			continue
		}

		results, err := r.Search(query, 1000)
		if err != nil {
			if errors.Is(err, coogle.ErrEmptyResult) {
				fmt.Println("no results")
			} else {
				fmt.Printf("search failed: %v\n", err)
			}
			fmt.Print("query> ")
			continue
		}

		printHits(results)
		promptLoop(in, r, results)
		fmt.Print("query> ")
	}
}

func printHits(results []coogle.Result) {
	limit := len(results)
	if limit > 10 {
		limit = 10
	}
	for _, res := range results[:limit] {
		fmt.Printf("%d. %s  %s\n", res.Rank, res.DocNo, res.Headline)
		fmt.Printf("   %s\n", res.Date)
		fmt.Printf("   %s\n", res.BiasedQuery)
	}
	for _, res := range results[limit:] {
		fmt.Printf("%d. %s\n", res.Rank, res.DocNo)
	}
}

// promptLoop accepts a rank to dump a document, "n" to return for the next
// query, or "q" to quit, looping until "n" or EOF.
func promptLoop(in *bufio.Scanner, r *coogle.Retriever, results []coogle.Result) {
	for {
		fmt.Print("rank / n / q> ")
		if !in.Scan() {
			os.Exit(0)
		}
		cmd := strings.TrimSpace(in.Text())
		switch cmd {
		case "n":
			return
		case "q":
			os.Exit(0)
		default:
			rank, err := strconv.Atoi(cmd)
			if err != nil || rank < 1 || rank > len(results) {
				fmt.Println("unrecognized command")
				continue
			}
			dumpDocument(r, results[rank-1].DocNo)
		}
	}
}

func dumpDocument(r *coogle.Retriever, docno string) {
	raw, err := r.ReadByDocNo(docno)
	if err != nil {
		fmt.Printf("failed to read %s: %v\n", docno, err)
		return
	}
	fmt.Println(string(raw))
}
