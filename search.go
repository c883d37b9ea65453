// ═══════════════════════════════════════════════════════════════════════════════
// RETRIEVER: loading a store and answering queries
// ═══════════════════════════════════════════════════════════════════════════════
// The Retriever loads every small, frequently-needed artifact eagerly at
// startup (lexicon, index offsets, docnos, doc lengths, doc offsets) and
// reopens the two blob files on demand for each posting list or document
// fetch, per the store's read-on-demand concurrency model.
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// Result is one ranked hit. Ranks 1..10 are decorated with date, headline,
// and a query-biased snippet; ranks beyond 10 carry only DocNo, Rank and
// Score.
type Result struct {
	DocNo string
	Rank  int
	Score float64

	Date        string
	Headline    string
	BiasedQuery string
}

// Retriever answers queries against a store built by Indexer.
type Retriever struct {
	storeDir string
	stem     StemConfig

	lexicon    *Lexicon
	docnos     []string
	docLengths []int
	avgDocLen  float64

	index *blobReader
	docs  *blobReader

	scorer Scorer
}

var requiredStoreFiles = []string{
	"docs.bin", "offsets.bin",
	"inverted_index.bin", "index_offsets.bin",
	"lexicon.json", "docnos.txt", "doc_lengths.txt",
}

// Load opens storeDir and eagerly loads every artifact needed to answer
// queries. It fails fast with ErrStoreIncomplete if any required file is
// missing.
func Load(storeDir string) (*Retriever, error) {
	info, err := os.Stat(storeDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrStoreIncomplete, storeDir)
	}

	var missing []string
	for _, name := range requiredStoreFiles {
		if _, err := os.Stat(filepath.Join(storeDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s in %s", ErrStoreIncomplete, strings.Join(missing, ", "), storeDir)
	}

	lex, err := LoadLexicon(filepath.Join(storeDir, "lexicon.json"))
	if err != nil {
		return nil, err
	}

	docnos, err := readLines(filepath.Join(storeDir, "docnos.txt"))
	if err != nil {
		return nil, err
	}

	lengthLines, err := readLines(filepath.Join(storeDir, "doc_lengths.txt"))
	if err != nil {
		return nil, err
	}
	docLengths := make([]int, len(lengthLines))
	var total int
	for i, line := range lengthLines {
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("%w: doc_lengths.txt line %d: %v", ErrCorrupt, i, err)
		}
		docLengths[i] = n
		total += n
	}

	if len(docnos) != len(docLengths) {
		return nil, fmt.Errorf("%w: docnos.txt and doc_lengths.txt have different lengths", ErrCorrupt)
	}

	index, err := newBlobReader(
		filepath.Join(storeDir, "inverted_index.bin"),
		filepath.Join(storeDir, "index_offsets.bin"),
	)
	if err != nil {
		return nil, err
	}

	docs, err := newBlobReader(
		filepath.Join(storeDir, "docs.bin"),
		filepath.Join(storeDir, "offsets.bin"),
	)
	if err != nil {
		return nil, err
	}

	stem := DefaultStemConfig()
	if raw, err := os.ReadFile(filepath.Join(storeDir, "stemming.txt")); err == nil {
		stem.Enabled = strings.TrimSpace(string(raw)) == "true"
	}

	avgDocLen := 0.0
	if len(docLengths) > 0 {
		avgDocLen = float64(total) / float64(len(docLengths))
	}

	slog.Info("loaded store", "dir", storeDir, "documents", len(docnos), "terms", lex.Len())

	return &Retriever{
		storeDir:   storeDir,
		stem:       stem,
		lexicon:    lex,
		docnos:     docnos,
		docLengths: docLengths,
		avgDocLen:  avgDocLen,
		index:      index,
		docs:       docs,
		scorer:     BM25Scorer{},
	}, nil
}

// SetScorer swaps the ranking strategy used by Search.
func (r *Retriever) SetScorer(s Scorer) {
	r.scorer = s
}

// N returns the number of documents in the store.
func (r *Retriever) N() int {
	return len(r.docnos)
}

// Search tokenizes+stems query, scores every document referenced by a known
// query term, sorts descending by score (ties by ascending doc_id), and
// returns the top k results, the first 10 of them decorated.
func (r *Retriever) Search(query string, k int) ([]Result, error) {
	tokens := AnalyzeWithConfig(query, r.stem)

	type accum struct {
		docID int
		score float64
	}
	totals := make(map[int]float64)
	candidates := roaring.New()

	anyKnown := false
	for _, tok := range tokens {
		termID, ok := r.lexicon.Lookup(tok)
		if !ok {
			continue
		}
		anyKnown = true

		postings, err := r.readPosting(termID)
		if err != nil {
			return nil, err
		}
		df := len(postings) / 2

		for i := 0; i < len(postings); i += 2 {
			docID, tf := postings[i], postings[i+1]
			totals[docID] += r.scorer.Score(tf, r.docLengths[docID], r.avgDocLen, len(r.docnos), df)
			candidates.Add(uint32(docID))
		}
	}

	if !anyKnown {
		return nil, ErrEmptyResult
	}

	// The candidate bitmap unions every posting list touched above into the
	// full set of documents that matched at least one query term, walked in
	// ascending doc_id order, before scores are sorted.
	ranked := make([]accum, 0, candidates.GetCardinality())
	it := candidates.Iterator()
	for it.HasNext() {
		docID := int(it.Next())
		ranked = append(ranked, accum{docID: docID, score: r.scorer.Finalize(docID, totals[docID])})
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].docID < ranked[b].docID
	})

	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}

	results := make([]Result, len(ranked))
	for i, a := range ranked {
		res := Result{
			DocNo: r.docnos[a.docID],
			Rank:  i + 1,
			Score: a.score,
		}
		if res.Rank <= 10 {
			r.decorate(&res, a.docID, tokens)
		}
		results[i] = res
	}

	return results, nil
}

// decorate fills in the date, headline, and query-biased snippet for a
// top-10 result. Any failure degrades to leaving the fields empty rather
// than aborting the query.
func (r *Retriever) decorate(res *Result, docID int, queryTokens []string) {
	raw, err := r.docs.read(docID)
	if err != nil {
		return
	}
	text := string(raw)

	date, headline, body := parseStoredPayload(text)
	res.Date = date
	res.Headline = headline

	summary := BuildSnippet(queryTokens, body)
	res.BiasedQuery = summary

	if res.Headline == "" {
		fallback := summary
		if len(fallback) > 50 {
			fallback = fallback[:50]
		}
		res.Headline = fallback + "..."
	}
}

// ReadByID returns the raw payload stored for internal id i.
func (r *Retriever) ReadByID(i int) ([]byte, error) {
	raw, err := r.docs.read(i)
	if errors.Is(err, ErrOutOfRange) {
		return nil, fmt.Errorf("%w: internal id %d", ErrNotFound, i)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// ReadByDocNo returns the raw payload for the document whose DOCNO is docno.
func (r *Retriever) ReadByDocNo(docno string) ([]byte, error) {
	for i, d := range r.docnos {
		if d == docno {
			return r.ReadByID(i)
		}
	}
	return nil, ErrNotFound
}

func (r *Retriever) readPosting(termID int) ([]int, error) {
	raw, err := r.index.read(termID)
	if err != nil {
		return nil, err
	}
	return decodePosting(raw)
}

// readLines reads a flat newline-delimited sidecar file, dropping any
// trailing empty line produced by the final newline.
func readLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStoreIncomplete, path, err)
	}
	s := string(raw)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, "\n"), nil
}

// parseStoredPayload splits a stored docs.bin payload into its date,
// headline, and raw-body components, per the metadata prefix format.
func parseStoredPayload(payload string) (date, headline, body string) {
	const marker = "raw document:\n"
	idx := strings.Index(payload, marker)
	if idx >= 0 {
		body = payload[idx+len(marker):]
	} else {
		body = payload
	}

	for _, line := range strings.Split(payload, "\n") {
		switch {
		case strings.HasPrefix(line, "date: "):
			date = strings.TrimPrefix(line, "date: ")
		case strings.HasPrefix(line, "headline: "):
			headline = strings.TrimPrefix(line, "headline: ")
		}
		if strings.HasPrefix(line, "raw document:") {
			break
		}
	}
	return date, headline, body
}
