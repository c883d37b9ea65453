// ═══════════════════════════════════════════════════════════════════════════════
// INDEXER: archive → on-disk store
// ═══════════════════════════════════════════════════════════════════════════════
// Index streams a gzip-compressed SGML-like archive, assigns each <DOC> block
// a dense internal id in the order it appears, and writes out the store
// layout described in the external interfaces section: a zlib-framed blob of
// document payloads, a zlib-framed blob of posting lists, the lexicon, and a
// few flat per-document sidecar files.
//
// Indexing is a single streaming pass over the archive. The output
// directory is created before parsing begins; a failure mid-parse leaves
// the partial directory behind for inspection, and a retry against the
// same path fails with ErrStoreExists until it is cleaned up.
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Indexer builds a store from an archive.
type Indexer struct {
	Stem StemConfig
}

// NewIndexer returns an Indexer using the default (stemming-enabled)
// analysis pipeline.
func NewIndexer() *Indexer {
	return &Indexer{Stem: DefaultStemConfig()}
}

// indexedDoc is one fully parsed document, ready to be flushed to the
// docs blob and folded into the global posting lists.
type indexedDoc struct {
	docno      string
	date       string
	headline   string
	lines      []string
	length     int
	termCounts map[int]int
}

// Index streams archivePath and writes a complete store to outputDir.
// outputDir must not already exist.
func (ix *Indexer) Index(archivePath, outputDir string) error {
	if _, err := os.Stat(outputDir); err == nil {
		return fmt.Errorf("%w: %s", ErrStoreExists, outputDir)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", ErrIO, outputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrIO, outputDir, err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrIO, archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid gzip stream: %v", ErrCorrupt, archivePath, err)
	}
	defer gz.Close()

	lex := NewLexicon()
	p := newParser(lex, ix.Stem)

	var docs []indexedDoc
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		finished := p.feed(scanner.Text())
		if finished == nil {
			continue
		}

		docs = append(docs, indexedDoc{
			docno:      finished.docno,
			date:       finished.date,
			headline:   strings.TrimSpace(finished.headline),
			lines:      finished.lines,
			length:     finished.length,
			termCounts: finished.termCounts,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, archivePath, err)
	}
	if p.pending() {
		slog.Warn("archive ended mid-document; discarding trailing unclosed <DOC>")
	}

	slog.Info("parsed archive", "documents", len(docs), "vocabulary", lex.Len())

	// postings[termID] accumulates (docID, tf) pairs in ascending docID order,
	// which holds automatically since docs are processed in archive order.
	postings := make([][]int, lex.Len())

	docsWriter, err := newBlobWriter(filepath.Join(outputDir, "docs.bin"))
	if err != nil {
		return err
	}

	docnos := make([]string, len(docs))
	docLengths := make([]int, len(docs))

	for id, doc := range docs {
		payload := buildPayload(id, doc)
		if err := docsWriter.writeRecord(payload); err != nil {
			return err
		}
		docnos[id] = doc.docno
		docLengths[id] = doc.length

		termIDs := make([]int, 0, len(doc.termCounts))
		for termID := range doc.termCounts {
			termIDs = append(termIDs, termID)
		}
		sort.Ints(termIDs)
		for _, termID := range termIDs {
			postings[termID] = append(postings[termID], id, doc.termCounts[termID])
		}
	}
	if err := docsWriter.close(filepath.Join(outputDir, "offsets.bin")); err != nil {
		return err
	}

	indexWriter, err := newBlobWriter(filepath.Join(outputDir, "inverted_index.bin"))
	if err != nil {
		return err
	}
	for termID := 0; termID < lex.Len(); termID++ {
		raw, err := json.Marshal(postings[termID])
		if err != nil {
			return fmt.Errorf("%w: encoding posting list %d: %v", ErrIO, termID, err)
		}
		if err := indexWriter.writeRecord(raw); err != nil {
			return err
		}
	}
	if err := indexWriter.close(filepath.Join(outputDir, "index_offsets.bin")); err != nil {
		return err
	}

	if err := lex.WriteFile(filepath.Join(outputDir, "lexicon.json")); err != nil {
		return err
	}
	if err := writeLines(filepath.Join(outputDir, "docnos.txt"), docnos); err != nil {
		return err
	}

	lengthLines := make([]string, len(docLengths))
	for i, l := range docLengths {
		lengthLines[i] = strconv.Itoa(l)
	}
	if err := writeLines(filepath.Join(outputDir, "doc_lengths.txt"), lengthLines); err != nil {
		return err
	}

	stemFlag := "false"
	if ix.Stem.Enabled {
		stemFlag = "true"
	}
	if err := os.WriteFile(filepath.Join(outputDir, "stemming.txt"), []byte(stemFlag+"\n"), 0o644); err != nil {
		return fmt.Errorf("%w: writing stemming.txt: %v", ErrIO, err)
	}

	slog.Info("wrote store", "dir", outputDir, "documents", len(docs), "terms", lex.Len())
	return nil
}

// buildPayload constructs the metadata-prefixed payload stored for document id.
func buildPayload(id int, d indexedDoc) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "docno: %s\n", d.docno)
	fmt.Fprintf(&b, "internal id: %d\n", id)
	fmt.Fprintf(&b, "date: %s\n", d.date)
	fmt.Fprintf(&b, "headline: %s\n", d.headline)
	b.WriteString("raw document:\n")
	b.WriteString(strings.Join(d.lines, "\n"))
	return []byte(b.String())
}

// writeLines writes one line per entry, newline-terminated, matching the
// flat line-oriented sidecar files in the store layout.
func writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	return nil
}
