package coogle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIndexRoundTrip(t *testing.T) {
	docs := []testDoc{
		{docno: "LA010189-0001", headline: "First story", text: "alpha beta gamma"},
		{docno: "LA010189-0002", headline: "Second story", text: "zebra unique token"},
	}
	storeDir := buildStore(t, docs)

	for _, name := range requiredStoreFiles {
		if _, err := os.Stat(filepath.Join(storeDir, name)); err != nil {
			t.Errorf("missing store file %s", name)
		}
	}
	if _, err := os.Stat(filepath.Join(storeDir, "stemming.txt")); err != nil {
		t.Errorf("missing stemming.txt")
	}

	r, err := Load(storeDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.N() != 2 {
		t.Fatalf("N() = %d, want 2", r.N())
	}

	raw, err := r.ReadByID(0)
	if err != nil {
		t.Fatalf("ReadByID(0): %v", err)
	}
	if !strings.Contains(string(raw), "docno: LA010189-0001") {
		t.Errorf("payload 0 missing docno line: %s", raw)
	}

	raw1, err := r.ReadByDocNo("LA010189-0002")
	if err != nil {
		t.Fatalf("ReadByDocNo: %v", err)
	}
	if !strings.Contains(string(raw1), "headline: Second story") {
		t.Errorf("payload 1 missing headline line: %s", raw1)
	}
}

func TestIndexRefusesExistingStore(t *testing.T) {
	docs := []testDoc{{docno: "LA010189-0001", text: "alpha"}}
	storeDir := buildStore(t, docs)

	dir := filepath.Dir(storeDir)
	archivePath := filepath.Join(dir, "archive.gz")

	ix := NewIndexer()
	err := ix.Index(archivePath, storeDir)
	if !errors.Is(err, ErrStoreExists) {
		t.Fatalf("Index into existing dir: got %v, want ErrStoreExists", err)
	}

	// No file within the existing store should have been touched.
	raw, err := os.ReadFile(filepath.Join(storeDir, "docnos.txt"))
	if err != nil {
		t.Fatalf("reading docnos.txt: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "LA010189-0001" {
		t.Errorf("docnos.txt was modified: %q", raw)
	}
}

func TestIndexParseFailureLeavesDirectoryBehind(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.gz")
	if err := os.WriteFile(archivePath, []byte("not a gzip stream"), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	outDir := filepath.Join(dir, "store")
	ix := NewIndexer()
	if err := ix.Index(archivePath, outDir); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Index(bad gzip) = %v, want ErrCorrupt", err)
	}

	// The partial output directory stays behind for inspection, so a retry
	// against the same path refuses to overwrite it.
	if _, err := os.Stat(outDir); err != nil {
		t.Fatalf("output dir missing after parse failure: %v", err)
	}
	if err := ix.Index(archivePath, outDir); !errors.Is(err, ErrStoreExists) {
		t.Fatalf("retry over leftover dir = %v, want ErrStoreExists", err)
	}
}

func TestIndexDropsDanglingDocument(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.gz")

	raw := "<DOC>\n<DOCNO>LA010189-0001</DOCNO>\n<TEXT>\nalpha beta\n</TEXT>\n</DOC>\n" +
		"<DOC>\n<DOCNO>LA010189-0002</DOCNO>\n<TEXT>\ngamma\n"
	if err := os.WriteFile(archivePath, gzipBytes(t, raw), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	outDir := filepath.Join(dir, "store")
	ix := NewIndexer()
	if err := ix.Index(archivePath, outDir); err != nil {
		t.Fatalf("Index: %v", err)
	}

	r, err := Load(outDir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.N() != 1 {
		t.Fatalf("N() = %d, want 1 (dangling doc should be dropped)", r.N())
	}
}

func TestPostingListInvariants(t *testing.T) {
	docs := []testDoc{
		{docno: "LA010189-0001", headline: "First story", text: "alpha beta alpha"},
		{docno: "LA010189-0002", headline: "Second story", text: "beta gamma beta beta"},
	}
	r, err := Load(buildStore(t, docs))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var totalTF int
	for termID := 0; termID < r.lexicon.Len(); termID++ {
		postings, err := r.readPosting(termID)
		if err != nil {
			t.Fatalf("readPosting(%d): %v", termID, err)
		}
		if len(postings) == 0 {
			t.Errorf("term %d has an empty posting list", termID)
		}
		prevDoc := -1
		for i := 0; i < len(postings); i += 2 {
			docID, tf := postings[i], postings[i+1]
			if docID <= prevDoc {
				t.Errorf("term %d: doc ids not strictly increasing at %d", termID, docID)
			}
			if tf < 1 {
				t.Errorf("term %d doc %d: tf = %d, want >= 1", termID, docID, tf)
			}
			prevDoc = docID
			totalTF += tf
		}
	}

	var totalLen int
	for _, l := range r.docLengths {
		totalLen += l
	}
	if totalTF != totalLen {
		t.Errorf("sum of tf across postings = %d, want %d (sum of doc lengths)", totalTF, totalLen)
	}
}

func TestDeriveDate(t *testing.T) {
	cases := []struct {
		docno string
		want  string
	}{
		{"LA010189-0001", "Jan 01, 1989"},
		{"LA122589-0099", "Dec 25, 1989"},
		{"short", ""},
		{"LA999999-0001", ""},
		{"LAabcd89-0001", ""},
	}
	for _, c := range cases {
		if got := deriveDate(c.docno); got != c.want {
			t.Errorf("deriveDate(%q) = %q, want %q", c.docno, got, c.want)
		}
	}
}
