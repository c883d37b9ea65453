package coogle

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testDoc describes one <DOC> block for building a test archive.
type testDoc struct {
	docno    string
	headline string
	text     string
}

// buildArchive renders docs into the SGML-like line stream the Indexer
// expects and gzip-compresses it.
func buildArchive(t *testing.T, docs []testDoc) []byte {
	t.Helper()

	var sb strings.Builder
	for _, d := range docs {
		sb.WriteString("<DOC>\n")
		sb.WriteString("<DOCNO>" + d.docno + "</DOCNO>\n")
		if d.headline != "" {
			sb.WriteString("<HEADLINE>\n")
			sb.WriteString(d.headline + "\n")
			sb.WriteString("</HEADLINE>\n")
		}
		sb.WriteString("<TEXT>\n")
		for _, line := range strings.Split(d.text, "\n") {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("</TEXT>\n")
		sb.WriteString("</DOC>\n")
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(sb.String())); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// gzipBytes compresses raw text verbatim, for tests that need to construct
// malformed or edge-case archives by hand rather than via buildArchive.
func gzipBytes(t *testing.T, raw string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(raw)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// buildStore indexes docs into a fresh store under a temp directory and
// returns the store directory path.
func buildStore(t *testing.T, docs []testDoc) string {
	t.Helper()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "archive.gz")
	if err := os.WriteFile(archivePath, buildArchive(t, docs), 0o644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	outDir := filepath.Join(dir, "store")
	ix := NewIndexer()
	if err := ix.Index(archivePath, outDir); err != nil {
		t.Fatalf("Index: %v", err)
	}
	return outDir
}
