package coogle

import "testing"

func TestParserExtractsFields(t *testing.T) {
	lex := NewLexicon()
	p := newParser(lex, DefaultStemConfig())

	lines := []string{
		"<DOC>",
		"<DOCNO>LA010189-0001</DOCNO>",
		"<HEADLINE>",
		"A brief headline",
		"</HEADLINE>",
		"<TEXT>",
		"The first body line.",
		"The second body line.",
		"</TEXT>",
		"</DOC>",
	}

	var doc *docBuilder
	for _, line := range lines {
		if d := p.feed(line); d != nil {
			doc = d
		}
	}

	if doc == nil {
		t.Fatal("feed never returned a completed document")
	}
	if doc.docno != "LA010189-0001" {
		t.Errorf("docno = %q, want LA010189-0001", doc.docno)
	}
	if doc.date != "Jan 01, 1989" {
		t.Errorf("date = %q, want Jan 01, 1989", doc.date)
	}
	if doc.headline == "" {
		t.Error("headline was not captured")
	}
	if doc.length == 0 {
		t.Error("length was not accumulated")
	}
	if p.pending() {
		t.Error("parser still reports a pending document after </DOC>")
	}
}

func TestParserHandlesInlineTags(t *testing.T) {
	lex := NewLexicon()
	p := newParser(lex, DefaultStemConfig())

	lines := []string{
		"<DOC>",
		"<DOCNO>LA010189-0002</DOCNO>",
		"<HEADLINE>Inline headline</HEADLINE>",
		"<TEXT>Inline text body</TEXT>",
		"</DOC>",
	}

	var doc *docBuilder
	for _, line := range lines {
		if d := p.feed(line); d != nil {
			doc = d
		}
	}

	if doc == nil {
		t.Fatal("feed never returned a completed document")
	}
	if doc.headline != "Inline headline" {
		t.Errorf("headline = %q, want Inline headline", doc.headline)
	}
	if doc.length != 5 {
		t.Errorf("length = %d, want 5 (2 headline + 3 text tokens)", doc.length)
	}
}

func TestParserDropsUnclosedDocument(t *testing.T) {
	lex := NewLexicon()
	p := newParser(lex, DefaultStemConfig())

	for _, line := range []string{"<DOC>", "<DOCNO>LA010189-0003</DOCNO>", "<TEXT>", "dangling"} {
		if d := p.feed(line); d != nil {
			t.Fatalf("unexpected completed document before </DOC>: %+v", d)
		}
	}
	if !p.pending() {
		t.Fatal("expected a pending document with no </DOC> yet")
	}
}

func TestExtractInline(t *testing.T) {
	got := extractInline("<DOCNO>LA010189-0001</DOCNO>", "<DOCNO>", "</DOCNO>")
	if got != "LA010189-0001" {
		t.Errorf("extractInline = %q, want LA010189-0001", got)
	}
}
