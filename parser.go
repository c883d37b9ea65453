// ═══════════════════════════════════════════════════════════════════════════════
// STREAM PARSER: turning SGML-like lines into documents
// ═══════════════════════════════════════════════════════════════════════════════
// The input archive is a flat, line-oriented stream. Documents are delimited
// by <DOC>...</DOC>; within a document, <DOCNO>, <HEADLINE>, <TEXT>, and
// <GRAPHIC> carry the fields that get indexed. Tags may open and close on the
// same line (inline) or span several lines; inside a multi-line region, only
// lines with no '<' are treated as indexable content — a line containing a
// tag is structural, not text.
//
// Rather than the flag soup this logic originally used (is_text, is_headline,
// is_graphic booleans checked in sequence), it is modeled here as an explicit
// state machine over five states, with a per-document accumulator that reset
// on <DOC> and is handed to the caller complete on </DOC>.
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"fmt"
	"strconv"
	"strings"
)

type parserState int

const (
	stateOutside parserState = iota
	stateInDoc
	stateInHeadline
	stateInText
	stateInGraphic
)

// docBuilder accumulates a single document's state while the parser is
// inside its <DOC>...</DOC> block.
type docBuilder struct {
	docno      string
	date       string
	headline   string
	lines      []string
	termCounts map[int]int
	length     int
}

func newDocBuilder() *docBuilder {
	return &docBuilder{termCounts: make(map[int]int)}
}

// parser walks the archive line by line, tokenizing and stemming indexable
// content directly into a shared lexicon as it goes: field extraction and
// lexicon insertion happen in the same pass rather than as separate stages.
type parser struct {
	state parserState
	cur   *docBuilder

	stem StemConfig
	lex  *Lexicon
}

func newParser(lex *Lexicon, stem StemConfig) *parser {
	return &parser{state: stateOutside, lex: lex, stem: stem}
}

// feed processes one line of input. It returns the completed docBuilder when
// the line closes a document (</DOC>); otherwise it returns nil.
func (p *parser) feed(line string) *docBuilder {
	switch {
	case strings.Contains(line, "<DOC>"):
		p.cur = newDocBuilder()
		p.cur.lines = append(p.cur.lines, line)
		p.state = stateInDoc
		return nil

	case strings.Contains(line, "</DOC>"):
		if p.cur == nil {
			return nil
		}
		p.cur.lines = append(p.cur.lines, line)
		doc := p.cur
		p.cur = nil
		p.state = stateOutside
		return doc

	case p.cur == nil:
		// Stray line outside any <DOC>...</DOC> block; nothing to attach it to.
		return nil

	case strings.Contains(line, "<DOCNO>"):
		docno := extractInline(line, "<DOCNO>", "</DOCNO>")
		p.cur.docno = docno
		p.cur.date = deriveDate(docno)
		p.cur.lines = append(p.cur.lines, line)
		return nil

	case strings.Contains(line, "<HEADLINE>"):
		p.cur.lines = append(p.cur.lines, line)
		if strings.Contains(line, "</HEADLINE>") {
			text := extractInline(line, "<HEADLINE>", "</HEADLINE>")
			p.cur.headline = text
			p.index(text)
			return nil
		}
		p.state = stateInHeadline
		return nil

	case strings.Contains(line, "</HEADLINE>"):
		p.state = stateInDoc
		p.cur.lines = append(p.cur.lines, line)
		return nil

	case p.state == stateInHeadline:
		p.cur.lines = append(p.cur.lines, line)
		if line != "" && !strings.Contains(line, "<") {
			text := strings.TrimSpace(line)
			p.cur.headline += text + " "
			p.index(text)
		}
		return nil

	case strings.Contains(line, "<TEXT>"):
		p.cur.lines = append(p.cur.lines, line)
		if strings.Contains(line, "</TEXT>") {
			p.index(extractInline(line, "<TEXT>", "</TEXT>"))
			return nil
		}
		p.state = stateInText
		return nil

	case strings.Contains(line, "</TEXT>"):
		p.state = stateInDoc
		p.cur.lines = append(p.cur.lines, line)
		return nil

	case p.state == stateInText:
		p.cur.lines = append(p.cur.lines, line)
		if line != "" && !strings.Contains(line, "<") {
			p.index(strings.TrimSpace(line))
		}
		return nil

	case strings.Contains(line, "<GRAPHIC>"):
		p.cur.lines = append(p.cur.lines, line)
		if strings.Contains(line, "</GRAPHIC>") {
			p.index(extractInline(line, "<GRAPHIC>", "</GRAPHIC>"))
			return nil
		}
		p.state = stateInGraphic
		return nil

	case strings.Contains(line, "</GRAPHIC>"):
		p.state = stateInDoc
		p.cur.lines = append(p.cur.lines, line)
		return nil

	case p.state == stateInGraphic:
		p.cur.lines = append(p.cur.lines, line)
		if line != "" && !strings.Contains(line, "<") {
			p.index(strings.TrimSpace(line))
		}
		return nil

	default:
		p.cur.lines = append(p.cur.lines, line)
		return nil
	}
}

// pending reports whether a <DOC> was opened but never closed. The caller
// discards such a document without flushing any postings.
func (p *parser) pending() bool {
	return p.cur != nil
}

// index tokenizes and stems a chunk of indexable content, inserting any new
// tokens into the lexicon and accumulating counts into the current document.
func (p *parser) index(text string) {
	tokens := AnalyzeWithConfig(text, p.stem)
	for _, tok := range tokens {
		id := p.lex.LookupOrInsert(tok)
		p.cur.termCounts[id]++
		p.cur.length++
	}
}

// extractInline strips a pair of inline open/close tags and surrounding
// whitespace, e.g. "<DOCNO>LA010189-0001</DOCNO>" → "LA010189-0001".
func extractInline(line, open, close string) string {
	s := strings.ReplaceAll(line, open, "")
	s = strings.ReplaceAll(s, close, "")
	return strings.TrimSpace(s)
}

var monthAbbrev = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// deriveDate derives a human-readable date from a DOCNO's embedded
// month/day/year substring (characters 2..8, e.g. "LA010189-..." is
// January 1st, 1989). Malformed DOCNOs (too short, non-digit fields, or an
// out-of-range month) degrade to an empty string rather than failing
// indexing.
func deriveDate(docno string) string {
	if len(docno) < 8 {
		return ""
	}

	monthStr, dayStr, yearStr := docno[2:4], docno[4:6], docno[6:8]
	month, errMonth := strconv.Atoi(monthStr)
	_, errDay := strconv.Atoi(dayStr)
	_, errYear := strconv.Atoi(yearStr)
	if errMonth != nil || errDay != nil || errYear != nil {
		return ""
	}
	if month < 1 || month > 12 {
		return ""
	}

	return fmt.Sprintf("%s %s, 19%s", monthAbbrev[month-1], dayStr, yearStr)
}
