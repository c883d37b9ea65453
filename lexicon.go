package coogle

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ═══════════════════════════════════════════════════════════════════════════════
// LEXICON: the bijective term ↔ term_id mapping
// ═══════════════════════════════════════════════════════════════════════════════
// The lexicon grows only at index time: the first time a token is seen it is
// assigned the next dense id (len(lexicon)); every later occurrence of that
// token reuses the same id. At retrieval time the lexicon is frozen and only
// read.
// ═══════════════════════════════════════════════════════════════════════════════

// Lexicon is the in-memory term→term_id map, guarded by a mutex so that
// concurrent indexing implementations can serialize inserts and keep
// term-id assignment deterministic.
type Lexicon struct {
	mu    sync.Mutex
	terms map[string]int
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{terms: make(map[string]int)}
}

// LookupOrInsert returns the id for term, assigning it the next dense id
// (equal to the current lexicon size) if this is the first occurrence.
func (l *Lexicon) LookupOrInsert(term string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.terms[term]; ok {
		return id
	}
	id := len(l.terms)
	l.terms[term] = id
	return id
}

// Lookup returns the id for term without inserting it. Used at query time,
// when the lexicon is frozen.
func (l *Lexicon) Lookup(term string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.terms[term]
	return id, ok
}

// Len returns the number of distinct terms in the lexicon.
func (l *Lexicon) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.terms)
}

// WriteFile persists the lexicon as a JSON object: keys are terms, values
// are integer term_ids.
func (l *Lexicon) WriteFile(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, err := json.Marshal(l.terms)
	if err != nil {
		return fmt.Errorf("%w: encoding lexicon: %v", ErrIO, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrIO, path, err)
	}
	return nil
}

// LoadLexicon reads a lexicon.json file written by WriteFile.
func LoadLexicon(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStoreIncomplete, path, err)
	}

	terms := make(map[string]int)
	if err := json.Unmarshal(raw, &terms); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, path, err)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrStoreIncomplete, path)
	}

	return &Lexicon{terms: terms}, nil
}
