// ═══════════════════════════════════════════════════════════════════════════════
// TEXT ANALYSIS OVERVIEW
// ═══════════════════════════════════════════════════════════════════════════════
// Text analysis turns raw document and query text into the same sequence of
// tokens, so that a term typed in a query matches the term that was indexed.
//
// ANALYSIS PIPELINE:
// ------------------
//  1. Tokenization → split text into letter/digit runs, folded to lowercase
//  2. Stemming      → reduce words to a root form ("running" → "run")
//
// Unlike a general-purpose analyzer, this pipeline has no stopword removal
// and no minimum-length filter: every token that survives tokenization is
// kept, on both the index side and the query side. A token dropped here
// would be indistinguishable at query time from a term that never occurred
// in the corpus.
//
// EXAMPLE TRANSFORMATION:
// -----------------------
// Input:  "The Quick Brown Fox Jumps!"
// Step 1: ["the", "quick", "brown", "fox", "jumps"]  (tokenize + lowercase)
// Step 2: ["the", "quick", "brown", "fox", "jump"]   (stemming)
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// StemConfig controls whether the analysis pipeline applies stemming.
//
// A store records which mode indexed it (see stemming.txt in the store
// layout) so a Retriever opened against that store can match it exactly,
// rather than assuming a default that might not agree with how the store
// was built.
type StemConfig struct {
	Enabled bool // Whether to apply stemming (default: true)
}

// DefaultStemConfig returns the standard analysis configuration: stemming on.
func DefaultStemConfig() StemConfig {
	return StemConfig{Enabled: true}
}

// Analyze transforms raw text into searchable tokens using the default
// (stemming-enabled) pipeline.
//
// Example:
//
//	tokens := Analyze("The quick brown fox jumps over the lazy dog")
//	// Returns: ["the", "quick", "brown", "fox", "jump", "over", "the", "lazi", "dog"]
func Analyze(text string) []string {
	return AnalyzeWithConfig(text, DefaultStemConfig())
}

// AnalyzeWithConfig transforms text using an explicit configuration. The
// Indexer and the Retriever must be called with the same config for a given
// store, or query terms will not match the terms that were indexed.
func AnalyzeWithConfig(text string, config StemConfig) []string {
	tokens := tokenize(text)
	tokens = lowercaseFilter(tokens)

	if config.Enabled {
		tokens = stemmerFilter(tokens)
	}

	return tokens
}

// tokenize splits text into maximal runs of letters and digits.
//
// ALGORITHM:
// ----------
// Uses Unicode-aware splitting: any rune that is not a letter and not a
// number is a separator. Positions are preserved by slice order (needed by
// the snippet scorer's consecutive-run count) but are not themselves kept.
//
// Examples:
//
//	"hello-world"      → ["hello", "world"]
//	"price: $9.99"     → ["price", "9", "99"]
//	"café"             → ["café"]  (Unicode letters preserved)
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// lowercaseFilter normalizes token casing so "Quick", "quick", and "QUICK"
// are the same term.
func lowercaseFilter(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = strings.ToLower(token)
	}
	return r
}

// stemmerFilter reduces words to their root form using the Snowball
// (Porter2) English stemmer.
//
//	["running", "quickly", "foxes"] → ["run", "quick", "fox"]
//
// Stemming is a pure, deterministic function of its input token: the same
// token always produces the same stem, regardless of whether it came from
// an indexed document or a query, which is what lets BM25 compare the two.
func stemmerFilter(tokens []string) []string {
	r := make([]string, len(tokens))
	for i, token := range tokens {
		r[i] = snowballeng.Stem(token, false)
	}
	return r
}
