// ═══════════════════════════════════════════════════════════════════════════════
// QUERY-BIASED SNIPPET BUILDER
// ═══════════════════════════════════════════════════════════════════════════════
// Builds a short, query-biased summary of a document's raw text: walk the
// text left to right, harvest characters only while inside a recognized
// region (title/headline, content/text, or the image-caption item), split
// harvested text into sentences on '.', '?', '!' or the region's close, score
// each sentence against the query tokens, and concatenate the top two.
//
// Scores are kept as explicit (score, order) pairs and sorted with a stable
// sort, rather than the float-epsilon-decrement trick used to force unique
// dictionary keys in the source this was modeled on.
// ═══════════════════════════════════════════════════════════════════════════════

package coogle

import (
	"sort"
	"strings"
)

type snippetRegion int

const (
	regionNone snippetRegion = iota
	regionHeadline
	regionContent
	regionCaption
)

type scoredSentence struct {
	text  string
	score float64
	order int
}

// BuildSnippet returns a query-biased summary of docText for the given
// stemmed query tokens. Failures degrade to an empty string rather than
// propagating, per the retriever's degrade-on-snippet-failure policy.
func BuildSnippet(queryTokens []string, docText string) string {
	sentences := extractSentences(docText)
	if len(sentences) == 0 {
		return ""
	}

	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = scoredSentence{
			text:  s.text,
			score: sentenceScore(queryTokens, s.text, s.region, i+1),
			order: i,
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].score > scored[b].score
	})

	n := 2
	if len(scored) < n {
		n = len(scored)
	}

	picked := make([]string, n)
	for i := 0; i < n; i++ {
		picked[i] = truncateWords(scored[i].text, 50)
	}
	return strings.Join(picked, " ")
}

type rawSentence struct {
	text   string
	region snippetRegion
}

// extractSentences walks docText left to right, harvesting characters only
// while inside a recognized region, and splitting harvested text into
// sentences on '.', '?', '!', or the region's close tag.
func extractSentences(docText string) []rawSentence {
	var sentences []rawSentence

	region := regionNone
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		buf.Reset()
		if text != "" {
			sentences = append(sentences, rawSentence{text: text, region: region})
		}
	}

	runes := []rune(docText)
	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '<' {
			end := i + 1
			for end < len(runes) && runes[end] != '>' {
				end++
			}
			if end >= len(runes) {
				break
			}
			tag := strings.ToLower(strings.TrimSpace(string(runes[i+1 : end])))
			i = end + 1

			switch {
			case tag == "title" || tag == "headline":
				flush()
				region = regionHeadline
			case tag == "content" || tag == "text":
				flush()
				region = regionContent
			case strings.HasPrefix(tag, "item") && strings.Contains(tag, "og_image:alt"):
				flush()
				region = regionCaption
			case tag == "/title" || tag == "/headline" || tag == "/content" || tag == "/text" || tag == "/item":
				flush()
				region = regionNone
			}
			continue
		}

		if region == regionNone {
			i++
			continue
		}

		if r == '.' || r == '?' || r == '!' {
			buf.WriteRune(r)
			flush()
			i++
			continue
		}

		buf.WriteRune(r)
		i++
	}
	flush()

	return sentences
}

// sentenceScore implements the 5k+4d+c+l+1/i formula. c counts every
// occurrence of a query term within the sentence's own token sequence, so a
// sentence repeating a term three times scores c=3; d counts the distinct
// terms among those matches. k is the longest run of consecutive tokens
// within the query's own token sequence (as passed to the search, not as
// they happen to appear in the sentence) such that every token in that run
// occurs somewhere in the sentence.
func sentenceScore(queryTokens []string, sentenceText string, region snippetRegion, ordinal int) float64 {
	sentenceTokens := Analyze(sentenceText)

	query := make(map[string]bool, len(queryTokens))
	for _, qt := range queryTokens {
		query[qt] = true
	}

	var c, d int
	present := make(map[string]bool, len(sentenceTokens))
	seen := make(map[string]bool)
	for _, st := range sentenceTokens {
		present[st] = true
		if query[st] {
			c++
			if !seen[st] {
				seen[st] = true
				d++
			}
		}
	}

	k := 0
	run := 0
	for _, qt := range queryTokens {
		if present[qt] {
			run++
			if run > k {
				k = run
			}
		} else {
			run = 0
		}
	}

	l := 0
	if region == regionContent {
		l = 2
	}

	return 5*float64(k) + 4*float64(d) + float64(c) + float64(l) + 1/float64(ordinal)
}

// truncateWords truncates s to at most n whitespace-delimited words,
// appending "..." if truncation occurred.
func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}
