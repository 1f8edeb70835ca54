package retrieval

import "strings"

// Stop words excluded from keyword matching.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "which": true, "who": true,
	"how": true, "when": true, "where": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation
// and removes stop words.
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}
	return filtered
}

// Keywords extracts the content-bearing terms of a query, deduplicated in
// first-seen order.
func Keywords(query string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, term := range tokenizeAndFilter(query) {
		if !seen[term] {
			seen[term] = true
			out = append(out, term)
		}
	}
	return out
}

// keywordOverlap returns the fraction of query terms found in the content,
// in [0,1]. No query terms means no lexical signal, reported as zero.
func keywordOverlap(content string, queryTerms []string) float64 {
	if len(queryTerms) == 0 {
		return 0
	}

	contentTerms := make(map[string]bool)
	for _, term := range tokenizeAndFilter(content) {
		contentTerms[term] = true
	}

	found := 0
	for _, term := range queryTerms {
		if contentTerms[term] {
			found++
		}
	}
	return float64(found) / float64(len(queryTerms))
}
