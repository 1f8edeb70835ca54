package rag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goldarch/ragkit/core"
)

// maxExcerptLength bounds citation excerpts.
const maxExcerptLength = 200

// DefaultCitationMinScore is the threshold used by FilterCitationsByScore
// when the caller passes zero.
const DefaultCitationMinScore = 0.7

// BuildCitations derives a citation from each retrieval result, in order.
func BuildCitations(results []core.RetrievalResult) []core.Citation {
	citations := make([]core.Citation, len(results))
	for i, res := range results {
		citations[i] = core.Citation{
			Source:   sourceLabel(res),
			Excerpt:  excerpt(res.Content, maxExcerptLength),
			Score:    res.Score,
			Metadata: res.Metadata,
		}
	}
	return citations
}

// sourceLabel picks the most specific human-readable name available for a
// result: filename, then documentName, then title, then the document ID.
func sourceLabel(res core.RetrievalResult) string {
	for _, key := range []string{"filename", "documentName", "title"} {
		if v, ok := res.Metadata[key].(string); ok && v != "" {
			return v
		}
	}
	if res.DocumentID != "" {
		return "Document " + res.DocumentID
	}
	return "Unknown Source"
}

// excerpt shortens content to at most max characters, preferring a sentence
// boundary past 70% of the limit, then a word boundary past 80%.
func excerpt(content string, max int) string {
	if len(content) <= max {
		return content
	}

	truncated := content[:max]
	lastPeriod := strings.LastIndex(truncated, ".")
	lastSpace := strings.LastIndex(truncated, " ")

	if float64(lastPeriod) > float64(max)*0.7 {
		return truncated[:lastPeriod+1]
	}
	if float64(lastSpace) > float64(max)*0.8 {
		return truncated[:lastSpace] + "..."
	}
	return truncated + "..."
}

// DedupeCitations drops repeated sources, keeping the first occurrence.
func DedupeCitations(citations []core.Citation) []core.Citation {
	seen := make(map[string]bool, len(citations))
	out := make([]core.Citation, 0, len(citations))
	for _, c := range citations {
		if seen[c.Source] {
			continue
		}
		seen[c.Source] = true
		out = append(out, c)
	}
	return out
}

// SortCitationsByScore orders citations by descending score in place.
func SortCitationsByScore(citations []core.Citation) {
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Score > citations[j].Score
	})
}

// FilterCitationsByScore keeps citations at or above minScore. Zero selects
// DefaultCitationMinScore; unscored citations always pass.
func FilterCitationsByScore(citations []core.Citation, minScore float64) []core.Citation {
	if minScore == 0 {
		minScore = DefaultCitationMinScore
	}
	out := make([]core.Citation, 0, len(citations))
	for _, c := range citations {
		if c.Score == 0 || c.Score >= minScore {
			out = append(out, c)
		}
	}
	return out
}

// FormatCitations renders citations as a numbered display list.
func FormatCitations(citations []core.Citation) string {
	if len(citations) == 0 {
		return ""
	}
	lines := make([]string, len(citations))
	for i, c := range citations {
		line := fmt.Sprintf("[%d] %s", i+1, c.Source)
		if c.Score > 0 {
			line += fmt.Sprintf(" (relevance: %.0f%%)", c.Score*100)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
