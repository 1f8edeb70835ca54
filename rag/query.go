package rag

import (
	"regexp"
	"strings"

	"github.com/goldarch/ragkit/retrieval"
)

// QueryIntent classifies what the user is trying to do with a query.
type QueryIntent string

const (
	IntentQuestion  QueryIntent = "question"
	IntentCommand   QueryIntent = "command"
	IntentStatement QueryIntent = "statement"
)

// ProcessedQuery is a cleaned query with its extracted signals.
type ProcessedQuery struct {
	Original string
	Cleaned  string
	Keywords []string
	Intent   QueryIntent
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s?!.,'-]`)
)

var questionWords = []string{"what", "when", "where", "who", "why", "how", "which", "whose"}

var commandWords = []string{"show", "find", "get", "list", "tell", "give", "explain"}

// ProcessQuery normalizes a raw query and extracts keywords and intent. The
// cleaned form feeds retrieval; the keywords feed the reranker.
func ProcessQuery(query string) ProcessedQuery {
	cleaned := cleanQuery(query)
	return ProcessedQuery{
		Original: query,
		Cleaned:  cleaned,
		Keywords: retrieval.Keywords(cleaned),
		Intent:   detectIntent(cleaned),
	}
}

// cleanQuery trims, collapses whitespace and strips characters outside
// word characters and common punctuation.
func cleanQuery(query string) string {
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(query), " ")
	return specialsRe.ReplaceAllString(cleaned, "")
}

func detectIntent(query string) QueryIntent {
	lower := strings.ToLower(query)

	if strings.Contains(query, "?") {
		return IntentQuestion
	}
	for _, word := range questionWords {
		if strings.HasPrefix(lower, word) {
			return IntentQuestion
		}
	}
	for _, word := range commandWords {
		if strings.HasPrefix(lower, word) {
			return IntentCommand
		}
	}
	return IntentStatement
}
