package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessQuery(t *testing.T) {
	got := ProcessQuery("  What is\tthe   price of steel?  ")

	assert.Equal(t, "What is the price of steel?", got.Cleaned)
	assert.Equal(t, []string{"price", "steel"}, got.Keywords)
	assert.Equal(t, IntentQuestion, got.Intent)
}

func TestCleanQueryStripsSpecials(t *testing.T) {
	assert.Equal(t, "supplier quotes 2026", cleanQuery("supplier* quotes <2026>"))
	assert.Equal(t, "what's the rate?", cleanQuery("what's the rate?"))
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		query string
		want  QueryIntent
	}{
		{"What are the delivery terms", IntentQuestion},
		{"is this supplier approved?", IntentQuestion},
		{"show me all open quotes", IntentCommand},
		{"list suppliers for the tower project", IntentCommand},
		{"the concrete pour finished yesterday", IntentStatement},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectIntent(tt.query), "query %q", tt.query)
	}
}
