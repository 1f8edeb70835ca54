// Copyright 2026 Gold.Arch Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/embedding"
	"github.com/goldarch/ragkit/index"
)

const (
	// DefaultTopK is the number of results returned when unspecified.
	DefaultTopK = 5

	// DefaultMinScore is the similarity threshold below which matches are
	// discarded.
	DefaultMinScore = 0.6

	// semanticWeight and keywordWeight blend the rerank score.
	semanticWeight = 0.7
	keywordWeight  = 0.3
)

// Options controls one retrieval call. The zero value requests the defaults:
// TopK 5, MinScore 0.6, reranking enabled. Set MinScore negative to disable
// the threshold.
type Options struct {
	TopK      int
	Namespace string
	Filter    index.Filter
	MinScore  float64

	// DisableRerank skips the keyword-overlap re-scoring pass.
	DisableRerank bool
}

func (o *Options) normalize() {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	}
	if o.MinScore < 0 {
		o.MinScore = 0
	}
}

// Retriever searches the vector index for chunks relevant to a query.
type Retriever struct {
	embedder *embedding.Service
	idx      index.Index
	logger   *slog.Logger
}

// NewRetriever creates a retriever over an embedding service and an index.
func NewRetriever(embedder *embedding.Service, idx index.Index) (*Retriever, error) {
	if embedder == nil {
		return nil, core.ValidationError("retrieval: embedding service must not be nil")
	}
	if idx == nil {
		return nil, core.ValidationError("retrieval: index must not be nil")
	}
	return &Retriever{
		embedder: embedder,
		idx:      idx,
		logger:   slog.Default().With("component", "retrieval"),
	}, nil
}

// Retrieve returns up to opts.TopK chunks relevant to the query, ordered by
// descending score, at most one chunk per source document.
func (r *Retriever) Retrieve(ctx context.Context, query string, opts Options) ([]core.RetrievalResult, error) {
	if err := core.ValidateQuestion(query); err != nil {
		return nil, err
	}
	opts.normalize()

	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	// Over-fetch so threshold filtering and per-document dedupe still leave
	// TopK results to return.
	matches, err := r.idx.Search(ctx, index.Query{
		Vector:    vector,
		TopK:      opts.TopK * 3,
		Namespace: opts.Namespace,
		Filter:    opts.Filter,
	})
	if err != nil {
		return nil, err
	}

	results := make([]core.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		if m.Score < opts.MinScore {
			continue
		}
		results = append(results, resultFromMatch(m))
	}

	if !opts.DisableRerank {
		rerank(results, query)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	results = dedupeByDocument(results)

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}

	r.logger.Debug("retrieval complete",
		"matches", len(matches),
		"returned", len(results),
		"minScore", opts.MinScore,
		"rerank", !opts.DisableRerank)
	return results, nil
}

// rerank blends each semantic score with the keyword overlap between the
// query and the chunk content. Scores are clamped to [0,1].
func rerank(results []core.RetrievalResult, query string) {
	terms := Keywords(query)
	for i := range results {
		overlap := keywordOverlap(results[i].Content, terms)
		combined := semanticWeight*results[i].Score + keywordWeight*overlap
		results[i].Score = core.ClampScore(combined)
	}
}

// dedupeByDocument keeps the first (highest-scored) chunk per document.
// Results without a document ID are kept as-is.
func dedupeByDocument(results []core.RetrievalResult) []core.RetrievalResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, res := range results {
		if res.DocumentID != "" {
			if seen[res.DocumentID] {
				continue
			}
			seen[res.DocumentID] = true
		}
		out = append(out, res)
	}
	return out
}

// resultFromMatch lifts an index match into a retrieval result. Chunk text
// and document identity travel in the vector metadata.
func resultFromMatch(m index.Match) core.RetrievalResult {
	res := core.RetrievalResult{
		ID:       m.ID,
		Score:    m.Score,
		Metadata: m.Metadata,
	}
	if docID, ok := m.Metadata["documentId"].(string); ok {
		res.DocumentID = docID
	}
	if content, ok := m.Metadata["content"].(string); ok {
		res.Content = content
	}
	return res
}
