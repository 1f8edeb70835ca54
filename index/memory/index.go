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


// Package memory provides an in-process index.Index using exact cosine
// similarity. It evaluates the full filter dialect and is the index of
// choice for tests and small corpora.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/goldarch/ragkit/core"
	"github.com/goldarch/ragkit/index"
)

// Index is an in-memory vector index. Safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]index.Vector
	dimension  int
}

var _ index.Index = (*Index)(nil)

// New creates an empty in-memory index.
func New() *Index {
	return &Index{namespaces: make(map[string]map[string]index.Vector)}
}

// Upsert inserts or replaces vectors in a namespace. All vectors must share
// the dimension of the first vector ever stored.
func (x *Index) Upsert(ctx context.Context, namespace string, vectors []index.Vector) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, v := range vectors {
		if v.ID == "" {
			return core.ValidationError("memory index: vector ID must not be empty")
		}
		if len(v.Values) == 0 {
			return core.ValidationError("memory index: vector %q has no values", v.ID)
		}
		if x.dimension == 0 {
			x.dimension = len(v.Values)
		} else if len(v.Values) != x.dimension {
			return core.ValidationError("memory index: vector %q has dimension %d, index has %d",
				v.ID, len(v.Values), x.dimension)
		}
	}

	ns, ok := x.namespaces[namespace]
	if !ok {
		ns = make(map[string]index.Vector)
		x.namespaces[namespace] = ns
	}
	for _, v := range vectors {
		stored := index.Vector{
			ID:     v.ID,
			Values: append([]float32(nil), v.Values...),
		}
		if v.Metadata != nil {
			stored.Metadata = maps.Clone(v.Metadata)
		}
		ns[v.ID] = stored
	}
	return nil
}

// Search returns up to q.TopK matches ordered by descending cosine
// similarity. Vectors failing the filter are skipped before scoring.
func (x *Index) Search(ctx context.Context, q index.Query) ([]index.Match, error) {
	if len(q.Vector) == 0 {
		return nil, core.ValidationError("memory index: query vector must not be empty")
	}
	if q.TopK <= 0 {
		return nil, core.ValidationError("memory index: topK must be positive, got %d", q.TopK)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	ns := x.namespaces[q.Namespace]
	results := make([]index.Match, 0, len(ns))
	for _, v := range ns {
		if q.Filter != nil && !matches(q.Filter, v.Metadata) {
			continue
		}
		score := core.CosineSimilarity(q.Vector, v.Values)
		results = append(results, index.Match{
			ID:       v.ID,
			Score:    float64(score),
			Metadata: maps.Clone(v.Metadata),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > q.TopK {
		results = results[:q.TopK]
	}
	return results, nil
}

// Delete removes vectors by ID from a namespace. Unknown IDs are ignored.
func (x *Index) Delete(ctx context.Context, namespace string, ids []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	ns := x.namespaces[namespace]
	for _, id := range ids {
		delete(ns, id)
	}
	return nil
}

// DescribeStats reports vector counts per namespace.
func (x *Index) DescribeStats(ctx context.Context) (*index.Stats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	stats := &index.Stats{
		Dimension:  x.dimension,
		Namespaces: make(map[string]int, len(x.namespaces)),
	}
	for name, ns := range x.namespaces {
		stats.Namespaces[name] = len(ns)
		stats.TotalVectors += len(ns)
	}
	return stats, nil
}
