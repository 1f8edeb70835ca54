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


package embedding

import "github.com/goldarch/ragkit/core"

// CacheKey derives the cache key for a (model, text) pair. The model is part
// of the key so switching models never serves stale vectors.
func CacheKey(model, text string) string {
	return core.HashContent(model + ":" + text)
}

// Cache stores embedding vectors by key. Implementations must be safe for
// concurrent use. A cache is best-effort: lookup failures surface as misses,
// not errors.
type Cache interface {
	// Get returns the cached vector for key. Expired entries read as misses.
	Get(key string) ([]float32, bool)

	// Set stores a vector under key, evicting older entries if the cache is
	// at capacity.
	Set(key string, vector []float32)

	// Has reports whether key is cached and not expired, without counting
	// toward hit/miss statistics.
	Has(key string) bool

	// Cleanup removes expired entries and returns how many were removed.
	Cleanup() int

	// Clear removes all entries and resets statistics.
	Clear() error

	// Stats returns a snapshot of cache statistics.
	Stats() CacheStats
}

// CacheStats is a point-in-time snapshot of cache effectiveness.
type CacheStats struct {
	// Size is the current number of entries.
	Size int

	// Hits and Misses count Get outcomes since the last Clear.
	Hits   uint64
	Misses uint64

	// HitRate is Hits / (Hits + Misses), zero when no lookups happened.
	HitRate float64
}
