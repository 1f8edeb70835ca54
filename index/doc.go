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


// Package index defines the vector-index boundary: the Index interface over
// upsert, similarity query, delete and stats, plus a QueryBuilder for the
// Pinecone-style metadata filter dialect ($eq, $ne, $gt, $gte, $lt, $lte,
// $in, $nin, implicit AND across fields).
//
// Filters are carried as opaque maps; each backend interprets as much of the
// dialect as it supports. Two implementations ship with the module:
//
//   - index/memory: in-process cosine index with full filter evaluation,
//     for tests and small corpora
//   - index/pinecone: REST adapter for a Pinecone index
package index
