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


// Package chunker splits document text into ordered, position-tracked chunks.
//
// The Splitter is a pure function over (text, config): identical input always
// yields byte-identical chunk sequences, which makes document re-processing
// idempotent. Five strategies are supported:
//
//   - fixed-size: sliding character window with configurable overlap
//   - sentence-boundary: greedy sentence accumulation up to the chunk size
//   - paragraph: the same accumulation over blank-line-separated paragraphs
//   - recursive: a separator ladder ("\n\n", "\n", ". ", " ", "") walked
//     iteratively until every segment fits the chunk size
//   - semantic: falls back to sentence-boundary; no model is involved
//
// The package performs no I/O and spawns no goroutines.
package chunker
