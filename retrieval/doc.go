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


// Package retrieval turns a question into scored document chunks. The
// Retriever embeds the query, searches the vector index, drops matches
// below the score threshold, optionally re-scores with a keyword-overlap
// blend (0.7 semantic, 0.3 lexical), and deduplicates so each source
// document contributes its best chunk once.
package retrieval
