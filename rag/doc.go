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


// Package rag orchestrates retrieval-augmented generation. The Engine
// validates a question, retrieves relevant chunks through a
// retrieval.Retriever, builds a context-grounded prompt, calls the chat
// model, and returns the answer together with citations and confidence.
// When retrieval finds nothing above the score threshold the Engine
// returns a fixed fallback answer without calling the model at all.
package rag
