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


// Package core defines the domain model shared by every layer of the
// knowledge-base pipeline: documents and their chunks, embedding vectors,
// retrieval results, citations, and multi-turn conversations.
//
// It also defines the error taxonomy used across the repository:
//
//   - ErrValidation: bad input, rejected before any network call
//   - ProviderError: an external embedding/LLM/index call failed or timed out
//   - ErrNotFound: unknown conversation or document id
//   - ErrNotConfigured: missing API key or provider, fatal at construction
//
// The package has no dependencies on other packages in this module.
package core
