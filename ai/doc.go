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


// Package ai defines the model-provider abstractions used by the knowledge
// base: text embedding and answer generation.
//
// The package is designed around two narrow interfaces:
//
//   - Embedder: turns text into vectors
//   - ChatModel: turns a prompt into generated text
//
// Provider aggregates both for convenient initialization. The higher layers
// (embedding pipeline, retrieval, answer generation) depend only on these
// interfaces, never on a concrete vendor client.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI and OpenAI-compatible APIs (Ollama, vLLM, LocalAI)
//   - ai/anthropic: Anthropic chat models (no embedding endpoint)
//   - ai/googleai: Google Gemini chat and embedding models
//   - ai/mock: deterministic test doubles with call counting
//
// Public constructors return interface types to keep callers decoupled from
// vendor clients; mock constructors return concrete types so tests can
// inject behavior and assert call counts.
//
// All provider errors are wrapped in *core.ProviderError so callers can
// distinguish upstream failures from local validation failures.
package ai
