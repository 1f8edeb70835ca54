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


// Package embedding wraps an ai.Embedder with the operational machinery
// needed for bulk document processing: a content-addressed cache, request
// batching, bounded concurrency, rate limiting and retry with exponential
// backoff.
//
// Cache keys are derived from hash("model:text"), so the same text embedded
// under two models occupies two cache slots. Two Cache implementations are
// provided: the in-memory cache in this package and the persistent
// badger-backed one in embedding/badgercache.
//
// The Service is the main entry point. EmbedMany resolves cached texts
// first, embeds only the remaining unique texts, and isolates upstream
// failures per batch so one bad batch does not discard the rest of the run.
package embedding
