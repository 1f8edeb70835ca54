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


// Package chat manages multi-turn conversations. Store keeps conversations
// in memory behind a mutex, trims each to a bounded number of messages,
// and evicts the least-recently-updated conversation once the in-memory
// ceiling is reached. Manager pairs a Store with a rag.Engine to expose a
// send-message interface with conversation continuity.
package chat
