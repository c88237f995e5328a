// Copyright 2026 Groundline Authors
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


// Package vectorstore defines the vector database abstraction used for
// storing and searching embedded document chunks.
//
// Two implementations are provided:
//
//   - vectorstore/qdrant: production store backed by Qdrant's REST API
//   - vectorstore/memory: in-process store for tests and small corpora
//
// Record identity is deterministic (core.RecordID), so re-ingesting a
// document overwrites its previous records instead of duplicating them.
package vectorstore
