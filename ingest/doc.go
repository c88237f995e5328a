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


// Package ingest turns source documents into searchable vector records.
//
// For each document the pipeline fetches the content, splits it into
// overlapping chunks, extracts analytical metadata per chunk, embeds the
// chunk texts in one batch, and upserts the resulting records into the
// vector store.
//
// Record IDs are deterministic over (document ID, chunk sequence), so
// re-running ingestion over the same folder overwrites stale records
// instead of duplicating them. Documents whose source revision matches
// what the store already holds are skipped unless force mode is on.
//
// One failing document never aborts a run; it is recorded in the Report
// and the remaining documents continue.
package ingest
