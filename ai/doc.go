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


// Package ai provides abstractions for the AI services used in Groundline.
//
// This package defines interfaces for text embedding, chunk metadata
// extraction and grounded answer generation. The ingestion pipeline, the
// deletion workflow and the chat session all depend on these abstractions
// rather than concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - MetadataExtractor: Derives structured metadata from document chunks
//   - Generator: Produces answers grounded in retrieved context
//   - Provider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Embeddings via OpenAI-compatible APIs
//   - ai/googleai: Extraction and generation via Google Gemini models
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors (googleai.NewProvider, openai.NewEmbedder, etc.) return
// interface types to enforce abstraction and prevent accidental coupling to
// concrete implementations. Test utility constructors in ai/mock return
// concrete types to enable behavior injection and call-count assertions.
//
// # Usage Example
//
//	cfg := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(openaiKey),
//	    ai.WithGenerationAPIKey(googleKey),
//	)
//	provider, err := googleai.NewProvider(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vec, err := provider.Embedder().EmbedText(ctx, "quarterly revenue notes")
//	md, err := provider.MetadataExtractor().Extract(ctx, chunkText)
package ai
