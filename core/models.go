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


package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

type ID uint64

// IDFromContent derives a stable 64-bit identifier from arbitrary text.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordID derives the vector-record identifier for a chunk.
// It is a pure function of the parent document id and the chunk's
// sequence index, so re-processing a document reproduces the same ids
// and repeated upserts converge on the same stored state.
func RecordID(documentID string, seq int) ID {
	return IDFromContent(documentID + ":" + strconv.Itoa(seq))
}

// DocumentRef identifies a document in the external source without its content.
type DocumentRef struct {
	ID       string // stable identifier assigned by the source
	Name     string
	MimeType string
	Revision string // modification time or checksum; opaque to the pipeline
}

// SourceDocument is a fetched document. Owned by the external source and
// read-only to the pipeline.
type SourceDocument struct {
	Ref     DocumentRef
	Content string
}

// Chunk is a contiguous sub-span of a document's text. Chunks are derived,
// immutable, and ordered by Seq within their parent document.
type Chunk struct {
	ParentDocumentID string
	Seq              int
	Text             string
	Start            int // char offset, inclusive
	End              int // char offset, exclusive
}

// MaxKeywords bounds the keyword set on extracted metadata.
const MaxKeywords = 10

// ChunkMetadata holds the structured attributes extracted for a chunk.
// Fields may be zero-valued when extraction degraded after repeated
// malformed responses.
type ChunkMetadata struct {
	Theme              string   `json:"overarching_theme"`
	RecurringTopics    []string `json:"recurring_topics"`
	PainPoints         []string `json:"pain_points"`
	AnalyticalInsights []string `json:"analytical_insights"`
	Conclusion         string   `json:"conclusion"`
	Keywords           []string `json:"keywords"`
}

// CapKeywords truncates the keyword set to MaxKeywords entries.
// Excess entries are dropped, never an error.
func (m *ChunkMetadata) CapKeywords() {
	if len(m.Keywords) > MaxKeywords {
		m.Keywords = m.Keywords[:MaxKeywords]
	}
}

type Speaker int

const (
	// SpeakerHuman represents the human user.
	SpeakerHuman Speaker = iota + 1
	// SpeakerAssistant represents the assistant.
	SpeakerAssistant
)

func (s Speaker) String() string {
	switch s {
	case SpeakerHuman:
		return "human"
	case SpeakerAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Turn is a single message in a conversation.
type Turn struct {
	Speaker   Speaker
	Text      string
	Timestamp time.Time
}

// DeletionStatus tracks the lifecycle of a deletion request.
type DeletionStatus int

const (
	DeletionPending DeletionStatus = iota + 1
	DeletionApproved
	DeletionRejected
	DeletionExpired
	DeletionDeleted
)

func (s DeletionStatus) String() string {
	switch s {
	case DeletionPending:
		return "pending"
	case DeletionApproved:
		return "approved"
	case DeletionRejected:
		return "rejected"
	case DeletionExpired:
		return "expired"
	case DeletionDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are allowed.
// An approved request is not terminal until the store delete succeeds.
func (s DeletionStatus) Terminal() bool {
	return s == DeletionRejected || s == DeletionExpired || s == DeletionDeleted
}

// DeletionRequest records a human-confirmed deletion of all vector records
// belonging to a set of source documents.
type DeletionRequest struct {
	TargetIDs  []string
	Status     DeletionStatus
	CreatedAt  time.Time
	ResolvedAt time.Time
}
