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


// Package splitter cuts document text into fixed-size overlapping chunks.
package splitter

import (
	"fmt"

	"github.com/groundline/groundline/core"
)

// Split cuts text into chunks of at most size characters, where each chunk
// after the first starts overlap characters before the end of the previous
// one. Offsets are character positions, not byte positions. The final chunk
// holds whatever remains and may be shorter than size.
//
// Returns an empty slice for empty text.
func Split(documentID, text string, size, overlap int) ([]core.Chunk, error) {
	if documentID == "" {
		return nil, core.ErrEmptyDocumentID
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d with size %d", ErrInvalidChunking, overlap, size)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return []core.Chunk{}, nil
	}

	step := size - overlap
	chunks := make([]core.Chunk, 0, (len(runes)+step-1)/step)

	for start, seq := 0, 0; start < len(runes); start, seq = start+step, seq+1 {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, core.Chunk{
			ParentDocumentID: documentID,
			Seq:              seq,
			Text:             string(runes[start:end]),
			Start:            start,
			End:              end,
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
