package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateTurn(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		turn    *Turn
		wantErr error
	}{
		{
			name: "valid human turn",
			turn: &Turn{
				Speaker:   SpeakerHuman,
				Text:      "Hello world",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid assistant turn",
			turn: &Turn{
				Speaker:   SpeakerAssistant,
				Text:      "Response",
				Timestamp: validTime,
			},
			wantErr: nil,
		},
		{
			name:    "nil turn",
			turn:    nil,
			wantErr: ErrInvalidTurn,
		},
		{
			name: "empty text",
			turn: &Turn{
				Speaker:   SpeakerHuman,
				Text:      "",
				Timestamp: validTime,
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "invalid speaker",
			turn: &Turn{
				Speaker:   Speaker(99),
				Text:      "Message",
				Timestamp: validTime,
			},
			wantErr: ErrInvalidSpeaker,
		},
		{
			name: "zero speaker",
			turn: &Turn{
				Speaker:   Speaker(0),
				Text:      "Message",
				Timestamp: validTime,
			},
			wantErr: ErrInvalidSpeaker,
		},
		{
			name: "zero timestamp",
			turn: &Turn{
				Speaker:   SpeakerHuman,
				Text:      "Message",
				Timestamp: time.Time{},
			},
			wantErr: ErrInvalidTimestamp,
		},
		{
			name: "future timestamp",
			turn: &Turn{
				Speaker:   SpeakerHuman,
				Text:      "Message",
				Timestamp: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTurn(tt.turn)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTurn() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTurn() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				ParentDocumentID: "doc-1",
				Seq:              0,
				Text:             "some text",
				Start:            0,
				End:              9,
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "missing parent document",
			chunk: &Chunk{
				Seq:  0,
				Text: "some text",
				End:  9,
			},
			wantErr: ErrEmptyDocumentID,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				ParentDocumentID: "doc-1",
				Seq:              0,
				Text:             "",
			},
			wantErr: ErrEmptyContent,
		},
		{
			name: "negative sequence",
			chunk: &Chunk{
				ParentDocumentID: "doc-1",
				Seq:              -1,
				Text:             "some text",
				End:              9,
			},
			wantErr: ErrInvalidChunk,
		},
		{
			name: "inverted span",
			chunk: &Chunk{
				ParentDocumentID: "doc-1",
				Seq:              0,
				Text:             "some text",
				Start:            10,
				End:              5,
			},
			wantErr: ErrInvalidChunk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSpeaker(t *testing.T) {
	tests := []struct {
		name    string
		speaker Speaker
		wantErr error
	}{
		{name: "human", speaker: SpeakerHuman, wantErr: nil},
		{name: "assistant", speaker: SpeakerAssistant, wantErr: nil},
		{name: "zero", speaker: Speaker(0), wantErr: ErrInvalidSpeaker},
		{name: "out of range", speaker: Speaker(42), wantErr: ErrInvalidSpeaker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpeaker(tt.speaker)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSpeaker() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSpeaker() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
