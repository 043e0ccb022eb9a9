package models

import (
	"github.com/google/uuid"
)

// DocumentChunk is one embedded slice of a reference document, stored in the
// vector table. Chunks are produced only by the ingestion pipeline and never
// mutated; ChunkIndex preserves ordering within a document.
type DocumentChunk struct {
	ID         uuid.UUID      `json:"id"`
	DocumentID uuid.UUID      `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Content    string         `json:"content"`
	Embedding  []float32      `json:"-"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Distance   float64        `json:"distance,omitempty"` // Vector similarity distance
}
