package models

import (
	"time"

	"github.com/google/uuid"
)

// Question represents a user-submitted legal question.
type Question struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Title     string         `json:"title"`
	Body      map[string]any `json:"body"`
	Category  string         `json:"category"`
	AIAnswer  *AIAnswer      `json:"ai_answer,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Answers   []Answer       `json:"answers"`
}

// AIAnswer is the generated answer attached to a question at creation time.
// It is written at most once; a failed generation is recorded as a placeholder
// with Error set and Sources empty.
type AIAnswer struct {
	Content string         `json:"content"`
	Sources []AnswerSource `json:"sources"`
	Model   string         `json:"model,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// AnswerSource is one retrieved chunk backing an AI answer. Content holds a
// bounded preview of the chunk text, never the full chunk.
type AnswerSource struct {
	DocumentID string         `json:"document_id"`
	ChunkIndex int            `json:"chunk_index"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
