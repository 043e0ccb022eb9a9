package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a paid lawyer answer to a question. Rows are immutable once
// created.
type Answer struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	LawyerID   uuid.UUID `json:"lawyer_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
