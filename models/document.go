package models

import (
	"github.com/google/uuid"
)

// Document is a legal reference source registered for retrieval.
type Document struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	StorageURL string    `json:"storage_url"`
	Version    int       `json:"version"`
	IsActive   bool      `json:"is_active"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
}
