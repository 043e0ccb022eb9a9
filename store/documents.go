package store

import (
	"context"
	"net/http"
	"net/url"

	"lawqna-backend/models"
)

// DocumentCreate is the payload for registering a reference document.
type DocumentCreate struct {
	FileName   string `json:"file_name"`
	StorageURL string `json:"storage_url"`
	Version    int    `json:"version"`
	IsActive   bool   `json:"is_active"`
	UploadedBy string `json:"uploaded_by"`
}

// CreateDocument registers a reference document and returns the created row.
func (c *Client) CreateDocument(ctx context.Context, payload DocumentCreate) (*models.Document, error) {
	rows, err := c.do(ctx, http.MethodPost, "/documents", nil, payload, preferReturn)
	if err != nil {
		return nil, err
	}
	documents, err := decodeRows[models.Document](rows)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, ErrUnexpectedFormat
	}
	return &documents[0], nil
}

// GetDocument fetches a document record by id. Missing documents yield
// ErrNotFound.
func (c *Client) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	query := url.Values{
		"id":     {"eq." + id},
		"select": {"*"},
	}
	rows, err := c.do(ctx, http.MethodGet, "/documents", query, nil, "")
	if err != nil {
		return nil, err
	}
	documents, err := decodeRows[models.Document](rows)
	if err != nil {
		return nil, err
	}
	if len(documents) == 0 {
		return nil, ErrNotFound
	}
	return &documents[0], nil
}
