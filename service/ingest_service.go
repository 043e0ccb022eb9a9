package service

import (
	"context"
	"errors"
	"fmt"

	"lawqna-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DocumentEmbedder embeds document chunks for ingestion.
type DocumentEmbedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// ChunkWriter persists document chunks to the vector table.
type ChunkWriter interface {
	InsertBatch(ctx context.Context, chunks []models.DocumentChunk) error
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

// IngestService turns a reference document's text into embedded, ordered
// chunks in the vector store. Ingestion is one unit of work: embedding or
// store errors propagate and nothing partial becomes visible.
type IngestService struct {
	splitter *Splitter
	embedder DocumentEmbedder
	chunks   ChunkWriter
	log      *logrus.Logger
}

// IngestOption is a functional option for IngestService.
type IngestOption func(*IngestService)

// IngestWithSplitter sets the text splitter.
func IngestWithSplitter(splitter *Splitter) IngestOption {
	return func(s *IngestService) {
		s.splitter = splitter
	}
}

// IngestWithEmbedder sets the embedding client.
func IngestWithEmbedder(embedder DocumentEmbedder) IngestOption {
	return func(s *IngestService) {
		s.embedder = embedder
	}
}

// IngestWithChunkWriter sets the chunk store.
func IngestWithChunkWriter(chunks ChunkWriter) IngestOption {
	return func(s *IngestService) {
		s.chunks = chunks
	}
}

// IngestWithLogger sets the logger.
func IngestWithLogger(log *logrus.Logger) IngestOption {
	return func(s *IngestService) {
		s.log = log
	}
}

// NewIngestService creates an ingestion pipeline.
func NewIngestService(opts ...IngestOption) *IngestService {
	s := &IngestService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	return s
}

// Ingest splits text into chunks, embeds each one, and persists the result
// tagged with {document_id, chunk_index}. Existing chunks for the document
// are replaced, so re-ingesting does not accumulate duplicates. Returns the
// number of chunks written.
func (s *IngestService) Ingest(ctx context.Context, documentID uuid.UUID, text string) (int, error) {
	if s.splitter == nil {
		return 0, errors.New("splitter not set")
	}
	if s.embedder == nil {
		return 0, errors.New("embedder not set")
	}
	if s.chunks == nil {
		return 0, errors.New("chunk writer not set")
	}

	pieces := s.splitter.Split(text)
	if len(pieces) == 0 {
		return 0, nil
	}

	chunks := make([]models.DocumentChunk, 0, len(pieces))
	for index, piece := range pieces {
		embedding, err := s.embedder.EmbedDocument(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", index, err)
		}
		chunks = append(chunks, models.DocumentChunk{
			DocumentID: documentID,
			ChunkIndex: index,
			Content:    piece,
			Embedding:  embedding,
			Metadata: map[string]any{
				"document_id": documentID.String(),
				"chunk_index": index,
			},
		})
	}

	if err := s.chunks.DeleteByDocument(ctx, documentID); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}
	if err := s.chunks.InsertBatch(ctx, chunks); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"document_id": documentID,
		"chunks":      len(chunks),
	}).Info("document ingested")

	return len(chunks), nil
}
