package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"lawqna-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the dimensionality of the embedding model used at
// ingestion. Retrieval must use the same model, so queries with a different
// dimensionality are rejected up front.
const EmbeddingDimensions = 768

// ChunkRepository handles database operations for document chunks.
type ChunkRepository struct {
	db *pgxpool.Pool
}

// NewChunkRepository creates a new chunk repository.
func NewChunkRepository(db *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// InsertBatch stores a document's chunks with their embeddings and metadata
// in one transaction, so a partial ingestion never becomes visible.
func (r *ChunkRepository) InsertBatch(ctx context.Context, chunks []models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO document_chunks (document_id, chunk_index, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	for _, chunk := range chunks {
		if len(chunk.Embedding) != EmbeddingDimensions {
			return fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDimensions, len(chunk.Embedding))
		}
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal chunk metadata: %w", err)
		}
		_, err = tx.Exec(ctx, query,
			chunk.DocumentID,
			chunk.ChunkIndex,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	return tx.Commit(ctx)
}

// DeleteByDocument removes all chunks belonging to a document. Used before
// re-ingestion so a document's chunks are replaced rather than duplicated.
func (r *ChunkRepository) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks for document %s: %w", documentID, err)
	}
	return nil
}

// Search returns the limit nearest chunks to the query embedding, ordered by
// the store's configured distance metric. Retrieval is global across all
// ingested documents.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, limit int) ([]models.DocumentChunk, error) {
	if len(embedding) != EmbeddingDimensions {
		return nil, fmt.Errorf("embedding must be %d dimensions, got %d", EmbeddingDimensions, len(embedding))
	}

	query := `
		SELECT
			id,
			document_id,
			chunk_index,
			content,
			metadata,
			embedding <=> $1 AS distance
		FROM document_chunks
		ORDER BY embedding <=> $1
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query document chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var metadata []byte
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&metadata,
			&chunk.Distance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document chunk: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal chunk metadata: %w", err)
			}
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document chunks: %w", err)
	}

	return chunks, nil
}
