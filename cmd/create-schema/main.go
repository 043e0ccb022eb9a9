package main

import (
	"context"
	"log"

	"lawqna-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Creates the document_chunks vector table. The CRUD tables (questions,
// answers, lawyer_profiles, documents) are managed by the hosted store's
// migrations; only the vector table is owned by this service.
func main() {
	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		log.Printf("Warning: failed to create pgvector extension: %v", err)
	} else {
		log.Println("pgvector extension enabled")
	}

	schemaSQL := `
CREATE TABLE IF NOT EXISTS document_chunks (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    document_id UUID NOT NULL,
    chunk_index INTEGER NOT NULL,
    content TEXT NOT NULL,
    embedding vector(768) NOT NULL,
    metadata JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create document_chunks table: %v", err)
	}
	log.Println("document_chunks table created")

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document
			ON document_chunks (document_id, chunk_index)`,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding
			ON document_chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
	}
	for _, stmt := range indexes {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalf("Failed to create index: %v", err)
		}
	}
	log.Println("indexes created")
}
