package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lawqna-backend/config"
	"lawqna-backend/repository"
	"lawqna-backend/service"
	"lawqna-backend/store"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Batch-ingests a directory of reference documents: each text file is
// registered as a document row in the hosted store and then chunked,
// embedded, and written to the vector table.
func main() {
	dir := flag.String("dir", "./reference_docs", "directory of .txt/.md files to ingest")
	uploadedBy := flag.String("uploaded-by", "", "admin user id recorded on the document rows")
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if settings.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}
	if settings.SupabaseURL == "" || settings.SupabaseServiceRoleKey == "" {
		log.Fatal("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
	}
	if *uploadedBy == "" {
		log.Fatal("-uploaded-by is required")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, settings.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(settings.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	logger := logrus.New()
	storeClient := store.NewClient(settings.SupabaseURL, settings.SupabaseServiceRoleKey, settings.StoreTimeout)
	ingestService := service.NewIngestService(
		service.IngestWithSplitter(service.NewSplitter(settings.ChunkSize, settings.ChunkOverlap)),
		service.IngestWithEmbedder(service.NewGeminiClient(geminiClient, settings, logger)),
		service.IngestWithChunkWriter(repository.NewChunkRepository(pool)),
		service.IngestWithLogger(logger),
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("Failed to read directory: %v", err)
	}

	var processed, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".txt" && ext != ".md" {
			log.Printf("Skipping %s (unsupported extension)", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Printf("Error reading %s: %v", name, err)
			failed++
			continue
		}

		document, err := storeClient.CreateDocument(ctx, store.DocumentCreate{
			FileName:   name,
			StorageURL: filepath.Join(*dir, name),
			Version:    1,
			IsActive:   true,
			UploadedBy: *uploadedBy,
		})
		if err != nil {
			log.Printf("Error registering %s: %v", name, err)
			failed++
			continue
		}

		count, err := ingestService.Ingest(ctx, document.ID, string(content))
		if err != nil {
			log.Printf("Error ingesting %s: %v", name, err)
			failed++
			continue
		}

		log.Printf("Ingested %s (%d chunks, document %s)", name, count, document.ID)
		processed++

		// Rate limiting between documents.
		time.Sleep(2 * time.Second)
	}

	log.Printf("Ingestion complete: %d processed, %d failed", processed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
