package main

import (
	"context"
	"net/http"

	"lawqna-backend/auth"
	"lawqna-backend/config"
	"lawqna-backend/handlers"
	"lawqna-backend/repository"
	"lawqna-backend/service"
	"lawqna-backend/storage"
	"lawqna-backend/store"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

func main() {
	// Load .env from the current directory or the project root.
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			logrus.Warn("no .env file found, using environment variables")
		}
	}

	log := logrus.New()

	settings, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load settings")
	}
	if settings.SupabaseURL == "" || settings.SupabaseServiceRoleKey == "" {
		log.Fatal("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required")
	}
	if settings.SupabaseJWTSecret == "" {
		log.Fatal("SUPABASE_JWT_SECRET is required")
	}

	db, err := initPostgres(settings)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize Postgres")
	}
	defer db.Close()
	log.Info("Postgres connection established with pgvector support")

	geminiClient, err := genai.NewClient(context.Background(), option.WithAPIKey(settings.GeminiAPIKey))
	if err != nil {
		log.WithError(err).Fatal("failed to initialize Gemini client")
	}
	defer geminiClient.Close()
	log.Info("Gemini client initialized")

	fileStorage, err := storage.NewStorage(settings)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize storage")
	}

	storeClient := store.NewClient(settings.SupabaseURL, settings.SupabaseServiceRoleKey, settings.StoreTimeout)
	verifier := auth.NewVerifier(settings.SupabaseJWTSecret)
	chunkRepo := repository.NewChunkRepository(db)
	gemini := service.NewGeminiClient(geminiClient, settings, log)

	ragService := service.NewRAGService(
		service.RAGWithEmbedder(gemini),
		service.RAGWithGenerator(gemini),
		service.RAGWithSearcher(chunkRepo),
		service.RAGWithTopK(settings.RetrievalK),
		service.RAGWithLogger(log),
	)
	ingestService := service.NewIngestService(
		service.IngestWithSplitter(service.NewSplitter(settings.ChunkSize, settings.ChunkOverlap)),
		service.IngestWithEmbedder(gemini),
		service.IngestWithChunkWriter(chunkRepo),
		service.IngestWithLogger(log),
	)

	questionHandler := handlers.NewQuestionHandler(storeClient, ragService, log)
	lawyerHandler := handlers.NewLawyerHandler(storeClient)
	adminHandler := handlers.NewAdminHandler(storeClient, fileStorage, ingestService, log)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	anyRole := auth.RequireRole(verifier, auth.RoleUser, auth.RoleLawyer, auth.RoleAdmin)
	lawyerOnly := auth.RequireRole(verifier, auth.RoleLawyer)
	adminOnly := auth.RequireRole(verifier, auth.RoleAdmin)

	r.POST("/questions", anyRole, questionHandler.CreateQuestion)
	r.GET("/questions/:id", anyRole, questionHandler.GetQuestion)
	r.POST("/questions/:id/answers", lawyerOnly, questionHandler.CreateAnswer)

	r.POST("/lawyers/verify", lawyerOnly, lawyerHandler.SubmitVerification)
	r.GET("/lawyers/me", lawyerOnly, lawyerHandler.GetProfile)

	admin := r.Group("/admin", adminOnly)
	{
		admin.POST("/documents", adminHandler.CreateDocument)
		admin.POST("/documents/upload", adminHandler.UploadDocument)
		admin.POST("/documents/:id/ingest", adminHandler.IngestDocument)
		admin.PUT("/lawyers/:user_id/status", adminHandler.UpdateLawyerStatus)
	}

	log.WithField("port", settings.Port).Info("server starting")
	if err := r.Run(":" + settings.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func initPostgres(settings *config.Settings) (*pgxpool.Pool, error) {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		// Normal when the extension is already installed or requires
		// superuser privileges.
		logrus.WithError(err).Warn("could not create pgvector extension")
	}

	return pool, nil
}
