package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lawqna-backend/models"

	"github.com/sirupsen/logrus"
)

// AnswerTemperature is the sampling temperature for answer generation. Kept
// low for fact-oriented, repeatable output.
const AnswerTemperature = 0.1

// defaultTopK is the number of chunks retrieved per question.
const defaultTopK = 5

// sourcePreviewLimit bounds the chunk text included per source, in
// characters, so response size stays bounded.
const sourcePreviewLimit = 200

// answerPromptTemplate grounds the model in the retrieved context. The
// template is fixed; only the context block and the question vary.
const answerPromptTemplate = `You are an AI legal assistant specializing in real-estate law.
Answer the question using only the statute and regulation excerpts provided as context.

CONTEXT:
%s

QUESTION: %s

Rules for the answer:
1. Rely only on the provided context; do not use outside knowledge.
2. Name the laws and articles that support the answer when they appear in the context.
3. If the context is not sufficient, state that this cannot be determined from the provided context.
4. Close with a note that this is an automatically generated answer, not formal legal advice, and that a qualified lawyer should be consulted.

ANSWER:`

// QueryEmbedder embeds retrieval queries.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces a chat completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
	ChatModel() string
}

// ChunkSearcher retrieves the nearest chunks to a query embedding.
type ChunkSearcher interface {
	Search(ctx context.Context, embedding []float32, limit int) ([]models.DocumentChunk, error)
}

// RAGService answers questions by retrieving relevant document chunks and
// conditioning the model's output on them.
type RAGService struct {
	embedder  QueryEmbedder
	generator Generator
	searcher  ChunkSearcher
	topK      int
	log       *logrus.Logger
}

// RAGOption is a functional option for RAGService.
type RAGOption func(*RAGService)

// RAGWithEmbedder sets the query embedder.
func RAGWithEmbedder(embedder QueryEmbedder) RAGOption {
	return func(s *RAGService) {
		s.embedder = embedder
	}
}

// RAGWithGenerator sets the chat model client.
func RAGWithGenerator(generator Generator) RAGOption {
	return func(s *RAGService) {
		s.generator = generator
	}
}

// RAGWithSearcher sets the chunk searcher.
func RAGWithSearcher(searcher ChunkSearcher) RAGOption {
	return func(s *RAGService) {
		s.searcher = searcher
	}
}

// RAGWithTopK overrides the number of retrieved chunks.
func RAGWithTopK(k int) RAGOption {
	return func(s *RAGService) {
		s.topK = k
	}
}

// RAGWithLogger sets the logger.
func RAGWithLogger(log *logrus.Logger) RAGOption {
	return func(s *RAGService) {
		s.log = log
	}
}

// NewRAGService creates a retrieval-answer pipeline.
func NewRAGService(opts ...RAGOption) *RAGService {
	s := &RAGService{topK: defaultTopK}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.New()
	}
	return s
}

// Answer embeds the question, retrieves the top-K chunks, and generates a
// grounded answer with cited sources. Any failure propagates to the caller;
// question creation recovers with FallbackAnswer instead of failing.
func (s *RAGService) Answer(ctx context.Context, question string) (*models.AIAnswer, error) {
	if s.embedder == nil {
		return nil, errors.New("embedder not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}
	if s.searcher == nil {
		return nil, errors.New("chunk searcher not set")
	}

	embedding, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	chunks, err := s.searcher.Search(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	prompt := buildAnswerPrompt(question, chunks)
	content, err := s.generator.Generate(ctx, prompt, AnswerTemperature)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"retrieved": len(chunks),
		"model":     s.generator.ChatModel(),
	}).Info("generated AI answer")

	return &models.AIAnswer{
		Content: content,
		Sources: buildSources(chunks),
		Model:   s.generator.ChatModel(),
	}, nil
}

func buildAnswerPrompt(question string, chunks []models.DocumentChunk) string {
	var context strings.Builder
	for _, chunk := range chunks {
		context.WriteString(chunk.Content)
		context.WriteString("\n\n")
	}
	if context.Len() == 0 {
		context.WriteString("(no relevant context found)\n\n")
	}
	return fmt.Sprintf(answerPromptTemplate, strings.TrimRight(context.String(), "\n"), question)
}

func buildSources(chunks []models.DocumentChunk) []models.AnswerSource {
	sources := make([]models.AnswerSource, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, models.AnswerSource{
			DocumentID: chunk.DocumentID.String(),
			ChunkIndex: chunk.ChunkIndex,
			Content:    preview(chunk.Content, sourcePreviewLimit),
			Metadata:   chunk.Metadata,
		})
	}
	return sources
}

func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// FallbackAnswer is the placeholder persisted when generation fails. A
// missing AI answer is recoverable; a failed question creation is not.
func FallbackAnswer(err error) *models.AIAnswer {
	return &models.AIAnswer{
		Content: "AI answer generation failed. Please wait for a lawyer's answer.",
		Sources: []models.AnswerSource{},
		Error:   err.Error(),
	}
}
