package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"lawqna-backend/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
)

const (
	maxRetries     = 3
	initialBackoff = time.Second
)

// GeminiClient wraps the Gemini SDK for embeddings and chat generation.
// All calls run under explicit deadlines and retry transient failures with
// exponential backoff.
type GeminiClient struct {
	client          *genai.Client
	embeddingModel  string
	chatModel       string
	embedTimeout    time.Duration
	generateTimeout time.Duration
	log             *logrus.Logger
}

// NewGeminiClient creates a Gemini wrapper using the model names and
// timeouts from settings.
func NewGeminiClient(client *genai.Client, settings *config.Settings, log *logrus.Logger) *GeminiClient {
	return &GeminiClient{
		client:          client,
		embeddingModel:  settings.EmbeddingModel,
		chatModel:       settings.ChatModel,
		embedTimeout:    settings.EmbedTimeout,
		generateTimeout: settings.GenerateTimeout,
		log:             log,
	}
}

// ChatModel returns the configured chat model name, reported back in AI
// answers.
func (g *GeminiClient) ChatModel() string {
	return g.chatModel
}

// EmbedQuery embeds a retrieval query. Queries and documents must use the
// same embedding model; mixing models silently degrades retrieval.
func (g *GeminiClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, genai.TaskTypeRetrievalQuery)
}

// EmbedDocument embeds a document chunk for ingestion.
func (g *GeminiClient) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, genai.TaskTypeRetrievalDocument)
}

func (g *GeminiClient) embed(ctx context.Context, text string, taskType genai.TaskType) ([]float32, error) {
	em := g.client.EmbeddingModel(g.embeddingModel)
	em.TaskType = taskType

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, g.embedTimeout)
		resp, err := em.EmbedContent(attemptCtx, genai.Text(text))
		cancel()
		if err != nil {
			lastErr = err
			g.log.WithError(err).WithField("attempt", attempt+1).Warn("embedding call failed")
			continue
		}
		if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			lastErr = fmt.Errorf("embedding API returned empty vector")
			continue
		}
		return normalize(resp.Embedding.Values), nil
	}

	return nil, fmt.Errorf("failed to generate embedding after %d attempts: %w", maxRetries, lastErr)
}

// Generate produces a chat completion for the prompt at the given sampling
// temperature and returns the raw model text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	model := g.client.GenerativeModel(g.chatModel)
	model.SetTemperature(temperature)

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, g.generateTimeout)
		resp, err := model.GenerateContent(attemptCtx, genai.Text(prompt))
		cancel()
		if err != nil {
			lastErr = err
			g.log.WithError(err).WithField("attempt", attempt+1).Warn("generation call failed")
			continue
		}

		text := responseText(resp)
		if text == "" {
			lastErr = fmt.Errorf("generation API returned no content")
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("failed to generate content after %d attempts: %w", maxRetries, lastErr)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var out string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out += string(text)
			}
		}
	}
	return out
}

// normalize scales a vector to unit length so distance comparisons are
// consistent regardless of model output scaling.
func normalize(values []float32) []float32 {
	var norm float64
	for _, v := range values {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return values
	}
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(float64(v) / norm)
	}
	return out
}
