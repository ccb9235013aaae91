package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tender-rag/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaEmbedder generates embeddings using the Ollama API. Like the
// OpenAI embedder it implements no retry policy of its own.
type OllamaEmbedder struct {
	Client     *api.Client
	Model      string
	Dimensions int
	Timeout    time.Duration
}

// NewOllamaEmbedder creates a new Ollama embedder. The host is taken
// from the OLLAMA_HOST environment variable.
func NewOllamaEmbedder(model string, dimensions int) (*OllamaEmbedder, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: missing Ollama embedding model", models.ErrNotConfigured)
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: missing embedding dimensions", models.ErrNotConfigured)
	}
	client := api.NewClient(envconfig.Host(), http.DefaultClient)

	return &OllamaEmbedder{
		Client:     client,
		Model:      model,
		Dimensions: dimensions,
		Timeout:    DefaultTimeout,
	}, nil
}

// Embed generates an embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", models.ErrInvalidInput)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	resp, err := e.Client.Embeddings(ctxWithTimeout, &api.EmbeddingRequest{
		Model:  e.Model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create embedding: %v", models.ErrUpstream, err)
	}

	if len(resp.Embedding) != e.Dimensions {
		return nil, fmt.Errorf("%w: expected %d dimensions, got %d",
			models.ErrDimensionMismatch, e.Dimensions, len(resp.Embedding))
	}

	return resp.Embedding, nil
}
