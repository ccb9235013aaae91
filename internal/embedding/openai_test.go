package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-rag/internal/models"
)

func embeddingServer(t *testing.T, dims int, status int, requests *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests++
		}
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"backend unavailable"}}`))
			return
		}

		vector := make([]float64, dims)
		for i := range vector {
			vector[i] = float64(i)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": vector, "index": 0}},
		})
	}))
}

func newTestEmbedder(baseURL string, dims int) *OpenAIEmbedder {
	return NewOpenAIEmbedder(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Dimensions: dims,
	})
}

func TestOpenAIEmbed_Success(t *testing.T) {
	server := embeddingServer(t, 4, http.StatusOK, nil)
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)

	vector, err := embedder.Embed(context.Background(), "eligibility criteria")
	require.NoError(t, err)
	assert.Len(t, vector, 4)
	assert.Equal(t, 4, embedder.Dimensions())
}

func TestOpenAIEmbed_EmptyText(t *testing.T) {
	requests := 0
	server := embeddingServer(t, 4, http.StatusOK, &requests)
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)

	_, err := embedder.Embed(context.Background(), "   \n  ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Zero(t, requests, "no backend call for empty input")
}

func TestOpenAIEmbed_MissingAPIKey(t *testing.T) {
	embedder := NewOpenAIEmbedder(OpenAIConfig{Dimensions: 4})

	_, err := embedder.Embed(context.Background(), "eligibility criteria")
	assert.ErrorIs(t, err, models.ErrNotConfigured)
}

func TestOpenAIEmbed_UpstreamFailure(t *testing.T) {
	server := embeddingServer(t, 4, http.StatusInternalServerError, nil)
	defer server.Close()

	embedder := newTestEmbedder(server.URL, 4)

	_, err := embedder.Embed(context.Background(), "eligibility criteria")
	assert.ErrorIs(t, err, models.ErrUpstream)
}

func TestOpenAIEmbed_DimensionMismatch(t *testing.T) {
	server := embeddingServer(t, 4, http.StatusOK, nil)
	defer server.Close()

	// Server returns 4 dimensions, embedder expects 8.
	embedder := newTestEmbedder(server.URL, 8)

	_, err := embedder.Embed(context.Background(), "eligibility criteria")
	assert.ErrorIs(t, err, models.ErrDimensionMismatch)
}

func TestOpenAIEmbed_NetworkFailure(t *testing.T) {
	server := embeddingServer(t, 4, http.StatusOK, nil)
	server.Close() // connection refused from here on

	embedder := newTestEmbedder(server.URL, 4)

	_, err := embedder.Embed(context.Background(), "eligibility criteria")
	assert.ErrorIs(t, err, models.ErrUpstream)
}
