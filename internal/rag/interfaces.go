package rag

import (
	"context"

	"tender-rag/internal/models"
)

// TenderSource loads tender content from the document-management side.
type TenderSource interface {
	GetTender(ctx context.Context, tenderID string) (*models.Tender, error)
}

// ContentStore persists chunks with their vectors and supports
// similarity-ordered retrieval scoped to one tender.
type ContentStore interface {
	ReplaceChunks(ctx context.Context, tenderID string, chunks []models.Chunk) error
	QueryNearest(ctx context.Context, tenderID string, embedding []float64, k int) ([]models.Chunk, error)
}

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces a completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
