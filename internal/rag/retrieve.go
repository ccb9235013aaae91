package rag

import (
	"context"
	"fmt"
	"strings"

	"tender-rag/internal/models"
)

// DefaultTopK is the number of chunks retrieved per question when the
// caller does not specify one.
const DefaultTopK = 5

// Retriever answers "which chunks of this tender are closest to this
// question" by embedding the question and ranking stored vectors.
type Retriever struct {
	source   TenderSource
	embedder Embedder
	store    ContentStore
}

// NewRetriever creates a retriever over the given collaborators.
func NewRetriever(source TenderSource, embedder Embedder, store ContentStore) *Retriever {
	return &Retriever{source: source, embedder: embedder, store: store}
}

// Retrieve returns up to k chunks of one tender ranked by similarity to
// the question. A tender with no indexed chunks yields an empty list;
// the synthesizer treats that as insufficient context.
func (r *Retriever) Retrieve(ctx context.Context, tenderID, question string, k int) ([]models.Chunk, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: question is empty", models.ErrInvalidInput)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	tender, err := r.source.GetTender(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	if tender.Status != models.StatusPublished {
		return nil, fmt.Errorf("%w: tender %s has status %q", models.ErrTenderNotPublished, tenderID, tender.Status)
	}

	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	chunks, err := r.store.QueryNearest(ctx, tenderID, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks for tender %s: %w", tenderID, err)
	}

	return chunks, nil
}
