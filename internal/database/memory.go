package database

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"tender-rag/internal/models"
)

// MemoryStore is an in-memory content store using brute-force cosine
// distance. It backs tests and local runs without Postgres, and mirrors
// the atomicity contract of the pgvector store: a replace is validated in
// full before the swap, so readers only ever see a complete set.
type MemoryStore struct {
	mu         sync.RWMutex
	dimensions int
	chunks     map[string][]models.Chunk
}

// NewMemoryStore creates an empty in-memory store for vectors of the
// given width.
func NewMemoryStore(dimensions int) *MemoryStore {
	return &MemoryStore{
		dimensions: dimensions,
		chunks:     make(map[string][]models.Chunk),
	}
}

// ReplaceChunks swaps the chunk set for one tender. On any validation
// failure the old set is left untouched.
func (s *MemoryStore) ReplaceChunks(_ context.Context, tenderID string, chunks []models.Chunk) error {
	for _, chunk := range chunks {
		if chunk.TenderID != tenderID {
			return fmt.Errorf("chunk belongs to tender %q, replacing %q", chunk.TenderID, tenderID)
		}
		if len(chunk.Embedding) != s.dimensions {
			return fmt.Errorf("%w: chunk has %d dimensions, store expects %d",
				models.ErrDimensionMismatch, len(chunk.Embedding), s.dimensions)
		}
	}

	replacement := make([]models.Chunk, len(chunks))
	copy(replacement, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[tenderID] = replacement
	return nil
}

// QueryNearest returns up to k chunks of one tender ordered by ascending
// cosine distance to the query embedding.
func (s *MemoryStore) QueryNearest(_ context.Context, tenderID string, embedding []float64, k int) ([]models.Chunk, error) {
	s.mu.RLock()
	stored := s.chunks[tenderID]
	candidates := make([]models.Chunk, len(stored))
	copy(candidates, stored)
	s.mu.RUnlock()

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return cosineDistance(candidates[i].Embedding, embedding) <
			cosineDistance(candidates[j].Embedding, embedding)
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k], nil
}

// ChunkCount reports how many chunks are stored for a tender.
func (s *MemoryStore) ChunkCount(tenderID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[tenderID])
}

// cosineDistance matches the pgvector <=> operator: 1 - cosine similarity.
func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
