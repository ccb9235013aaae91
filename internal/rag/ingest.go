package rag

import (
	"context"
	"fmt"
	"sync"

	"tender-rag/internal/chunker"
	"tender-rag/internal/models"
)

// DefaultMaxConcurrent bounds parallel embedding requests during ingestion.
const DefaultMaxConcurrent = 3

// Ingestor builds the chunk index for one tender: load, chunk, embed,
// then one atomic store replace.
type Ingestor struct {
	source        TenderSource
	chunker       *chunker.Chunker
	embedder      Embedder
	store         ContentStore
	maxConcurrent int
}

// NewIngestor creates an ingestor over the given collaborators.
func NewIngestor(source TenderSource, ch *chunker.Chunker, embedder Embedder, store ContentStore) *Ingestor {
	return &Ingestor{
		source:        source,
		chunker:       ch,
		embedder:      embedder,
		store:         store,
		maxConcurrent: DefaultMaxConcurrent,
	}
}

// SetMaxConcurrent adjusts the embedding fan-out width.
func (in *Ingestor) SetMaxConcurrent(n int) {
	if n > 0 {
		in.maxConcurrent = n
	}
}

// Ingest rebuilds the chunk index for a tender. All embeddings are
// gathered before the store is touched, so no storage transaction spans
// the slow backend calls, and any single failure aborts the run with the
// old index intact.
func (in *Ingestor) Ingest(ctx context.Context, tenderID string) error {
	tender, err := in.source.GetTender(ctx, tenderID)
	if err != nil {
		return err
	}
	if tender.Status != models.StatusPublished {
		return fmt.Errorf("%w: tender %s has status %q", models.ErrTenderNotPublished, tenderID, tender.Status)
	}

	chunks := in.chunker.ChunkTender(tender)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: tender %s", models.ErrNoContent, tenderID)
	}

	if err := in.embedChunks(ctx, chunks); err != nil {
		return err
	}

	if err := in.store.ReplaceChunks(ctx, tenderID, chunks); err != nil {
		return fmt.Errorf("failed to replace chunks for tender %s: %w", tenderID, err)
	}

	return nil
}

// embedChunks fans out embedding calls over a bounded number of workers.
// Each goroutine writes only its own chunk's embedding; the first error
// wins and fails the whole batch.
func (in *Ingestor) embedChunks(ctx context.Context, chunks []models.Chunk) error {
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, in.maxConcurrent)
	errChan := make(chan error, len(chunks))

	for i := range chunks {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int) {
			defer func() {
				wg.Done()
				<-semaphore
			}()

			embedding, err := in.embedder.Embed(ctx, chunks[i].Content)
			if err != nil {
				errChan <- fmt.Errorf("failed to embed chunk %d: %w", i, err)
				return
			}
			chunks[i].Embedding = embedding
		}(i)
	}

	wg.Wait()
	close(errChan)

	if err := <-errChan; err != nil {
		return err
	}

	return nil
}
