package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-rag/internal/chunker"
	"tender-rag/internal/models"
)

func newTestIngestor(source TenderSource, embedder Embedder, store ContentStore) *Ingestor {
	minTokens, maxTokens := testChunkerBounds()
	return NewIngestor(source, chunker.New(minTokens, maxTokens), embedder, store)
}

func TestIngest_TenderNotFound(t *testing.T) {
	ingestor := newTestIngestor(newFakeSource(), &hashEmbedder{}, newRecordingStore())

	err := ingestor.Ingest(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrTenderNotFound)
}

func TestIngest_TenderNotPublished(t *testing.T) {
	tender := publishedTender()
	tender.Status = models.StatusDraft
	ingestor := newTestIngestor(newFakeSource(tender), &hashEmbedder{}, newRecordingStore())

	err := ingestor.Ingest(context.Background(), tender.ID)
	assert.ErrorIs(t, err, models.ErrTenderNotPublished)
}

func TestIngest_NoContent(t *testing.T) {
	tender := &models.Tender{ID: "tender-empty", Status: models.StatusPublished}
	ingestor := newTestIngestor(newFakeSource(tender), &hashEmbedder{}, newRecordingStore())

	err := ingestor.Ingest(context.Background(), tender.ID)
	assert.ErrorIs(t, err, models.ErrNoContent)
}

func TestIngest_StoresEmbeddedChunks(t *testing.T) {
	tender := publishedTender()
	store := newRecordingStore()
	embedder := &hashEmbedder{}
	ingestor := newTestIngestor(newFakeSource(tender), embedder, store)

	require.NoError(t, ingestor.Ingest(context.Background(), tender.ID))

	require.NotEmpty(t, store.lastSet)
	assert.Equal(t, len(store.lastSet), store.ChunkCount(tender.ID))
	assert.Equal(t, len(store.lastSet), embedder.calls)
	for _, chunk := range store.lastSet {
		assert.Equal(t, tender.ID, chunk.TenderID)
		assert.Len(t, chunk.Embedding, hashDims)
		assert.NotEmpty(t, chunk.Content)
	}
}

func TestIngest_EmbedFailureAbortsRun(t *testing.T) {
	tender := publishedTender()
	store := newRecordingStore()
	embedder := &failingEmbedder{succeed: 1, err: models.ErrUpstream}
	ingestor := newTestIngestor(newFakeSource(tender), embedder, store)

	err := ingestor.Ingest(context.Background(), tender.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstream)

	// No partial index: the store was never written.
	assert.Zero(t, store.ChunkCount(tender.ID))
}

func TestIngest_FailedReingestKeepsOldIndex(t *testing.T) {
	tender := publishedTender()
	store := newRecordingStore()
	source := newFakeSource(tender)

	require.NoError(t, newTestIngestor(source, &hashEmbedder{}, store).Ingest(context.Background(), tender.ID))
	oldCount := store.ChunkCount(tender.ID)
	require.NotZero(t, oldCount)

	failing := &failingEmbedder{succeed: 1, err: models.ErrUpstream}
	err := newTestIngestor(source, failing, store).Ingest(context.Background(), tender.ID)
	require.Error(t, err)

	// The previous index remains authoritative.
	assert.Equal(t, oldCount, store.ChunkCount(tender.ID))
}

func TestIngest_ReingestIsDeterministic(t *testing.T) {
	tender := publishedTender()
	store := newRecordingStore()
	ingestor := newTestIngestor(newFakeSource(tender), &hashEmbedder{}, store)
	ctx := context.Background()

	require.NoError(t, ingestor.Ingest(ctx, tender.ID))
	first := store.lastSet

	require.NoError(t, ingestor.Ingest(ctx, tender.ID))
	second := store.lastSet

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Content, second[i].Content)
		assert.Equal(t, first[i].SectionID, second[i].SectionID)
	}
}

func TestIngest_ConcurrentEmbedding(t *testing.T) {
	tender := publishedTender()
	store := newRecordingStore()
	ingestor := newTestIngestor(newFakeSource(tender), &hashEmbedder{}, store)
	ingestor.SetMaxConcurrent(4)

	require.NoError(t, ingestor.Ingest(context.Background(), tender.ID))
	assert.NotZero(t, store.ChunkCount(tender.ID))
}
