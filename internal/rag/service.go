package rag

import (
	"context"

	"tender-rag/internal/chunker"
	"tender-rag/internal/models"
)

// Service is the pipeline's outward surface: index one tender, answer one
// question about one tender.
type Service struct {
	ingestor    *Ingestor
	retriever   *Retriever
	synthesizer *Synthesizer
	topK        int
}

// NewService wires the pipeline components over shared collaborators.
func NewService(source TenderSource, store ContentStore, embedder Embedder, generator Generator, ch *chunker.Chunker, topK int) *Service {
	if ch == nil {
		ch = chunker.New(0, 0)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{
		ingestor:    NewIngestor(source, ch, embedder, store),
		retriever:   NewRetriever(source, embedder, store),
		synthesizer: NewSynthesizer(generator),
		topK:        topK,
	}
}

// Ingestor exposes the underlying ingestor for tuning.
func (s *Service) Ingestor() *Ingestor {
	return s.ingestor
}

// IngestTender rebuilds the chunk index for a published tender.
func (s *Service) IngestTender(ctx context.Context, tenderID string) error {
	return s.ingestor.Ingest(ctx, tenderID)
}

// AskQuestion retrieves the closest chunks for the question and
// synthesizes a grounded answer from them.
func (s *Service) AskQuestion(ctx context.Context, tenderID, question string) (*models.Answer, error) {
	chunks, err := s.retriever.Retrieve(ctx, tenderID, question, s.topK)
	if err != nil {
		return nil, err
	}
	return s.synthesizer.Answer(ctx, question, chunks)
}
