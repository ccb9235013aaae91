package rag

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"tender-rag/internal/database"
	"tender-rag/internal/models"
)

// fakeSource serves tenders from a map, mirroring the document-management
// collaborator.
type fakeSource struct {
	tenders map[string]*models.Tender
}

func newFakeSource(tenders ...*models.Tender) *fakeSource {
	m := make(map[string]*models.Tender, len(tenders))
	for _, tender := range tenders {
		m[tender.ID] = tender
	}
	return &fakeSource{tenders: m}
}

func (f *fakeSource) GetTender(_ context.Context, tenderID string) (*models.Tender, error) {
	tender, ok := f.tenders[tenderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrTenderNotFound, tenderID)
	}
	return tender, nil
}

// hashEmbedder produces deterministic bag-of-words vectors so that texts
// sharing words end up close under cosine distance.
type hashEmbedder struct {
	mu    sync.Mutex
	calls int
}

const hashDims = 8

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", models.ErrInvalidInput)
	}
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	vector := make([]float64, hashDims)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, ".,!?:;\"'")
		h := fnv.New32a()
		h.Write([]byte(token))
		vector[h.Sum32()%hashDims]++
	}
	return vector, nil
}

// failingEmbedder fails every call after the first n succeed.
type failingEmbedder struct {
	mu        sync.Mutex
	succeed   int
	delegated hashEmbedder
	err       error
}

func (e *failingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.mu.Lock()
	remaining := e.succeed
	e.succeed--
	e.mu.Unlock()
	if remaining <= 0 {
		return nil, e.err
	}
	return e.delegated.Embed(ctx, text)
}

// fakeGenerator records prompts and returns a canned response.
type fakeGenerator struct {
	response string
	err      error

	calls      int
	lastPrompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// recordingStore wraps the in-memory store and keeps the last replaced
// set so tests can assert on raw chunk order.
type recordingStore struct {
	*database.MemoryStore
	mu      sync.Mutex
	lastSet []models.Chunk
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: database.NewMemoryStore(hashDims)}
}

func (s *recordingStore) ReplaceChunks(ctx context.Context, tenderID string, chunks []models.Chunk) error {
	if err := s.MemoryStore.ReplaceChunks(ctx, tenderID, chunks); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastSet = append([]models.Chunk(nil), chunks...)
	s.mu.Unlock()
	return nil
}

func publishedTender() *models.Tender {
	return &models.Tender{
		ID:          "tender-1",
		Title:       "Road Maintenance Tender",
		Description: "Annual maintenance of district roads including patching and drainage works",
		Status:      models.StatusPublished,
		Sections: []models.Section{
			{ID: "sec-scope", Title: "Scope", Body: "Resurfacing of forty kilometres of rural road within twelve months", Position: 0},
			{ID: "sec-emd", Title: "Earnest Money", Body: "The EMD amount is 50000 rupees payable by demand draft", Position: 1},
			{ID: "sec-elig", Title: "Eligibility", Body: "Bidders must have 3 years experience and valid registration.", Position: 2},
		},
	}
}

// testChunkerBounds keeps every short test section in its own chunk.
func testChunkerBounds() (minTokens, maxTokens int) {
	return 1, 50
}
