package models

// Tender status values as exposed by the tender store.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusClosed    = "closed"
)

// Tender is the source document content is indexed from. The pipeline
// treats it as read-only input.
type Tender struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Sections    []Section `json:"sections"`
}

// Section is one ordered sub-section of a tender.
type Section struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

// Chunk is a bounded span of tender text stored with its embedding.
// SectionID is nil for chunks taken from the tender overview.
type Chunk struct {
	TenderID  string    `json:"tender_id"`
	SectionID *string   `json:"section_id,omitempty"`
	Content   string    `json:"content"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// Answer is the result of one question against one tender. Grounded is
// false when the text is the fixed insufficient-information response
// rather than model output derived from retrieved chunks.
type Answer struct {
	Text       string `json:"text"`
	Grounded   bool   `json:"grounded"`
	ChunkCount int    `json:"chunk_count"`
	Timestamp  string `json:"timestamp"`
}
