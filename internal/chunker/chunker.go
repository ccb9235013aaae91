package chunker

import (
	"strings"

	"tender-rag/internal/models"
)

// Default chunk size bounds, measured in whitespace-delimited tokens.
const (
	DefaultMinTokens = 300
	DefaultMaxTokens = 500
)

// Chunker splits tender text into bounded token windows. An undersized
// trailing remainder is merged back into the previous chunk rather than
// emitted on its own.
type Chunker struct {
	MinTokens int
	MaxTokens int
}

// New creates a chunker with the given bounds, falling back to the
// defaults for non-positive values.
func New(minTokens, maxTokens int) *Chunker {
	if minTokens <= 0 {
		minTokens = DefaultMinTokens
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Chunker{MinTokens: minTokens, MaxTokens: maxTokens}
}

// ChunkText splits text into chunks of MinTokens..MaxTokens tokens.
// Empty or whitespace-only input yields no chunks. The output is
// deterministic for a given input and bounds.
func (c *Chunker) ChunkText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var buffer []string

	for _, word := range words {
		buffer = append(buffer, word)
		if len(buffer) >= c.MaxTokens {
			chunks = append(chunks, strings.Join(buffer, " "))
			buffer = nil
		}
	}

	if len(buffer) > 0 {
		if len(buffer) < c.MinTokens && len(chunks) > 0 {
			// Merge the undersized remainder into the previous chunk.
			last := chunks[len(chunks)-1]
			chunks[len(chunks)-1] = last + " " + strings.Join(buffer, " ")
		} else {
			chunks = append(chunks, strings.Join(buffer, " "))
		}
	}

	return chunks
}

// ChunkTender chunks a whole tender: one pass over title + description
// producing overview chunks (nil section id), then one pass per section
// over its title + body, in section order.
func (c *Chunker) ChunkTender(tender *models.Tender) []models.Chunk {
	var result []models.Chunk

	overview := strings.TrimSpace(tender.Title + "\n\n" + tender.Description)
	for _, content := range c.ChunkText(overview) {
		result = append(result, models.Chunk{
			TenderID: tender.ID,
			Content:  content,
		})
	}

	for _, section := range tender.Sections {
		combined := strings.TrimSpace(section.Title + "\n\n" + section.Body)
		sectionID := section.ID
		for _, content := range c.ChunkText(combined) {
			result = append(result, models.Chunk{
				TenderID:  tender.ID,
				SectionID: &sectionID,
				Content:   content,
			})
		}
	}

	return result
}
