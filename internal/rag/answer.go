package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tender-rag/internal/models"
)

// InsufficientContext is the fixed response returned whenever no grounded
// answer can be produced. It is the only ungrounded text the pipeline
// ever emits.
const InsufficientContext = "I don't have enough information in this tender document to answer that."

// Synthesizer turns retrieved chunks and a question into a grounded
// answer, or the fixed fallback when context is missing.
type Synthesizer struct {
	generator Generator
}

// NewSynthesizer creates a synthesizer over the given generator.
func NewSynthesizer(generator Generator) *Synthesizer {
	return &Synthesizer{generator: generator}
}

// Answer produces an answer for the question from the retrieved chunks.
// With no chunks the fixed fallback is returned without a model call. A
// model failure propagates; it is never replaced with a guessed answer.
func (s *Synthesizer) Answer(ctx context.Context, question string, chunks []models.Chunk) (*models.Answer, error) {
	if len(chunks) == 0 {
		return s.fallback(0), nil
	}

	prompt := buildPrompt(question, chunks)

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" || text == InsufficientContext {
		// The model produced nothing, or declined as instructed. Either
		// way the result is the fixed ungrounded response.
		return s.fallback(len(chunks)), nil
	}

	return &models.Answer{
		Text:       text,
		Grounded:   true,
		ChunkCount: len(chunks),
		Timestamp:  time.Now().Format(time.RFC3339),
	}, nil
}

func (s *Synthesizer) fallback(chunkCount int) *models.Answer {
	return &models.Answer{
		Text:       InsufficientContext,
		Grounded:   false,
		ChunkCount: chunkCount,
		Timestamp:  time.Now().Format(time.RFC3339),
	}
}

// buildPrompt assembles the grounded prompt: the retrieved chunks are the
// only permitted source of truth and the model is told to decline rather
// than guess.
func buildPrompt(question string, chunks []models.Chunk) string {
	var promptBuilder strings.Builder

	promptBuilder.WriteString("You are a tender document assistant. ")
	promptBuilder.WriteString("Answer the question using only the tender excerpts below. ")
	promptBuilder.WriteString("If the excerpts do not contain the answer, say '")
	promptBuilder.WriteString(InsufficientContext)
	promptBuilder.WriteString("' instead of guessing.\n\n")

	promptBuilder.WriteString("Tender excerpts:\n")
	for i, chunk := range chunks {
		promptBuilder.WriteString(fmt.Sprintf("Excerpt %d:\n", i+1))
		promptBuilder.WriteString(chunk.Content)
		promptBuilder.WriteString("\n\n")
	}

	promptBuilder.WriteString("Question: " + question + "\n\n")
	promptBuilder.WriteString("Answer: ")

	return promptBuilder.String()
}
