package processor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"tender-rag/internal/models"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// headingPattern matches lines that look like tender section headings:
// an optional "3." or "3)" numbering followed by a short title in caps
// or title case, e.g. "ELIGIBILITY CRITERIA" or "2. Scope of Work".
var headingPattern = regexp.MustCompile(`^(?:\d{1,2}[.)]\s+)?(?:[A-Z][A-Z &/\-]{3,}|[A-Z][a-z]+(?:\s+(?:of|and|the|for|[A-Z][a-z]+)){1,6})$`)

// PDFProcessor turns an uploaded tender PDF into a tender ready for
// storage and ingestion.
type PDFProcessor struct{}

// NewPDFProcessor creates a new PDF processor.
func NewPDFProcessor() *PDFProcessor {
	return &PDFProcessor{}
}

// ExtractText extracts plain text from a PDF file.
func (p *PDFProcessor) ExtractText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	b, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	return buf.String(), nil
}

// ParseTender extracts text from a tender PDF and splits it into a titled
// tender with heading-delimited sections. The tender is created as a
// draft; publication is the caller's decision.
func (p *PDFProcessor) ParseTender(filePath string) (*models.Tender, error) {
	text, err := p.ExtractText(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to process PDF: %w", err)
	}

	tender := p.parseText(text)
	if tender.Title == "" {
		base := filepath.Base(filePath)
		tender.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if tender.Description == "" && len(tender.Sections) == 0 {
		return nil, fmt.Errorf("%w: PDF contains no extractable text", models.ErrNoContent)
	}

	return tender, nil
}

// parseText splits normalized tender text into a preamble (title +
// description) and heading-delimited sections.
func (p *PDFProcessor) parseText(text string) *models.Tender {
	tender := &models.Tender{
		ID:     uuid.NewString(),
		Status: models.StatusDraft,
	}

	var current *models.Section
	var preamble []string

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if tender.Title == "" {
			tender.Title = line
			continue
		}

		if headingPattern.MatchString(line) {
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				tender.Sections = append(tender.Sections, *current)
			}
			current = &models.Section{
				ID:       uuid.NewString(),
				Title:    line,
				Position: len(tender.Sections),
			}
			continue
		}

		if current != nil {
			current.Body += line + "\n"
		} else {
			preamble = append(preamble, line)
		}
	}

	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		tender.Sections = append(tender.Sections, *current)
	}

	tender.Description = strings.Join(preamble, "\n")
	return tender
}
