package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tender-rag/internal/chunker"
	"tender-rag/internal/config"
	"tender-rag/internal/database"
	"tender-rag/internal/embedding"
	"tender-rag/internal/models"
	"tender-rag/internal/processor"
	"tender-rag/internal/rag"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	tenderID := flag.String("tender", "", "Tender ID to ingest")
	pdfPath := flag.String("pdf", "", "Import a tender PDF, publish it, and ingest it")
	pgConnString := flag.String("pg", "", "PostgreSQL connection string (overrides config)")
	maxConcurrent := flag.Int("max-concurrent", 0, "Maximum concurrent embedding requests (overrides config)")
	flag.Parse()

	if *tenderID == "" && *pdfPath == "" {
		log.Fatal("Either -tender or -pdf is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *pgConnString != "" {
		cfg.Postgres.ConnString = *pgConnString
	}
	if *maxConcurrent > 0 {
		cfg.Retrieval.MaxConcurrent = *maxConcurrent
	}

	ctx := context.Background()

	db, err := database.NewDB(ctx, cfg.Postgres.ConnString, cfg.Embedding.Dimensions)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	id := *tenderID
	if *pdfPath != "" {
		id = importPDF(ctx, db, *pdfPath)
	}

	ch := chunker.New(cfg.Chunking.MinTokens, cfg.Chunking.MaxTokens)
	ingestor := rag.NewIngestor(db, ch, embedder, db)
	ingestor.SetMaxConcurrent(cfg.Retrieval.MaxConcurrent)

	log.Printf("Ingesting tender %s", id)
	startTime := time.Now()

	if err := ingestor.Ingest(ctx, id); err != nil {
		log.Fatalf("Failed to ingest tender: %v", err)
	}

	log.Printf("Ingestion completed in %v", time.Since(startTime))
}

// importPDF parses a tender PDF, stores it as a published tender, and
// returns the new tender ID.
func importPDF(ctx context.Context, db *database.DB, path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("PDF file does not exist: %s", path)
	}

	log.Printf("Importing PDF: %s", path)

	tender, err := processor.NewPDFProcessor().ParseTender(path)
	if err != nil {
		log.Fatalf("Failed to parse PDF: %v", err)
	}
	log.Printf("Parsed tender %q with %d sections", tender.Title, len(tender.Sections))

	if err := db.CreateTender(ctx, tender); err != nil {
		log.Fatalf("Failed to store tender: %v", err)
	}
	if err := db.UpdateTenderStatus(ctx, tender.ID, models.StatusPublished); err != nil {
		log.Fatalf("Failed to publish tender: %v", err)
	}

	log.Printf("Created tender %s", tender.ID)
	return tender.ID
}

func buildEmbedder(cfg *config.Config) (rag.Embedder, error) {
	if cfg.Embedding.Provider == "ollama" {
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.Dimensions)
	}
	return embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
		APIKey:     cfg.Embedding.APIKey(),
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	}), nil
}
