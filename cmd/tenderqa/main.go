package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tender-rag/internal/chunker"
	"tender-rag/internal/config"
	"tender-rag/internal/database"
	"tender-rag/internal/embedding"
	"tender-rag/internal/llm"
	"tender-rag/internal/rag"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	tenderID := flag.String("tender", "", "Tender ID to ask about (required)")
	pgConnString := flag.String("pg", "", "PostgreSQL connection string (overrides config)")
	queryFlag := flag.String("q", "", "Question to answer (non-interactive mode)")
	interactive := flag.Bool("i", false, "Run in interactive mode")
	flag.Parse()

	if *tenderID == "" {
		log.Fatal("Tender ID is required. Use -tender <id>")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *pgConnString != "" {
		cfg.Postgres.ConnString = *pgConnString
	}

	ctx := context.Background()

	db, err := database.NewDB(ctx, cfg.Postgres.ConnString, cfg.Embedding.Dimensions)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}

	generator, err := llm.NewOllamaLLM(cfg.LLM.Model)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	generator.Timeout = time.Duration(cfg.LLM.TimeoutSecs) * time.Second

	ch := chunker.New(cfg.Chunking.MinTokens, cfg.Chunking.MaxTokens)
	service := rag.NewService(db, db, embedder, generator, ch, cfg.Retrieval.TopK)

	if *interactive {
		runInteractiveMode(ctx, service, *tenderID)
		return
	}

	if *queryFlag == "" {
		log.Fatal("Question is required in non-interactive mode. Use -q 'your question'")
	}

	answer, err := service.AskQuestion(ctx, *tenderID, *queryFlag)
	if err != nil {
		log.Fatalf("Failed to answer question: %v", err)
	}

	fmt.Println(formatAnswer(answer.Text, answer.Grounded, answer.ChunkCount))
}

func runInteractiveMode(ctx context.Context, service *rag.Service, tenderID string) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Tender Q&A - Ask questions about tender %s (type 'exit' to quit)\n", tenderID)

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			break
		}

		fmt.Print("Searching tender... ")

		answer, err := service.AskQuestion(ctx, tenderID, input)
		if err != nil {
			fmt.Printf("\rError: %v\n", err)
			continue
		}

		fmt.Println("\r" + formatAnswer(answer.Text, answer.Grounded, answer.ChunkCount))
	}
}

func formatAnswer(text string, grounded bool, chunkCount int) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n")
	if grounded {
		sb.WriteString(fmt.Sprintf("\n[grounded on %d tender excerpts]", chunkCount))
	}
	return sb.String()
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
