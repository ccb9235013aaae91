package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tender-rag/internal/models"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// OllamaLLM handles answer generation through the Ollama API.
type OllamaLLM struct {
	Client  *api.Client
	Model   string
	Timeout time.Duration
}

// NewOllamaLLM creates a new Ollama generation client. The host is taken
// from the OLLAMA_HOST environment variable.
func NewOllamaLLM(model string) (*OllamaLLM, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: missing Ollama model", models.ErrNotConfigured)
	}
	client := api.NewClient(envconfig.Host(), http.DefaultClient)

	return &OllamaLLM{
		Client:  client,
		Model:   model,
		Timeout: DefaultTimeout,
	}, nil
}

// Generate produces a completion for the given prompt.
func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	req := api.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Options: map[string]interface{}{
			"temperature": 0.1,
			"num_predict": 1024,
		},
	}

	var responseBuilder strings.Builder

	err := o.Client.Generate(ctxWithTimeout, &req, func(resp api.GenerateResponse) error {
		_, err := responseBuilder.WriteString(resp.Response)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to generate response: %v", models.ErrUpstream, err)
	}

	return responseBuilder.String(), nil
}
