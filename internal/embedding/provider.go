package embedding

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/prompt-general/supportdesk/internal/config"
)

// Provider turns text into a fixed-dimension vector. Implementations never
// fail: a provider that cannot embed returns the zero vector of its
// dimension so indexing and search can proceed degraded instead of aborting.
type Provider interface {
	Embed(ctx context.Context, text string) []float32
	Dimension() int
}

// OpenAIProvider implements Provider using the OpenAI embeddings API
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIProvider creates an embedding provider. A missing API key leaves
// the client nil; every Embed call then returns the zero vector.
func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	p := &OpenAIProvider{
		model:     openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension: cfg.EmbeddingDimension,
	}
	if cfg.APIKey == "" {
		log.Printf("[embedding] OPENAI_API_KEY not set, embeddings will be zero vectors")
		return p
	}
	p.client = openai.NewClient(cfg.APIKey)
	return p
}

// Dimension returns the fixed vector dimension of this provider
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// Embed returns the embedding for text, or the zero vector on any provider
// failure (missing credentials, network error, rate limit).
func (p *OpenAIProvider) Embed(ctx context.Context, text string) []float32 {
	if p.client == nil {
		return make([]float32, p.dimension)
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		log.Printf("[embedding] error generating embedding: %v", err)
		return make([]float32, p.dimension)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		log.Printf("[embedding] provider returned no embedding data")
		return make([]float32, p.dimension)
	}

	return resp.Data[0].Embedding
}
