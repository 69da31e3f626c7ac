package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-general/supportdesk/internal/config"
)

func TestProviderWithoutKeyReturnsZeroVector(t *testing.T) {
	p := NewOpenAIProvider(config.OpenAIConfig{
		EmbeddingModel:     "text-embedding-ada-002",
		EmbeddingDimension: 1536,
	})

	vec := p.Embed(context.Background(), "how do I reset my password")

	require.Len(t, vec, 1536)
	for _, v := range vec {
		require.Zero(t, v)
	}
	assert.Equal(t, 1536, p.Dimension())
}

func TestProviderDimensionMatchesConfig(t *testing.T) {
	p := NewOpenAIProvider(config.OpenAIConfig{EmbeddingDimension: 8})

	assert.Equal(t, 8, p.Dimension())
	assert.Len(t, p.Embed(context.Background(), ""), 8)
}
