package llm

import (
	"context"
	"errors"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/prompt-general/supportdesk/internal/config"
)

// ErrUnavailable is returned when no API key was configured and the client
// cannot reach the completion service.
var ErrUnavailable = errors.New("llm: completion service unavailable")

// Message is one chat message passed to the completion service
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Completer is the narrow contract the rest of the system depends on for
// text generation. Available must be checked before assuming completions
// will succeed; both completion calls fail with ErrUnavailable otherwise.
type Completer interface {
	Available() bool
	Complete(ctx context.Context, messages []Message, temperature float32) (string, error)
	CompleteJSON(ctx context.Context, prompt string, temperature float32) (string, error)
}

// OpenAIClient implements Completer against the OpenAI chat completion API.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates a completion client. A missing API key does not
// fail construction: the client reports unavailable and callers degrade.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	c := &OpenAIClient{
		model:     cfg.ChatModel,
		maxTokens: cfg.MaxTokens,
	}
	if cfg.APIKey == "" {
		log.Printf("[llm] OPENAI_API_KEY not set, completions will be unavailable")
		return c
	}
	c.client = openai.NewClient(cfg.APIKey)
	return c
}

// Available reports whether the client was constructed with credentials
func (c *OpenAIClient) Available() bool {
	return c.client != nil
}

// Complete generates a response for a full conversation
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, temperature float32) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    chatMessages,
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON generates a response constrained to a single JSON object
func (c *OpenAIClient) CompleteJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	if c.client == nil {
		return "", ErrUnavailable
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
