package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/memory"
)

// scriptedCompleter replays canned JSON responses, one per CompleteJSON call
type scriptedCompleter struct {
	available bool
	responses []string
	errs      []error
	prompts   []string
}

func (s *scriptedCompleter) Available() bool { return s.available }

func (s *scriptedCompleter) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	return "", errors.New("not used by the classifier")
}

func (s *scriptedCompleter) CompleteJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	call := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return "", errors.New("no scripted response")
}

func TestClassifyStructuredSuccess(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		responses: []string{`{"category": "account", "confidence": 0.95, "explanation": "asks about a ticket"}`},
	}
	c := New(completer)

	category := c.Classify(context.Background(), "What's the status of my ticket?", nil)

	assert.Equal(t, CategoryAccount, category)
	assert.Len(t, completer.prompts, 1, "fallback must not run after a structured success")
}

func TestClassifyFallsBackOnPrimaryError(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		errs:      []error{errors.New("rate limited")},
		responses: []string{"", `{"category": "troubleshooting"}`},
	}
	c := New(completer)

	category := c.Classify(context.Background(), "My laptop is slow", nil)

	assert.Equal(t, CategoryTroubleshooting, category)
	assert.Len(t, completer.prompts, 2)
}

func TestClassifyFallsBackOnMalformedPrimary(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		responses: []string{
			`this is not json`,
			`{"category": "knowledge"}`,
		},
	}
	c := New(completer)

	category := c.Classify(context.Background(), "What is the vacation policy?", nil)

	assert.Equal(t, CategoryKnowledge, category)
	assert.Len(t, completer.prompts, 2)
}

func TestClassifyRejectsInvalidStructuredCategory(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		responses: []string{
			`{"category": "billing", "confidence": 0.9, "explanation": "x"}`,
			`{"category": "account"}`,
		},
	}
	c := New(completer)

	assert.Equal(t, CategoryAccount, c.Classify(context.Background(), "query", nil))
}

func TestClassifyRejectsConfidenceOutOfRange(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		responses: []string{
			`{"category": "account", "confidence": 1.7, "explanation": "x"}`,
			`{"category": "account"}`,
		},
	}
	c := New(completer)

	assert.Equal(t, CategoryAccount, c.Classify(context.Background(), "query", nil))
	assert.Len(t, completer.prompts, 2, "out-of-range confidence must trigger the fallback")
}

func TestClassifyNormalizesCategoryCase(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		responses: []string{`{"category": " Troubleshooting ", "confidence": 0.8, "explanation": "x"}`},
	}
	c := New(completer)

	assert.Equal(t, CategoryTroubleshooting, c.Classify(context.Background(), "printer jam", nil))
}

func TestClassifyDefaultsWhenBothStrategiesFail(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		errs:      []error{errors.New("timeout"), errors.New("timeout")},
	}
	c := New(completer)

	assert.Equal(t, CategoryKnowledge, c.Classify(context.Background(), "anything at all", nil))
}

func TestClassifyDefaultsWhenUnavailable(t *testing.T) {
	c := New(&scriptedCompleter{available: false})

	assert.Equal(t, CategoryKnowledge, c.Classify(context.Background(), "What's my ticket status?", nil))
}

func TestClassifyDefaultsWithNilClient(t *testing.T) {
	c := New(nil)

	assert.Equal(t, CategoryKnowledge, c.Classify(context.Background(), "anything", nil))
}

func TestClassifyFallbackEmptyCategoryDefaultsToKnowledge(t *testing.T) {
	completer := &scriptedCompleter{
		available: true,
		errs:      []error{errors.New("unavailable")},
		responses: []string{"", `{}`},
	}
	c := New(completer)

	assert.Equal(t, CategoryKnowledge, c.Classify(context.Background(), "query", nil))
}

func TestClassifyIncludesRecentHistoryOnly(t *testing.T) {
	history := []memory.Turn{
		{Role: memory.RoleUser, Content: "oldest turn"},
		{Role: memory.RoleAssistant, Content: "second turn"},
		{Role: memory.RoleUser, Content: "third turn"},
		{Role: memory.RoleAssistant, Content: "fourth turn"},
		{Role: memory.RoleUser, Content: "fifth turn"},
		{Role: memory.RoleAssistant, Content: "sixth turn"},
		{Role: memory.RoleUser, Content: "newest turn"},
	}
	completer := &scriptedCompleter{
		available: true,
		responses: []string{`{"category": "account", "confidence": 0.9, "explanation": "x"}`},
	}
	c := New(completer)

	c.Classify(context.Background(), "and my ticket?", history)

	require.Len(t, completer.prompts, 1)
	prompt := completer.prompts[0]
	assert.Contains(t, prompt, "user: newest turn")
	assert.Contains(t, prompt, "assistant: fourth turn")
	assert.NotContains(t, prompt, "oldest turn")
	assert.NotContains(t, prompt, "second turn")
}
