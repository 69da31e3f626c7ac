package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/memory"
)

// Category is the routing label assigned to a user query
type Category string

const (
	CategoryAccount         Category = "account"
	CategoryTroubleshooting Category = "troubleshooting"
	CategoryKnowledge       Category = "knowledge"
)

// historyWindow is how many recent turns are included as classification context
const historyWindow = 5

const classificationTemperature = 0.3

// Classifier assigns each query one of three categories via the LLM. It
// tries a structured-output prompt first, falls back to a minimal JSON
// prompt, and defaults to the knowledge category when both fail or the LLM
// is unavailable. The knowledge path is read-only and the safest place to
// mis-route into, so it is the default. Classify never returns an error.
type Classifier struct {
	llm llm.Completer
}

// New creates a query classifier over the given completion client
func New(client llm.Completer) *Classifier {
	return &Classifier{llm: client}
}

// classification is the structured output contract of the primary strategy
type classification struct {
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	Explanation string  `json:"explanation"`
}

// Classify assigns query one of account, troubleshooting or knowledge
func (c *Classifier) Classify(ctx context.Context, query string, history []memory.Turn) Category {
	if c.llm == nil || !c.llm.Available() {
		log.Printf("[classifier] completion service unavailable, defaulting to knowledge")
		return CategoryKnowledge
	}

	convContext := historyContext(history)

	category, err := c.classifyStructured(ctx, query, convContext)
	if err == nil {
		return category
	}
	log.Printf("[classifier] structured classification failed: %v, falling back to direct prompt", err)

	category, err = c.classifyDirect(ctx, query, convContext)
	if err == nil {
		return category
	}
	log.Printf("[classifier] fallback classification failed: %v, defaulting to knowledge", err)

	return CategoryKnowledge
}

// classifyStructured is the primary strategy: a schema-constrained JSON
// response carrying category, confidence and a short explanation.
func (c *Classifier) classifyStructured(ctx context.Context, query, convContext string) (Category, error) {
	prompt := fmt.Sprintf(`You are a query classifier for a technical support system.

Classify the following user query into ONE of these categories:
- account: Related to user account, support tickets, personal data (e.g. "What's my ticket status?")
- troubleshooting: Technical issues requiring external information (e.g. "How do I fix a slow laptop?")
- knowledge: Company policies, procedures, internal information (e.g. "What is our remote work policy?")

Previous conversation context (if any):
%s

User query: %s

Respond with a JSON object with exactly these keys:
- "category": one of "account", "troubleshooting", "knowledge"
- "confidence": a number between 0 and 1
- "explanation": a brief explanation of why this category was chosen`, convContext, query)

	raw, err := c.llm.CompleteJSON(ctx, prompt, classificationTemperature)
	if err != nil {
		return "", err
	}

	var parsed classification
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("malformed structured output: %v", err)
	}

	category, ok := validCategory(parsed.Category)
	if !ok {
		return "", fmt.Errorf("invalid category %q in structured output", parsed.Category)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return "", fmt.Errorf("confidence %v out of range", parsed.Confidence)
	}

	log.Printf("[classifier] classified as %s (confidence: %.2f)", category, parsed.Confidence)
	return category, nil
}

// classifyDirect is the fallback strategy: a minimal JSON object with just
// the category key.
func (c *Classifier) classifyDirect(ctx context.Context, query, convContext string) (Category, error) {
	prompt := fmt.Sprintf(`Classify the following user query into ONE of these categories:
- account: Related to user account, support tickets, personal data (e.g. "What's my ticket status?")
- troubleshooting: Technical issues requiring external information (e.g. "How do I fix a slow laptop?")
- knowledge: Company policies, procedures, internal information (e.g. "What is our remote work policy?")

%s

User query: %s

Respond with a JSON object with a single key 'category' and the value as one of the three options: 'account', 'troubleshooting', or 'knowledge'.`, convContext, query)

	raw, err := c.llm.CompleteJSON(ctx, prompt, classificationTemperature)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", fmt.Errorf("malformed fallback output: %v", err)
	}
	if parsed.Category == "" {
		return CategoryKnowledge, nil
	}

	category, ok := validCategory(parsed.Category)
	if !ok {
		return "", fmt.Errorf("invalid category %q in fallback output", parsed.Category)
	}

	log.Printf("[classifier] fallback classified as %s", category)
	return category, nil
}

func validCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryAccount:
		return CategoryAccount, true
	case CategoryTroubleshooting:
		return CategoryTroubleshooting, true
	case CategoryKnowledge:
		return CategoryKnowledge, true
	}
	return "", false
}

// historyContext renders up to the last historyWindow turns as role-prefixed
// lines for the classification prompt.
func historyContext(history []memory.Turn) string {
	if len(history) == 0 {
		return ""
	}
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	lines := make([]string, 0, len(recent))
	for _, turn := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	return strings.Join(lines, "\n")
}
