package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-general/supportdesk/internal/classifier"
	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/monitoring"
	"github.com/prompt-general/supportdesk/internal/router"
	"github.com/prompt-general/supportdesk/internal/vectorstore"
)

type fakeCompleter struct {
	response string
	json     string
}

func (f *fakeCompleter) Available() bool { return true }

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	if f.response == "" {
		return "", errors.New("no scripted completion")
	}
	return f.response, nil
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	if f.json == "" {
		return "", errors.New("no scripted json")
	}
	return f.json, nil
}

type fakeVectors struct {
	results []vectorstore.Result
}

func (f *fakeVectors) Query(ctx context.Context, text string, topK int) []vectorstore.Result {
	return f.results
}

func TestAnswerEndToEndKnowledgePath(t *testing.T) {
	completer := &fakeCompleter{
		response: "Our remote work policy allows 3 days per week.",
		json:     `{"category": "knowledge", "confidence": 0.9, "explanation": "policy question"}`,
	}
	vectors := &fakeVectors{results: []vectorstore.Result{
		{Title: "Remote Work Policy", Content: "Up to 3 remote days per week."},
	}}
	monitor := monitoring.NewMonitor()

	a := New(
		classifier.New(completer),
		router.New(completer, nil, nil, nil, vectors),
		monitor,
		nil,
	)

	reply := a.Answer(context.Background(), "session-1", "What is the remote work policy?", nil, 1)

	assert.Equal(t, "Our remote work policy allows 3 days per week.", reply.Message)
	assert.Equal(t, router.SourceKnowledgeBase, reply.Source)

	stats := monitor.Stats()
	assert.Equal(t, 1, stats.TotalInteractions)
	assert.Equal(t, 100, stats.QueryTypes["knowledge"])
	assert.Equal(t, 100, stats.DataSources[router.SourceKnowledgeBase])

	recent := monitor.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, "What is the remote work policy?", recent[0].UserMessage)
}

func TestAnswerRecoversFromInternalPanic(t *testing.T) {
	// A nil classifier makes the first step panic; the reply must still be
	// a fixed message with the error source.
	a := New(nil, nil, nil, nil)

	reply := a.Answer(context.Background(), "session-1", "anything", nil, 1)

	assert.Equal(t, internalErrorMessage, reply.Message)
	assert.Equal(t, SourceError, reply.Source)
}

func TestAnswerWorksWithoutMonitorOrEvents(t *testing.T) {
	completer := &fakeCompleter{
		response: "answer",
		json:     `{"category": "knowledge", "confidence": 0.9, "explanation": "x"}`,
	}
	vectors := &fakeVectors{results: []vectorstore.Result{{Title: "Doc", Content: "body"}}}

	a := New(classifier.New(completer), router.New(completer, nil, nil, nil, vectors), nil, nil)

	reply := a.Answer(context.Background(), "session-1", "question", nil, 1)

	assert.Equal(t, "answer", reply.Message)
	assert.Equal(t, router.SourceKnowledgeBase, reply.Source)
}
