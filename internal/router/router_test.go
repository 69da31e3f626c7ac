package router

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-general/supportdesk/internal/classifier"
	"github.com/prompt-general/supportdesk/internal/datastore"
	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/vectorstore"
	"github.com/prompt-general/supportdesk/internal/websearch"
)

type fakeCompleter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeCompleter) Available() bool { return true }

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	return f.response, f.err
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, prompt string, temperature float32) (string, error) {
	return "", errors.New("not used by the router")
}

func (f *fakeCompleter) lastPrompt() string {
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeUserSource struct {
	available bool
	users     map[int]*datastore.User
	tickets   map[int][]datastore.Ticket
	calls     int
}

func (f *fakeUserSource) Available(ctx context.Context) bool { return f.available }

func (f *fakeUserSource) GetUser(ctx context.Context, userID int) (*datastore.User, error) {
	f.calls++
	if user, ok := f.users[userID]; ok {
		return user, nil
	}
	return nil, datastore.ErrUserNotFound
}

func (f *fakeUserSource) GetTickets(ctx context.Context, userID int) ([]datastore.Ticket, error) {
	return f.tickets[userID], nil
}

type fakeVectors struct {
	results []vectorstore.Result
}

func (f *fakeVectors) Query(ctx context.Context, text string, topK int) []vectorstore.Result {
	return f.results
}

type fakeSearcher struct {
	configured bool
	results    []websearch.Result
	err        error
	calls      int
}

func (f *fakeSearcher) Configured() bool { return f.configured }

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]websearch.Result, error) {
	f.calls++
	return f.results, f.err
}

func knownUserSource() *fakeUserSource {
	return &fakeUserSource{
		available: true,
		users: map[int]*datastore.User{
			1: {ID: 1, Username: "johndoe", Email: "john.doe@example.com"},
		},
		tickets: map[int][]datastore.Ticket{
			1: {{ID: 101, UserID: 1, Title: "WiFi keeps dropping", Status: "open", Priority: "medium"}},
		},
	}
}

func TestRouteAccountSynthesizesFromUserData(t *testing.T) {
	completer := &fakeCompleter{response: "Your WiFi ticket is still open."}
	r := New(completer, knownUserSource(), nil, nil, nil)

	answer, source := r.Route(context.Background(), classifier.CategoryAccount, "What's my ticket status?", nil, 1)

	assert.Equal(t, "Your WiFi ticket is still open.", answer)
	assert.Equal(t, SourceDatabase, source)
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.lastPrompt(), "johndoe")
	assert.Contains(t, completer.lastPrompt(), "WiFi keeps dropping")
}

func TestRouteAccountUnknownUser(t *testing.T) {
	completer := &fakeCompleter{response: "should not be called"}
	docs := knownUserSource()
	rel := knownUserSource()
	r := New(completer, docs, rel, nil, nil)

	answer, source := r.Route(context.Background(), classifier.CategoryAccount, "Who am I?", nil, 999)

	assert.Equal(t, accountNotFoundMessage, answer)
	assert.Equal(t, SourceDatabase, source)
	assert.Empty(t, completer.prompts, "synthesis must not run without account data")
}

func TestRouteAccountFallsBackToRelationalStore(t *testing.T) {
	completer := &fakeCompleter{response: "Found you in the database."}
	docs := &fakeUserSource{available: false}
	rel := knownUserSource()
	r := New(completer, docs, rel, nil, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryAccount, "What's my email?", nil, 1)

	assert.Equal(t, "Found you in the database.", answer)
	assert.Zero(t, docs.calls, "unavailable document store must not be consulted")
	assert.Equal(t, 1, rel.calls)
}

func TestRouteAccountDocumentStoreWinsWhenAvailable(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	docs := knownUserSource()
	rel := knownUserSource()
	r := New(completer, docs, rel, nil, nil)

	r.Route(context.Background(), classifier.CategoryAccount, "ticket status", nil, 1)

	assert.Equal(t, 1, docs.calls)
	assert.Zero(t, rel.calls, "relational store must not be consulted on a document store hit")
}

func TestRouteAccountNoStoresConfigured(t *testing.T) {
	r := New(&fakeCompleter{}, nil, nil, nil, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryAccount, "ticket status", nil, 1)

	assert.Equal(t, accountApology, answer)
}

func TestRouteAccountSynthesisFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model overloaded")}
	r := New(completer, knownUserSource(), nil, nil, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryAccount, "ticket status", nil, 1)

	assert.Equal(t, accountApology, answer)
}

func TestRouteTroubleshootingUsesWebResults(t *testing.T) {
	completer := &fakeCompleter{response: "Try restarting your router."}
	search := &fakeSearcher{
		configured: true,
		results: []websearch.Result{
			{Title: "Router troubleshooting", Content: "Power cycle the router.", URL: "https://example.com/router"},
		},
	}
	r := New(completer, nil, nil, search, nil)

	answer, source := r.Route(context.Background(), classifier.CategoryTroubleshooting, "my wifi is down", nil, 1)

	assert.Equal(t, "Try restarting your router.", answer)
	assert.Equal(t, SourceWebSearch, source)
	assert.Contains(t, completer.lastPrompt(), "Power cycle the router.")
}

func TestRouteTroubleshootingCannedWhenUnconfigured(t *testing.T) {
	completer := &fakeCompleter{response: "Here are some WiFi steps."}
	search := &fakeSearcher{configured: false}
	r := New(completer, nil, nil, search, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryTroubleshooting, "wifi keeps disconnecting", nil, 1)

	assert.Equal(t, "Here are some WiFi steps.", answer)
	assert.Zero(t, search.calls)
	assert.Contains(t, completer.lastPrompt(), "Troubleshooting WiFi Connection Issues")
}

func TestRouteTroubleshootingCannedOnSearchError(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	search := &fakeSearcher{configured: true, err: errors.New("upstream 500")}
	r := New(completer, nil, nil, search, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryTroubleshooting, "printer not printing", nil, 1)

	assert.Equal(t, "ok", answer)
	assert.Equal(t, 1, search.calls)
	assert.Contains(t, completer.lastPrompt(), "Printer")
}

func TestRouteTroubleshootingSynthesisFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	r := New(completer, nil, nil, &fakeSearcher{}, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryTroubleshooting, "slow laptop", nil, 1)

	assert.Equal(t, searchApology, answer)
}

func TestRouteKnowledgeSynthesizesFromRetrievedEntries(t *testing.T) {
	completer := &fakeCompleter{response: "You can work remotely up to 3 days a week."}
	vectors := &fakeVectors{results: []vectorstore.Result{
		{Title: "Remote Work Policy", Content: "Employees may work remotely up to 3 days per week.", Score: 0.91},
	}}
	r := New(completer, nil, nil, nil, vectors)

	answer, source := r.Route(context.Background(), classifier.CategoryKnowledge, "remote work policy?", nil, 1)

	assert.Equal(t, "You can work remotely up to 3 days a week.", answer)
	assert.Equal(t, SourceKnowledgeBase, source)
	assert.Contains(t, completer.lastPrompt(), "Remote Work Policy")
}

func TestRouteKnowledgeEmptyRetrieval(t *testing.T) {
	completer := &fakeCompleter{response: "should not be called"}
	r := New(completer, nil, nil, nil, &fakeVectors{})

	answer, _ := r.Route(context.Background(), classifier.CategoryKnowledge, "unknown topic", nil, 1)

	assert.Equal(t, knowledgeEmptyMessage, answer)
	assert.Empty(t, completer.prompts)
}

func TestRouteKnowledgeNilVectorsDegrades(t *testing.T) {
	r := New(&fakeCompleter{}, nil, nil, nil, nil)

	answer, _ := r.Route(context.Background(), classifier.CategoryKnowledge, "policy?", nil, 1)

	assert.Equal(t, knowledgeApology, answer)
}

func TestRouteUnknownCategoryFallsThroughToKnowledge(t *testing.T) {
	completer := &fakeCompleter{response: "knowledge answer"}
	vectors := &fakeVectors{results: []vectorstore.Result{{Title: "Doc", Content: "body"}}}
	r := New(completer, nil, nil, nil, vectors)

	answer, source := r.Route(context.Background(), classifier.Category("gibberish"), "anything", nil, 1)

	assert.Equal(t, "knowledge answer", answer)
	assert.Equal(t, SourceKnowledgeBase, source)
}

func TestRelevanceScore(t *testing.T) {
	docs := func(content string) []vectorstore.Result {
		return []vectorstore.Result{{Content: content}}
	}

	assert.Zero(t, relevanceScore("query", nil))

	// Long content against a short query saturates at 1.0
	assert.Equal(t, 1.0, relevanceScore("hi", docs(strings.Repeat("x", 500))))

	// Content as long as the query lands at the midpoint of the range:
	// ratio 1/10 on the 0.5 base
	assert.InDelta(t, 0.55, relevanceScore("abcd", docs("wxyz")), 1e-9)

	// Empty query is clamped to length 1
	assert.Equal(t, 1.0, relevanceScore("", docs(strings.Repeat("x", 20))))
}
