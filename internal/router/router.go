package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/prompt-general/supportdesk/internal/classifier"
	"github.com/prompt-general/supportdesk/internal/datastore"
	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/memory"
	"github.com/prompt-general/supportdesk/internal/vectorstore"
	"github.com/prompt-general/supportdesk/internal/websearch"
)

// Source labels reported alongside every answer
const (
	SourceDatabase      = "Database"
	SourceWebSearch     = "Web Search"
	SourceKnowledgeBase = "Knowledge Base"
)

// Fixed user-safe degradation messages. Raw errors never reach the user.
const (
	accountNotFoundMessage = "I couldn't find your user account. Please contact support."
	accountApology         = "I'm having trouble accessing your account information right now. Please try again later."
	searchApology          = "I'm having trouble searching for troubleshooting information right now. Please try again later."
	knowledgeApology       = "I'm having trouble accessing our knowledge base right now. Please try again later."
	knowledgeEmptyMessage  = "I couldn't find anything about that in our knowledge base. Try rephrasing your question, or contact support if you need more help."
)

const synthesisTemperature = 0.7

// knowledgeTopK is how many knowledge base entries feed answer synthesis
const knowledgeTopK = 3

// VectorSearcher is the retrieval facade contract the knowledge strategy uses
type VectorSearcher interface {
	Query(ctx context.Context, text string, topK int) []vectorstore.Result
}

// WebSearcher is the web search contract the troubleshooting strategy uses
type WebSearcher interface {
	Configured() bool
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Router dispatches a classified query to one of three retrieval strategies
// and synthesizes a final answer. Every strategy degrades to a fixed apology
// on failure; Route never returns an error.
type Router struct {
	llm      llm.Completer
	docStore datastore.UserSource // document store, tried first; may be nil
	relStore datastore.UserSource // relational fallback; may be nil
	search   WebSearcher
	vectors  VectorSearcher
}

// New creates a retrieval router. Either account store may be nil; the
// account strategy uses whichever is configured and reachable.
func New(completer llm.Completer, docStore, relStore datastore.UserSource, search WebSearcher, vectors VectorSearcher) *Router {
	return &Router{
		llm:      completer,
		docStore: docStore,
		relStore: relStore,
		search:   search,
		vectors:  vectors,
	}
}

// Route answers the query using the strategy for its category and returns
// the answer plus the source label it came from.
func (r *Router) Route(ctx context.Context, category classifier.Category, query string, history []memory.Turn, userID int) (string, string) {
	switch category {
	case classifier.CategoryAccount:
		return r.answerAccount(ctx, query, userID), SourceDatabase
	case classifier.CategoryTroubleshooting:
		return r.answerTroubleshooting(ctx, query), SourceWebSearch
	default:
		return r.answerKnowledge(ctx, query), SourceKnowledgeBase
	}
}

// accountContext is the structured data handed to answer synthesis
type accountContext struct {
	User    *datastore.User    `json:"user"`
	Tickets []datastore.Ticket `json:"tickets"`
}

func (r *Router) answerAccount(ctx context.Context, query string, userID int) (answer string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[router] account strategy panicked: %v", rec)
			answer = accountApology
		}
	}()

	user, tickets, err := r.lookupAccount(ctx, userID)
	if errors.Is(err, datastore.ErrUserNotFound) {
		return accountNotFoundMessage
	}
	if err != nil {
		log.Printf("[router] account lookup failed: %v", err)
		return accountApology
	}

	data, err := json.MarshalIndent(accountContext{User: user, Tickets: tickets}, "", "  ")
	if err != nil {
		log.Printf("[router] failed to encode account context: %v", err)
		return accountApology
	}

	prompt := fmt.Sprintf(`You are a tech support assistant with access to the following user data:

%s

A user with ID %d has asked: "%s"

Based on the available data, provide a helpful and accurate response.
Focus only on the information that's relevant to their query.
For ticket status questions, mention the most recent ticket first.
Be conversational but precise, and don't make up information.`, data, userID, query)

	response, err := r.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, synthesisTemperature)
	if err != nil {
		log.Printf("[router] account answer synthesis failed: %v", err)
		return accountApology
	}
	return response
}

// lookupAccount tries the document store first and falls back to the
// relational store when the former is unavailable or misses. A miss in the
// last reachable store surfaces as ErrUserNotFound, distinct from failures.
func (r *Router) lookupAccount(ctx context.Context, userID int) (*datastore.User, []datastore.Ticket, error) {
	if r.docStore != nil && r.docStore.Available(ctx) {
		user, err := r.docStore.GetUser(ctx, userID)
		if err == nil {
			tickets, terr := r.docStore.GetTickets(ctx, userID)
			if terr != nil {
				log.Printf("[router] document store ticket lookup failed: %v", terr)
				tickets = nil
			}
			return user, tickets, nil
		}
		log.Printf("[router] document store lookup missed for user %d: %v, falling back to relational store", userID, err)
	}

	if r.relStore == nil {
		return nil, nil, fmt.Errorf("no account store configured")
	}
	if !r.relStore.Available(ctx) {
		return nil, nil, fmt.Errorf("relational store unavailable")
	}

	user, err := r.relStore.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	tickets, err := r.relStore.GetTickets(ctx, userID)
	if err != nil {
		log.Printf("[router] relational ticket lookup failed: %v", err)
		tickets = nil
	}
	return user, tickets, nil
}

func (r *Router) answerTroubleshooting(ctx context.Context, query string) (answer string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[router] troubleshooting strategy panicked: %v", rec)
			answer = searchApology
		}
	}()

	var results []websearch.Result
	if r.search != nil && r.search.Configured() {
		found, err := r.search.Search(ctx, query)
		if err != nil {
			log.Printf("[router] web search failed: %v, using built-in snippets", err)
		} else {
			results = found
		}
	}
	if len(results) == 0 {
		results = websearch.CannedResults(query)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Printf("[router] failed to encode search results: %v", err)
		return searchApology
	}

	prompt := fmt.Sprintf(`You are a tech support assistant helping with technical troubleshooting.

The user asked: "%s"

Based on web search results, here is the relevant information:

%s

Please provide a helpful and accurate response that synthesizes this information.
Include specific technical steps when available.
Cite the source of information when appropriate.
Be conversational but precise, and don't make up information.`, query, data)

	response, err := r.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, synthesisTemperature)
	if err != nil {
		log.Printf("[router] troubleshooting answer synthesis failed: %v", err)
		return searchApology
	}
	return response
}

func (r *Router) answerKnowledge(ctx context.Context, query string) (answer string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[router] knowledge strategy panicked: %v", rec)
			answer = knowledgeApology
		}
	}()

	docs := r.vectors.Query(ctx, query, knowledgeTopK)
	if len(docs) == 0 {
		return knowledgeEmptyMessage
	}

	score := relevanceScore(query, docs)
	log.Printf("[router] retrieved %d knowledge entries (relevance: %.2f)", len(docs), score)

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		log.Printf("[router] failed to encode knowledge entries: %v", err)
		return knowledgeApology
	}

	prompt := fmt.Sprintf(`You are a tech support assistant providing information about company policies and knowledge.

The user asked: "%s"

Based on our knowledge base, here is the relevant information:

%s

Please provide a helpful and accurate response that synthesizes this information.
Be conversational but precise, and don't make up information.
If the information doesn't fully answer their question, acknowledge that and stick to what we know.`, query, data)

	response, err := r.llm.Complete(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, synthesisTemperature)
	if err != nil {
		log.Printf("[router] knowledge answer synthesis failed: %v", err)
		return knowledgeApology
	}
	return response
}

// relevanceScore is a crude retrieval-quality proxy in [0,1]: the ratio of
// average retrieved content length to query length, capped, on a 0.5 base.
// It says nothing about semantic relevance and is logged for monitoring only.
func relevanceScore(query string, docs []vectorstore.Result) float64 {
	if len(docs) == 0 {
		return 0
	}

	var total int
	for _, doc := range docs {
		total += len(doc.Content)
	}
	avgContentLength := float64(total) / float64(len(docs))

	queryLength := len(query)
	if queryLength < 1 {
		queryLength = 1
	}

	ratio := avgContentLength / float64(queryLength)
	if ratio > 10 {
		ratio = 10
	}
	ratio /= 10

	score := 0.5 + 0.5*ratio
	if score > 1 {
		score = 1
	}
	return score
}
