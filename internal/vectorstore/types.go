package vectorstore

import (
	"context"

	"github.com/prompt-general/supportdesk/internal/datastore"
)

// Result is one scored hit from a vector search backend.
//
// Score semantics depend on the backend that produced it: the remote index
// reports similarity (higher is better) while the local index reports L2
// distance (lower is better). Scores from different backends are not
// comparable.
type Result struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// RemoteIndex is the contract of a managed vector index service.
// Configured reports whether credentials were supplied at all; Available
// re-checks reachability and must be consulted before every use.
type RemoteIndex interface {
	Configured() bool
	Available(ctx context.Context) bool
	Populate(ctx context.Context, articles []datastore.KnowledgeArticle) error
	Query(ctx context.Context, text string, topK int) ([]Result, error)
}

// ArticleSource supplies the knowledge article set an index is built from
type ArticleSource interface {
	ListArticles(ctx context.Context) ([]datastore.KnowledgeArticle, error)
}

// indexText is the canonical text representation an article is embedded as
func indexText(a datastore.KnowledgeArticle) string {
	return a.Title + "\n" + a.Content
}
