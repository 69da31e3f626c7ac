package datastore

import "context"

// StaticArticles serves a fixed in-memory article set. Used when no
// relational store is configured so the knowledge base path still works.
type StaticArticles struct {
	articles []KnowledgeArticle
}

// NewStaticArticles creates an article store over a fixed set. A nil or
// empty set falls back to the demo articles.
func NewStaticArticles(articles []KnowledgeArticle) *StaticArticles {
	if len(articles) == 0 {
		articles = sampleArticles()
	}
	return &StaticArticles{articles: articles}
}

// ListArticles returns the fixed article set
func (sa *StaticArticles) ListArticles(ctx context.Context) ([]KnowledgeArticle, error) {
	out := make([]KnowledgeArticle, len(sa.articles))
	copy(out, sa.articles)
	return out, nil
}
