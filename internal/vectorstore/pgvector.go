package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/prompt-general/supportdesk/internal/datastore"
	"github.com/prompt-general/supportdesk/internal/embedding"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PgvectorIndex adapts the hosted pgvector index service to the same query
// contract as LocalIndex. Results are ordered by descending cosine
// similarity — the inverse of the local index's ascending-distance order —
// so the two backends' scores must never be compared.
type PgvectorIndex struct {
	db       *sql.DB
	table    string
	embedder embedding.Provider
}

// NewPgvectorIndex connects to the index service and ensures the named index
// exists. An empty DSN yields an unconfigured adapter; a connection or setup
// failure yields a configured-but-unavailable one. Neither is an error to
// the caller: the retrieval facade routes around it.
func NewPgvectorIndex(dsn, indexName string, embedder embedding.Provider) *PgvectorIndex {
	ix := &PgvectorIndex{table: indexName, embedder: embedder}

	if dsn == "" {
		log.Printf("[vectorstore] remote index DSN not set, remote index not configured")
		return ix
	}
	if !identPattern.MatchString(indexName) {
		log.Printf("[vectorstore] invalid index name %q, remote index disabled", indexName)
		return ix
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Printf("[vectorstore] failed to open remote index connection: %v", err)
		return ix
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("[vectorstore] remote index unreachable at startup: %v", err)
		db.Close()
		return ix
	}
	if err := ensureIndexTable(ctx, db, indexName, embedder.Dimension()); err != nil {
		log.Printf("[vectorstore] failed to ensure remote index: %v", err)
		db.Close()
		return ix
	}

	ix.db = db
	log.Printf("[vectorstore] remote index %q ready", indexName)
	return ix
}

func ensureIndexTable(ctx context.Context, db *sql.DB, table string, dimension int) error {
	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to enable vector extension: %v", err)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		article_id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		category TEXT,
		embedding vector(%d)
	)`, table, dimension)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create index table: %v", err)
	}
	return nil
}

// Configured reports whether a DSN was supplied and startup setup succeeded
func (ix *PgvectorIndex) Configured() bool {
	return ix.db != nil
}

// Available re-checks reachability. The service can go away independently of
// process start, so this is consulted before every use rather than cached.
func (ix *PgvectorIndex) Available(ctx context.Context) bool {
	if ix.db == nil {
		return false
	}
	if err := ix.db.PingContext(ctx); err != nil {
		log.Printf("[vectorstore] remote index unavailable: %v", err)
		return false
	}
	return true
}

// Populate upserts one vector per article, keyed by article id. Re-running
// it replaces existing vectors, so population is idempotent.
func (ix *PgvectorIndex) Populate(ctx context.Context, articles []datastore.KnowledgeArticle) error {
	if ix.db == nil {
		return fmt.Errorf("remote index not configured")
	}
	if len(articles) == 0 {
		return fmt.Errorf("no knowledge articles to populate")
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (article_id, title, content, category, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (article_id) DO UPDATE
		SET title = EXCLUDED.title, content = EXCLUDED.content,
			category = EXCLUDED.category, embedding = EXCLUDED.embedding`, ix.table)

	for _, article := range articles {
		vec := ix.embedder.Embed(ctx, indexText(article))
		if _, err := ix.db.ExecContext(ctx, stmt,
			article.ID, article.Title, article.Content, article.Category,
			pgvector.NewVector(vec)); err != nil {
			return fmt.Errorf("failed to upsert article %d: %v", article.ID, err)
		}
	}

	log.Printf("[vectorstore] populated remote index with %d articles", len(articles))
	return nil
}

// Query returns up to topK results ordered by descending cosine similarity
func (ix *PgvectorIndex) Query(ctx context.Context, text string, topK int) ([]Result, error) {
	if ix.db == nil {
		return nil, fmt.Errorf("remote index not configured")
	}
	if topK <= 0 {
		return nil, nil
	}

	queryVec := ix.embedder.Embed(ctx, text)
	stmt := fmt.Sprintf(`SELECT title, content, COALESCE(category, ''),
			1 - (embedding <=> $1) AS score
		FROM %s ORDER BY embedding <=> $1 LIMIT $2`, ix.table)

	rows, err := ix.db.QueryContext(ctx, stmt, pgvector.NewVector(queryVec), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query remote index: %v", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Title, &r.Content, &r.Category, &r.Score); err != nil {
			return nil, fmt.Errorf("failed to scan result: %v", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close releases the connection pool
func (ix *PgvectorIndex) Close() error {
	if ix.db == nil {
		return nil
	}
	return ix.db.Close()
}
