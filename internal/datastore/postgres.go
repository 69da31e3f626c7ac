package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore is the relational account and knowledge article store. It is
// the fallback when the document store is unavailable or misses, and the
// source of record for knowledge base articles.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to Postgres and ensures the schema exists
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &PostgresStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (ps *PostgresStore) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS support_tickets (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'open',
			priority TEXT NOT NULL DEFAULT 'medium',
			resolution TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			closed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge_articles (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := ps.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %v", err)
		}
	}
	return nil
}

// Available reports whether the database is reachable right now
func (ps *PostgresStore) Available(ctx context.Context) bool {
	if err := ps.db.PingContext(ctx); err != nil {
		log.Printf("[datastore] postgres unavailable: %v", err)
		return false
	}
	return true
}

// GetUser retrieves a user by id
func (ps *PostgresStore) GetUser(ctx context.Context, userID int) (*User, error) {
	row := ps.db.QueryRowContext(ctx,
		`SELECT id, username, email, COALESCE(name, '') FROM users WHERE id = $1`, userID)

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %v", err)
	}
	return &user, nil
}

// GetTickets retrieves a user's tickets, most recent first
func (ps *PostgresStore) GetTickets(ctx context.Context, userID int) ([]Ticket, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT id, user_id, title, COALESCE(description, ''), status, priority,
			COALESCE(resolution, ''), created_at, updated_at, closed_at
		 FROM support_tickets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %v", err)
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status,
			&t.Priority, &t.Resolution, &t.CreatedAt, &t.UpdatedAt, &t.ClosedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %v", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListArticles returns every knowledge base article
func (ps *PostgresStore) ListArticles(ctx context.Context) ([]KnowledgeArticle, error) {
	rows, err := ps.db.QueryContext(ctx,
		`SELECT id, title, content, COALESCE(category, '') FROM knowledge_articles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %v", err)
	}
	defer rows.Close()

	var articles []KnowledgeArticle
	for rows.Next() {
		var a KnowledgeArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Category); err != nil {
			return nil, fmt.Errorf("failed to scan article: %v", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// Seed inserts the demo dataset when the store is empty
func (ps *PostgresStore) Seed(ctx context.Context) error {
	var count int
	if err := ps.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %v", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range sampleUsers() {
		if _, err := ps.db.ExecContext(ctx,
			`INSERT INTO users (id, username, email, name) VALUES ($1, $2, $3, $4)`,
			u.ID, u.Username, u.Email, u.Name); err != nil {
			return fmt.Errorf("failed to seed user %s: %v", u.Username, err)
		}
	}
	for _, t := range sampleTickets() {
		if _, err := ps.db.ExecContext(ctx,
			`INSERT INTO support_tickets (id, user_id, title, description, status, priority, created_at, updated_at, closed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, t.UserID, t.Title, t.Description, t.Status, t.Priority,
			t.CreatedAt, t.UpdatedAt, t.ClosedAt); err != nil {
			return fmt.Errorf("failed to seed ticket %d: %v", t.ID, err)
		}
	}
	for _, a := range sampleArticles() {
		if _, err := ps.db.ExecContext(ctx,
			`INSERT INTO knowledge_articles (id, title, content, category) VALUES ($1, $2, $3, $4)`,
			a.ID, a.Title, a.Content, a.Category); err != nil {
			return fmt.Errorf("failed to seed article %d: %v", a.ID, err)
		}
	}

	log.Printf("[datastore] seeded postgres with sample data")
	return nil
}

// Close closes the database connection pool
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
