package datastore

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned when a lookup misses in a store that is
// otherwise reachable. Callers distinguish it from store failures.
var ErrUserNotFound = errors.New("datastore: user not found")

// User is an account record
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Ticket is a support ticket belonging to a user
type Ticket struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Resolution  string     `json:"resolution,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// KnowledgeArticle is one article in the internal knowledge base. Articles
// are read-only inputs to indexing; the index owns whatever it derives from
// them.
type KnowledgeArticle struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// UserSource provides account lookups. Available must be consulted before
// use; an unavailable source is skipped, not treated as a miss.
type UserSource interface {
	Available(ctx context.Context) bool
	GetUser(ctx context.Context, userID int) (*User, error)
	GetTickets(ctx context.Context, userID int) ([]Ticket, error)
}

// ArticleStore provides the knowledge base article set
type ArticleStore interface {
	ListArticles(ctx context.Context) ([]KnowledgeArticle, error)
}
