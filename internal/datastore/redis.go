package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prompt-general/supportdesk/internal/config"
)

// RedisStore is the document-style account store. User profiles and ticket
// lists are held as JSON documents keyed by user id. It is tried before the
// relational store when configured.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a document store client. Construction does not dial;
// Available performs the reachability check per use.
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
	}
}

func (rs *RedisStore) userKey(userID int) string {
	return fmt.Sprintf("%s:user:%d", rs.prefix, userID)
}

func (rs *RedisStore) ticketsKey(userID int) string {
	return fmt.Sprintf("%s:user:%d:tickets", rs.prefix, userID)
}

// Available reports whether the store is reachable right now
func (rs *RedisStore) Available(ctx context.Context) bool {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		log.Printf("[datastore] redis unavailable: %v", err)
		return false
	}
	return true
}

// GetUser retrieves a user document
func (rs *RedisStore) GetUser(ctx context.Context, userID int) (*User, error) {
	data, err := rs.client.Get(ctx, rs.userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user document: %v", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user document: %v", err)
	}
	return &user, nil
}

// GetTickets retrieves the ticket documents for a user, newest first
func (rs *RedisStore) GetTickets(ctx context.Context, userID int) ([]Ticket, error) {
	data, err := rs.client.Get(ctx, rs.ticketsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []Ticket{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket documents: %v", err)
	}

	var tickets []Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, fmt.Errorf("failed to decode ticket documents: %v", err)
	}
	return tickets, nil
}

// Seed writes the demo users and tickets as documents
func (rs *RedisStore) Seed(ctx context.Context) error {
	for _, user := range sampleUsers() {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to encode user: %v", err)
		}
		if err := rs.client.Set(ctx, rs.userKey(user.ID), data, 0).Err(); err != nil {
			return fmt.Errorf("failed to seed user %d: %v", user.ID, err)
		}

		var tickets []Ticket
		for _, t := range sampleTickets() {
			if t.UserID == user.ID {
				tickets = append(tickets, t)
			}
		}
		data, err = json.Marshal(tickets)
		if err != nil {
			return fmt.Errorf("failed to encode tickets: %v", err)
		}
		if err := rs.client.Set(ctx, rs.ticketsKey(user.ID), data, 0).Err(); err != nil {
			return fmt.Errorf("failed to seed tickets for user %d: %v", user.ID, err)
		}
	}

	log.Printf("[datastore] seeded redis document store")
	return nil
}

// Close releases the underlying connection pool
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
