// Package redis persists tour sessions in Redis so playback survives
// restarts of the API process.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/tourforge/tourforge/pkg/domain"
)

// Store implements ports.SessionStore using Redis. Sessions live under a
// key prefix; a per-user ZSET scored by start time backs ListByUser.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for sessions. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "tourforge:session:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) userKey(userID string) string {
	return s.prefix + "user:" + userID
}

// Save persists the session and indexes it under its user.
func (s *Store) Save(ctx context.Context, sess *domain.TourSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(sess.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.userKey(sess.UserID), backend.Z{
		Score:  float64(sess.DateStarted.UnixNano()),
		Member: sess.ID,
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, s.userKey(sess.UserID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}
	return nil
}

// Load retrieves a session by ID.
func (s *Store) Load(ctx context.Context, id string) (*domain.TourSession, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session from redis: %w", err)
	}

	var sess domain.TourSession
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	sess, err := s.Load(ctx, id)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.userKey(sess.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// ListByUser returns the user's sessions, most recent first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	ids, err := s.client.ZRevRange(ctx, s.userKey(userID), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions from redis: %w", err)
	}

	sessions := make([]*domain.TourSession, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Load(ctx, id)
		if err != nil {
			if err == domain.ErrSessionNotFound {
				// Expired session still in the index; skip it.
				continue
			}
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}
