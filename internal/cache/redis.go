// Package cache provides a small Redis-backed cache for the public quiz
// feed. The cache is optional: a nil *FeedCache is a valid no-op.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"

	"github.com/redis/go-redis/v9"
)

const feedKey = "popquiz:feed:global"

// DefaultFeedTTL bounds staleness of the public feed between invalidations.
const DefaultFeedTTL = 30 * time.Second

type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *FeedCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &FeedCache{client: client, ttl: ttl}
}

// GetFeed returns the cached global feed, or ok=false on miss or any error.
// Cache errors never propagate; the caller falls through to the store.
func (c *FeedCache) GetFeed(ctx context.Context) ([]models.Quiz, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("feed cache read failed", "err", err)
		}
		return nil, false
	}
	var quizzes []models.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		slog.Warn("feed cache decode failed", "err", err)
		return nil, false
	}
	return quizzes, true
}

func (c *FeedCache) SetFeed(ctx context.Context, quizzes []models.Quiz) {
	if c == nil {
		return
	}
	data, err := json.Marshal(quizzes)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, feedKey, data, c.ttl).Err(); err != nil {
		slog.Warn("feed cache write failed", "err", err)
	}
}

// InvalidateFeed drops the cached feed after a write that changes it
// (new quiz, play counter bump).
func (c *FeedCache) InvalidateFeed(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		slog.Warn("feed cache invalidate failed", "err", err)
	}
}

func (c *FeedCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
