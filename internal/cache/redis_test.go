package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *FeedCache {
	t.Helper()
	srv := miniredis.RunT(t)
	c := New(srv.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestFeedRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, ok := c.GetFeed(ctx)
	assert.False(t, ok, "empty cache should miss")

	feed := []models.Quiz{{ID: "quiz-1", Title: "Sandwich", Plays: 3}}
	c.SetFeed(ctx, feed)

	got, ok := c.GetFeed(ctx)
	require.True(t, ok)
	assert.Equal(t, feed, got)

	c.InvalidateFeed(ctx)
	_, ok = c.GetFeed(ctx)
	assert.False(t, ok, "invalidated cache should miss")
}

func TestNilCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	var c *FeedCache

	_, ok := c.GetFeed(ctx)
	assert.False(t, ok)
	c.SetFeed(ctx, nil)
	c.InvalidateFeed(ctx)
	assert.NoError(t, c.Close())
}
