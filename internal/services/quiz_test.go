package services

import (
	"context"
	"testing"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/cache"
	"github.com/mrelokusa/PopQuiz/internal/storage"
	"github.com/mrelokusa/PopQuiz/internal/storage/memory"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsServerFields(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuizStore()
	svc := NewQuizService(store, nil)

	quiz := sandwichQuiz(nil)
	quiz.ID = "client-chosen"
	quiz.Plays = 9000
	require.NoError(t, svc.Create(ctx, quiz))

	assert.NotEqual(t, "client-chosen", quiz.ID)
	assert.Equal(t, 0, quiz.Plays)
	assert.InDelta(t, time.Now().UnixMilli(), quiz.CreatedAt, 5000)
}

func TestCreateRejectsInvalidQuiz(t *testing.T) {
	ctx := context.Background()
	svc := NewQuizService(memory.NewQuizStore(), nil)

	quiz := sandwichQuiz(nil)
	quiz.Outcomes = nil
	quiz.Questions = nil
	err := svc.Create(ctx, quiz)
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.NotEmpty(t, ve.Errors)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewQuizService(memory.NewQuizStore(), nil)

	quiz := sandwichQuiz(nil)
	require.NoError(t, svc.Create(ctx, quiz))

	got, err := svc.GetByID(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, got.Title)
	assert.Equal(t, quiz.Questions, got.Questions)
	assert.Equal(t, quiz.Outcomes, got.Outcomes)
}

func TestListLocalRequiresOwner(t *testing.T) {
	ctx := context.Background()
	svc := NewQuizService(memory.NewQuizStore(), nil)

	_, err := svc.List(ctx, storage.ScopeLocal, "")
	assert.ErrorIs(t, err, ErrOwnerRequired)
}

func TestGlobalFeedReadThroughCache(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	feed := cache.New(srv.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { feed.Close() })

	store := memory.NewQuizStore()
	svc := NewQuizService(store, feed)

	quiz := sandwichQuiz(nil)
	require.NoError(t, svc.Create(ctx, quiz))

	first, err := svc.List(ctx, storage.ScopeGlobal, "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A play invalidates the cached feed so the new counter is visible.
	require.NoError(t, svc.IncrementPlays(ctx, quiz.ID))
	second, err := svc.List(ctx, storage.ScopeGlobal, "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, second[0].Plays)
}
