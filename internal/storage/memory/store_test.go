package memory

import (
	"context"
	"testing"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	owner := "user-1"
	quiz := models.Quiz{
		ID:          "quiz-1",
		Title:       "What Sandwich Are You?",
		Description: "Find out now",
		Author:      "PopBot",
		UserID:      &owner,
		CreatedAt:   1700000000000,
		Outcomes:    []models.Outcome{{ID: "o1", Title: "Club", Description: "Layered", Image: "🥪"}},
		Questions: []models.Question{
			{ID: "q1", Text: "Friday night plans?", Answers: []models.Answer{
				{ID: "a1", Text: "Stay in", OutcomeID: "o1"},
			}},
		},
	}
	require.NoError(t, store.Create(ctx, &quiz))

	got, err := store.GetByID(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, quiz, *got)

	assert.ErrorIs(t, store.Create(ctx, &quiz), storage.ErrAlreadyExists)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestQuizListScopesAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()

	mine := "user-1"
	theirs := "user-2"
	require.NoError(t, store.Create(ctx, &models.Quiz{ID: "a", Title: "Old", UserID: &mine, CreatedAt: 100}))
	require.NoError(t, store.Create(ctx, &models.Quiz{ID: "b", Title: "New", UserID: &theirs, CreatedAt: 300}))
	require.NoError(t, store.Create(ctx, &models.Quiz{ID: "c", Title: "Middle", UserID: &mine, CreatedAt: 200}))

	global, err := store.List(ctx, storage.ScopeGlobal, "")
	require.NoError(t, err)
	require.Len(t, global, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{global[0].ID, global[1].ID, global[2].ID})

	local, err := store.List(ctx, storage.ScopeLocal, mine)
	require.NoError(t, err)
	require.Len(t, local, 2)
	assert.Equal(t, "c", local[0].ID)
}

func TestIncrementPlays(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStore()
	require.NoError(t, store.Create(ctx, &models.Quiz{ID: "a", Title: "Quiz"}))

	require.NoError(t, store.IncrementPlays(ctx, "a"))
	require.NoError(t, store.IncrementPlays(ctx, "a"))
	got, err := store.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Plays)

	assert.ErrorIs(t, store.IncrementPlays(ctx, "missing"), storage.ErrNotFound)
}

func TestProfileInsertDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	require.NoError(t, store.Insert(ctx, &models.Profile{ID: "u1", Username: "alice"}))
	assert.ErrorIs(t, store.Insert(ctx, &models.Profile{ID: "u1", Username: "alice2"}), storage.ErrAlreadyExists)
	assert.Equal(t, 1, store.Count())
}

func TestActivityJoinsQuizAndProfile(t *testing.T) {
	ctx := context.Background()
	quizzes := NewQuizStore()
	profiles := NewProfileStore()
	results := NewResultStore(quizzes, profiles)

	owner := "owner-1"
	taker := "taker-1"
	require.NoError(t, quizzes.Create(ctx, &models.Quiz{
		ID: "quiz-1", Title: "Sandwich", UserID: &owner,
		Outcomes: []models.Outcome{{ID: "o1", Title: "Club", Image: "🥪"}},
	}))
	require.NoError(t, profiles.Insert(ctx, &models.Profile{ID: taker, Username: "bob", AvatarText: "🤖"}))

	require.NoError(t, results.Insert(ctx, &models.QuizResult{ID: "r1", QuizID: "quiz-1", OutcomeID: "o1", UserID: &taker, CreatedAt: 2}))
	require.NoError(t, results.Insert(ctx, &models.QuizResult{ID: "r2", QuizID: "quiz-1", OutcomeID: "nope", CreatedAt: 1}))

	entries, err := results.ListActivity(ctx, owner, 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "bob", entries[0].TakerUsername)
	assert.Equal(t, "Club", entries[0].OutcomeTitle)
	assert.Equal(t, "🥪", entries[0].OutcomeImage)

	// Anonymous play with an outcome id that no longer resolves.
	assert.Equal(t, "Anonymous", entries[1].TakerUsername)
	assert.Equal(t, "Unknown", entries[1].OutcomeTitle)
}
