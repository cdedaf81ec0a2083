package services

import (
	"context"
	"errors"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/cache"
	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"
	"github.com/mrelokusa/PopQuiz/internal/validation"

	"github.com/google/uuid"
)

// ErrOwnerRequired is returned for a local-scope listing without an identity.
var ErrOwnerRequired = errors.New("local scope requires a signed-in user")

type QuizService struct {
	quizzes storage.QuizStore
	feed    *cache.FeedCache
}

// NewQuizService wraps the quiz store. feed may be nil to disable caching.
func NewQuizService(quizzes storage.QuizStore, feed *cache.FeedCache) *QuizService {
	return &QuizService{quizzes: quizzes, feed: feed}
}

// Create validates and persists a new quiz. Server-assigned fields (id,
// timestamp, play counter) are set here; client-sent values are ignored.
func (s *QuizService) Create(ctx context.Context, quiz *models.Quiz) error {
	if errs := validation.Quiz(quiz); validation.HasErrors(errs) {
		return &ValidationError{Errors: errs}
	}

	quiz.ID = uuid.NewString()
	quiz.Title = validation.Sanitize(quiz.Title)
	quiz.Description = validation.Sanitize(quiz.Description)
	quiz.CreatedAt = time.Now().UnixMilli()
	quiz.Plays = 0

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return err
	}
	s.feed.InvalidateFeed(ctx)
	return nil
}

// List returns the quiz feed for a scope, newest first. The global feed is
// served read-through from the cache when one is configured.
func (s *QuizService) List(ctx context.Context, scope storage.Scope, userID string) ([]models.Quiz, error) {
	if scope == storage.ScopeLocal {
		if userID == "" {
			return nil, ErrOwnerRequired
		}
		return s.quizzes.List(ctx, scope, userID)
	}

	if quizzes, ok := s.feed.GetFeed(ctx); ok {
		return quizzes, nil
	}
	quizzes, err := s.quizzes.List(ctx, storage.ScopeGlobal, "")
	if err != nil {
		return nil, err
	}
	s.feed.SetFeed(ctx, quizzes)
	return quizzes, nil
}

func (s *QuizService) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	return s.quizzes.GetByID(ctx, id)
}

// IncrementPlays bumps a quiz's play counter and drops the cached feed so
// the new count is visible.
func (s *QuizService) IncrementPlays(ctx context.Context, id string) error {
	if err := s.quizzes.IncrementPlays(ctx, id); err != nil {
		return err
	}
	s.feed.InvalidateFeed(ctx)
	return nil
}
