// Package storage defines the store interfaces the services are built
// against. Implementations live in subpackages: postgres for production,
// memory for tests and offline play.
package storage

import (
	"context"
	"errors"

	"github.com/mrelokusa/PopQuiz/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when an insert hits an existing key.
	// Callers of ProfileStore.Insert treat it as a non-fatal outcome.
	ErrAlreadyExists = errors.New("record already exists")
)

// Scope selects whether a quiz listing is the public feed or restricted to
// the current identity's own creations.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

type QuizStore interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	// List returns quizzes ordered by creation time descending. ScopeLocal
	// filters by owner.
	List(ctx context.Context, scope Scope, userID string) ([]models.Quiz, error)
	GetByID(ctx context.Context, id string) (*models.Quiz, error)
	// IncrementPlays bumps the play counter by exactly one.
	IncrementPlays(ctx context.Context, id string) error
}

type ResultStore interface {
	Insert(ctx context.Context, result *models.QuizResult) error
	// ListByQuiz returns all results for a quiz in recorded order.
	ListByQuiz(ctx context.Context, quizID string) ([]models.QuizResult, error)
	// ListActivity returns the latest results for quizzes owned by the given
	// user, joined with quiz title/outcomes and taker profile.
	ListActivity(ctx context.Context, ownerUserID string, limit int) ([]models.ActivityEntry, error)
}

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Insert(ctx context.Context, profile *models.Profile) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
