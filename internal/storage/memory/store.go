// Package memory implements the storage interfaces in process memory. It
// backs tests and the offline terminal player, and mirrors the semantics of
// the postgres implementation (ordering, sentinel errors).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"
)

type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]models.Quiz
}

func NewQuizStore() *QuizStore {
	return &QuizStore{quizzes: make(map[string]models.Quiz)}
}

func (s *QuizStore) Create(_ context.Context, quiz *models.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quiz.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *QuizStore) List(_ context.Context, scope storage.Scope, userID string) ([]models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quizzes := make([]models.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		if scope == storage.ScopeLocal && (q.UserID == nil || *q.UserID != userID) {
			continue
		}
		quizzes = append(quizzes, q)
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt > quizzes[j].CreatedAt
	})
	return quizzes, nil
}

func (s *QuizStore) GetByID(_ context.Context, id string) (*models.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &q, nil
}

func (s *QuizStore) IncrementPlays(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quizzes[id]
	if !ok {
		return storage.ErrNotFound
	}
	q.Plays++
	s.quizzes[id] = q
	return nil
}

type ResultStore struct {
	mu      sync.RWMutex
	results []models.QuizResult

	quizzes  *QuizStore
	profiles *ProfileStore
}

// NewResultStore joins against the given quiz and profile stores for the
// activity feed. Either may be nil when the feed is not exercised.
func NewResultStore(quizzes *QuizStore, profiles *ProfileStore) *ResultStore {
	return &ResultStore{quizzes: quizzes, profiles: profiles}
}

func (s *ResultStore) Insert(_ context.Context, result *models.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *ResultStore) ListByQuiz(_ context.Context, quizID string) ([]models.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []models.QuizResult
	for _, r := range s.results {
		if r.QuizID == quizID {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (s *ResultStore) ListActivity(ctx context.Context, ownerUserID string, limit int) ([]models.ActivityEntry, error) {
	s.mu.RLock()
	results := make([]models.QuizResult, len(s.results))
	copy(results, s.results)
	s.mu.RUnlock()

	// Newest first, as the postgres query orders.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt > results[j].CreatedAt
	})

	var entries []models.ActivityEntry
	for _, r := range results {
		if len(entries) == limit {
			break
		}
		quiz, err := s.quizzes.GetByID(ctx, r.QuizID)
		if err != nil || quiz.UserID == nil || *quiz.UserID != ownerUserID {
			continue
		}

		entry := models.ActivityEntry{
			QuizResult:    r,
			QuizTitle:     quiz.Title,
			OutcomeTitle:  "Unknown",
			OutcomeImage:  "❓",
			TakerUsername: "Anonymous",
		}
		if o := quiz.OutcomeByID(r.OutcomeID); o != nil {
			entry.OutcomeTitle = o.Title
			entry.OutcomeImage = o.Image
		}
		if r.UserID != nil && s.profiles != nil {
			if p, err := s.profiles.GetByID(ctx, *r.UserID); err == nil {
				entry.TakerUsername = p.Username
				entry.TakerAvatar = p.AvatarText
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]models.Profile)}
}

func (s *ProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *ProfileStore) Insert(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.ID]; ok {
		return storage.ErrAlreadyExists
	}
	s.profiles[profile.ID] = *profile
	return nil
}

// Count reports stored rows; used by tests asserting idempotence.
func (s *ProfileStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return storage.ErrAlreadyExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}
