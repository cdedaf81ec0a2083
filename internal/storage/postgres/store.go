// Package postgres implements the storage interfaces on gorm.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"gorm.io/gorm"
)

type QuizStore struct {
	db *gorm.DB
}

func NewQuizStore(db *gorm.DB) *QuizStore {
	return &QuizStore{db: db}
}

func (s *QuizStore) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := s.db.WithContext(ctx).Create(quiz).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

func (s *QuizStore) List(ctx context.Context, scope storage.Scope, userID string) ([]models.Quiz, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if scope == storage.ScopeLocal {
		query = query.Where("user_id = ?", userID)
	}

	var quizzes []models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (s *QuizStore) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return &quiz, nil
}

func (s *QuizStore) IncrementPlays(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("id = ?", id).
		UpdateColumn("plays", gorm.Expr("plays + 1"))
	if result.Error != nil {
		return fmt.Errorf("increment plays: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type ResultStore struct {
	db *gorm.DB
}

func NewResultStore(db *gorm.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Insert(ctx context.Context, result *models.QuizResult) error {
	if err := s.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByQuiz(ctx context.Context, quizID string) ([]models.QuizResult, error) {
	var results []models.QuizResult
	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// activityRow is the raw join row; outcomes come back as the quiz's JSONB
// document and are resolved to title/image in Go.
type activityRow struct {
	models.QuizResult
	QuizTitle  string `gorm:"column:quiz_title"`
	Outcomes   []byte `gorm:"column:outcomes"`
	Username   string `gorm:"column:username"`
	AvatarText string `gorm:"column:avatar_text"`
}

func (s *ResultStore) ListActivity(ctx context.Context, ownerUserID string, limit int) ([]models.ActivityEntry, error) {
	var rows []activityRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT r.id, r.quiz_id, r.outcome_id, r.user_id, r.created_at,
		       q.title AS quiz_title, q.outcomes AS outcomes,
		       COALESCE(p.username, '') AS username,
		       COALESCE(p.avatar_text, '') AS avatar_text
		FROM quiz_results r
		JOIN quizzes q ON q.id = r.quiz_id
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE q.user_id = ?
		ORDER BY r.created_at DESC
		LIMIT ?`, ownerUserID, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	entries := make([]models.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		entry := models.ActivityEntry{
			QuizResult:    row.QuizResult,
			QuizTitle:     row.QuizTitle,
			OutcomeTitle:  "Unknown",
			OutcomeImage:  "❓",
			TakerUsername: row.Username,
			TakerAvatar:   row.AvatarText,
		}
		if entry.TakerUsername == "" {
			entry.TakerUsername = "Anonymous"
		}
		var outcomes []models.Outcome
		if err := json.Unmarshal(row.Outcomes, &outcomes); err == nil {
			for _, o := range outcomes {
				if o.ID == row.OutcomeID {
					entry.OutcomeTitle = o.Title
					entry.OutcomeImage = o.Image
					break
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

func (s *ProfileStore) Insert(ctx context.Context, profile *models.Profile) error {
	err := s.db.WithContext(ctx).Create(profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return storage.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
