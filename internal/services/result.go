package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrelokusa/PopQuiz/internal/models"
	"github.com/mrelokusa/PopQuiz/internal/scoring"
	"github.com/mrelokusa/PopQuiz/internal/storage"

	"github.com/google/uuid"
)

// Pick is one (question, chosen answer) pair from a play session, in the
// order the player answered.
type Pick struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// PlayOutcome is what a finished play session resolves to. Stats is nil
// when the statistics read failed; the outcome is still valid.
type PlayOutcome struct {
	Outcome models.Outcome     `json:"outcome"`
	Stats   *scoring.QuizStats `json:"stats,omitempty"`
}

// ActivityBroadcaster pushes an activity event to a quiz owner's live feed.
// Implemented by the websocket hub; nil-safe at the call site.
type ActivityBroadcaster interface {
	BroadcastToUser(userID string, msgType string, data interface{})
}

type ResultService struct {
	quizzes *QuizService
	results storage.ResultStore
	hub     ActivityBroadcaster
}

func NewResultService(quizzes *QuizService, results storage.ResultStore, hub ActivityBroadcaster) *ResultService {
	return &ResultService{quizzes: quizzes, results: results, hub: hub}
}

// Play resolves a finished session: tally votes in answered order, pick the
// winner, record the result, bump the play counter, and compute statistics.
//
// The result insert and the counter increment are two independent writes;
// a failure of either is logged and never blocks the other (the counter is
// at-least-once, not exactly-once). A statistics failure degrades silently:
// the outcome is returned without stats.
func (s *ResultService) Play(ctx context.Context, quizID string, picks []Pick, userID *string) (*PlayOutcome, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Outcomes) == 0 {
		return nil, scoring.ErrEmptyOutcomeSet
	}

	tally := scoring.NewTally()
	for _, pick := range picks {
		if outcomeID := outcomeFor(quiz, pick); outcomeID != "" {
			tally.Vote(outcomeID)
		} else {
			slog.Debug("ignoring vote with unknown question/answer",
				"quiz", quizID, "question", pick.QuestionID, "answer", pick.AnswerID)
		}
	}

	winnerID, err := tally.Winner(quiz.Outcomes)
	if err != nil {
		return nil, err
	}
	winner := quiz.OutcomeByID(winnerID)
	if winner == nil {
		// A vote for an undeclared outcome won; fall back like the player UI.
		winner = &quiz.Outcomes[0]
	}

	result := &models.QuizResult{
		ID:        uuid.NewString(),
		QuizID:    quiz.ID,
		OutcomeID: winner.ID,
		UserID:    userID,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.results.Insert(ctx, result); err != nil {
		slog.Error("result insert failed", "quiz", quizID, "err", err)
	}
	if err := s.quizzes.IncrementPlays(ctx, quiz.ID); err != nil {
		slog.Error("play counter increment failed", "quiz", quizID, "err", err)
	}

	outcome := &PlayOutcome{Outcome: *winner}
	rows, err := s.results.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		slog.Warn("stats fetch failed, returning outcome without stats", "quiz", quizID, "err", err)
	} else {
		stats := scoring.ComputeStats(rows, winner.ID, quiz.Outcomes)
		outcome.Stats = &stats
	}

	if s.hub != nil && quiz.UserID != nil {
		s.hub.BroadcastToUser(*quiz.UserID, "quiz_played", map[string]interface{}{
			"quiz_id":       quiz.ID,
			"quiz_title":    quiz.Title,
			"outcome_id":    winner.ID,
			"outcome_title": winner.Title,
			"outcome_image": winner.Image,
		})
	}
	return outcome, nil
}

// StatsFor recomputes statistics for a quiz on demand. playerOutcomeID may
// be empty when only the aggregate view is wanted.
func (s *ResultService) StatsFor(ctx context.Context, quizID, playerOutcomeID string) (*scoring.QuizStats, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	rows, err := s.results.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	stats := scoring.ComputeStats(rows, playerOutcomeID, quiz.Outcomes)
	return &stats, nil
}

// Activity returns the latest results recorded for quizzes the user owns.
func (s *ResultService) Activity(ctx context.Context, ownerUserID string) ([]models.ActivityEntry, error) {
	return s.results.ListActivity(ctx, ownerUserID, 20)
}

func outcomeFor(quiz *models.Quiz, pick Pick) string {
	for _, q := range quiz.Questions {
		if q.ID != pick.QuestionID {
			continue
		}
		for _, a := range q.Answers {
			if a.ID == pick.AnswerID {
				return a.OutcomeID
			}
		}
	}
	return ""
}
