package validation

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mrelokusa/PopQuiz/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips angle brackets", "<script>alert</script>", "scriptalert/script"},
		{"strips javascript scheme", "JaVaScRiPt:alert(1)", "alert(1)"},
		{"truncates long input", strings.Repeat("a", 1500), strings.Repeat("a", 1000)},
		{"leaves plain text alone", "My Quiz", "My Quiz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeTruncatesOnRuneBoundary(t *testing.T) {
	input := strings.Repeat("a", 999) + "日本語"
	got := Sanitize(input)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 1000, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("a", 999)+"日", got)
}

func TestQuizTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantMsg string
	}{
		{"valid", "What Sandwich Are You?", ""},
		{"empty", "", "Quiz title is required"},
		{"too short", "Hi", "Quiz title must be at least 3 characters"},
		{"too long", strings.Repeat("x", 101), "Quiz title must be less than 100 characters"},
		{"script tag sanitized then valid", "<script>", ""},
		{"multibyte counted as characters", strings.Repeat("é", 60), ""},
		{"multibyte too long", strings.Repeat("é", 101), "Quiz title must be less than 100 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := QuizTitle(tt.title)
			if tt.wantMsg == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, "title", errs[0].Field)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
		})
	}
}

func TestUsername(t *testing.T) {
	assert.Empty(t, Username("pop_quiz_42"))
	assert.NotEmpty(t, Username("ab"))
	assert.NotEmpty(t, Username("way-too-fancy!"))
	assert.NotEmpty(t, Username(strings.Repeat("a", 21)))
	assert.Equal(t, "Username is required", FirstError(Username(""), "username"))
}

func TestEmail(t *testing.T) {
	assert.Empty(t, Email("user@example.com"))
	assert.Empty(t, Email("USER@Example.COM"))
	assert.NotEmpty(t, Email("not-an-email"))
	assert.NotEmpty(t, Email("two words@example.com"))
	assert.NotEmpty(t, Email(""))
}

func TestAnswerText(t *testing.T) {
	assert.Empty(t, AnswerText("A"))
	assert.NotEmpty(t, AnswerText(""))
	assert.NotEmpty(t, AnswerText(strings.Repeat("a", 101)))
}

func TestQuiz(t *testing.T) {
	valid := &models.Quiz{
		Title:       "What Sandwich Are You?",
		Description: "Find out now",
		Outcomes: []models.Outcome{
			{ID: "o1", Title: "Club", Description: "Reliable and layered"},
		},
		Questions: []models.Question{
			{ID: "q1", Text: "Friday night plans?", Answers: []models.Answer{
				{ID: "a1", Text: "Stay in", OutcomeID: "o1"},
			}},
		},
	}
	assert.Empty(t, Quiz(valid))

	t.Run("zero outcomes rejected", func(t *testing.T) {
		q := *valid
		q.Outcomes = nil
		q.Questions = nil
		errs := Quiz(&q)
		assert.Equal(t, "Quiz must declare at least one outcome", FirstError(errs, "outcomes"))
	})

	t.Run("dangling outcome reference rejected", func(t *testing.T) {
		q := *valid
		q.Questions = []models.Question{
			{ID: "q1", Text: "Friday night plans?", Answers: []models.Answer{
				{ID: "a1", Text: "Stay in", OutcomeID: "nope"},
			}},
		}
		errs := Quiz(&q)
		assert.Equal(t, "Answer references an unknown outcome", FirstError(errs, "answers"))
	})

	t.Run("question without answers rejected", func(t *testing.T) {
		q := *valid
		q.Questions = []models.Question{{ID: "q1", Text: "Friday night plans?"}}
		errs := Quiz(&q)
		assert.Equal(t, "Each question needs at least one answer", FirstError(errs, "answers"))
	})
}
