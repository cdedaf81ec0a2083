// Package validation holds pure, synchronous checks over free-text fields.
// Nothing here touches the network or shared state.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mrelokusa/PopQuiz/internal/models"
)

// FieldError pairs an input field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const maxInputLength = 1000

var (
	jsSchemeRe = regexp.MustCompile(`(?i)javascript:`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
)

// Sanitize trims the input, strips angle brackets and any javascript: scheme
// substring, and truncates to a hard maximum before length checks run. All
// lengths here and below are in characters, not bytes, so multibyte input is
// never cut mid-rune.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = jsSchemeRe.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > maxInputLength {
		s = string([]rune(s)[:maxInputLength])
	}
	return s
}

// runeLen is the character count every range check measures against.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func QuizTitle(title string) []FieldError {
	var errs []FieldError
	s := Sanitize(title)
	switch {
	case s == "":
		errs = append(errs, FieldError{"title", "Quiz title is required"})
	case runeLen(s) < 3:
		errs = append(errs, FieldError{"title", "Quiz title must be at least 3 characters"})
	case runeLen(s) > 100:
		errs = append(errs, FieldError{"title", "Quiz title must be less than 100 characters"})
	}
	return errs
}

func QuizDescription(description string) []FieldError {
	var errs []FieldError
	if s := Sanitize(description); runeLen(s) > 500 {
		errs = append(errs, FieldError{"description", "Description must be less than 500 characters"})
	}
	return errs
}

func QuestionText(text string) []FieldError {
	var errs []FieldError
	s := Sanitize(text)
	switch {
	case s == "":
		errs = append(errs, FieldError{"question", "Question text is required"})
	case runeLen(s) < 5:
		errs = append(errs, FieldError{"question", "Question must be at least 5 characters"})
	case runeLen(s) > 200:
		errs = append(errs, FieldError{"question", "Question must be less than 200 characters"})
	}
	return errs
}

func AnswerText(text string) []FieldError {
	var errs []FieldError
	s := Sanitize(text)
	switch {
	case s == "":
		errs = append(errs, FieldError{"answer", "Answer text is required"})
	case runeLen(s) > 100:
		errs = append(errs, FieldError{"answer", "Answer must be less than 100 characters"})
	}
	return errs
}

func OutcomeTitle(title string) []FieldError {
	var errs []FieldError
	s := Sanitize(title)
	switch {
	case s == "":
		errs = append(errs, FieldError{"outcomeTitle", "Outcome title is required"})
	case runeLen(s) < 2:
		errs = append(errs, FieldError{"outcomeTitle", "Outcome title must be at least 2 characters"})
	case runeLen(s) > 50:
		errs = append(errs, FieldError{"outcomeTitle", "Outcome title must be less than 50 characters"})
	}
	return errs
}

func OutcomeDescription(description string) []FieldError {
	var errs []FieldError
	s := Sanitize(description)
	switch {
	case s == "":
		errs = append(errs, FieldError{"outcomeDescription", "Outcome description is required"})
	case runeLen(s) < 5:
		errs = append(errs, FieldError{"outcomeDescription", "Outcome description must be at least 5 characters"})
	case runeLen(s) > 200:
		errs = append(errs, FieldError{"outcomeDescription", "Outcome description must be less than 200 characters"})
	}
	return errs
}

func Email(email string) []FieldError {
	var errs []FieldError
	s := Sanitize(strings.ToLower(email))
	switch {
	case s == "":
		errs = append(errs, FieldError{"email", "Email is required"})
	case !emailRe.MatchString(s):
		errs = append(errs, FieldError{"email", "Please enter a valid email address"})
	}
	return errs
}

func Username(username string) []FieldError {
	var errs []FieldError
	s := Sanitize(username)
	switch {
	case s == "":
		errs = append(errs, FieldError{"username", "Username is required"})
	case !usernameRe.MatchString(s):
		errs = append(errs, FieldError{"username", "Username must be 3-20 characters and contain only letters, numbers, and underscores"})
	}
	return errs
}

// Quiz validates a whole quiz: every field check plus the structural rules a
// quiz must satisfy before play is possible. Answers referencing an outcome
// id that is not declared are rejected here rather than degrading scoring,
// and a quiz with zero outcomes is invalid.
func Quiz(q *models.Quiz) []FieldError {
	errs := QuizTitle(q.Title)
	errs = append(errs, QuizDescription(q.Description)...)

	if len(q.Outcomes) == 0 {
		errs = append(errs, FieldError{"outcomes", "Quiz must declare at least one outcome"})
	}
	declared := make(map[string]bool, len(q.Outcomes))
	for _, o := range q.Outcomes {
		declared[o.ID] = true
		errs = append(errs, OutcomeTitle(o.Title)...)
		errs = append(errs, OutcomeDescription(o.Description)...)
	}

	for _, question := range q.Questions {
		errs = append(errs, QuestionText(question.Text)...)
		if len(question.Answers) == 0 {
			errs = append(errs, FieldError{"answers", "Each question needs at least one answer"})
		}
		for _, a := range question.Answers {
			errs = append(errs, AnswerText(a.Text)...)
			if !declared[a.OutcomeID] {
				errs = append(errs, FieldError{"answers", "Answer references an unknown outcome"})
			}
		}
	}
	return errs
}

// HasErrors reports whether any check failed.
func HasErrors(errs []FieldError) bool {
	return len(errs) > 0
}

// FirstError returns the first message recorded for a field, or "".
func FirstError(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
