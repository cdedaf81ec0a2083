package services

import (
	"errors"
	"strings"

	"github.com/mrelokusa/PopQuiz/internal/validation"
)

// ValidationError carries the per-field messages from a failed input check.
// Always recoverable; handlers surface it inline, never as a 5xx.
type ValidationError struct {
	Errors []validation.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
