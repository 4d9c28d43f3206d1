package errors

import (
	"github.com/Behyna/bank-webhooks/internal/api/validator"
	"github.com/Behyna/bank-webhooks/internal/constants"
)

// Error is a rejection raised by the HTTP layer itself, before any service runs.
type Error struct {
	Code   string
	Fields []validator.FieldError
}

func New(code string) *Error {
	return &Error{Code: code}
}

// Validation wraps payload field errors into a VALIDATION_FAILED rejection.
func Validation(fields []validator.FieldError) *Error {
	return &Error{Code: constants.ErrCodeValidationFailed, Fields: fields}
}

func (e *Error) Error() string {
	return constants.GetErrorMessage(e.Code)
}
