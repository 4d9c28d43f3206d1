package service

import (
	"errors"

	"github.com/Behyna/bank-webhooks/internal/constants"
)

var (
	ErrSourceNotFound          = errors.New("SOURCE_NOT_FOUND")
	ErrSourceAlreadyAssociated = errors.New("SOURCE_ALREADY_ASSOCIATED")
	ErrAssociationNotFound     = errors.New("ASSOCIATION_NOT_FOUND")
	ErrParseErrorNotFound      = errors.New("PARSE_ERROR_NOT_FOUND")
	ErrNoUsersConfigured       = errors.New("NO_USERS_CONFIGURED")
	ErrParseFailed             = errors.New("PARSE_FAILED")
	ErrDatabase                = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	if e.Cause == nil {
		return e.Code
	}
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

func databaseError(err error) error {
	return NewServiceError(constants.ErrCodeDatabase, errors.Join(ErrDatabase, err))
}
