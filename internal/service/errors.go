package service

import (
	"errors"

	"github.com/Skotchmaster/wine_catalog/internal/validation"
)

// Error kinds. Everything that is not one of these is an internal failure.
var (
	ErrValidation         = validation.ErrInvalid
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrUploadMissing      = errors.New("upload missing")
)

// Error is a failure of a known kind with a message safe to show the caller.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds a failure of the given kind. The message is shown to the caller.
func NewError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}
