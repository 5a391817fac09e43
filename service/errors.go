package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the service layer. Callers branch on them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
	ErrRender     = errors.New("render error")
)

// Error carries a human-readable message together with its kind and cause
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func validationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func storageError(err error, message string) error {
	return &Error{Kind: ErrStorage, Message: message, Err: err}
}

func renderError(err error, message string) error {
	return &Error{Kind: ErrRender, Message: message, Err: err}
}
