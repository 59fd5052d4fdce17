package common

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrNotFound     = errors.New("requested resource not found")
	ErrConflict     = errors.New("resource conflict") // e.g., email already registered
	ErrInternal     = errors.New("internal server error")
)

// Messages shown to API clients.
const (
	MsgInternal     = "Une erreur interne est survenue"
	MsgUnauthorized = "Non autorisé"
	MsgNotFound     = "Ressource non trouvée"
	MsgInvalidJSON  = "Corps de requête JSON invalide"
	MsgInvalidData  = "Données invalides"
)

// Error pairs an error kind with the message a client is allowed to see.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Validation returns an ErrValidation carrying msg.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// NotFound returns an ErrNotFound carrying msg.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// Conflict returns an ErrConflict carrying msg.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Unauthorized returns an ErrUnauthorized carrying msg.
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text a client may see for err. Anything that is
// not a known kind collapses to a generic message.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && !errors.Is(appErr.Kind, ErrInternal) {
		return appErr.Message
	}
	switch {
	case errors.Is(err, ErrUnauthorized):
		return MsgUnauthorized
	case errors.Is(err, ErrNotFound):
		return MsgNotFound
	case errors.Is(err, ErrValidation):
		return MsgInvalidData
	}
	return MsgInternal
}
