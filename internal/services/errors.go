package services

import (
	"errors"

	"github.com/isdelr/todo-be/internal/common"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// AuthErrorKind classifies why a credential check failed.
type AuthErrorKind string

const (
	AuthUserNotFound    AuthErrorKind = "USER_NOT_FOUND"
	AuthInvalidPassword AuthErrorKind = "INVALID_PASSWORD"
	AuthInvalidData     AuthErrorKind = "INVALID_DATA"
	AuthServerError     AuthErrorKind = "SERVER_ERROR"
)

var authMessages = map[AuthErrorKind]string{
	AuthUserNotFound:    "Utilisateur introuvable",
	AuthInvalidPassword: "Mot de passe incorrect",
	AuthInvalidData:     "Données invalides",
	AuthServerError:     "Erreur serveur",
}

// AuthError is returned by Authenticate.
type AuthError struct {
	Kind AuthErrorKind
	Err  error // underlying cause, never shown to clients
}

func (e *AuthError) Error() string {
	return authMessages[e.Kind]
}

// Message is the client-facing description of the failure.
func (e *AuthError) Message() string {
	return authMessages[e.Kind]
}

// Unwrap exposes the taxonomy kind so callers can use common.HTTPStatusFromError.
func (e *AuthError) Unwrap() []error {
	var kind error
	switch e.Kind {
	case AuthUserNotFound, AuthInvalidPassword:
		kind = common.ErrUnauthorized
	case AuthInvalidData:
		kind = common.ErrValidation
	default:
		kind = common.ErrInternal
	}
	if e.Err != nil {
		return []error{kind, e.Err}
	}
	return []error{kind}
}

const (
	MsgDuplicateEmail = "Un compte avec cet email existe déjà"
	MsgTodoNotFound   = "Todo non trouvé"
)

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
