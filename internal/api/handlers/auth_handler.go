package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/todo-be/internal/auth"
	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/isdelr/todo-be/internal/services"
	"github.com/isdelr/todo-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, credential checks and the session cookie.
type AuthHandler struct {
	service  services.UserServiceProvider
	sessions *auth.Sessions
	gate     *auth.Gate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, sessions *auth.Sessions, gate *auth.Gate) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions, gate: gate}
}

// AuthErrorResponse is the body returned when a credential check fails.
type AuthErrorResponse struct {
	ErrorType services.AuthErrorKind `json:"errorType"`
	Message   string                 `json:"message"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload models.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, common.MsgInvalidJSON)
		return
	}
	if err := validation.Struct(payload); err != nil {
		common.RespondWithAppError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			log.Info().Str("email", payload.Email).Msg("Registration with existing email")
		} else {
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		}
		common.RespondWithAppError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	common.RespondWithData(w, http.StatusCreated, user.Public(), "Compte créé avec succès")
}

// CheckCredentials reports why a login would fail. Valid credentials get 204
// and no session is created.
func (h *AuthHandler) CheckCredentials(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.verify(w, r); ok {
		w.WriteHeader(http.StatusNoContent)
	}
}

// Login handles user authentication and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, ok := h.verify(w, r)
	if !ok {
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		respondAuthError(w, services.AuthServerError)
		return
	}

	h.sessions.SetCookie(w, token)
	common.RespondWithData(w, http.StatusOK, user.Public(), "Connexion réussie")
}

// Logout discards the client's session cookie. Nothing is revoked server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	common.RespondWithData(w, http.StatusOK, nil, "Déconnexion réussie")
}

// Session returns the user behind the current session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := h.gate.CurrentUser(r)
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, common.MsgUnauthorized)
		return
	}
	common.RespondWithData(w, http.StatusOK, user.Public(), "")
}

// verify decodes and checks a credentials payload, writing the failure
// response itself when it returns false.
func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	var payload models.CredentialsRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondAuthError(w, services.AuthInvalidData)
		return models.User{}, false
	}
	if err := validation.Struct(payload); err != nil {
		respondAuthError(w, services.AuthInvalidData)
		return models.User{}, false
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		var authErr *services.AuthError
		if !errors.As(err, &authErr) {
			authErr = &services.AuthError{Kind: services.AuthServerError, Err: err}
		}
		if authErr.Kind == services.AuthServerError {
			log.Error().Err(err).Str("email", payload.Email).Msg("Credential check failed")
		} else {
			log.Warn().Str("email", payload.Email).Str("reason", string(authErr.Kind)).Msg("Failed authentication attempt")
		}
		respondAuthError(w, authErr.Kind)
		return models.User{}, false
	}
	return user, true
}

func respondAuthError(w http.ResponseWriter, kind services.AuthErrorKind) {
	authErr := &services.AuthError{Kind: kind}
	common.RespondWithJSON(w, common.HTTPStatusFromError(authErr), AuthErrorResponse{
		ErrorType: kind,
		Message:   authErr.Message(),
	})
}
