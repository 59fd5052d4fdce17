package auth

import (
	"context"
	"net/http"

	"github.com/isdelr/todo-be/internal/common"
	"github.com/isdelr/todo-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserFinder loads a user by id.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// Gate resolves the user behind a request's session token.
type Gate struct {
	sessions *Sessions
	users    UserFinder
}

// NewGate creates a Gate.
func NewGate(sessions *Sessions, users UserFinder) *Gate {
	return &Gate{sessions: sessions, users: users}
}

// CurrentUser decodes the session credential of r. It returns false when the
// token is missing, expired, malformed or names a user that no longer exists.
func (g *Gate) CurrentUser(r *http.Request) (models.User, bool) {
	tokenStr, err := g.sessions.TokenFromRequest(r)
	if err != nil {
		return models.User{}, false
	}
	claims, err := g.sessions.Parse(tokenStr)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected session token")
		return models.User{}, false
	}
	user, err := g.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User from token not found")
		return models.User{}, false
	}
	return user, true
}

// RequireUser rejects requests without a valid session with 401 and passes
// the user down via context otherwise.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := g.CurrentUser(r)
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, common.MsgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}
