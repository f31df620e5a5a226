package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

// CurrentUser returns the authenticated user stored by the Authenticator,
// or nil outside authenticated routes.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(currentUserKey).(*models.User)
	return u
}

// Authenticator validates the Bearer access token and loads the account it
// refers to into the request context. Requests without a valid token get 401.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			RespondWithJSON(w, http.StatusUnauthorized, map[string]string{"error": msgUnauthorized})
			return
		}

		user, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			code, message := errorStatus(err)
			RespondWithJSON(w, code, map[string]string{"error": message})
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated requests whose account lacks the admin
// role. Must run after Authenticator.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil || !user.IsAdmin() {
			RespondWithJSON(w, http.StatusForbidden, map[string]string{"error": msgForbidden})
			return
		}
		next.ServeHTTP(w, r)
	})
}
