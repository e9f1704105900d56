package middleware

import (
	"context"
	"net/http"

	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/http/respond"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth verifies the bearer token on the request and injects the
// authenticated user id into the context. Handlers behind it must take the
// identity from UserID, never from the client payload.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		credential, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "no token provided")
			return
		}
		userID, err := tokens.Verify(credential)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID extracts the authenticated user id placed by RequireAuth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
