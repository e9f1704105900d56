package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/internal/auth"
)

func newGuardedHandler(t *testing.T, tm *auth.TokenManager) (http.Handler, *int64) {
	t.Helper()
	var seenID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		require.True(t, ok, "user id missing from context")
		seenID = id
		w.WriteHeader(http.StatusOK)
	})
	return RequireAuth(tm, next), &seenID
}

func TestRequireAuthPassesValidToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test", time.Hour)
	handler, seenID := newGuardedHandler(t, tm)

	token, err := tm.Generate(101)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(101), *seenID)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test", time.Hour)
	handler, _ := newGuardedHandler(t, tm)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsTamperedToken(t *testing.T) {
	tm := auth.NewTokenManager("secret", "test", time.Hour)
	other := auth.NewTokenManager("other-secret", "test", time.Hour)
	handler, _ := newGuardedHandler(t, tm)

	token, err := other.Generate(101)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserIDAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	_, ok := UserID(req.Context())
	assert.False(t, ok)
}
