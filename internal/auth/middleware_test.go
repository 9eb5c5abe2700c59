package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMiddleware(t *testing.T) {
	tokens := NewTokens(testKey, testIssuer, testAudience)
	userID := uuid.New()
	session, err := tokens.Issue(Subject{ID: userID})
	require.NoError(t, err)

	var seen uuid.UUID
	handler := Middleware(tokens, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"NoCredentials", func(r *http.Request) {}, http.StatusUnauthorized},
		{"Bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.Token) }, http.StatusNoContent},
		{"LowercaseScheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+session.Token) }, http.StatusNoContent},
		{"Cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: session.Token}) }, http.StatusNoContent},
		{"BadSignature", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.Token+"x") }, http.StatusUnauthorized},
		{"WrongScheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/fridgeitems", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusNoContent {
				assert.Equal(t, userID, seen)
			} else {
				assert.Equal(t, uuid.Nil, seen, "handler must not run")
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestSessionCookie(t *testing.T) {
	tokens := NewTokens(testKey, testIssuer, testAudience)
	session, err := tokens.Issue(Subject{ID: uuid.New()})
	require.NoError(t, err)

	for _, secure := range []bool{true, false} {
		rec := httptest.NewRecorder()
		SetSessionCookie(rec, session, secure)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, CookieName, c.Name)
		assert.Equal(t, session.Token, c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, secure, c.Secure)
	}

	rec := httptest.NewRecorder()
	ClearSessionCookie(rec, false)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
