package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"snapgram-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(tokens TokenVerifier) http.Handler {
	return AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-User-ID", GetUserID(r.Context()))
		w.Write(body)
	}))
}

func TestAuthMiddleware(t *testing.T) {
	tokens := services.NewTokenService("access", "refresh")
	creds, err := tokens.IssueCredentials("user-1")
	require.NoError(t, err)
	handler := protected(tokens)

	t.Run("bearer access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Header().Get("X-User-ID"))
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "UNAUTHORIZED", body.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("refresh token in place of access token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+creds.RefreshToken)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("refresh token in body is accepted and body is preserved", func(t *testing.T) {
		payload := `{"refreshToken":"` + creds.RefreshToken + `","caption":"new"}`
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Header().Get("X-User-ID"))
		assert.Equal(t, payload, rec.Body.String())
	})

	t.Run("invalid refresh token in body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"refreshToken":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestValidateWebSocketToken(t *testing.T) {
	tokens := services.NewTokenService("access", "refresh")
	creds, err := tokens.IssueCredentials("user-1")
	require.NoError(t, err)

	id, err := ValidateWebSocketToken(creds.AccessToken, tokens)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	_, err = ValidateWebSocketToken("", tokens)
	assert.Error(t, err)
}
