package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "user_id"

const maxAuthBodyBytes = 1 << 20

// TokenVerifier verifies signed credentials
type TokenVerifier interface {
	Verify(token string, class services.TokenClass) (string, error)
}

// AuthMiddleware authenticates requests with a bearer access token. When no
// Authorization header is sent, a refreshToken field in a JSON body is
// accepted instead. A missing credential is 401, a rejected one is 403.
func AuthMiddleware(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				userID string
				err    error
			)

			if token := bearerToken(r); token != "" {
				userID, err = tokens.Verify(token, services.AccessToken)
			} else if refresh := bodyRefreshToken(r); refresh != "" {
				// TODO: drop the body fallback once clients always send a bearer token
				userID, err = tokens.Verify(refresh, services.RefreshToken)
			} else {
				err = models.NewUnauthorizedError("Access denied, no token was provided.")
			}

			if err != nil {
				appErr := models.AsAppError(err)
				respondError(w, appErr.Message, appErr.Code, appErr.Status())
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// bodyRefreshToken peeks at a JSON body and restores it for the handler
func bodyRefreshToken(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.RefreshToken
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

// WithUserID returns a copy of ctx carrying userID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// ValidateWebSocketToken validates an access token sent as a query parameter
func ValidateWebSocketToken(token string, tokens TokenVerifier) (string, error) {
	if token == "" {
		return "", errors.New("token required")
	}
	return tokens.Verify(token, services.AccessToken)
}
