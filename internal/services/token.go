package services

import (
	"fmt"
	"time"

	"snapgram-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// accessTokenTTL keeps the lifetime existing clients were issued
	accessTokenTTL  = 900000 * time.Second
	refreshTokenTTL = 7 * 24 * time.Hour
	subjectClaim    = "_id"
)

// TokenClass selects which secret a credential is signed with
type TokenClass int

const (
	AccessToken TokenClass = iota
	RefreshToken
)

func (c TokenClass) String() string {
	if c == RefreshToken {
		return "refresh"
	}
	return "access"
}

// TokenService issues and verifies signed credentials
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
}

// IssueCredentials signs a fresh access/refresh pair for userID
func (s *TokenService) IssueCredentials(userID string) (*models.Credentials, error) {
	access, err := s.sign(userID, AccessToken)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(userID, RefreshToken)
	if err != nil {
		return nil, err
	}

	return &models.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(userID string, class TokenClass) (string, error) {
	ttl := accessTokenTTL
	if class == RefreshToken {
		ttl = refreshTokenTTL
	}

	now := s.now()
	claims := jwt.MapClaims{
		subjectClaim: userID,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret(class))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", class, err)
	}

	return tokenString, nil
}

func (s *TokenService) secret(class TokenClass) []byte {
	if class == RefreshToken {
		return s.refreshSecret
	}
	return s.accessSecret
}

// Verify validates tokenString against the secret of class and returns its subject.
// An empty token is Unauthorized, anything that fails verification is Forbidden.
func (s *TokenService) Verify(tokenString string, class TokenClass) (string, error) {
	if tokenString == "" {
		return "", models.NewUnauthorizedError("Access denied, no token was provided.")
	}

	forbidden := models.NewForbiddenError(fmt.Sprintf("Invalid or expired %s token.", class))

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret(class), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		forbidden.Err = err
		return "", forbidden
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", forbidden
	}

	userID, ok := claims[subjectClaim].(string)
	if !ok || userID == "" {
		return "", forbidden
	}

	return userID, nil
}

// RefreshAccess exchanges a valid refresh token for a new access token
func (s *TokenService) RefreshAccess(refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", models.NewUnauthorizedError("Access denied, refresh token was not provided.")
	}

	userID, err := s.Verify(refreshToken, RefreshToken)
	if err != nil {
		return "", err
	}

	return s.sign(userID, AccessToken)
}
