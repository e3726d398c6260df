package handlers

import (
	"net/http"

	"snapgram-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles signup, signin and token refresh
type AuthHandler struct {
	users          *services.UserService
	tokens         *services.TokenService
	maxUploadBytes int64
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users *services.UserService, tokens *services.TokenService, maxUploadBytes int64) *AuthHandler {
	return &AuthHandler{
		users:          users,
		tokens:         tokens,
		maxUploadBytes: maxUploadBytes,
	}
}

type signupRequest struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput

	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
			respondAppError(w, r, err, "Failed to parse signup form")
			return
		}
		in.GivenName = r.FormValue("givenName")
		in.FamilyName = r.FormValue("familyName")
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")

		image, err := formImage(r, "image")
		if err != nil {
			respondAppError(w, r, err, "Failed to read signup image")
			return
		}
		in.Image = image
	} else {
		var req signupRequest
		if err := decodeJSON(r, &req); err != nil {
			respondAppError(w, r, err, "Failed to decode signup body")
			return
		}
		in = services.SignupInput{
			GivenName:  req.GivenName,
			FamilyName: req.FamilyName,
			Email:      req.Email,
			Password:   req.Password,
		}
	}

	resp, err := h.users.Signup(r.Context(), in)
	if err != nil {
		respondAppError(w, r, err, "Failed to sign up")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Signin handles POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, r, err, "Failed to decode signin body")
		return
	}

	resp, err := h.users.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respondAppError(w, r, err, "Failed to sign in")
		return
	}

	log.Info().Str("user_id", resp.ID).Msg("User signed in")

	respondJSON(w, http.StatusAccepted, resp)
}

// RefreshToken handles POST /api/auth/refreshToken
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, r, err, "Failed to decode refresh body")
		return
	}

	accessToken, err := h.tokens.RefreshAccess(req.RefreshToken)
	if err != nil {
		respondAppError(w, r, err, "Failed to refresh token")
		return
	}

	respondJSON(w, http.StatusOK, accessToken)
}
