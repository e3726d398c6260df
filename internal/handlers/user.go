package handlers

import (
	"net/http"

	"snapgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users *services.UserService
	guard ownerGuard
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, strictOwnership bool) *UserHandler {
	return &UserHandler{
		users: users,
		guard: ownerGuard{strict: strictOwnership},
	}
}

// GetProfile handles GET /api/users/{userId}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to get profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Follow handles PATCH /api/users/follow/{userId}/{creatorId}
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Follow denied")
		return
	}

	msg, err := h.users.ToggleFollow(r.Context(), userID, chi.URLParam(r, "creatorId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to toggle follow")
		return
	}
	respondText(w, http.StatusOK, msg)
}

// DeleteAccount handles DELETE /api/users/delete/{userId}
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Delete account denied")
		return
	}

	if err := h.users.DeleteAccount(r.Context(), userID); err != nil {
		respondAppError(w, r, err, "Failed to delete account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
