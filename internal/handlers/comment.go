package handlers

import (
	"net/http"

	"snapgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	comments *services.CommentService
	guard    ownerGuard
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments *services.CommentService, strictOwnership bool) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		guard:    ownerGuard{strict: strictOwnership},
	}
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// GetComments handles GET /api/comments/{postId}
func (h *CommentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.GetComments(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to get comments")
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /api/comments/add/{author}/{postId}
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Add comment denied")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, r, err, "Failed to decode comment")
		return
	}

	comment, err := h.comments.AddComment(r.Context(), author, chi.URLParam(r, "postId"), req.Comment)
	if err != nil {
		respondAppError(w, r, err, "Failed to add comment")
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// EditComment handles PUT /api/comments/edit/{author}/{commentId}
func (h *CommentHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Edit comment denied")
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, r, err, "Failed to decode comment")
		return
	}

	comment, err := h.comments.EditComment(r.Context(), author, chi.URLParam(r, "commentId"), req.Comment)
	if err != nil {
		respondAppError(w, r, err, "Failed to edit comment")
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// LikeComment handles PATCH /api/comments/like/{userId}/{commentId}
func (h *CommentHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Like comment denied")
		return
	}

	comment, err := h.comments.ToggleLikeComment(r.Context(), userID, chi.URLParam(r, "commentId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to toggle comment like")
		return
	}
	respondJSON(w, http.StatusOK, comment)
}

// DeleteComment handles DELETE /api/comments/delete/{author}/{commentId}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Delete comment denied")
		return
	}

	if err := h.comments.DeleteComment(r.Context(), author, chi.URLParam(r, "commentId")); err != nil {
		respondAppError(w, r, err, "Failed to delete comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
