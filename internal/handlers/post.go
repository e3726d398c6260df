package handlers

import (
	"net/http"

	"snapgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts          *services.PostService
	guard          ownerGuard
	maxUploadBytes int64
}

// NewPostHandler creates a new post handler
func NewPostHandler(posts *services.PostService, strictOwnership bool, maxUploadBytes int64) *PostHandler {
	return &PostHandler{
		posts:          posts,
		guard:          ownerGuard{strict: strictOwnership},
		maxUploadBytes: maxUploadBytes,
	}
}

type captionRequest struct {
	Caption string `json:"caption"`
}

// GetFeed handles GET /api/posts/feed
func (h *PostHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAllPosts(r.Context())
	if err != nil {
		respondAppError(w, r, err, "Failed to get feed")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /api/posts/view/{postId}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to get post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// GetAuthorPosts handles GET /api/posts/{author}
func (h *PostHandler) GetAuthorPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAuthorPosts(r.Context(), chi.URLParam(r, "author"))
	if err != nil {
		respondAppError(w, r, err, "Failed to get author posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// GetSavedPosts handles GET /api/posts/saved/{userId}
func (h *PostHandler) GetSavedPosts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Saved posts denied")
		return
	}

	posts, err := h.posts.GetSavedPosts(r.Context(), userID)
	if err != nil {
		respondAppError(w, r, err, "Failed to get saved posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

// SavePost handles PATCH /api/posts/save/{userId}/{postId}
func (h *PostHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Save denied")
		return
	}

	msg, err := h.posts.ToggleSavePost(r.Context(), userID, chi.URLParam(r, "postId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to toggle saved post")
		return
	}
	respondText(w, http.StatusOK, msg)
}

// CreatePost handles POST /api/posts/create/{author}
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Create post denied")
		return
	}

	var (
		caption string
		image   *services.Upload
	)
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
			respondAppError(w, r, err, "Failed to parse post form")
			return
		}
		caption = r.FormValue("caption")

		var err error
		image, err = formImage(r, "image")
		if err != nil {
			respondAppError(w, r, err, "Failed to read post image")
			return
		}
	} else {
		var req captionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondAppError(w, r, err, "Failed to decode post body")
			return
		}
		caption = req.Caption
	}

	post, err := h.posts.CreatePost(r.Context(), author, caption, image)
	if err != nil {
		respondAppError(w, r, err, "Failed to create post")
		return
	}

	respondJSON(w, http.StatusCreated, post)
}

// EditPost handles PUT /api/posts/edit/{author}/{postId}
func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Edit post denied")
		return
	}

	var req captionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondAppError(w, r, err, "Failed to decode caption")
		return
	}

	postID := chi.URLParam(r, "postId")
	if err := h.posts.EditPost(r.Context(), author, postID, req.Caption); err != nil {
		respondAppError(w, r, err, "Failed to edit post")
		return
	}

	log.Info().Str("user_id", author).Str("post_id", postID).Msg("Post edited")
	respondText(w, http.StatusOK, "Post updated successfully.")
}

// LikePost handles PATCH /api/posts/like/{userId}/{postId}
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if err := h.guard.check(r, userID); err != nil {
		respondAppError(w, r, err, "Like denied")
		return
	}

	msg, err := h.posts.ToggleLikePost(r.Context(), userID, chi.URLParam(r, "postId"))
	if err != nil {
		respondAppError(w, r, err, "Failed to toggle post like")
		return
	}
	respondText(w, http.StatusOK, msg)
}

// DeletePost handles DELETE /api/posts/delete/{author}/{postId}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	if err := h.guard.check(r, author); err != nil {
		respondAppError(w, r, err, "Delete post denied")
		return
	}

	if err := h.posts.DeletePost(r.Context(), author, chi.URLParam(r, "postId")); err != nil {
		respondAppError(w, r, err, "Failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
