package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"snapgram-backend/internal/middleware"
	"snapgram-backend/internal/models"
	"snapgram-backend/internal/services"

	"github.com/rs/zerolog/log"
)

const multipartMemory = 8 << 20

// ErrorResponse represents an error response
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

// respondAppError maps err onto its status. Unexpected failures are logged and hidden.
func respondAppError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	appErr := models.AsAppError(err)
	if appErr.Code == models.CodeInternal {
		log.Error().
			Err(err).
			Str("user_id", middleware.GetUserID(r.Context())).
			Str("path", r.URL.Path).
			Msg(msg)
	}
	respondError(w, appErr.Message, appErr.Code, appErr.Status())
}

func respondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

func respondText(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	io.WriteString(w, text)
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}

// parseMultipart bounds the body to maxBytes and parses the form
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return models.NewValidationError(fmt.Sprintf("Upload exceeds %d bytes.", maxBytes))
		}
		return models.NewValidationError("Invalid multipart form")
	}
	return nil
}

// formImage returns the uploaded file in field, or nil when none was sent
func formImage(r *http.Request, field string) (*services.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewValidationError("Invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &services.Upload{Filename: header.Filename, Data: data}, nil
}

// ownerGuard optionally pins ownership route parameters to the caller
type ownerGuard struct {
	strict bool
}

func (g ownerGuard) check(r *http.Request, actingID string) error {
	if !g.strict {
		return nil
	}
	if callerID := middleware.GetUserID(r.Context()); callerID != actingID {
		return models.NewForbiddenError(fmt.Sprintf("You are not allowed to act on behalf of user with Id %s", actingID))
	}
	return nil
}
