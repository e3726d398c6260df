// Package media uploads and deletes hosted images.
package media

import (
	"context"
	"errors"

	"snapgram-backend/internal/models"
)

// ErrNotImage is returned when an upload does not decode as a supported image
var ErrNotImage = errors.New("uploaded file is not an image")

// Store is the image hosting delegate
type Store interface {
	// Upload stores data and returns its opaque id and public URL
	Upload(ctx context.Context, filename string, data []byte) (*models.Image, error)
	// Delete removes a previously uploaded image
	Delete(ctx context.Context, publicID string) error
}
