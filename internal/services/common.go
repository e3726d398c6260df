package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"snapgram-backend/internal/media"
	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const imageCleanupTimeout = 30 * time.Second

// Upload is an image received from a client
type Upload struct {
	Filename string
	Data     []byte
}

// RequireOwner returns Forbidden unless callerID authored the resource
func RequireOwner(resourceAuthorID, callerID, message string) error {
	if resourceAuthorID != callerID {
		return models.NewForbiddenError(message)
	}
	return nil
}

// ImageCleaner deletes hosted images in the background
type ImageCleaner struct {
	media media.Store
	wg    sync.WaitGroup
}

// NewImageCleaner creates a cleaner deleting from store
func NewImageCleaner(store media.Store) *ImageCleaner {
	return &ImageCleaner{media: store}
}

// Remove schedules deletion of the given images. Failures are logged only.
func (c *ImageCleaner) Remove(publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}

		c.wg.Add(1)
		go func(id string) {
			defer c.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), imageCleanupTimeout)
			defer cancel()

			if err := c.media.Delete(ctx, id); err != nil {
				log.Warn().Err(err).Str("public_id", id).Msg("Failed to delete hosted image")
				return
			}
			log.Debug().Str("public_id", id).Msg("Hosted image deleted")
		}(id)
	}
}

// Wait blocks until every scheduled deletion has finished
func (c *ImageCleaner) Wait() {
	c.wg.Wait()
}

func uploadImage(ctx context.Context, store media.Store, upload *Upload) (*models.Image, error) {
	img, err := store.Upload(ctx, upload.Filename, upload.Data)
	if errors.Is(err, media.ErrNotImage) {
		return nil, models.NewUnsupportedMediaError("Uploaded file is not an image.")
	}
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to upload image: %w", err))
	}
	return img, nil
}

// notFound converts repository.ErrNotFound into a NotFound AppError
func notFound(err error, resource, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
