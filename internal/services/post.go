package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snapgram-backend/internal/media"
	"snapgram-backend/internal/models"
	"snapgram-backend/internal/relation"
	"snapgram-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PostService handles post-related business logic
type PostService struct {
	store    repository.Store
	media    media.Store
	cleaner  *ImageCleaner
	notifier Notifier
}

// NewPostService creates a new post service
func NewPostService(store repository.Store, mediaStore media.Store, cleaner *ImageCleaner, notifier Notifier) *PostService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &PostService{
		store:    store,
		media:    mediaStore,
		cleaner:  cleaner,
		notifier: notifier,
	}
}

// CreatePost uploads the image and stores a post with a snapshot of its author
func (s *PostService) CreatePost(ctx context.Context, authorID, caption string, image *Upload) (*models.Post, error) {
	if authorID == "" {
		return nil, models.NewValidationError("Author Id was not sent in params.")
	}

	author, err := s.store.Users().GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err, "Author", authorID)
	}

	caption = strings.TrimSpace(caption)
	if caption == "" || image == nil || len(image.Data) == 0 {
		return nil, models.NewValidationError("Caption or post picture either one was not sent in the body.")
	}

	img, err := uploadImage(ctx, s.media, image)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:             uuid.New().String(),
		Author:         author.ID,
		GivenName:      author.GivenName,
		FamilyName:     author.FamilyName,
		DisplayPicture: author.DisplayPicture,
		PostPicture:    models.PostPicture{ID: img.PublicID, URL: img.URL},
		Caption:        caption,
		Likes:          []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Posts().Create(ctx, post); err != nil {
		// The upload is orphaned without a post
		s.cleaner.Remove(img.PublicID)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Info().Str("user_id", authorID).Str("post_id", post.ID).Msg("Post created")
	return post, nil
}

// GetAllPosts returns every post, newest first
func (s *PostService) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.store.Posts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a single post
func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	if postID == "" {
		return nil, models.NewValidationError("Post Id was not sent in params.")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "Post", postID)
	}
	return post, nil
}

// GetAuthorPosts returns the posts of an existing author
func (s *PostService) GetAuthorPosts(ctx context.Context, authorID string) ([]*models.Post, error) {
	if authorID == "" {
		return nil, models.NewValidationError("Author Id was not sent in params.")
	}

	if _, err := s.store.Users().GetByID(ctx, authorID); err != nil {
		return nil, notFound(err, "Author", authorID)
	}

	posts, err := s.store.Posts().ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list author posts: %w", err)
	}
	return posts, nil
}

// GetSavedPosts returns the posts a user saved, in the order they were saved
func (s *PostService) GetSavedPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	if userID == "" {
		return nil, models.NewValidationError("User Id was not sent in the params.")
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User", userID)
	}

	posts, err := s.store.Posts().ListByIDs(ctx, user.SavedPosts)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved posts: %w", err)
	}

	byID := make(map[string]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]*models.Post, 0, len(posts))
	for _, id := range user.SavedPosts {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// ToggleSavePost adds the post to the user's saved list, or removes it when present
func (s *PostService) ToggleSavePost(ctx context.Context, userID, postID string) (string, error) {
	if userID == "" || postID == "" {
		return "", models.NewValidationError("User Id or Post Id either one of these was not sent in params.")
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", notFound(err, "User", userID)
	}

	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		return "", notFound(err, "Post", postID)
	}

	action := relation.Decide(relation.Contains(user.SavedPosts, postID))
	if err := applyToList(ctx, s.store.Users(), action, userID, repository.SavedPosts, postID); err != nil {
		return "", notFound(err, "User", userID)
	}

	if action == relation.Remove {
		return "Post removed from saved posts.", nil
	}
	return "Post saved successfully.", nil
}

// ToggleLikePost likes the post for userID, or unlikes it when already liked
func (s *PostService) ToggleLikePost(ctx context.Context, userID, postID string) (string, error) {
	if userID == "" || postID == "" {
		return "", models.NewValidationError("User Id or Post Id either one of these was not sent in params.")
	}

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return "", notFound(err, "User", userID)
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return "", notFound(err, "Post", postID)
	}

	if relation.Decide(relation.Contains(post.Likes, userID)) == relation.Remove {
		if _, err := s.store.Posts().RemoveLike(ctx, postID, userID); err != nil {
			return "", notFound(err, "Post", postID)
		}
		return "You unliked the post.", nil
	}

	if _, err := s.store.Posts().AddLike(ctx, postID, userID); err != nil {
		return "", notFound(err, "Post", postID)
	}

	if post.Author != userID {
		s.notifier.Notify(post.Author, WSMessage{Type: EventPostLiked, ActorID: userID, PostID: postID})
	}
	return "You liked the post.", nil
}

// EditPost replaces the caption of a post owned by authorID
func (s *PostService) EditPost(ctx context.Context, authorID, postID, caption string) error {
	if authorID == "" || postID == "" {
		return models.NewValidationError("Author Id or Post Id either one of these was not sent in params.")
	}

	caption = strings.TrimSpace(caption)
	if caption == "" {
		return models.NewValidationError("Please provide the caption to edit.")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return notFound(err, "Post", postID)
	}

	if err := RequireOwner(post.Author, authorID,
		fmt.Sprintf("Author with Id %s is not allowed to edit post with Id %s", authorID, postID)); err != nil {
		return err
	}

	if _, err := s.store.Posts().UpdateCaption(ctx, postID, caption); err != nil {
		return notFound(err, "Post", postID)
	}
	return nil
}

// DeletePost removes a post owned by authorID along with its comments and
// every saved-list reference. The hosted image is deleted in the background.
func (s *PostService) DeletePost(ctx context.Context, authorID, postID string) error {
	if authorID == "" || postID == "" {
		return models.NewValidationError("Author Id or Post Id either one of these was not sent in params.")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return notFound(err, "Post", postID)
	}

	if err := RequireOwner(post.Author, authorID,
		fmt.Sprintf("Author with Id %s is not allowed to delete post with Id %s", authorID, postID)); err != nil {
		return err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Comments().DeleteByPosts(ctx, []string{postID}); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Users().RemoveFromAllLists(ctx, repository.SavedPosts, postID); err != nil {
			return fmt.Errorf("failed to unsave post: %w", err)
		}
		if err := tx.Posts().Delete(ctx, postID); err != nil {
			return notFound(err, "Post", postID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cleaner.Remove(post.PostPicture.ID)

	log.Info().Str("user_id", authorID).Str("post_id", postID).Msg("Post deleted")
	return nil
}
