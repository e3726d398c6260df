package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/relation"
	"snapgram-backend/internal/repository"

	"github.com/google/uuid"
)

// CommentService handles comment-related business logic
type CommentService struct {
	store    repository.Store
	notifier Notifier
}

// NewCommentService creates a new comment service
func NewCommentService(store repository.Store, notifier Notifier) *CommentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &CommentService{store: store, notifier: notifier}
}

// GetComments returns the comments of a post, oldest first
func (s *CommentService) GetComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if postID == "" {
		return nil, models.NewValidationError("Post Id was not sent in params.")
	}

	comments, err := s.store.Comments().ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment stores a comment by authorID on an existing post
func (s *CommentService) AddComment(ctx context.Context, authorID, postID, text string) (*models.Comment, error) {
	if authorID == "" || postID == "" {
		return nil, models.NewValidationError("Author Id or Post Id either one of these was not sent in params.")
	}

	author, err := s.store.Users().GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err, "Author", authorID)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment was not sent in the body")
	}

	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err, "Post", postID)
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:             uuid.New().String(),
		Author:         author.ID,
		DisplayPicture: author.DisplayPicture,
		CommentedPost:  post.ID,
		Comment:        text,
		Likes:          []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Comments().Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if post.Author != authorID {
		s.notifier.Notify(post.Author, WSMessage{
			Type:      EventCommentAdded,
			ActorID:   authorID,
			PostID:    post.ID,
			CommentID: comment.ID,
		})
	}
	return comment, nil
}

// EditComment replaces the text of a comment owned by authorID
func (s *CommentService) EditComment(ctx context.Context, authorID, commentID, text string) (*models.Comment, error) {
	if authorID == "" || commentID == "" {
		return nil, models.NewValidationError("User Id or Comment Id either one of these was not sent in params.")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Please provide the comment to edit.")
	}

	existing, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "Comment", commentID)
	}

	if err := RequireOwner(existing.Author, authorID,
		fmt.Sprintf("Author with Id %s is not allowed to edit comment with Id %s", authorID, commentID)); err != nil {
		return nil, err
	}

	updated, err := s.store.Comments().UpdateText(ctx, commentID, text)
	if err != nil {
		return nil, notFound(err, "Comment", commentID)
	}
	return updated, nil
}

// ToggleLikeComment likes the comment for userID, or unlikes it when already liked
func (s *CommentService) ToggleLikeComment(ctx context.Context, userID, commentID string) (*models.Comment, error) {
	if userID == "" || commentID == "" {
		return nil, models.NewValidationError("User Id or Comment Id either one of these was not sent in params.")
	}

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, notFound(err, "User", userID)
	}

	existing, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "Comment", commentID)
	}

	var updated *models.Comment
	if relation.Decide(relation.Contains(existing.Likes, userID)) == relation.Remove {
		updated, err = s.store.Comments().RemoveLike(ctx, commentID, userID)
	} else {
		updated, err = s.store.Comments().AddLike(ctx, commentID, userID)
		if err == nil && existing.Author != userID {
			s.notifier.Notify(existing.Author, WSMessage{
				Type:      EventCommentLiked,
				ActorID:   userID,
				PostID:    existing.CommentedPost,
				CommentID: commentID,
			})
		}
	}
	if err != nil {
		return nil, notFound(err, "Comment", commentID)
	}
	return updated, nil
}

// DeleteComment removes a comment owned by authorID
func (s *CommentService) DeleteComment(ctx context.Context, authorID, commentID string) error {
	if authorID == "" || commentID == "" {
		return models.NewValidationError("Comment Id was not sent in params.")
	}

	existing, err := s.store.Comments().GetByID(ctx, commentID)
	if err != nil {
		return notFound(err, "Comment", commentID)
	}

	if err := RequireOwner(existing.Author, authorID,
		fmt.Sprintf("Author with Id %s is not allowed to delete comment with Id %s", authorID, commentID)); err != nil {
		return err
	}

	if err := s.store.Comments().Delete(ctx, commentID); err != nil {
		return notFound(err, "Comment", commentID)
	}
	return nil
}
