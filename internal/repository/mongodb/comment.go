package mongodb

import (
	"context"
	"errors"
	"fmt"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository handles collection operations for comments
type CommentRepository struct {
	coll *mongo.Collection
}

// Create inserts a new comment document
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	doc := *comment
	doc.Likes = nonNil(comment.Likes)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByPost retrieves the comments of a post, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"commentedPost": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	comments := make([]*models.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// UpdateText sets new comment text and returns the updated comment
func (r *CommentRepository) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"comment": text, "updatedAt": now()}})
}

// AddLike inserts userID into the comment's like-set unless present
func (r *CommentRepository) AddLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	return r.findAndUpdate(ctx, commentID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": now()},
	})
}

// RemoveLike removes userID from the comment's like-set
func (r *CommentRepository) RemoveLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	return r.findAndUpdate(ctx, commentID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": now()},
	})
}

// RemoveLikeEverywhere removes userID from every comment's like-set
func (r *CommentRepository) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove comment likes of user: %w", err)
	}
	return nil
}

// Delete deletes a comment by ID
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByAuthor deletes every comment written by authorID
func (r *CommentRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"author": authorID}); err != nil {
		return fmt.Errorf("failed to delete comments of author: %w", err)
	}
	return nil
}

// DeleteByPosts deletes every comment on the given posts
func (r *CommentRepository) DeleteByPosts(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	if _, err := r.coll.DeleteMany(ctx, bson.M{"commentedPost": bson.M{"$in": postIDs}}); err != nil {
		return fmt.Errorf("failed to delete comments of posts: %w", err)
	}
	return nil
}

func (r *CommentRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment models.Comment
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}
