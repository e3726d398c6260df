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

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

// PostRepository handles collection operations for posts
type PostRepository struct {
	coll *mongo.Collection
}

// Create inserts a new post document
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	doc := *post
	doc.Likes = nonNil(post.Likes)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// List retrieves every post, newest first
func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(ctx, bson.M{})
}

// ListByAuthor retrieves the posts of one author, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"author": authorID})
}

// ListByIDs retrieves the posts whose ids are in ids
func (r *PostRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": nonNil(ids)}})
}

// UpdateCaption sets a new caption and returns the updated post
func (r *PostRepository) UpdateCaption(ctx context.Context, id, caption string) (*models.Post, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{"caption": caption, "updatedAt": now()}})
}

// AddLike inserts userID into the post's like-set unless present
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.findAndUpdate(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": now()},
	})
}

// RemoveLike removes userID from the post's like-set
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.findAndUpdate(ctx, postID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": now()},
	})
}

// RemoveLikeEverywhere removes userID from every post's like-set
func (r *PostRepository) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove likes of user: %w", err)
	}
	return nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByAuthor deletes every post of an author
func (r *PostRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"author": authorID}); err != nil {
		return fmt.Errorf("failed to delete posts of author: %w", err)
	}
	return nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M) ([]*models.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	posts := make([]*models.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}
