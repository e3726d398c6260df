package mongodb

import (
	"context"
	"errors"
	"fmt"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles collection operations for users
type UserRepository struct {
	coll *mongo.Collection
}

// Create inserts a new user document
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	doc := *user
	doc.SavedPosts = nonNil(user.SavedPosts)
	doc.Followers = nonNil(user.Followers)
	doc.Following = nonNil(user.Following)

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return n > 0, nil
}

// AddToList inserts value into one of the user's id lists unless present
func (r *UserRepository) AddToList(ctx context.Context, userID string, list repository.UserList, value string) error {
	update := bson.M{
		"$addToSet": bson.M{string(list): value},
		"$set":      bson.M{"updatedAt": now()},
	}
	return r.updateOne(ctx, userID, update)
}

// RemoveFromList removes value from one of the user's id lists
func (r *UserRepository) RemoveFromList(ctx context.Context, userID string, list repository.UserList, value string) error {
	update := bson.M{
		"$pull": bson.M{string(list): value},
		"$set":  bson.M{"updatedAt": now()},
	}
	return r.updateOne(ctx, userID, update)
}

// RemoveFromAllLists removes value from the list on every user holding it
func (r *UserRepository) RemoveFromAllLists(ctx context.Context, list repository.UserList, value string) error {
	filter := bson.M{string(list): value}
	update := bson.M{
		"$pull": bson.M{string(list): value},
		"$set":  bson.M{"updatedAt": now()},
	}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", value, list, err)
	}
	return nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) updateOne(ctx context.Context, userID string, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
