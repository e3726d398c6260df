// Package repository defines the storage contract shared by the mongo,
// postgres and memory drivers.
package repository

import (
	"context"
	"errors"

	"snapgram-backend/internal/models"
)

var (
	// ErrNotFound indicates the requested document doesn't exist
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateEmail indicates the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserList names one of the id lists held on a user document
type UserList string

const (
	SavedPosts UserList = "savedPosts"
	Followers  UserList = "followers"
	Following  UserList = "following"
)

// UserRepository persists user documents
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// AddToList inserts value into the list with set semantics
	AddToList(ctx context.Context, userID string, list UserList, value string) error
	RemoveFromList(ctx context.Context, userID string, list UserList, value string) error
	// RemoveFromAllLists pulls value out of list on every user
	RemoveFromAllLists(ctx context.Context, list UserList, value string) error
	Delete(ctx context.Context, id string) error
}

// PostRepository persists post documents
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List returns every post, newest first
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error)
	UpdateCaption(ctx context.Context, id, caption string) (*models.Post, error)
	AddLike(ctx context.Context, postID, userID string) (*models.Post, error)
	RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error)
	// RemoveLikeEverywhere pulls userID from the like-set of every post
	RemoveLikeEverywhere(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteByAuthor(ctx context.Context, authorID string) error
}

// CommentRepository persists comment documents
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	UpdateText(ctx context.Context, id, text string) (*models.Comment, error)
	AddLike(ctx context.Context, commentID, userID string) (*models.Comment, error)
	RemoveLike(ctx context.Context, commentID, userID string) (*models.Comment, error)
	RemoveLikeEverywhere(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteByAuthor(ctx context.Context, authorID string) error
	DeleteByPosts(ctx context.Context, postIDs []string) error
}

// Store groups the repositories of one driver
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	// WithTx runs fn against a store whose writes commit or roll back
	// together. fn must use the ctx it is given.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
	Close(ctx context.Context) error
}
