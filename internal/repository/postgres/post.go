package postgres

import (
	"context"
	"errors"
	"fmt"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, author, given_name, family_name, display_picture, picture_id, picture_url,
	caption, likes, created_at, updated_at`

// PostRepository handles database operations for posts
type PostRepository struct {
	db querier
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author, given_name, family_name, display_picture, picture_id, picture_url,
			caption, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		post.ID, post.Author, post.GivenName, post.FamilyName, post.DisplayPicture,
		post.PostPicture.ID, post.PostPicture.URL, post.Caption, nonNil(post.Likes),
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List retrieves every post, newest first
func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	return r.queryPosts(ctx, query)
}

// ListByAuthor retrieves the posts of one author, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE author = $1 ORDER BY created_at DESC`
	return r.queryPosts(ctx, query, authorID)
}

// ListByIDs retrieves the posts whose ids are in ids
func (r *PostRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ANY($1::text[]) ORDER BY created_at DESC`
	return r.queryPosts(ctx, query, nonNil(ids))
}

// UpdateCaption sets a new caption and returns the updated post
func (r *PostRepository) UpdateCaption(ctx context.Context, id, caption string) (*models.Post, error) {
	query := `UPDATE posts SET caption = $2, updated_at = now() WHERE id = $1 RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRow(ctx, query, id, caption))
	if err != nil {
		return nil, fmt.Errorf("failed to update post caption: %w", err)
	}
	return post, nil
}

// AddLike inserts userID into the post's like-set unless present
func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	query := `
		UPDATE posts
		SET likes = CASE WHEN $2::text = ANY(likes) THEN likes ELSE array_append(likes, $2::text) END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRow(ctx, query, postID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to like post: %w", err)
	}
	return post, nil
}

// RemoveLike removes userID from the post's like-set
func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	query := `UPDATE posts SET likes = array_remove(likes, $2::text), updated_at = now() WHERE id = $1 RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRow(ctx, query, postID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to unlike post: %w", err)
	}
	return post, nil
}

// RemoveLikeEverywhere removes userID from every post's like-set
func (r *PostRepository) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	query := `UPDATE posts SET likes = array_remove(likes, $1::text), updated_at = now() WHERE $1::text = ANY(likes)`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to remove likes of user: %w", err)
	}
	return nil
}

// Delete deletes a post by ID
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByAuthor deletes every post of an author
func (r *PostRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM posts WHERE author = $1`, authorID); err != nil {
		return fmt.Errorf("failed to delete posts of author: %w", err)
	}
	return nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*models.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.Author, &post.GivenName, &post.FamilyName, &post.DisplayPicture,
		&post.PostPicture.ID, &post.PostPicture.URL, &post.Caption, &post.Likes,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}
