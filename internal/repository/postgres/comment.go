package postgres

import (
	"context"
	"errors"
	"fmt"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, author, display_picture, commented_post, comment, likes, created_at, updated_at`

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db querier
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, author, display_picture, commented_post, comment, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.Author, comment.DisplayPicture, comment.CommentedPost, comment.Comment,
		nonNil(comment.Likes), comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// ListByPost retrieves the comments of a post, oldest first
func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE commented_post = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// UpdateText sets new comment text and returns the updated comment
func (r *CommentRepository) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	query := `UPDATE comments SET comment = $2, updated_at = now() WHERE id = $1 RETURNING ` + commentColumns
	comment, err := scanComment(r.db.QueryRow(ctx, query, id, text))
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// AddLike inserts userID into the comment's like-set unless present
func (r *CommentRepository) AddLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	query := `
		UPDATE comments
		SET likes = CASE WHEN $2::text = ANY(likes) THEN likes ELSE array_append(likes, $2::text) END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + commentColumns
	comment, err := scanComment(r.db.QueryRow(ctx, query, commentID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to like comment: %w", err)
	}
	return comment, nil
}

// RemoveLike removes userID from the comment's like-set
func (r *CommentRepository) RemoveLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	query := `UPDATE comments SET likes = array_remove(likes, $2::text), updated_at = now() WHERE id = $1 RETURNING ` + commentColumns
	comment, err := scanComment(r.db.QueryRow(ctx, query, commentID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to unlike comment: %w", err)
	}
	return comment, nil
}

// RemoveLikeEverywhere removes userID from every comment's like-set
func (r *CommentRepository) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	query := `UPDATE comments SET likes = array_remove(likes, $1::text), updated_at = now() WHERE $1::text = ANY(likes)`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to remove comment likes of user: %w", err)
	}
	return nil
}

// Delete deletes a comment by ID
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByAuthor deletes every comment written by authorID
func (r *CommentRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM comments WHERE author = $1`, authorID); err != nil {
		return fmt.Errorf("failed to delete comments of author: %w", err)
	}
	return nil
}

// DeleteByPosts deletes every comment on the given posts
func (r *CommentRepository) DeleteByPosts(ctx context.Context, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM comments WHERE commented_post = ANY($1::text[])`, postIDs); err != nil {
		return fmt.Errorf("failed to delete comments of posts: %w", err)
	}
	return nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var comment models.Comment
	err := row.Scan(
		&comment.ID, &comment.Author, &comment.DisplayPicture, &comment.CommentedPost, &comment.Comment,
		&comment.Likes, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}
