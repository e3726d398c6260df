package postgres

import (
	"context"
	"errors"
	"fmt"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, given_name, family_name, display_picture, bio, email, password,
	saved_posts, followers, following, created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db querier
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, given_name, family_name, display_picture, bio, email, password,
			saved_posts, followers, following, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.GivenName, user.FamilyName, user.DisplayPicture, user.Bio, user.Email, user.Password,
		nonNil(user.SavedPosts), nonNil(user.Followers), nonNil(user.Following), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// AddToList inserts value into one of the user's id lists unless present
func (r *UserRepository) AddToList(ctx context.Context, userID string, list repository.UserList, value string) error {
	col, err := listColumn(list)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE users
		SET %[1]s = CASE WHEN $2::text = ANY(%[1]s) THEN %[1]s ELSE array_append(%[1]s, $2::text) END,
			updated_at = now()
		WHERE id = $1
	`, col)
	return r.execOne(ctx, query, userID, value)
}

// RemoveFromList removes value from one of the user's id lists
func (r *UserRepository) RemoveFromList(ctx context.Context, userID string, list repository.UserList, value string) error {
	col, err := listColumn(list)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE users SET %[1]s = array_remove(%[1]s, $2::text), updated_at = now() WHERE id = $1`, col)
	return r.execOne(ctx, query, userID, value)
}

// RemoveFromAllLists removes value from the list on every user holding it
func (r *UserRepository) RemoveFromAllLists(ctx context.Context, list repository.UserList, value string) error {
	col, err := listColumn(list)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE users SET %[1]s = array_remove(%[1]s, $1::text), updated_at = now()
		WHERE $1::text = ANY(%[1]s)
	`, col)
	if _, err := r.db.Exec(ctx, query, value); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", value, list, err)
	}
	return nil
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func listColumn(list repository.UserList) (string, error) {
	switch list {
	case repository.SavedPosts:
		return "saved_posts", nil
	case repository.Followers:
		return "followers", nil
	case repository.Following:
		return "following", nil
	}
	return "", fmt.Errorf("unknown user list %q", list)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.GivenName, &user.FamilyName, &user.DisplayPicture, &user.Bio, &user.Email, &user.Password,
		&user.SavedPosts, &user.Followers, &user.Following, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
