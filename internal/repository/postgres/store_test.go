package postgres

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListColumn(t *testing.T) {
	col, err := listColumn(repository.SavedPosts)
	require.NoError(t, err)
	assert.Equal(t, "saved_posts", col)

	col, err = listColumn(repository.Following)
	require.NoError(t, err)
	assert.Equal(t, "following", col)

	_, err = listColumn(repository.UserList("password"))
	assert.Error(t, err)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

// TestStore_Integration runs against a real database when POSTGRES_TEST_URI is set.
func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("POSTGRES_TEST_URI")
	if uri == "" {
		t.Skip("POSTGRES_TEST_URI not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, uri, 4)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, pool))
	store := NewStore(pool)
	defer store.Close(ctx)

	now := time.Now()
	user := &models.User{
		ID:             uuid.New().String(),
		GivenName:      "Ada",
		FamilyName:     "Lovelace",
		DisplayPicture: models.DefaultDisplayPicture,
		Email:          uuid.New().String() + "@example.com",
		Password:       "hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, store.Users().Create(ctx, user))
	assert.ErrorIs(t, store.Users().Create(ctx, &models.User{ID: uuid.New().String(), Email: user.Email}), repository.ErrDuplicateEmail)

	post := &models.Post{
		ID:          uuid.New().String(),
		Author:      user.ID,
		PostPicture: models.PostPicture{ID: "media-1", URL: "https://cdn.example.com/media-1"},
		Caption:     "hello",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, store.Posts().Create(ctx, post))

	liked, err := store.Posts().AddLike(ctx, post.ID, user.ID)
	require.NoError(t, err)
	liked, err = store.Posts().AddLike(ctx, post.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{user.ID}, liked.Likes)

	err = store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Posts().Delete(ctx, post.ID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, user.ID)
	})
	require.NoError(t, err)

	_, err = store.Posts().GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
