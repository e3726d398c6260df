package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))
	err := store.Users().Create(ctx, &models.User{ID: "u2", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	exists, err := store.Users().EmailExists(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_ListsUseSetSemantics(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))

	require.NoError(t, store.Users().AddToList(ctx, "u1", repository.Following, "u2"))
	require.NoError(t, store.Users().AddToList(ctx, "u1", repository.Following, "u2"))

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, user.Following)
	assert.Empty(t, user.Followers)

	require.NoError(t, store.Users().RemoveFromAllLists(ctx, repository.Following, "u2"))
	user, err = store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, user.Following)
}

func TestStore_WithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Users().AddToList(ctx, "u1", repository.SavedPosts, "p1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, user.SavedPosts)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	require.NoError(t, store.Posts().Create(ctx, &models.Post{ID: "old", Author: "a", CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Posts().Create(ctx, &models.Post{ID: "new", Author: "b", CreatedAt: now}))

	posts, err := store.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
	assert.Equal(t, "old", posts[1].ID)

	byAuthor, err := store.Posts().ListByAuthor(ctx, "a")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "old", byAuthor[0].ID)
}

func TestPostRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Posts().Create(ctx, &models.Post{ID: "p1"}))

	post, err := store.Posts().AddLike(ctx, "p1", "u1")
	require.NoError(t, err)
	post.Likes[0] = "tampered"

	stored, err := store.Posts().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, stored.Likes)
}
