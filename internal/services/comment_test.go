package services

import (
	"context"
	"testing"

	"snapgram-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddAndList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")
	post := e.post(t, a.ID, "hello")

	first, err := e.comments.AddComment(ctx, b.ID, post.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, post.ID, first.CommentedPost)
	assert.Equal(t, models.DefaultDisplayPicture, first.DisplayPicture)

	_, err = e.comments.AddComment(ctx, a.ID, post.ID, "second")
	require.NoError(t, err)

	comments, err := e.comments.GetComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Comment)

	notes := e.notifier.For(a.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, EventCommentAdded, notes[0].Type)

	_, err = e.comments.AddComment(ctx, "missing", post.ID, "x")
	assert.Equal(t, models.CodeNotFound, errCode(err))

	_, err = e.comments.AddComment(ctx, b.ID, "missing", "x")
	assert.Equal(t, models.CodeNotFound, errCode(err))

	_, err = e.comments.AddComment(ctx, b.ID, post.ID, "")
	assert.Equal(t, models.CodeValidation, errCode(err))

	_, err = e.comments.GetComments(ctx, "")
	assert.Equal(t, models.CodeValidation, errCode(err))
}

func TestCommentService_EditOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")
	post := e.post(t, a.ID, "hello")
	comment, err := e.comments.AddComment(ctx, b.ID, post.ID, "original")
	require.NoError(t, err)

	_, err = e.comments.EditComment(ctx, a.ID, comment.ID, "hijacked")
	assert.Equal(t, models.CodeForbidden, errCode(err))

	stored, _ := e.store.Comments().GetByID(ctx, comment.ID)
	assert.Equal(t, "original", stored.Comment)

	updated, err := e.comments.EditComment(ctx, b.ID, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment)

	_, err = e.comments.EditComment(ctx, b.ID, comment.ID, "")
	assert.Equal(t, models.CodeValidation, errCode(err))
}

func TestCommentService_ToggleLikeUsesCaller(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")
	post := e.post(t, a.ID, "hello")
	comment, err := e.comments.AddComment(ctx, a.ID, post.ID, "mine")
	require.NoError(t, err)

	liked, err := e.comments.ToggleLikeComment(ctx, b.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, liked.Likes)

	// A second liker is added, not toggled off
	liked, err = e.comments.ToggleLikeComment(ctx, a.ID, comment.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, liked.Likes)

	unliked, err := e.comments.ToggleLikeComment(ctx, b.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, unliked.Likes)

	_, err = e.comments.ToggleLikeComment(ctx, "missing", comment.ID)
	assert.Equal(t, models.CodeNotFound, errCode(err))
}

func TestCommentService_Delete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")
	post := e.post(t, a.ID, "hello")
	comment, err := e.comments.AddComment(ctx, b.ID, post.ID, "bye")
	require.NoError(t, err)

	assert.Equal(t, models.CodeForbidden, errCode(e.comments.DeleteComment(ctx, a.ID, comment.ID)))
	require.NoError(t, e.comments.DeleteComment(ctx, b.ID, comment.ID))
	assert.Equal(t, models.CodeNotFound, errCode(e.comments.DeleteComment(ctx, b.ID, comment.ID)))
}
