package services

import (
	"context"
	"testing"

	"snapgram-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Signup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp := e.signup(t, "Ada", "ada@example.com")
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, models.DefaultDisplayPicture, resp.DisplayPicture)

	subject, err := e.tokens.Verify(resp.AccessToken, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, subject)

	subject, err = e.tokens.Verify(resp.RefreshToken, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, subject)

	stored, err := e.store.Users().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)
	assert.Empty(t, stored.Followers)
}

func TestUserService_SignupValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "Ada", "ada@example.com")

	tests := []struct {
		name string
		in   SignupInput
		code string
	}{
		{"missing given name", SignupInput{FamilyName: "L", Email: "x@example.com", Password: "p"}, models.CodeValidation},
		{"missing password", SignupInput{GivenName: "A", FamilyName: "L", Email: "x@example.com"}, models.CodeValidation},
		{"duplicate email", SignupInput{GivenName: "A", FamilyName: "L", Email: "ada@example.com", Password: "p"}, models.CodeConflict},
		{"non image upload", SignupInput{
			GivenName: "A", FamilyName: "L", Email: "y@example.com", Password: "p",
			Image: &Upload{Filename: "a.txt", Data: []byte("text")},
		}, models.CodeUnsupportedMedia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.users.Signup(ctx, tt.in)
			assert.Equal(t, tt.code, errCode(err))
		})
	}
}

func TestUserService_SignupWithImage(t *testing.T) {
	e := newEnv(t)

	resp, err := e.users.Signup(context.Background(), SignupInput{
		GivenName: "Ada", FamilyName: "L", Email: "ada@example.com", Password: "p",
		Image: pngUpload(t),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.DisplayPicture, "http://media.test/")
	assert.Equal(t, 1, e.media.Len())
}

func TestUserService_Signin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	created := e.signup(t, "Ada", "ada@example.com")

	resp, err := e.users.Signin(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)

	_, err = e.users.Signin(ctx, "ada@example.com", "wrong")
	assert.Equal(t, models.CodeUnauthorized, errCode(err))

	_, err = e.users.Signin(ctx, "nobody@example.com", "secret")
	assert.Equal(t, models.CodeUnauthorized, errCode(err))
	assert.Equal(t, invalidCredentials, models.AsAppError(err).Message)

	_, err = e.users.Signin(ctx, "", "secret")
	assert.Equal(t, models.CodeValidation, errCode(err))
}

func TestUserService_ToggleFollow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")

	msg, err := e.users.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "You are now following Bob Tester", msg)

	userA, _ := e.store.Users().GetByID(ctx, a.ID)
	userB, _ := e.store.Users().GetByID(ctx, b.ID)
	assert.Equal(t, []string{b.ID}, userA.Following)
	assert.Equal(t, []string{a.ID}, userB.Followers)
	assert.Len(t, e.notifier.For(b.ID), 1)

	msg, err = e.users.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "You have unfollowed Bob Tester", msg)

	userA, _ = e.store.Users().GetByID(ctx, a.ID)
	userB, _ = e.store.Users().GetByID(ctx, b.ID)
	assert.Empty(t, userA.Following)
	assert.Empty(t, userB.Followers)
}

func TestUserService_ToggleFollowRepairsOneSidedState(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")

	// Only one side was written by an earlier partial failure
	require.NoError(t, e.store.Users().AddToList(ctx, a.ID, "following", b.ID))

	msg, err := e.users.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "You are now following Bob Tester", msg)

	userA, _ := e.store.Users().GetByID(ctx, a.ID)
	userB, _ := e.store.Users().GetByID(ctx, b.ID)
	assert.Equal(t, []string{b.ID}, userA.Following)
	assert.Equal(t, []string{a.ID}, userB.Followers)

	_, err = e.users.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	userA, _ = e.store.Users().GetByID(ctx, a.ID)
	assert.Empty(t, userA.Following)
}

func TestUserService_ToggleFollowErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")

	_, err := e.users.ToggleFollow(ctx, a.ID, a.ID)
	assert.Equal(t, models.CodeValidation, errCode(err))

	_, err = e.users.ToggleFollow(ctx, a.ID, "missing")
	assert.Equal(t, models.CodeNotFound, errCode(err))

	_, err = e.users.ToggleFollow(ctx, "missing", a.ID)
	assert.Equal(t, models.CodeNotFound, errCode(err))

	_, err = e.users.ToggleFollow(ctx, "", a.ID)
	assert.Equal(t, models.CodeValidation, errCode(err))
}

func TestUserService_DeleteAccountCascades(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.signup(t, "Ada", "ada@example.com")
	b := e.signup(t, "Bob", "bob@example.com")

	aPost := e.post(t, a.ID, "ada's post")
	bPost := e.post(t, b.ID, "bob's post")

	_, err := e.users.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = e.users.ToggleFollow(ctx, b.ID, a.ID)
	require.NoError(t, err)
	_, err = e.posts.ToggleLikePost(ctx, a.ID, bPost.ID)
	require.NoError(t, err)
	_, err = e.posts.ToggleSavePost(ctx, b.ID, aPost.ID)
	require.NoError(t, err)

	onOwnPost, err := e.comments.AddComment(ctx, b.ID, aPost.ID, "nice")
	require.NoError(t, err)
	byA, err := e.comments.AddComment(ctx, a.ID, bPost.ID, "thanks")
	require.NoError(t, err)
	kept, err := e.comments.AddComment(ctx, b.ID, bPost.ID, "mine")
	require.NoError(t, err)
	_, err = e.comments.ToggleLikeComment(ctx, a.ID, kept.ID)
	require.NoError(t, err)

	require.NoError(t, e.users.DeleteAccount(ctx, a.ID))
	e.cleaner.Wait()

	_, err = e.users.GetProfile(ctx, a.ID)
	assert.Equal(t, models.CodeNotFound, errCode(err))

	userB, err := e.store.Users().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, userB.Followers)
	assert.Empty(t, userB.Following)
	assert.Empty(t, userB.SavedPosts)

	post, err := e.store.Posts().GetByID(ctx, bPost.ID)
	require.NoError(t, err)
	assert.Empty(t, post.Likes)

	_, err = e.store.Posts().GetByID(ctx, aPost.ID)
	assert.Error(t, err)
	_, err = e.store.Comments().GetByID(ctx, onOwnPost.ID)
	assert.Error(t, err)
	_, err = e.store.Comments().GetByID(ctx, byA.ID)
	assert.Error(t, err)

	remaining, err := e.store.Comments().GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining.Likes)

	assert.False(t, e.media.Has(aPost.PostPicture.ID))
	assert.True(t, e.media.Has(bPost.PostPicture.ID))
}

func TestUserService_DeleteAccountErrors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	assert.Equal(t, models.CodeValidation, errCode(e.users.DeleteAccount(ctx, "")))
	assert.Equal(t, models.CodeNotFound, errCode(e.users.DeleteAccount(ctx, "missing")))
}
