package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"snapgram-backend/internal/media"
	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]WSMessage
}

func (n *recordingNotifier) Notify(userID string, message WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.messages == nil {
		n.messages = make(map[string][]WSMessage)
	}
	n.messages[userID] = append(n.messages[userID], message)
}

func (n *recordingNotifier) For(userID string) []WSMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.messages[userID]
}

type env struct {
	store    *memory.Store
	media    *media.MemoryStore
	cleaner  *ImageCleaner
	tokens   *TokenService
	notifier *recordingNotifier
	users    *UserService
	posts    *PostService
	comments *CommentService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		store:    memory.NewStore(),
		media:    media.NewMemoryStore("http://media.test"),
		tokens:   NewTokenService("access-secret", "refresh-secret"),
		notifier: &recordingNotifier{},
	}
	e.cleaner = NewImageCleaner(e.media)
	e.users = NewUserService(e.store, e.media, e.cleaner, e.tokens, e.notifier)
	e.posts = NewPostService(e.store, e.media, e.cleaner, e.notifier)
	e.comments = NewCommentService(e.store, e.notifier)
	return e
}

func pngUpload(t *testing.T) *Upload {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return &Upload{Filename: "pic.png", Data: buf.Bytes()}
}

func (e *env) signup(t *testing.T, given, email string) *models.AuthResponse {
	t.Helper()
	resp, err := e.users.Signup(context.Background(), SignupInput{
		GivenName:  given,
		FamilyName: "Tester",
		Email:      email,
		Password:   "secret",
	})
	require.NoError(t, err)
	return resp
}

func (e *env) post(t *testing.T, authorID, caption string) *models.Post {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), authorID, caption, pngUpload(t))
	require.NoError(t, err)
	return post
}

func errCode(err error) string {
	if err == nil {
		return ""
	}
	return models.AsAppError(err).Code
}
