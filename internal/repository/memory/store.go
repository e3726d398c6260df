// Package memory is an in-process store driver for tests and local development.
package memory

import (
	"context"
	"sync"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/repository"
)

type state struct {
	users    map[string]*models.User
	posts    map[string]*models.Post
	comments map[string]*models.Comment
}

func (s *state) clone() *state {
	c := &state{
		users:    make(map[string]*models.User, len(s.users)),
		posts:    make(map[string]*models.Post, len(s.posts)),
		comments: make(map[string]*models.Comment, len(s.comments)),
	}
	for id, u := range s.users {
		c.users[id] = copyUser(u)
	}
	for id, p := range s.posts {
		c.posts[id] = copyPost(p)
	}
	for id, cm := range s.comments {
		c.comments[id] = copyComment(cm)
	}
	return c
}

// Store keeps every document in maps guarded by one mutex
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore creates an empty memory store
func NewStore() *Store {
	return &Store{
		data: &state{
			users:    make(map[string]*models.User),
			posts:    make(map[string]*models.Post),
			comments: make(map[string]*models.Comment),
		},
	}
}

// view is a handle on the store. Inside WithTx the mutex is already held.
type view struct {
	s    *Store
	held bool
}

func (v *view) lock() {
	if !v.held {
		v.s.mu.Lock()
	}
}

func (v *view) unlock() {
	if !v.held {
		v.s.mu.Unlock()
	}
}

func (s *Store) root() *view { return &view{s: s} }

// Users returns the user repository
func (s *Store) Users() repository.UserRepository { return &userRepo{s.root()} }

// Posts returns the post repository
func (s *Store) Posts() repository.PostRepository { return &postRepo{s.root()} }

// Comments returns the comment repository
func (s *Store) Comments() repository.CommentRepository { return &commentRepo{s.root()} }

// WithTx holds the store lock for the duration of fn and restores a snapshot
// when fn fails
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &txStore{v: &view{s: s, held: true}}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Close is a no-op
func (s *Store) Close(ctx context.Context) error { return nil }

type txStore struct {
	v *view
}

func (t *txStore) Users() repository.UserRepository       { return &userRepo{t.v} }
func (t *txStore) Posts() repository.PostRepository       { return &postRepo{t.v} }
func (t *txStore) Comments() repository.CommentRepository { return &commentRepo{t.v} }

func (t *txStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, t)
}

func (t *txStore) Close(ctx context.Context) error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	c.SavedPosts = append([]string{}, u.SavedPosts...)
	c.Followers = append([]string{}, u.Followers...)
	c.Following = append([]string{}, u.Following...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	return &c
}

func copyComment(cm *models.Comment) *models.Comment {
	c := *cm
	c.Likes = append([]string{}, cm.Likes...)
	return &c
}

var _ repository.Store = (*Store)(nil)
