package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/relation"
	"snapgram-backend/internal/repository"
)

type postRepo struct {
	v *view
}

func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	r.v.lock()
	defer r.v.unlock()

	r.v.s.data.posts[post.ID] = copyPost(post)
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.v.lock()
	defer r.v.unlock()

	p, ok := r.v.s.data.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPost(p), nil
}

func (r *postRepo) List(ctx context.Context) ([]*models.Post, error) {
	return r.filter(func(*models.Post) bool { return true }), nil
}

func (r *postRepo) ListByAuthor(ctx context.Context, authorID string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return p.Author == authorID }), nil
}

func (r *postRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool { return slices.Contains(ids, p.ID) }), nil
}

func (r *postRepo) UpdateCaption(ctx context.Context, id, caption string) (*models.Post, error) {
	return r.mutate(id, func(p *models.Post) { p.Caption = caption })
}

func (r *postRepo) AddLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) { p.Likes = relation.Insert(p.Likes, userID) })
}

func (r *postRepo) RemoveLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return r.mutate(postID, func(p *models.Post) { p.Likes = relation.Delete(p.Likes, userID) })
}

func (r *postRepo) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	r.v.lock()
	defer r.v.unlock()

	for _, p := range r.v.s.data.posts {
		if relation.Contains(p.Likes, userID) {
			p.Likes = relation.Delete(p.Likes, userID)
			p.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	r.v.lock()
	defer r.v.unlock()

	if _, ok := r.v.s.data.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.v.s.data.posts, id)
	return nil
}

func (r *postRepo) DeleteByAuthor(ctx context.Context, authorID string) error {
	r.v.lock()
	defer r.v.unlock()

	for id, p := range r.v.s.data.posts {
		if p.Author == authorID {
			delete(r.v.s.data.posts, id)
		}
	}
	return nil
}

func (r *postRepo) filter(keep func(*models.Post) bool) []*models.Post {
	r.v.lock()
	defer r.v.unlock()

	posts := make([]*models.Post, 0)
	for _, p := range r.v.s.data.posts {
		if keep(p) {
			posts = append(posts, copyPost(p))
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r *postRepo) mutate(id string, fn func(*models.Post)) (*models.Post, error) {
	r.v.lock()
	defer r.v.unlock()

	p, ok := r.v.s.data.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}
