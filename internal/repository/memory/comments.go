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

type commentRepo struct {
	v *view
}

func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.v.lock()
	defer r.v.unlock()

	r.v.s.data.comments[comment.ID] = copyComment(comment)
	return nil
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.v.lock()
	defer r.v.unlock()

	c, ok := r.v.s.data.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyComment(c), nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	r.v.lock()
	defer r.v.unlock()

	comments := make([]*models.Comment, 0)
	for _, c := range r.v.s.data.comments {
		if c.CommentedPost == postID {
			comments = append(comments, copyComment(c))
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (r *commentRepo) UpdateText(ctx context.Context, id, text string) (*models.Comment, error) {
	return r.mutate(id, func(c *models.Comment) { c.Comment = text })
}

func (r *commentRepo) AddLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	return r.mutate(commentID, func(c *models.Comment) { c.Likes = relation.Insert(c.Likes, userID) })
}

func (r *commentRepo) RemoveLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	return r.mutate(commentID, func(c *models.Comment) { c.Likes = relation.Delete(c.Likes, userID) })
}

func (r *commentRepo) RemoveLikeEverywhere(ctx context.Context, userID string) error {
	r.v.lock()
	defer r.v.unlock()

	for _, c := range r.v.s.data.comments {
		if relation.Contains(c.Likes, userID) {
			c.Likes = relation.Delete(c.Likes, userID)
			c.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	r.v.lock()
	defer r.v.unlock()

	if _, ok := r.v.s.data.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.v.s.data.comments, id)
	return nil
}

func (r *commentRepo) DeleteByAuthor(ctx context.Context, authorID string) error {
	return r.deleteWhere(func(c *models.Comment) bool { return c.Author == authorID })
}

func (r *commentRepo) DeleteByPosts(ctx context.Context, postIDs []string) error {
	return r.deleteWhere(func(c *models.Comment) bool { return slices.Contains(postIDs, c.CommentedPost) })
}

func (r *commentRepo) deleteWhere(match func(*models.Comment) bool) error {
	r.v.lock()
	defer r.v.unlock()

	for id, c := range r.v.s.data.comments {
		if match(c) {
			delete(r.v.s.data.comments, id)
		}
	}
	return nil
}

func (r *commentRepo) mutate(id string, fn func(*models.Comment)) (*models.Comment, error) {
	r.v.lock()
	defer r.v.unlock()

	c, ok := r.v.s.data.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(c)
	c.UpdatedAt = time.Now()
	return copyComment(c), nil
}
