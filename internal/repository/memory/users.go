package memory

import (
	"context"
	"time"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/relation"
	"snapgram-backend/internal/repository"
)

type userRepo struct {
	v *view
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	r.v.lock()
	defer r.v.unlock()

	for _, u := range r.v.s.data.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.v.s.data.users[user.ID] = copyUser(user)
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.v.lock()
	defer r.v.unlock()

	u, ok := r.v.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.v.lock()
	defer r.v.unlock()

	for _, u := range r.v.s.data.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *userRepo) AddToList(ctx context.Context, userID string, list repository.UserList, value string) error {
	return r.mutateList(userID, list, func(set []string) []string { return relation.Insert(set, value) })
}

func (r *userRepo) RemoveFromList(ctx context.Context, userID string, list repository.UserList, value string) error {
	return r.mutateList(userID, list, func(set []string) []string { return relation.Delete(set, value) })
}

func (r *userRepo) RemoveFromAllLists(ctx context.Context, list repository.UserList, value string) error {
	r.v.lock()
	defer r.v.unlock()

	for _, u := range r.v.s.data.users {
		field := listField(u, list)
		if relation.Contains(*field, value) {
			*field = relation.Delete(*field, value)
			u.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.v.lock()
	defer r.v.unlock()

	if _, ok := r.v.s.data.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.v.s.data.users, id)
	return nil
}

func (r *userRepo) mutateList(userID string, list repository.UserList, fn func([]string) []string) error {
	r.v.lock()
	defer r.v.unlock()

	u, ok := r.v.s.data.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	field := listField(u, list)
	*field = fn(*field)
	u.UpdatedAt = time.Now()
	return nil
}

func listField(u *models.User, list repository.UserList) *[]string {
	switch list {
	case repository.Followers:
		return &u.Followers
	case repository.Following:
		return &u.Following
	default:
		return &u.SavedPosts
	}
}
