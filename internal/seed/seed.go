// Package seed fills a store with demo accounts, posts and relationships.
// It goes through the services so every invariant of the API holds for the
// generated data. Intended for development only.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"snapgram-backend/internal/models"
	"snapgram-backend/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog/log"
)

// Options controls how much data is generated
type Options struct {
	Users int
}

// Result counts what was created
type Result struct {
	Users   int
	Posts   int
	Follows int
	Likes   int
	Saves   int
}

// Seeder generates demo data through the services
type Seeder struct {
	users *services.UserService
	posts *services.PostService
	faker *gofakeit.Faker
}

// New creates a seeder
func New(users *services.UserService, posts *services.PostService, seed int64) *Seeder {
	return &Seeder{
		users: users,
		posts: posts,
		faker: gofakeit.New(seed),
	}
}

// Run signs up opts.Users accounts, gives each one post and toggles random
// follows, likes and saves between them.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{}
	accounts := make([]*models.AuthResponse, 0, opts.Users)
	var posts []*models.Post

	for i := 0; i < opts.Users; i++ {
		account, err := s.users.Signup(ctx, services.SignupInput{
			GivenName:  s.faker.FirstName(),
			FamilyName: s.faker.LastName(),
			Email:      fmt.Sprintf("seed%d.%s", i, s.faker.Email()),
			Password:   s.faker.Password(true, true, true, false, false, 12),
		})
		if err != nil {
			return res, fmt.Errorf("failed to sign up seed user %d: %w", i, err)
		}
		accounts = append(accounts, account)
		res.Users++

		picture, err := s.picture()
		if err != nil {
			return res, err
		}

		post, err := s.posts.CreatePost(ctx, account.ID, s.faker.Sentence(6), &services.Upload{
			Filename: fmt.Sprintf("seed-%d.png", i),
			Data:     picture,
		})
		if err != nil {
			return res, fmt.Errorf("failed to create seed post for %s: %w", account.ID, err)
		}
		posts = append(posts, post)
		res.Posts++
	}

	for _, account := range accounts {
		for _, other := range accounts {
			if other.ID == account.ID || !s.faker.Bool() {
				continue
			}
			if _, err := s.users.ToggleFollow(ctx, account.ID, other.ID); err != nil {
				return res, fmt.Errorf("failed to follow: %w", err)
			}
			res.Follows++
		}

		for _, post := range posts {
			if s.faker.Number(0, 2) == 0 {
				if _, err := s.posts.ToggleLikePost(ctx, account.ID, post.ID); err != nil {
					return res, fmt.Errorf("failed to like: %w", err)
				}
				res.Likes++
			}
			if s.faker.Number(0, 4) == 0 {
				if _, err := s.posts.ToggleSavePost(ctx, account.ID, post.ID); err != nil {
					return res, fmt.Errorf("failed to save: %w", err)
				}
				res.Saves++
			}
		}
	}

	log.Info().
		Int("users", res.Users).
		Int("posts", res.Posts).
		Int("follows", res.Follows).
		Int("likes", res.Likes).
		Int("saves", res.Saves).
		Msg("Seed data created")

	return res, nil
}

// picture renders a small solid PNG in a random colour
func (s *Seeder) picture() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: s.faker.Uint8(), G: s.faker.Uint8(), B: s.faker.Uint8(), A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode seed picture: %w", err)
	}
	return buf.Bytes(), nil
}
