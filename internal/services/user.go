package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snapgram-backend/internal/media"
	"snapgram-backend/internal/models"
	"snapgram-backend/internal/relation"
	"snapgram-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost          = 10
	invalidCredentials  = "Invalid email & password combination."
	missingSignupFields = "Please fill all the details."
)

// SignupInput holds the fields submitted on signup
type SignupInput struct {
	GivenName  string
	FamilyName string
	Email      string
	Password   string
	Image      *Upload
}

// UserService handles user-related business logic
type UserService struct {
	store    repository.Store
	media    media.Store
	cleaner  *ImageCleaner
	tokens   *TokenService
	notifier Notifier
}

// NewUserService creates a new user service
func NewUserService(store repository.Store, mediaStore media.Store, cleaner *ImageCleaner, tokens *TokenService, notifier Notifier) *UserService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &UserService{
		store:    store,
		media:    mediaStore,
		cleaner:  cleaner,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Signup registers a new account and issues credentials
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.AuthResponse, error) {
	email := strings.TrimSpace(in.Email)
	if in.GivenName == "" || in.FamilyName == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError(missingSignupFields)
	}

	exists, err := s.store.Users().EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, models.NewConflictError("Email has already been taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	picture := models.DefaultDisplayPicture
	if in.Image != nil {
		img, err := uploadImage(ctx, s.media, in.Image)
		if err != nil {
			return nil, err
		}
		picture = img.URL
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:             uuid.New().String(),
		GivenName:      in.GivenName,
		FamilyName:     in.FamilyName,
		DisplayPicture: picture,
		Email:          email,
		Password:       string(hash),
		SavedPosts:     []string{},
		Followers:      []string{},
		Following:      []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, models.NewConflictError("Email has already been taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("User signed up")

	return s.authResponse(user)
}

// Signin checks a password and issues fresh credentials
func (s *UserService) Signin(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, models.NewValidationError(missingSignupFields)
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}

	return s.authResponse(user)
}

func (s *UserService) authResponse(user *models.User) (*models.AuthResponse, error) {
	creds, err := s.tokens.IssueCredentials(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		ID:             user.ID,
		GivenName:      user.GivenName,
		FamilyName:     user.FamilyName,
		DisplayPicture: user.DisplayPicture,
		Email:          user.Email,
		Credentials:    *creds,
	}, nil
}

// GetProfile returns the public profile of a user
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, models.NewValidationError("User Id was not sent in the params.")
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User", userID)
	}
	return user, nil
}

// ToggleFollow makes userID follow creatorID, or unfollow when already following.
// Both sides are written in one transaction.
func (s *UserService) ToggleFollow(ctx context.Context, userID, creatorID string) (string, error) {
	if userID == "" || creatorID == "" {
		return "", models.NewValidationError("Creator Id or User Id either one was not sent in the params.")
	}
	if userID == creatorID {
		return "", models.NewValidationError("You cannot follow yourself.")
	}

	var (
		action  relation.Action
		creator *models.User
	)

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "User", userID)
		}

		creator, err = tx.Users().GetByID(ctx, creatorID)
		if err != nil {
			return notFound(err, "Creator", creatorID)
		}

		action = relation.Decide(
			relation.Contains(user.Following, creatorID),
			relation.Contains(creator.Followers, userID),
		)

		// Step 1: caller's following list
		if err := applyToList(ctx, tx.Users(), action, userID, repository.Following, creatorID); err != nil {
			return err
		}

		// Step 2: creator's followers list
		return applyToList(ctx, tx.Users(), action, creatorID, repository.Followers, userID)
	})
	if err != nil {
		return "", err
	}

	log.Info().
		Str("user_id", userID).
		Str("creator_id", creatorID).
		Str("action", action.String()).
		Msg("Follow toggled")

	if action == relation.Remove {
		return "You have unfollowed " + creator.FullName(), nil
	}

	s.notifier.Notify(creatorID, WSMessage{Type: EventNewFollower, ActorID: userID})
	return "You are now following " + creator.FullName(), nil
}

func applyToList(ctx context.Context, users repository.UserRepository, action relation.Action, userID string, list repository.UserList, value string) error {
	var err error
	if action == relation.Remove {
		err = users.RemoveFromList(ctx, userID, list, value)
	} else {
		err = users.AddToList(ctx, userID, list, value)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s of %s: %w", list, userID, err)
	}
	return nil
}

// DeleteAccount removes a user and everything that references them.
// Hosted images of the deleted posts are removed after commit.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return models.NewValidationError("User Id not sent in the params.")
	}

	var pictures []string

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return notFound(err, "User", userID)
		}

		posts, err := tx.Posts().ListByAuthor(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		postIDs := make([]string, 0, len(posts))
		pictures = make([]string, 0, len(posts))
		for _, p := range posts {
			postIDs = append(postIDs, p.ID)
			pictures = append(pictures, p.PostPicture.ID)
		}

		// Step 1: likes given by the user
		if err := tx.Posts().RemoveLikeEverywhere(ctx, userID); err != nil {
			return fmt.Errorf("failed to remove post likes: %w", err)
		}
		if err := tx.Comments().RemoveLikeEverywhere(ctx, userID); err != nil {
			return fmt.Errorf("failed to remove comment likes: %w", err)
		}

		// Step 2: follow graph
		if err := tx.Users().RemoveFromAllLists(ctx, repository.Followers, userID); err != nil {
			return fmt.Errorf("failed to remove followers: %w", err)
		}
		if err := tx.Users().RemoveFromAllLists(ctx, repository.Following, userID); err != nil {
			return fmt.Errorf("failed to remove following: %w", err)
		}

		// Step 3: saved lists pointing at the user's posts
		for _, id := range postIDs {
			if err := tx.Users().RemoveFromAllLists(ctx, repository.SavedPosts, id); err != nil {
				return fmt.Errorf("failed to unsave post %s: %w", id, err)
			}
		}

		// Step 4: content
		if err := tx.Comments().DeleteByPosts(ctx, postIDs); err != nil {
			return fmt.Errorf("failed to delete comments on posts: %w", err)
		}
		if err := tx.Comments().DeleteByAuthor(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Posts().DeleteByAuthor(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete posts: %w", err)
		}

		if err := tx.Users().Delete(ctx, userID); err != nil {
			return notFound(err, "User", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cleaner.Remove(pictures...)

	log.Info().Str("user_id", userID).Int("posts", len(pictures)).Msg("Account deleted")
	return nil
}
