package service

import (
	"context"
	"errors"

	"jbarisic/gymtrack/internal/domain"
	"jbarisic/gymtrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrMissingFields    = errors.New("missing required fields")
	ErrPasswordTooShort = errors.New("new password must be at least 6 characters")
	ErrWrongPassword    = errors.New("current password is incorrect")
)

const minPasswordLength = 6

// UserService covers the authenticated user's own profile.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	// UpdateProfile changes username and/or email; nil fields keep their
	// current value.
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, username, email *string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error
}

// userService implements the UserService interface.
type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new instance of userService.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetProfile returns the caller's own account.
func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile overwrites only the provided fields and returns the fresh
// profile.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, username, email *string) (*domain.User, error) {
	if username != nil || email != nil {
		err := s.userRepo.UpdateProfile(ctx, userID, username, email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}
	return s.GetProfile(ctx, userID)
}

// ChangePassword verifies the current password before storing a hash of
// the new one. The plaintext never touches the repository.
func (s *userService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return ErrMissingFields
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrHashingFailed
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, string(hashed))
}
