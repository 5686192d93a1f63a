package staff

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lawsite-backend/internal/auth"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location, now: time.Now}
}

// Authenticate returns ErrInvalidCredentials for unknown, inactive or
// mismatched users alike.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	user, err := s.repo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !user.Active {
		return User{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureUser creates or resets a staff account.
func (s *Service) EnsureUser(ctx context.Context, username, email, password string) (User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return User{}, errors.New("missing username")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}
	now := s.now().In(s.location)
	user := User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     username,
		Email:        strings.TrimSpace(strings.ToLower(email)),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
