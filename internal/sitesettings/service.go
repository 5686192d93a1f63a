package sitesettings

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSingleton is returned for operations that would add or remove the single
// settings document.
var ErrSingleton = errors.New("homepage settings is a singleton")

type Service struct {
	repo     Repository
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location, now: time.Now}
}

// Current returns the stored settings, or the defaults when nothing is stored.
func (s *Service) Current(ctx context.Context) (HomepageSettings, error) {
	item, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Defaults(), nil
		}
		return HomepageSettings{}, err
	}
	return item, nil
}

// Update always writes the singleton document.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (HomepageSettings, error) {
	item := HomepageSettings{
		ID:             SingletonID,
		HeroHeading:    strings.TrimSpace(req.HeroHeading),
		HeroSubheading: strings.TrimSpace(req.HeroSubheading),
		UpdatedAt:      s.now().In(s.location),
	}
	return s.repo.Upsert(ctx, item)
}

func (s *Service) Create(ctx context.Context, req UpdateRequest) (HomepageSettings, error) {
	return HomepageSettings{}, ErrSingleton
}

func (s *Service) Delete(ctx context.Context) error {
	return ErrSingleton
}

// EnsureSeeded stores the defaults if the singleton does not exist yet.
func (s *Service) EnsureSeeded(ctx context.Context) (bool, error) {
	item := Defaults()
	item.UpdatedAt = s.now().In(s.location)
	return s.repo.InsertIfMissing(ctx, item)
}
