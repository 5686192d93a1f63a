package leads

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lawsite-backend/internal/validation"
)

// ValidationError carries field level problems keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid contact submission"
}

type Service struct {
	repo     Repository
	val      *validation.Validator
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, val *validation.Validator, location *time.Location) *Service {
	return &Service{repo: repo, val: val, location: location, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req ContactRequest) (Lead, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.val.Struct(req); err != nil {
		fields := map[string]string{}
		for _, fe := range s.val.ValidationErrors(err) {
			fields[fe.Field()] = fe.Tag()
		}
		return Lead{}, &ValidationError{Fields: fields}
	}

	lead := Lead{
		ID:        primitive.NewObjectID().Hex(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Consent:   true,
		Source:    SourceContactForm,
		CreatedAt: s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, limit, offset int64) ([]Lead, int64, error) {
	items, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
