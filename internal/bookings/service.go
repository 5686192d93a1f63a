package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"lawsite-backend/internal/slots"
	"lawsite-backend/internal/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("booking submission not found")
	ErrSlotNotFound = errors.New("slot not found")
)

// ValidationError carries field level problems keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "invalid booking submission"
}

type SlotLookup interface {
	GetSlot(ctx context.Context, id string) (slots.Slot, error)
}

type Service struct {
	repo     Repository
	slots    SlotLookup
	val      *validation.Validator
	location *time.Location
	now      func() time.Time
}

func NewService(repo Repository, slotLookup SlotLookup, val *validation.Validator, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		slots:    slotLookup,
		val:      val,
		location: location,
		now:      time.Now,
	}
}

// Submit stores a new submission against slotID. The slot's availability is
// left untouched, so the same slot can collect several submissions.
func (s *Service) Submit(ctx context.Context, slotID string, req SubmitRequest) (Submission, slots.Slot, error) {
	req = SubmitRequest{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.val.Struct(req); err != nil {
		fields := map[string]string{}
		for _, fe := range s.val.ValidationErrors(err) {
			fields[fe.Field()] = fe.Tag()
		}
		return Submission{}, slots.Slot{}, &ValidationError{Fields: fields}
	}

	slot, err := s.slots.GetSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, slots.ErrNotFound) {
			return Submission{}, slots.Slot{}, ErrSlotNotFound
		}
		return Submission{}, slots.Slot{}, err
	}

	item := Submission{
		ID:          primitive.NewObjectID().Hex(),
		SlotID:      slot.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Description: req.Description,
		IsPaid:      false,
		CreatedAt:   s.now().In(s.location),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return Submission{}, slots.Slot{}, err
	}
	return item, slot, nil
}

func (s *Service) Get(ctx context.Context, id string) (Submission, error) {
	item, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return item, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string, paid bool) (Submission, error) {
	item, err := s.repo.SetPaid(ctx, strings.TrimSpace(id), paid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Submission, int64, error) {
	filter.SlotID = strings.TrimSpace(filter.SlotID)
	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DeleteBySlot lets the slot service cascade deletes.
func (s *Service) DeleteBySlot(ctx context.Context, slotID string) (int64, error) {
	return s.repo.DeleteBySlot(ctx, slotID)
}
