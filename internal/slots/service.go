package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lawsite-backend/internal/cache"
	"lawsite-backend/internal/schedule"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const openSlotsCacheKey = "slots:open"

var (
	ErrNotFound         = errors.New("slot not found")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidSlotType  = errors.New("invalid slot type")
)

// SubmissionPurger removes the booking submissions attached to a slot.
type SubmissionPurger interface {
	DeleteBySlot(ctx context.Context, slotID string) (int64, error)
}

type Service struct {
	repo     Repository
	purger   SubmissionPurger
	cache    cache.Cache
	cacheTTL time.Duration
	location *time.Location
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, purger SubmissionPurger, c cache.Cache, cacheTTL time.Duration, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		purger:   purger,
		cache:    c,
		cacheTTL: cacheTTL,
		location: location,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.location
}

// SetPurger wires the cascade target after construction; the bookings
// service depends on this one, so the two are built in sequence.
func (s *Service) SetPurger(p SubmissionPurger) {
	s.purger = p
}

func (s *Service) CreateSlot(ctx context.Context, req UpsertRequest) (Slot, error) {
	fields, err := normalize(req)
	if err != nil {
		return Slot{}, err
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	now := s.now().In(s.location)
	slot := Slot{
		ID:          primitive.NewObjectID().Hex(),
		Date:        fields.Date,
		StartTime:   fields.StartTime,
		EndTime:     fields.EndTime,
		SlotType:    fields.SlotType,
		IsAvailable: isAvailable,
		Notes:       fields.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return Slot{}, err
	}
	s.invalidate(ctx)
	return slot, nil
}

func (s *Service) GetSlot(ctx context.Context, id string) (Slot, error) {
	slot, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, err
	}
	return slot, nil
}

func (s *Service) UpdateSlot(ctx context.Context, id string, req UpsertRequest) (Slot, error) {
	fields, err := normalize(req)
	if err != nil {
		return Slot{}, err
	}

	set := bson.M{
		"date":       fields.Date,
		"start_time": fields.StartTime,
		"end_time":   fields.EndTime,
		"slot_type":  fields.SlotType,
		"notes":      fields.Notes,
		"updated_at": s.now().In(s.location),
	}
	if req.IsAvailable != nil {
		set["is_available"] = *req.IsAvailable
	}

	return s.update(ctx, id, set)
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (Slot, error) {
	return s.update(ctx, id, bson.M{
		"is_available": available,
		"updated_at":   s.now().In(s.location),
	})
}

func (s *Service) update(ctx context.Context, id string, set bson.M) (Slot, error) {
	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Slot{}, ErrNotFound
		}
		return Slot{}, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteSlot removes every submission referencing the slot, then the slot
// itself. A failed purge leaves the slot in place so the delete can be retried.
func (s *Service) DeleteSlot(ctx context.Context, id string) (int64, error) {
	id = strings.TrimSpace(id)
	if _, err := s.GetSlot(ctx, id); err != nil {
		return 0, err
	}

	var purged int64
	if s.purger != nil {
		n, err := s.purger.DeleteBySlot(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("purge submissions for slot %s: %w", id, err)
		}
		purged = n
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return purged, err
	}
	if !deleted {
		return purged, ErrNotFound
	}
	s.invalidate(ctx)
	return purged, nil
}

// ListOpenSlots returns every slot flagged available, ordered by date then
// start time. Past slots are included; use Upcoming to drop them.
func (s *Service) ListOpenSlots(ctx context.Context) ([]Slot, error) {
	if cached, ok := s.cachedOpen(ctx); ok {
		return cached, nil
	}

	items, err := s.repo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, openSlotsCacheKey, payload, s.cacheTTL); err != nil {
				s.log.Warn("slots cache: set failed", slog.String("error", err.Error()))
			}
		}
	}
	return items, nil
}

// Upcoming keeps the slots that have not ended as of now.
func (s *Service) Upcoming(items []Slot, now time.Time) []Slot {
	out := make([]Slot, 0, len(items))
	for _, slot := range items {
		if !slot.IsInPast(s.location, now) {
			out = append(out, slot)
		}
	}
	return out
}

func (s *Service) DurationMinutes(slot Slot) int {
	return slot.DurationMinutes(s.location)
}

func (s *Service) ListAdmin(ctx context.Context, filter AdminListFilter, limit, offset int64) ([]AdminSlot, int64, error) {
	items, err := s.repo.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountAdmin(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	out := make([]AdminSlot, 0, len(items))
	for _, slot := range items {
		out = append(out, AdminSlot{
			Slot:            slot,
			DurationMinutes: slot.DurationMinutes(s.location),
			InPast:          slot.IsInPast(s.location, now),
			OverlapsWith:    overlapping(slot, items),
		})
	}
	return out, total, nil
}

// overlapping lists slots on the same day whose times intersect slot. It is
// informational only: staff may keep overlapping slots on purpose.
func overlapping(slot Slot, all []Slot) []string {
	current, err := schedule.ClockInterval(slot.StartTime, slot.EndTime)
	if err != nil {
		return nil
	}
	var ids []string
	for _, other := range all {
		if other.ID == slot.ID || other.Date != slot.Date {
			continue
		}
		interval, err := schedule.ClockInterval(other.StartTime, other.EndTime)
		if err != nil {
			continue
		}
		if schedule.Overlaps(current, interval) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}

func (s *Service) cachedOpen(ctx context.Context) ([]Slot, bool) {
	if s.cache == nil {
		return nil, false
	}
	payload, ok, err := s.cache.Get(ctx, openSlotsCacheKey)
	if err != nil {
		s.log.Warn("slots cache: get failed", slog.String("error", err.Error()))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var items []Slot
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, openSlotsCacheKey); err != nil {
		s.log.Warn("slots cache: invalidate failed", slog.String("error", err.Error()))
	}
}

func normalize(req UpsertRequest) (UpsertRequest, error) {
	out := UpsertRequest{
		Date:      strings.TrimSpace(req.Date),
		StartTime: strings.TrimSpace(req.StartTime),
		EndTime:   strings.TrimSpace(req.EndTime),
		SlotType:  strings.TrimSpace(req.SlotType),
		Notes:     strings.TrimSpace(req.Notes),
	}

	if _, err := schedule.ParseDate(out.Date, time.UTC); err != nil {
		return UpsertRequest{}, err
	}
	if err := schedule.ValidateRange(out.StartTime, out.EndTime); err != nil {
		if errors.Is(err, schedule.ErrEndBeforeStart) {
			return UpsertRequest{}, ErrInvalidTimeRange
		}
		return UpsertRequest{}, err
	}
	switch out.SlotType {
	case TypeInitial, TypeFollowup, TypeGeneral:
	default:
		return UpsertRequest{}, ErrInvalidSlotType
	}
	return out, nil
}
