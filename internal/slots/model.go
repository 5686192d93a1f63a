package slots

import (
	"time"

	"lawsite-backend/internal/schedule"
)

const (
	TypeInitial  = "initial"
	TypeFollowup = "followup"
	TypeGeneral  = "general"
)

// Slot is a bookable window on a single calendar day. IsAvailable is set by
// staff only; bookings never change it.
type Slot struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Date        string    `bson:"date" json:"date"`
	StartTime   string    `bson:"start_time" json:"start_time"`
	EndTime     string    `bson:"end_time" json:"end_time"`
	SlotType    string    `bson:"slot_type" json:"slot_type"`
	IsAvailable bool      `bson:"is_available" json:"is_available"`
	Notes       string    `bson:"notes" json:"notes"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// DurationMinutes is end minus start in whole minutes, 0 if the stored times are unreadable.
func (s Slot) DurationMinutes(loc *time.Location) int {
	d, err := schedule.DurationMinutes(s.Date, s.StartTime, s.EndTime, loc)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// IsInPast reports whether now is after the slot's end on its date in loc.
func (s Slot) IsInPast(loc *time.Location, now time.Time) bool {
	past, err := schedule.IsInPast(s.Date, s.EndTime, loc, now)
	if err != nil {
		return false
	}
	return past
}

type PublicSlot struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	SlotType        string `json:"slot_type"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (s Slot) Public(loc *time.Location) PublicSlot {
	return PublicSlot{
		ID:              s.ID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		SlotType:        s.SlotType,
		DurationMinutes: s.DurationMinutes(loc),
	}
}

type AdminSlot struct {
	Slot
	DurationMinutes int      `json:"duration_minutes"`
	InPast          bool     `json:"in_past"`
	OverlapsWith    []string `json:"overlaps_with,omitempty"`
}

type UpsertRequest struct {
	Date        string `json:"date" validate:"required,date"`
	StartTime   string `json:"start_time" validate:"required,clock"`
	EndTime     string `json:"end_time" validate:"required,clock"`
	SlotType    string `json:"slot_type" validate:"required,oneof=initial followup general"`
	IsAvailable *bool  `json:"is_available"`
	Notes       string `json:"notes" validate:"max=2000"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type AdminListFilter struct {
	From          string
	To            string
	OnlyAvailable bool
}
