package schedule

import (
	"errors"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidTime    = errors.New("invalid time format")
	ErrEndBeforeStart = errors.New("end time must be after start time")
)

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// Combine joins a calendar date and a wall clock time into an instant in loc.
func Combine(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	if _, err := time.Parse(ClockLayout, timeStr); err != nil {
		return time.Time{}, ErrInvalidTime
	}
	if _, err := ParseDate(dateStr, loc); err != nil {
		return time.Time{}, err
	}

	parsed, err := time.ParseInLocation(DateLayout+" "+ClockLayout, dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}
	return parsed, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse(ClockLayout, timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

// ValidateRange requires end to be strictly after start on the same day.
func ValidateRange(startStr, endStr string) error {
	start, err := ParseClockToMinutes(startStr)
	if err != nil {
		return err
	}
	end, err := ParseClockToMinutes(endStr)
	if err != nil {
		return err
	}
	if end <= start {
		return ErrEndBeforeStart
	}
	return nil
}

func DurationMinutes(dateStr, startStr, endStr string, loc *time.Location) (int, error) {
	start, err := Combine(dateStr, startStr, loc)
	if err != nil {
		return 0, err
	}
	end, err := Combine(dateStr, endStr, loc)
	if err != nil {
		return 0, err
	}
	return int(end.Sub(start) / time.Minute), nil
}

// IsInPast reports whether now is after the slot's end instant.
func IsInPast(dateStr, endStr string, loc *time.Location, now time.Time) (bool, error) {
	end, err := Combine(dateStr, endStr, loc)
	if err != nil {
		return false, err
	}
	return now.After(end), nil
}

type Interval struct {
	Start int
	End   int
}

func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

func ClockInterval(startStr, endStr string) (Interval, error) {
	start, err := ParseClockToMinutes(startStr)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseClockToMinutes(endStr)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}
