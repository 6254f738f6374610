package schedule

import (
	"math"
	"time"
)

// ParseClock parses "HH:mm" into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return 0, 0, ErrMalformedShiftTime
	}
	return t.Hour(), t.Minute(), nil
}

// ShiftInstant builds the instant of an "HH:mm" wall clock on ref's calendar
// day, in ref's location.
func ShiftInstant(clock string, ref time.Time) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), nil
}

// ClassifyLateness compares a check-in against the shift start. A missing or
// malformed start yields the zero Lateness.
func ClassifyLateness(shiftStart *string, checkIn time.Time) Lateness {
	if shiftStart == nil {
		return Lateness{}
	}
	start, err := ShiftInstant(*shiftStart, checkIn)
	if err != nil {
		return Lateness{}
	}
	if !checkIn.After(start) {
		return Lateness{}
	}
	return Lateness{
		IsLate:      true,
		LateMinutes: int(math.Floor(checkIn.Sub(start).Minutes())),
	}
}

// ClassifyOvertime returns whole minutes worked past the shift end, or 0.
func ClassifyOvertime(shiftEnd *string, checkOut time.Time) int {
	if shiftEnd == nil {
		return 0
	}
	end, err := ShiftInstant(*shiftEnd, checkOut)
	if err != nil {
		return 0
	}
	if !checkOut.After(end) {
		return 0
	}
	return int(math.Floor(checkOut.Sub(end).Minutes()))
}

// Lateness returns the classification for p, tolerating a nil policy.
func (p *ShiftPolicy) Lateness(checkIn time.Time) Lateness {
	if p == nil {
		return Lateness{}
	}
	return ClassifyLateness(p.StartTime, checkIn)
}

// Overtime returns overtime minutes for p, tolerating a nil policy.
func (p *ShiftPolicy) Overtime(checkOut time.Time) int {
	if p == nil {
		return 0
	}
	return ClassifyOvertime(p.EndTime, checkOut)
}
