package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// RecordCheckIn sets the day's check-in. The time is never overwritten.
func RecordCheckIn(e *Entry, punch Punch) error {
	if e.CheckIn != nil {
		return ErrAlreadyCheckedIn
	}
	e.CheckIn = &punch
	return nil
}

// RecordCheckOut sets the day's check-out. An open break does not block it.
func RecordCheckOut(e *Entry, punch Punch) error {
	if e.CheckIn == nil {
		return ErrNoCheckIn
	}
	if e.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	e.CheckOut = &punch
	return nil
}

// StartBreak appends a new active break starting at now.
func StartBreak(e *Entry, breakType BreakType, reason *string, now time.Time) error {
	if e.CheckIn == nil {
		return ErrNotCheckedIn
	}
	if e.CheckOut != nil {
		return ErrAlreadyCheckedOut
	}
	if _, ok := ActiveBreak(*e); ok {
		return ErrBreakAlreadyActive
	}

	e.Breaks = append(e.Breaks, Break{
		ID:        uuid.New().String(),
		BreakType: breakType,
		Reason:    reason,
		StartTime: now,
		IsActive:  true,
	})
	return nil
}

// EndBreak closes the active break at now and records its duration.
func EndBreak(e *Entry, now time.Time) error {
	idx, ok := ActiveBreak(*e)
	if !ok {
		return ErrNoActiveBreak
	}

	b := &e.Breaks[idx]
	end := now
	// A break left open over check-out ends with the day.
	if e.CheckOut != nil && end.After(e.CheckOut.Time) {
		end = e.CheckOut.Time
	}
	duration := floorMinutes(end.Sub(b.StartTime))
	b.EndTime = &end
	b.Duration = &duration
	b.IsActive = false
	return nil
}

// ActiveBreak returns the index of the open break, if any.
func ActiveBreak(e Entry) (int, bool) {
	for i := len(e.Breaks) - 1; i >= 0; i-- {
		if e.Breaks[i].Open() {
			return i, true
		}
	}
	return -1, false
}

// AddActivityNote appends a timestamped note.
func AddActivityNote(e *Entry, note string, now time.Time) ActivityNote {
	n := ActivityNote{
		ID:   uuid.New().String(),
		Time: now,
		Note: note,
	}
	e.ActivityNotes = append(e.ActivityNotes, n)
	return n
}

// UpdateActivityNote replaces the text of the note with the given id.
func UpdateActivityNote(e *Entry, id string, note string, now time.Time) error {
	for i := range e.ActivityNotes {
		if e.ActivityNotes[i].ID == id {
			e.ActivityNotes[i].Note = note
			updatedAt := now
			e.ActivityNotes[i].UpdatedAt = &updatedAt
			return nil
		}
	}
	return ErrActivityNoteNotFound
}

// Recompute derives TotalWorkingHours and TotalBreakTime once both check-in
// and check-out exist. Breaks without an end time are not counted. The result
// is never negative and recomputing twice changes nothing.
func Recompute(e Entry) Entry {
	if e.CheckIn == nil || e.CheckOut == nil {
		return e
	}

	gross := floorMinutes(e.CheckOut.Time.Sub(e.CheckIn.Time))

	var breakDuration time.Duration
	for _, b := range e.Breaks {
		if b.EndTime == nil {
			continue
		}
		if d := b.EndTime.Sub(b.StartTime); d > 0 {
			breakDuration += d
		}
	}
	breakMinutes := floorMinutes(breakDuration)

	e.TotalBreakTime = breakMinutes
	e.TotalWorkingHours = max(0, gross-breakMinutes)
	return e
}

// Totals are running figures in whole minutes.
type Totals struct {
	LoginMinutes   int `json:"total_login_minutes"`
	BreakMinutes   int `json:"total_break_minutes"`
	WorkingMinutes int `json:"total_working_minutes"`
}

// LiveTotals computes display totals for a day that may still be in progress.
// An open break counts up to now.
func LiveTotals(e Entry, now time.Time) Totals {
	if e.CheckIn == nil {
		return Totals{}
	}

	end := now
	if e.CheckOut != nil {
		end = e.CheckOut.Time
	}
	login := floorMinutes(end.Sub(e.CheckIn.Time))

	breaks := 0
	for _, b := range e.Breaks {
		breakEnd := now
		if b.EndTime != nil {
			breakEnd = *b.EndTime
		}
		breaks += floorMinutes(breakEnd.Sub(b.StartTime))
	}

	return Totals{
		LoginMinutes:   login,
		BreakMinutes:   breaks,
		WorkingMinutes: max(0, login-breaks),
	}
}

// floorMinutes returns whole minutes in d, clamped at zero.
func floorMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Minutes()))
}
