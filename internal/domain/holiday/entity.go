package holiday

import (
	"time"
)

// Holiday is a non-working calendar day. Empty Departments and Locations make
// it apply to everyone.
type Holiday struct {
	ID          string
	CompanyID   string
	Name        string
	Date        time.Time
	Departments []string
	Locations   []string
	CreatedAt   time.Time
}

// SameDay reports whether the holiday falls on t's calendar day. Each value is
// read in its own location so a stored UTC midnight compares as a date.
func (h Holiday) SameDay(t time.Time) bool {
	hy, hm, hd := h.Date.Date()
	ty, tm, td := t.Date()
	return hy == ty && hm == tm && hd == td
}

// AppliesTo reports whether the holiday covers the department and location.
// A nil filter is not checked.
func (h Holiday) AppliesTo(department, location *string) bool {
	if department != nil && len(h.Departments) > 0 && !contains(h.Departments, *department) {
		return false
	}
	if location != nil && len(h.Locations) > 0 && !contains(h.Locations, *location) {
		return false
	}
	return true
}

// Match returns the first holiday covering date for the given filters.
func Match(holidays []Holiday, date time.Time, department, location *string) *Holiday {
	for i := range holidays {
		if holidays[i].SameDay(date) && holidays[i].AppliesTo(department, location) {
			return &holidays[i]
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
