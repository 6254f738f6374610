package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLate    Status = "late"
	StatusOnLeave Status = "on-leave"
)

var StatusValues = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusHalfDay),
	string(StatusLate),
	string(StatusOnLeave),
}

type BreakType string

const (
	BreakTypeLunch    BreakType = "lunch"
	BreakTypeShort    BreakType = "short"
	BreakTypePersonal BreakType = "personal"
	BreakTypeOther    BreakType = "other"
)

var BreakTypeValues = []string{
	string(BreakTypeLunch),
	string(BreakTypeShort),
	string(BreakTypePersonal),
	string(BreakTypeOther),
}

// Punch is one check-in or check-out fact.
type Punch struct {
	Time       time.Time `json:"time"`
	Location   *string   `json:"location,omitempty"`
	IPAddress  *string   `json:"ip_address,omitempty"`
	DeviceInfo *string   `json:"device_info,omitempty"`
}

type Break struct {
	ID        string     `json:"id"`
	BreakType BreakType  `json:"break_type"`
	Reason    *string    `json:"reason,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Duration  *int       `json:"duration,omitempty"` // minutes
	IsActive  bool       `json:"is_active"`
}

// Open reports whether the break has started and not been ended.
func (b Break) Open() bool {
	return b.IsActive && b.EndTime == nil
}

type ActivityNote struct {
	ID        string     `json:"id"`
	Time      time.Time  `json:"time"`
	Note      string     `json:"note"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Entry is one employee's attendance for one calendar day.
// (EmployeeID, Date) is unique.
type Entry struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Date       time.Time

	CheckIn  *Punch
	CheckOut *Punch
	Breaks   []Break

	// Derived, in minutes
	TotalWorkingHours int
	TotalBreakTime    int
	IsLate            bool
	LateMinutes       int
	Overtime          int

	Status        Status
	ActivityNotes []ActivityNote
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// EntryKey is the natural key of an Entry.
type EntryKey struct {
	CompanyID  string
	EmployeeID string
	Date       time.Time
}

// Key returns the natural key with the date normalized to midnight.
func (e Entry) Key() EntryKey {
	return EntryKey{
		CompanyID:  e.CompanyID,
		EmployeeID: e.EmployeeID,
		Date:       StartOfDay(e.Date, e.Date.Location()),
	}
}

// String renders the key for lock tables and logs.
func (k EntryKey) String() string {
	return k.CompanyID + "/" + k.EmployeeID + "/" + k.Date.Format("2006-01-02")
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EntryFilter selects entries for findEntriesInRange. Nil fields are unbounded.
type EntryFilter struct {
	CompanyID   string
	EmployeeIDs []string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *Status
}
