package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type PunchRequest struct {
	Location   *string `json:"location,omitempty"`
	DeviceInfo *string `json:"device_info,omitempty"`
	IPAddress  *string `json:"-"`
}

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location != nil && len(*r.Location) > 255 {
		errs.Add("location", "location must not exceed 255 characters")
	}
	if r.DeviceInfo != nil && len(*r.DeviceInfo) > 500 {
		errs.Add("device_info", "device_info must not exceed 500 characters")
	}

	return errs.Err()
}

// Punch converts the request into a ledger punch at t.
func (r PunchRequest) Punch(t time.Time) Punch {
	return Punch{
		Time:       t,
		Location:   r.Location,
		IPAddress:  r.IPAddress,
		DeviceInfo: r.DeviceInfo,
	}
}

type CheckInRequest struct {
	PunchRequest
}

type CheckOutRequest struct {
	PunchRequest
}

// ========================================
// BREAK DTOs
// ========================================

type StartBreakRequest struct {
	BreakType string  `json:"break_type"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	r.BreakType = strings.ToLower(strings.TrimSpace(r.BreakType))
	if r.BreakType == "" {
		r.BreakType = string(BreakTypeOther)
	}
	if !validator.IsInSlice(r.BreakType, BreakTypeValues) {
		errs.Add("break_type", "break_type must be one of: "+strings.Join(BreakTypeValues, ", "))
	}
	if r.Reason != nil && len(*r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	return errs.Err()
}

// ========================================
// ACTIVITY NOTE DTOs
// ========================================

type ActivityNoteRequest struct {
	NoteID string `json:"-"`
	Note   string `json:"note"`
}

func (r *ActivityNoteRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Note = strings.TrimSpace(r.Note)
	if validator.IsEmpty(r.Note) {
		errs.Add("note", "note is required")
	} else if len(r.Note) > 2000 {
		errs.Add("note", "note must not exceed 2000 characters")
	}

	return errs.Err()
}

// ========================================
// ADMIN DTOs
// ========================================

type UpdateEntryRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time,omitempty"`  // RFC3339
	CheckOutTime *string `json:"check_out_time,omitempty"` // RFC3339
	Status       *string `json:"status,omitempty"`

	checkIn  *time.Time
	checkOut *time.Time
}

func (r *UpdateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}

	if r.CheckInTime != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckInTime); ok {
			r.checkIn = &t
		} else {
			errs.Add("check_in_time", "check_in_time must be an RFC3339 timestamp")
		}
	}
	if r.CheckOutTime != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckOutTime); ok {
			r.checkOut = &t
		} else {
			errs.Add("check_out_time", "check_out_time must be an RFC3339 timestamp")
		}
	}
	if r.checkIn != nil && r.checkOut != nil && r.checkOut.Before(*r.checkIn) {
		errs.Add("check_out_time", "check_out_time must not be before check_in_time")
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs.Add("status", "status must be one of: "+strings.Join(StatusValues, ", "))
	}

	if r.CheckInTime == nil && r.CheckOutTime == nil && r.Status == nil {
		errs.Add("body", "at least one of check_in_time, check_out_time, status is required")
	}

	return errs.Err()
}

// ParsedCheckIn returns the check-in time parsed by Validate.
func (r *UpdateEntryRequest) ParsedCheckIn() *time.Time { return r.checkIn }

// ParsedCheckOut returns the check-out time parsed by Validate.
func (r *UpdateEntryRequest) ParsedCheckOut() *time.Time { return r.checkOut }

// ========================================
// LIST DTOs
// ========================================

type ListFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs.Add("status", "status must be one of: "+strings.Join(StatusValues, ", "))
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		d, valid := validator.IsValidDate(*f.StartDate)
		if !valid {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
		start = d
	}
	if f.EndDate != nil && *f.EndDate != "" {
		d, valid := validator.IsValidDate(*f.EndDate)
		if !valid {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}

// ========================================
// RESPONSES
// ========================================

type EntryResponse struct {
	ID                string         `json:"id"`
	EmployeeID        string         `json:"employee_id"`
	EmployeeName      *string        `json:"employee_name,omitempty"`
	EmployeeCode      *string        `json:"employee_code,omitempty"`
	Date              string         `json:"date"`
	CheckIn           *Punch         `json:"check_in,omitempty"`
	CheckOut          *Punch         `json:"check_out,omitempty"`
	Breaks            []Break        `json:"breaks"`
	TotalWorkingHours int            `json:"total_working_hours"`
	TotalBreakTime    int            `json:"total_break_time"`
	IsLate            bool           `json:"is_late"`
	LateMinutes       int            `json:"late_minutes"`
	Overtime          int            `json:"overtime"`
	Status            Status         `json:"status"`
	ActivityNotes     []ActivityNote `json:"activity_notes"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// NewEntryResponse renders an entry for the API.
func NewEntryResponse(e Entry) EntryResponse {
	breaks := e.Breaks
	if breaks == nil {
		breaks = []Break{}
	}
	notes := e.ActivityNotes
	if notes == nil {
		notes = []ActivityNote{}
	}

	return EntryResponse{
		ID:                e.ID,
		EmployeeID:        e.EmployeeID,
		EmployeeName:      e.EmployeeName,
		EmployeeCode:      e.EmployeeCode,
		Date:              e.Date.Format("2006-01-02"),
		CheckIn:           e.CheckIn,
		CheckOut:          e.CheckOut,
		Breaks:            breaks,
		TotalWorkingHours: e.TotalWorkingHours,
		TotalBreakTime:    e.TotalBreakTime,
		IsLate:            e.IsLate,
		LateMinutes:       e.LateMinutes,
		Overtime:          e.Overtime,
		Status:            e.Status,
		ActivityNotes:     notes,
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
}

type TodayResponse struct {
	State       State          `json:"state"`
	Entry       *EntryResponse `json:"entry"`
	ActiveBreak *Break         `json:"active_break,omitempty"`
	LiveTotals  Totals         `json:"live_totals"`
}

type ListEntriesResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Entries    []EntryResponse `json:"entries"`
}
