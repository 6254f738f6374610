package holiday

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"` // YYYY-MM-DD
	Departments []string `json:"departments"`
	Locations   []string `json:"locations"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	r.Departments = compact(r.Departments)
	r.Locations = compact(r.Locations)

	return errs.Err()
}

// compact trims entries and drops blanks.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type ListHolidayFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (f *ListHolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type HolidayResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Departments []string `json:"departments"`
	Locations   []string `json:"locations"`
	IsGlobal    bool     `json:"is_global"`
	CreatedAt   string   `json:"created_at"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	departments := h.Departments
	if departments == nil {
		departments = []string{}
	}
	locations := h.Locations
	if locations == nil {
		locations = []string{}
	}
	return HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Departments: departments,
		Locations:   locations,
		IsGlobal:    len(departments) == 0 && len(locations) == 0,
		CreatedAt:   h.CreatedAt.Format(time.RFC3339),
	}
}
