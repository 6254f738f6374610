package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/google/uuid"
)

type holidayRepository struct {
	mu       sync.RWMutex
	holidays map[string]holiday.Holiday
}

func NewHolidayRepository() holiday.HolidayRepository {
	return &holidayRepository{holidays: make(map[string]holiday.Holiday)}
}

// ListByDate implements holiday.HolidayRepository.
func (r *holidayRepository) ListByDate(ctx context.Context, companyID string, date time.Time) ([]holiday.Holiday, error) {
	return r.list(companyID, func(h holiday.Holiday) bool { return h.SameDay(date) }), nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepository) List(ctx context.Context, companyID string, from, to *time.Time) ([]holiday.Holiday, error) {
	return r.list(companyID, func(h holiday.Holiday) bool {
		d := h.Date.Format(dateLayout)
		if from != nil && d < from.Format(dateLayout) {
			return false
		}
		if to != nil && d > to.Format(dateLayout) {
			return false
		}
		return true
	}), nil
}

func (r *holidayRepository) list(companyID string, keep func(holiday.Holiday) bool) []holiday.Holiday {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holidays := []holiday.Holiday{}
	for _, h := range r.holidays {
		if h.CompanyID == companyID && keep(h) {
			h.Departments = slices.Clone(h.Departments)
			h.Locations = slices.Clone(h.Locations)
			holidays = append(holidays, h)
		}
	}
	sort.Slice(holidays, func(i, j int) bool {
		if !holidays[i].Date.Equal(holidays[j].Date) {
			return holidays[i].Date.Before(holidays[j].Date)
		}
		return holidays[i].Name < holidays[j].Name
	})
	return holidays
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.holidays {
		if existing.CompanyID == h.CompanyID && existing.Name == h.Name && existing.SameDay(h.Date) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
	}

	h.ID = uuid.New().String()
	h.CreatedAt = time.Now()
	if h.Departments == nil {
		h.Departments = []string{}
	}
	if h.Locations == nil {
		h.Locations = []string{}
	}
	r.holidays[h.ID] = h
	return h, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepository) Delete(ctx context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holidays[id]
	if !ok || h.CompanyID != companyID {
		return holiday.ErrHolidayNotFound
	}
	delete(r.holidays, id)
	return nil
}
