package memory

import (
	"context"
	"hash/fnv"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// lockStripes bounds the number of writer locks regardless of how many days
// are stored.
const lockStripes = 64

type attendanceRepository struct {
	mu      sync.RWMutex
	entries map[string]attendance.Entry // by EntryKey.String()
	byID    map[string]string

	locks [lockStripes]sync.Mutex

	employees *EmployeeRepository
	now       func() time.Time
}

// NewAttendanceRepository returns an in-process ledger store. When employees is
// non-nil entries are decorated with the employee name and code.
func NewAttendanceRepository(employees *EmployeeRepository) attendance.AttendanceRepository {
	return &attendanceRepository{
		entries:   make(map[string]attendance.Entry),
		byID:      make(map[string]string),
		employees: employees,
		now:       time.Now,
	}
}

func (r *attendanceRepository) keyLock(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &r.locks[h.Sum32()%lockStripes]
}

// FindEntry implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindEntry(ctx context.Context, key attendance.EntryKey) (*attendance.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key.String()]
	if !ok {
		return nil, nil
	}
	out := r.decorate(cloneEntry(e))
	return &out, nil
}

// UpsertEntry implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpsertEntry(ctx context.Context, e attendance.Entry) (attendance.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.upsertLocked(e), nil
}

func (r *attendanceRepository) upsertLocked(e attendance.Entry) attendance.Entry {
	e = cloneEntry(e)
	e.Date = attendance.StartOfDay(e.Date, e.Date.Location())
	key := e.Key().String()
	now := r.now()

	if existing, ok := r.entries[key]; ok {
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
	} else {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.CreatedAt = now
	}
	if e.Status == "" {
		e.Status = attendance.StatusPresent
	}
	e.UpdatedAt = now
	e.EmployeeName, e.EmployeeCode = nil, nil

	r.entries[key] = e
	r.byID[e.ID] = key
	return r.decorate(cloneEntry(e))
}

// ModifyEntry implements attendance.AttendanceRepository. Writers of the same
// day share a lock stripe, so they are serialized.
func (r *attendanceRepository) ModifyEntry(ctx context.Context, key attendance.EntryKey, fn func(*attendance.Entry) error) (attendance.Entry, error) {
	l := r.keyLock(key.String())
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return attendance.Entry{}, err
	}

	current, err := r.FindEntry(ctx, key)
	if err != nil {
		return attendance.Entry{}, err
	}

	entry := attendance.Entry{
		CompanyID:  key.CompanyID,
		EmployeeID: key.EmployeeID,
		Date:       key.Date,
	}
	if current != nil {
		entry = *current
	}

	if err := fn(&entry); err != nil {
		return attendance.Entry{}, err
	}

	return r.UpsertEntry(ctx, entry)
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.byID[id]
	if !ok {
		return attendance.Entry{}, attendance.ErrAttendanceNotFound
	}
	e := r.entries[key]
	if e.CompanyID != companyID {
		return attendance.Entry{}, attendance.ErrAttendanceNotFound
	}
	return r.decorate(cloneEntry(e)), nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.byID[id]
	if !ok || r.entries[key].CompanyID != companyID {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.entries, key)
	delete(r.byID, id)
	return nil
}

// FindEntriesInRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindEntriesInRange(ctx context.Context, filter attendance.EntryFilter) ([]attendance.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var start, end string
	if filter.StartDate != nil {
		start = filter.StartDate.Format(dateLayout)
	}
	if filter.EndDate != nil {
		end = filter.EndDate.Format(dateLayout)
	}

	entries := []attendance.Entry{}
	for _, e := range r.entries {
		if e.CompanyID != filter.CompanyID {
			continue
		}
		if len(filter.EmployeeIDs) > 0 && !slices.Contains(filter.EmployeeIDs, e.EmployeeID) {
			continue
		}
		d := e.Date.Format(dateLayout)
		if start != "" && d < start {
			continue
		}
		if end != "" && d > end {
			continue
		}
		if filter.Status != nil && e.Status != *filter.Status {
			continue
		}
		entries = append(entries, r.decorate(cloneEntry(e)))
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].Date.Format(dateLayout), entries[j].Date.Format(dateLayout)
		if di != dj {
			return di < dj
		}
		ci, cj := entries[i].CheckIn, entries[j].CheckIn
		switch {
		case ci != nil && cj != nil && !ci.Time.Equal(cj.Time):
			return ci.Time.Before(cj.Time)
		case ci != nil && cj == nil:
			return true
		case ci == nil && cj != nil:
			return false
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})

	return entries, nil
}

// DeleteEntriesBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := cutoff.Format(dateLayout)
	var deleted int64
	for key, e := range r.entries {
		if e.Date.Format(dateLayout) < limit {
			delete(r.entries, key)
			delete(r.byID, e.ID)
			deleted++
		}
	}
	return deleted, nil
}

func (r *attendanceRepository) decorate(e attendance.Entry) attendance.Entry {
	if r.employees == nil {
		return e
	}
	if emp, ok := r.employees.lookup(e.EmployeeID); ok {
		name, code := emp.FullName, emp.EmployeeCode
		e.EmployeeName, e.EmployeeCode = &name, &code
	}
	return e
}

// cloneEntry copies the slices and punches so callers never alias stored state.
func cloneEntry(e attendance.Entry) attendance.Entry {
	if e.CheckIn != nil {
		p := *e.CheckIn
		e.CheckIn = &p
	}
	if e.CheckOut != nil {
		p := *e.CheckOut
		e.CheckOut = &p
	}
	if e.Breaks != nil {
		breaks := make([]attendance.Break, len(e.Breaks))
		for i, b := range e.Breaks {
			if b.EndTime != nil {
				end := *b.EndTime
				b.EndTime = &end
			}
			if b.Duration != nil {
				d := *b.Duration
				b.Duration = &d
			}
			breaks[i] = b
		}
		e.Breaks = breaks
	}
	if e.ActivityNotes != nil {
		e.ActivityNotes = slices.Clone(e.ActivityNotes)
	}
	return e
}
