package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the storage collaborator for ledger entries.
// Every lookup is scoped by companyID.
type AttendanceRepository interface {
	// FindEntry returns the entry for (employee, date) or nil when the day has none.
	FindEntry(ctx context.Context, key EntryKey) (*Entry, error)

	// UpsertEntry inserts or replaces the entry on its (employee, date) key.
	UpsertEntry(ctx context.Context, entry Entry) (Entry, error)

	// ModifyEntry runs fn against the entry for key as one atomic read-modify-write.
	// Concurrent calls for the same key are serialized. When no entry exists fn
	// receives a fresh one carrying only the key. If fn returns an error nothing
	// is written, so a fresh entry is only created by a successful fn.
	ModifyEntry(ctx context.Context, key EntryKey, fn func(*Entry) error) (Entry, error)

	// GetByID retrieves an entry by ID with company isolation.
	GetByID(ctx context.Context, id string, companyID string) (Entry, error)

	// Delete removes one entry.
	Delete(ctx context.Context, id string, companyID string) error

	// FindEntriesInRange lists entries matching the filter ordered by date, then check-in.
	FindEntriesInRange(ctx context.Context, filter EntryFilter) ([]Entry, error)

	// DeleteEntriesBefore purges every entry dated strictly before cutoff.
	DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
