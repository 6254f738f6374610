package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens the caller's day. Rejected on holidays.
	CheckIn(ctx context.Context, req CheckInRequest) (EntryResponse, error)

	// CheckOut closes the caller's day and computes overtime.
	CheckOut(ctx context.Context, req CheckOutRequest) (EntryResponse, error)

	StartBreak(ctx context.Context, req StartBreakRequest) (EntryResponse, error)
	EndBreak(ctx context.Context) (EntryResponse, error)

	AddActivityNote(ctx context.Context, req ActivityNoteRequest) (EntryResponse, error)
	UpdateActivityNote(ctx context.Context, req ActivityNoteRequest) (EntryResponse, error)

	// GetToday returns the caller's derived state and running totals.
	GetToday(ctx context.Context) (TodayResponse, error)

	// ListMyEntries retrieves the caller's history
	ListMyEntries(ctx context.Context, filter ListFilter) (ListEntriesResponse, error)

	// ListEntries retrieves company entries (admin/manager)
	ListEntries(ctx context.Context, filter ListFilter) (ListEntriesResponse, error)

	GetEntry(ctx context.Context, id string) (EntryResponse, error)

	// UpdateEntry applies an administrative correction and recomputes totals
	UpdateEntry(ctx context.Context, req UpdateEntryRequest) (EntryResponse, error)

	DeleteEntry(ctx context.Context, id string) error

	// PurgeExpiredEntries deletes entries older than the retention window.
	PurgeExpiredEntries(ctx context.Context) (int64, error)
}
