package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// ListByDate returns the company's holidays on date's calendar day.
	ListByDate(ctx context.Context, companyID string, date time.Time) ([]Holiday, error)
	List(ctx context.Context, companyID string, from, to *time.Time) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string, companyID string) error
}
