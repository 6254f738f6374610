package holiday

import (
	"context"
	"time"
)

// Gate answers whether a day is closed for check-in. Lookup failures degrade
// to "not a holiday".
type Gate interface {
	IsHoliday(ctx context.Context, companyID string, date time.Time, department, location *string) *Holiday
}

type HolidayService interface {
	Gate

	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	List(ctx context.Context, filter ListHolidayFilter) ([]HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}
