package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

type holidayServiceImpl struct {
	holiday.HolidayRepository
	loc *time.Location
}

// IsHoliday implements holiday.Gate.
func (s *holidayServiceImpl) IsHoliday(ctx context.Context, companyID string, date time.Time, department, location *string) *holiday.Holiday {
	holidays, err := s.HolidayRepository.ListByDate(ctx, companyID, date)
	if err != nil {
		slog.Warn("Holiday lookup failed, treating day as working day",
			"company_id", companyID, "date", date.Format("2006-01-02"), "error", err)
		return nil
	}
	return holiday.Match(holidays, date, department, location)
}

// Create implements holiday.HolidayService.
func (s *holidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	caller, err := managerFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, _ := validator.IsValidDateIn(req.Date, s.loc)
	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		CompanyID:   caller.CompanyID,
		Name:        req.Name,
		Date:        date,
		Departments: req.Departments,
		Locations:   req.Locations,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return holiday.NewHolidayResponse(created), nil
}

// List implements holiday.HolidayService.
func (s *holidayServiceImpl) List(ctx context.Context, filter holiday.ListHolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if filter.StartDate != nil && *filter.StartDate != "" {
		d, _ := validator.IsValidDateIn(*filter.StartDate, s.loc)
		from = &d
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		d, _ := validator.IsValidDateIn(*filter.EndDate, s.loc)
		to = &d
	}

	holidays, err := s.HolidayRepository.List(ctx, caller.CompanyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, holiday.NewHolidayResponse(h))
	}
	return responses, nil
}

// Delete implements holiday.HolidayService.
func (s *holidayServiceImpl) Delete(ctx context.Context, id string) error {
	caller, err := managerFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.HolidayRepository.Delete(ctx, id, caller.CompanyID); err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

func managerFromContext(ctx context.Context) (user.Caller, error) {
	caller, err := user.CallerFromContext(ctx)
	if err != nil {
		return user.Caller{}, err
	}
	if !caller.IsManager() {
		return user.Caller{}, user.ErrManagerAccessRequired
	}
	return caller, nil
}

func NewHolidayService(holidayRepo holiday.HolidayRepository, loc *time.Location) holiday.HolidayService {
	if loc == nil {
		loc = time.Local
	}
	return &holidayServiceImpl{HolidayRepository: holidayRepo, loc: loc}
}
