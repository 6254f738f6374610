package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

const holidayColumns = `id, company_id, name, date, departments, locations, created_at`

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.CompanyID, &h.Name, &h.Date, &h.Departments, &h.Locations, &h.CreatedAt)
	return h, err
}

func collectHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	defer rows.Close()

	holidays := []holiday.Holiday{}
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// ListByDate implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) ListByDate(ctx context.Context, companyID string, date time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx,
		`SELECT `+holidayColumns+` FROM holidays WHERE company_id = $1 AND date = $2::date ORDER BY name`,
		companyID, dateParam(date),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays by date: %w", err)
	}
	return collectHolidays(rows)
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context, companyID string, from, to *time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"company_id = $1"}
	args := []interface{}{companyID}
	if from != nil {
		args = append(args, dateParam(*from))
		conditions = append(conditions, fmt.Sprintf("date >= $%d::date", len(args)))
	}
	if to != nil {
		args = append(args, dateParam(*to))
		conditions = append(conditions, fmt.Sprintf("date <= $%d::date", len(args)))
	}

	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY date, name`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return collectHolidays(rows)
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	if h.Departments == nil {
		h.Departments = []string{}
	}
	if h.Locations == nil {
		h.Locations = []string{}
	}

	query := `
		INSERT INTO holidays (company_id, name, date, departments, locations)
		VALUES ($1, $2, $3::date, $4, $5)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query, h.CompanyID, h.Name, dateParam(h.Date), h.Departments, h.Locations))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return created, nil
}

// Delete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}
