package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const entryColumns = `
	a.id, a.employee_id, a.company_id, a.date,
	a.check_in, a.check_out, a.breaks,
	a.total_working_minutes, a.total_break_minutes,
	a.is_late, a.late_minutes, a.overtime_minutes,
	a.status, a.activity_notes, a.created_at, a.updated_at,
	emp.full_name, emp.employee_code`

const entryFrom = `
	FROM attendance_entries a
	LEFT JOIN employees emp ON emp.id = a.employee_id`

// dateParam renders a calendar day for a DATE column.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}

func scanEntry(row pgx.Row) (attendance.Entry, error) {
	var (
		e                          attendance.Entry
		checkIn, checkOut          []byte
		breaks, notes              []byte
		status                     string
		employeeName, employeeCode *string
	)

	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.CompanyID, &e.Date,
		&checkIn, &checkOut, &breaks,
		&e.TotalWorkingHours, &e.TotalBreakTime,
		&e.IsLate, &e.LateMinutes, &e.Overtime,
		&status, &notes, &e.CreatedAt, &e.UpdatedAt,
		&employeeName, &employeeCode,
	)
	if err != nil {
		return attendance.Entry{}, err
	}

	e.Status = attendance.Status(status)
	e.EmployeeName = employeeName
	e.EmployeeCode = employeeCode

	if len(checkIn) > 0 {
		e.CheckIn = &attendance.Punch{}
		if err := json.Unmarshal(checkIn, e.CheckIn); err != nil {
			return attendance.Entry{}, fmt.Errorf("failed to decode check_in: %w", err)
		}
	}
	if len(checkOut) > 0 {
		e.CheckOut = &attendance.Punch{}
		if err := json.Unmarshal(checkOut, e.CheckOut); err != nil {
			return attendance.Entry{}, fmt.Errorf("failed to decode check_out: %w", err)
		}
	}
	if len(breaks) > 0 {
		if err := json.Unmarshal(breaks, &e.Breaks); err != nil {
			return attendance.Entry{}, fmt.Errorf("failed to decode breaks: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &e.ActivityNotes); err != nil {
			return attendance.Entry{}, fmt.Errorf("failed to decode activity_notes: %w", err)
		}
	}

	return e, nil
}

// jsonParam encodes v for a JSONB column; nil pointers become NULL.
func jsonParam(v interface{}) (interface{}, error) {
	switch p := v.(type) {
	case *attendance.Punch:
		if p == nil {
			return nil, nil
		}
	case []attendance.Break:
		if p == nil {
			return "[]", nil
		}
	case []attendance.ActivityNote:
		if p == nil {
			return "[]", nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// FindEntry implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindEntry(ctx context.Context, key attendance.EntryKey) (*attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.company_id = $1
		  AND a.employee_id = $2
		  AND a.date = $3::date
		LIMIT 1`

	e, err := scanEntry(q.QueryRow(ctx, query, key.CompanyID, key.EmployeeID, dateParam(key.Date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance entry: %w", err)
	}
	return &e, nil
}

// UpsertEntry implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpsertEntry(ctx context.Context, e attendance.Entry) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	params := make([]interface{}, 0, 4)
	for _, v := range []interface{}{e.CheckIn, e.CheckOut, e.Breaks, e.ActivityNotes} {
		p, err := jsonParam(v)
		if err != nil {
			return attendance.Entry{}, fmt.Errorf("failed to encode attendance entry: %w", err)
		}
		params = append(params, p)
	}

	if e.Status == "" {
		e.Status = attendance.StatusPresent
	}

	query := `
		INSERT INTO attendance_entries (
			company_id, employee_id, date,
			check_in, check_out, breaks,
			total_working_minutes, total_break_minutes,
			is_late, late_minutes, overtime_minutes,
			status, activity_notes
		) VALUES (
			$1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			check_in = EXCLUDED.check_in,
			check_out = EXCLUDED.check_out,
			breaks = EXCLUDED.breaks,
			total_working_minutes = EXCLUDED.total_working_minutes,
			total_break_minutes = EXCLUDED.total_break_minutes,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			status = EXCLUDED.status,
			activity_notes = EXCLUDED.activity_notes,
			updated_at = NOW()
		RETURNING id, date, created_at, updated_at,
			(SELECT emp.full_name FROM employees emp WHERE emp.id = attendance_entries.employee_id),
			(SELECT emp.employee_code FROM employees emp WHERE emp.id = attendance_entries.employee_id)
	`

	err := q.QueryRow(ctx, query,
		e.CompanyID, e.EmployeeID, dateParam(e.Date),
		params[0], params[1], params[2],
		e.TotalWorkingHours, e.TotalBreakTime,
		e.IsLate, e.LateMinutes, e.Overtime,
		string(e.Status), params[3],
	).Scan(&e.ID, &e.Date, &e.CreatedAt, &e.UpdatedAt, &e.EmployeeName, &e.EmployeeCode)
	if err != nil {
		return attendance.Entry{}, fmt.Errorf("failed to upsert attendance entry: %w", err)
	}

	return e, nil
}

// ModifyEntry implements attendance.AttendanceRepository. A transaction-scoped
// advisory lock on the key serializes writers, including the first insert of a day.
func (r *attendanceRepository) ModifyEntry(ctx context.Context, key attendance.EntryKey, fn func(*attendance.Entry) error) (attendance.Entry, error) {
	var result attendance.Entry

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key.String()); err != nil {
			return fmt.Errorf("failed to lock attendance entry: %w", err)
		}

		current, err := r.FindEntry(ctx, key)
		if err != nil {
			return err
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
			return err
		}

		result, err = r.UpsertEntry(ctx, entry)
		return err
	})
	if err != nil {
		return attendance.Entry{}, err
	}

	return result, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE a.id = $1 AND a.company_id = $2`

	e, err := scanEntry(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Entry{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Entry{}, fmt.Errorf("failed to get attendance entry: %w", err)
	}
	return e, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_entries WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// FindEntriesInRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) FindEntriesInRange(ctx context.Context, filter attendance.EntryFilter) ([]attendance.Entry, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions = []string{"a.company_id = $1"}
		args       = []interface{}{filter.CompanyID}
	)
	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.EmployeeIDs) > 0 {
		conditions = append(conditions, "a.employee_id = ANY("+addArg(filter.EmployeeIDs)+")")
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "a.date >= "+addArg(dateParam(*filter.StartDate))+"::date")
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "a.date <= "+addArg(dateParam(*filter.EndDate))+"::date")
	}
	if filter.Status != nil {
		conditions = append(conditions, "a.status = "+addArg(string(*filter.Status)))
	}

	query := `SELECT ` + entryColumns + entryFrom + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY a.date, (a.check_in->>'time')::timestamptz NULLS LAST, a.employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance entries: %w", err)
	}
	defer rows.Close()

	entries := []attendance.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance entries: %w", err)
	}

	return entries, nil
}

// DeleteEntriesBefore implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_entries WHERE date < $1::date`, dateParam(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired attendance entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
