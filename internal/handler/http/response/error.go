package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Illegal state transitions
	if attendance.IsPreconditionViolation(err) {
		Conflict(w, err.Error())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrHolidayBlocked):
		Fail(w, http.StatusForbidden, CodeHolidayBlocked, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrActivityNoteNotFound):
		NotFound(w, "Activity note not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, err.Error())

	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	// Caller identity
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrCompanyIDRequired):
		Unauthorized(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled request error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
