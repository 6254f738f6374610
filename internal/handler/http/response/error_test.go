package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	var validation validator.ValidationErrors
	validation.Add("note", "note is required")

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validation.Err(), http.StatusUnprocessableEntity, CodeValidation},
		{"already checked in", attendance.ErrAlreadyCheckedIn, http.StatusConflict, CodeConflict},
		{"no check in", attendance.ErrNoCheckIn, http.StatusConflict, CodeConflict},
		{"already checked out", attendance.ErrAlreadyCheckedOut, http.StatusConflict, CodeConflict},
		{"not checked in", attendance.ErrNotCheckedIn, http.StatusConflict, CodeConflict},
		{"break active", attendance.ErrBreakAlreadyActive, http.StatusConflict, CodeConflict},
		{"no active break", attendance.ErrNoActiveBreak, http.StatusConflict, CodeConflict},
		{"holiday", attendance.ErrHolidayBlocked, http.StatusForbidden, CodeHolidayBlocked},
		{"entry not found", attendance.ErrAttendanceNotFound, http.StatusNotFound, CodeNotFound},
		{"note not found", attendance.ErrActivityNoteNotFound, http.StatusNotFound, CodeNotFound},
		{"holiday not found", holiday.ErrHolidayNotFound, http.StatusNotFound, CodeNotFound},
		{"holiday exists", holiday.ErrHolidayExists, http.StatusConflict, CodeConflict},
		{"payroll employee", payroll.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound},
		{"manager required", user.ErrManagerAccessRequired, http.StatusForbidden, CodeForbidden},
		{"permission", user.ErrInsufficientPermissions, http.StatusForbidden, CodeForbidden},
		{"no employee link", user.ErrEmployeeIDRequired, http.StatusForbidden, CodeForbidden},
		{"wrapped", fmt.Errorf("check in: %w", attendance.ErrAlreadyCheckedIn), http.StatusConflict, CodeConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_InternalDoesNotLeakMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password")
}
