package attendance

import "errors"

// Attendance domain errors
var (
	// Precondition violations
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrNoCheckIn          = errors.New("cannot check out without checking in first")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out")
	ErrNotCheckedIn       = errors.New("you have not checked in yet")
	ErrBreakAlreadyActive = errors.New("a break is already in progress")
	ErrNoActiveBreak      = errors.New("no active break found")

	// Policy blocks
	ErrHolidayBlocked = errors.New("check-in is not allowed on a holiday")

	// General errors
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrActivityNoteNotFound = errors.New("activity note not found")
)

// IsPreconditionViolation reports whether err rejects an illegal state transition.
func IsPreconditionViolation(err error) bool {
	for _, target := range []error{
		ErrAlreadyCheckedIn,
		ErrNoCheckIn,
		ErrAlreadyCheckedOut,
		ErrNotCheckedIn,
		ErrBreakAlreadyActive,
		ErrNoActiveBreak,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
