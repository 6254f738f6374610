package schedule

import "errors"

var (
	ErrNoShiftPolicy      = errors.New("no shift policy configured")
	ErrMalformedShiftTime = errors.New("shift time must be in HH:mm format")
)
