package notification

import "errors"

var (
	ErrQueueFull    = errors.New("notification queue is full")
	ErrSinkStopped  = errors.New("notification sink is stopped")
	ErrInvalidEvent = errors.New("event has no company")
)
