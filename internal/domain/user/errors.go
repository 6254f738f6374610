package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrEmployeeIDRequired      = errors.New("caller is not linked to an employee record")
)
