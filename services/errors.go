package services

import "errors"

var (
	ErrSalonNotFound    = errors.New("salon not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrStaffNotFound    = errors.New("staff member not found")
	ErrEntryNotFound    = errors.New("queue entry not found")
	ErrInvalidAction    = errors.New("invalid queue action")
	ErrEntryFinished    = errors.New("queue entry already finished")
	ErrNotInLine        = errors.New("queue entry is not waiting")
	ErrAlreadyCheckedIn = errors.New("already checked in or service completed")
)
