package usecase

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidPlan       = errors.New("invalid seating plan")
	ErrInvalidSeatLabel  = errors.New("invalid seat label")
	ErrInvalidSeatCount  = errors.New("seat count must be positive")
	ErrInsufficientSeats = errors.New("not enough available seats")
	ErrSeatUnavailable   = errors.New("requested seat is not available")
	ErrProposalNotFound  = errors.New("proposed booking not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPlanNotFound      = errors.New("seating plan not found")
	ErrPlanExists        = errors.New("seating plan already exists with different dimensions")

	// ErrPlanMismatch means persisted bookings do not fit the plan they were loaded into.
	ErrPlanMismatch = errors.New("persisted bookings do not match seating plan")
)
