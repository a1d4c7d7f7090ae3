package repository

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptySeats rejects a save without seats. The store is not touched.
	ErrEmptySeats = errors.New("booking must contain at least one seat")

	ErrBookingExists   = errors.New("booking already exists")
	ErrBookingNotFound = errors.New("booking not found")
	ErrTimeout         = errors.New("persistence operation timed out")
)

// PersistenceError wraps every failure reported by the backing store.
type PersistenceError struct {
	Op        string
	PlanTitle string
	BookingID string
	Err       error
}

func (e *PersistenceError) Error() string {
	target := e.PlanTitle
	if e.BookingID != "" {
		target += "/" + e.BookingID
	}
	if target == "" {
		return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence: %s %s: %v", e.Op, target, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError reports whether err originated in the booking store.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func persistenceError(op, planTitle, bookingID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &PersistenceError{Op: op, PlanTitle: planTitle, BookingID: bookingID, Err: err}
}
