package repository

import (
	"time"

	"cinema-seating/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking BookingRepository
}

func NewRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(db, timeout, log),
	}
}

// NewMemoryRepository backs every repository with process memory.
func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewMemoryBookingRepository(log),
	}
}
