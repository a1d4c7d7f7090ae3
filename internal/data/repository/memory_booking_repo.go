package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"cinema-seating/internal/data/entity"

	"go.uber.org/zap"
)

// memoryBookingRepository keeps bookings in process memory. It mirrors the
// error behaviour of the postgres repository.
type memoryBookingRepository struct {
	mu    sync.RWMutex
	plans map[string]map[string][]entity.SeatPosition
	log   *zap.Logger
}

func NewMemoryBookingRepository(log *zap.Logger) BookingRepository {
	return &memoryBookingRepository{
		plans: make(map[string]map[string][]entity.SeatPosition),
		log:   log.With(zap.String("repository", "booking_memory")),
	}
}

func (r *memoryBookingRepository) SaveBooking(ctx context.Context, planTitle, bookingID string, seats []entity.SeatPosition) error {
	if len(seats) == 0 {
		return ErrEmptySeats
	}
	if err := ctx.Err(); err != nil {
		return persistenceError("save booking", planTitle, bookingID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, ok := r.plans[planTitle]
	if !ok {
		bookings = make(map[string][]entity.SeatPosition)
		r.plans[planTitle] = bookings
	}
	if _, exists := bookings[bookingID]; exists {
		return persistenceError("save booking", planTitle, bookingID, ErrBookingExists)
	}

	// Same order and uniqueness as the (plan, booking, row, col) primary key.
	stored := slices.Clone(seats)
	entity.SortSeats(stored)
	for i := 1; i < len(stored); i++ {
		if stored[i] == stored[i-1] {
			return persistenceError("save booking", planTitle, bookingID, ErrBookingExists)
		}
	}
	bookings[bookingID] = stored

	r.log.Debug("Booking saved",
		zap.String("plan_title", planTitle),
		zap.String("booking_id", bookingID),
		zap.Int("seats", len(seats)),
	)
	return nil
}

func (r *memoryBookingRepository) DeleteBooking(ctx context.Context, planTitle, bookingID string) error {
	if err := ctx.Err(); err != nil {
		return persistenceError("delete booking", planTitle, bookingID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := r.plans[planTitle]
	if _, ok := bookings[bookingID]; !ok {
		return persistenceError("delete booking", planTitle, bookingID, ErrBookingNotFound)
	}
	delete(bookings, bookingID)
	if len(bookings) == 0 {
		delete(r.plans, planTitle)
	}
	return nil
}

func (r *memoryBookingRepository) LoadAllBookings(ctx context.Context, planTitle string) (map[string][]entity.SeatPosition, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError("load bookings", planTitle, "", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]entity.SeatPosition, len(r.plans[planTitle]))
	for id, seats := range r.plans[planTitle] {
		out[id] = slices.Clone(seats)
	}
	return out, nil
}

func (r *memoryBookingRepository) BookingExists(ctx context.Context, planTitle, bookingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, persistenceError("check booking", planTitle, bookingID, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plans[planTitle][bookingID]
	return ok, nil
}

func (r *memoryBookingRepository) ClearAllBookings(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return persistenceError("clear bookings", "", "", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans = make(map[string]map[string][]entity.SeatPosition)
	return nil
}

func (r *memoryBookingRepository) ListBookings(ctx context.Context, planTitle string, limit, offset int) ([]entity.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceError("list bookings", planTitle, "", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := r.plans[planTitle]
	ids := make([]string, 0, len(bookings))
	for id := range bookings {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	out := make([]entity.Booking, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Booking{
			PlanTitle: planTitle,
			BookingID: id,
			Seats:     slices.Clone(bookings[id]),
			State:     entity.BookingStateConfirmed,
		})
	}
	return out, nil
}

func (r *memoryBookingRepository) CountBookings(ctx context.Context, planTitle string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, persistenceError("count bookings", planTitle, "", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.plans[planTitle])), nil
}
