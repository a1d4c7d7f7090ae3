package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinema-seating/internal/data/entity"
	"cinema-seating/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

// BookingRepository persists confirmed bookings as (plan, booking, seat) rows.
type BookingRepository interface {
	SaveBooking(ctx context.Context, planTitle, bookingID string, seats []entity.SeatPosition) error
	DeleteBooking(ctx context.Context, planTitle, bookingID string) error
	LoadAllBookings(ctx context.Context, planTitle string) (map[string][]entity.SeatPosition, error)
	BookingExists(ctx context.Context, planTitle, bookingID string) (bool, error)
	ClearAllBookings(ctx context.Context) error

	ListBookings(ctx context.Context, planTitle string, limit, offset int) ([]entity.Booking, error)
	CountBookings(ctx context.Context, planTitle string) (int64, error)
}

type bookingRepository struct {
	db      database.PgxIface
	timeout time.Duration
	log     *zap.Logger
}

func NewBookingRepository(db database.PgxIface, timeout time.Duration, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:      db,
		timeout: timeout,
		log:     log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *bookingRepository) SaveBooking(ctx context.Context, planTitle, bookingID string, seats []entity.SeatPosition) error {
	if len(seats) == 0 {
		return ErrEmptySeats
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin booking transaction", zap.Error(err), zap.String("plan_title", planTitle))
		return persistenceError("save booking", planTitle, bookingID, err)
	}
	defer tx.Rollback(context.Background())

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM seat_bookings WHERE plan_title = $1 AND booking_id = $2)`,
		planTitle, bookingID,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking", zap.Error(err), zap.String("booking_id", bookingID))
		return persistenceError("save booking", planTitle, bookingID, err)
	}
	if exists {
		return persistenceError("save booking", planTitle, bookingID, ErrBookingExists)
	}

	query := `
		INSERT INTO seat_bookings (plan_title, booking_id, seat_row, seat_col)
		VALUES ($1, $2, $3, $4)
	`
	for _, seat := range seats {
		if _, err := tx.Exec(ctx, query, planTitle, bookingID, seat.Row, seat.Col); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return persistenceError("save booking", planTitle, bookingID, ErrBookingExists)
			}
			r.log.Error("Failed to insert booked seat",
				zap.Error(err),
				zap.String("booking_id", bookingID),
				zap.Int("row", seat.Row),
				zap.Int("col", seat.Col),
			)
			return persistenceError("save booking", planTitle, bookingID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit booking", zap.Error(err), zap.String("booking_id", bookingID))
		return persistenceError("save booking", planTitle, bookingID, err)
	}

	r.log.Info("Booking saved",
		zap.String("plan_title", planTitle),
		zap.String("booking_id", bookingID),
		zap.Int("seats", len(seats)),
	)
	return nil
}

func (r *bookingRepository) DeleteBooking(ctx context.Context, planTitle, bookingID string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `DELETE FROM seat_bookings WHERE plan_title = $1 AND booking_id = $2`

	result, err := r.db.Exec(ctx, query, planTitle, bookingID)
	if err != nil {
		r.log.Error("Failed to delete booking", zap.Error(err), zap.String("booking_id", bookingID))
		return persistenceError("delete booking", planTitle, bookingID, err)
	}

	if result.RowsAffected() == 0 {
		return persistenceError("delete booking", planTitle, bookingID, ErrBookingNotFound)
	}

	r.log.Info("Booking deleted", zap.String("plan_title", planTitle), zap.String("booking_id", bookingID))
	return nil
}

func (r *bookingRepository) LoadAllBookings(ctx context.Context, planTitle string) (map[string][]entity.SeatPosition, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT booking_id, seat_row, seat_col
		FROM seat_bookings
		WHERE plan_title = $1
		ORDER BY booking_id, seat_row, seat_col
	`

	rows, err := r.db.Query(ctx, query, planTitle)
	if err != nil {
		r.log.Error("Failed to load bookings", zap.Error(err), zap.String("plan_title", planTitle))
		return nil, persistenceError("load bookings", planTitle, "", err)
	}
	defer rows.Close()

	bookings := make(map[string][]entity.SeatPosition)
	for rows.Next() {
		var (
			bookingID string
			seat      entity.SeatPosition
		)
		if err := rows.Scan(&bookingID, &seat.Row, &seat.Col); err != nil {
			return nil, persistenceError("load bookings", planTitle, "", fmt.Errorf("scan seat row: %w", err))
		}
		bookings[bookingID] = append(bookings[bookingID], seat)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("load bookings", planTitle, "", err)
	}

	return bookings, nil
}

func (r *bookingRepository) BookingExists(ctx context.Context, planTitle, bookingID string) (bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM seat_bookings WHERE plan_title = $1 AND booking_id = $2)`,
		planTitle, bookingID,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check booking", zap.Error(err), zap.String("booking_id", bookingID))
		return false, persistenceError("check booking", planTitle, bookingID, err)
	}

	return exists, nil
}

func (r *bookingRepository) ClearAllBookings(ctx context.Context) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	result, err := r.db.Exec(ctx, `DELETE FROM seat_bookings`)
	if err != nil {
		r.log.Error("Failed to clear bookings", zap.Error(err))
		return persistenceError("clear bookings", "", "", err)
	}

	r.log.Warn("All bookings cleared", zap.Int64("rows", result.RowsAffected()))
	return nil
}

func (r *bookingRepository) ListBookings(ctx context.Context, planTitle string, limit, offset int) ([]entity.Booking, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := `
		SELECT booking_id, seat_row, seat_col
		FROM seat_bookings
		WHERE plan_title = $1 AND booking_id IN (
			SELECT booking_id
			FROM seat_bookings
			WHERE plan_title = $1
			GROUP BY booking_id
			ORDER BY booking_id
			LIMIT $2 OFFSET $3
		)
		ORDER BY booking_id, seat_row, seat_col
	`

	rows, err := r.db.Query(ctx, query, planTitle, limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err), zap.String("plan_title", planTitle))
		return nil, persistenceError("list bookings", planTitle, "", err)
	}
	defer rows.Close()

	var bookings []entity.Booking
	for rows.Next() {
		var (
			bookingID string
			seat      entity.SeatPosition
		)
		if err := rows.Scan(&bookingID, &seat.Row, &seat.Col); err != nil {
			return nil, persistenceError("list bookings", planTitle, "", fmt.Errorf("scan seat row: %w", err))
		}

		n := len(bookings)
		if n == 0 || bookings[n-1].BookingID != bookingID {
			bookings = append(bookings, entity.Booking{
				PlanTitle: planTitle,
				BookingID: bookingID,
				State:     entity.BookingStateConfirmed,
			})
			n++
		}
		bookings[n-1].Seats = append(bookings[n-1].Seats, seat)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceError("list bookings", planTitle, "", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountBookings(ctx context.Context, planTitle string) (int64, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT booking_id) FROM seat_bookings WHERE plan_title = $1`,
		planTitle,
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err), zap.String("plan_title", planTitle))
		return 0, persistenceError("count bookings", planTitle, "", err)
	}

	return count, nil
}
