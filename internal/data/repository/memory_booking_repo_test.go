package repository

import (
	"context"
	"errors"
	"testing"

	"cinema-seating/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seats(pairs ...int) []entity.SeatPosition {
	out := make([]entity.SeatPosition, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, entity.SeatPosition{Row: pairs[i], Col: pairs[i+1]})
	}
	return out
}

// exerciseBookingRepository runs the shared contract against any implementation.
func exerciseBookingRepository(t *testing.T, repo BookingRepository) {
	ctx := context.Background()
	require.NoError(t, repo.ClearAllBookings(ctx))

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, repo.SaveBooking(ctx, "Concert", "b1", seats(0, 0, 0, 1)))
		require.NoError(t, repo.SaveBooking(ctx, "Concert", "b2", seats(1, 3)))
		require.NoError(t, repo.SaveBooking(ctx, "Opera", "b1", seats(2, 2)))

		loaded, err := repo.LoadAllBookings(ctx, "Concert")
		require.NoError(t, err)
		assert.Len(t, loaded, 2)
		assert.Equal(t, seats(0, 0, 0, 1), loaded["b1"])
		assert.Equal(t, seats(1, 3), loaded["b2"])

		empty, err := repo.LoadAllBookings(ctx, "Unknown")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("duplicate booking id", func(t *testing.T) {
		err := repo.SaveBooking(ctx, "Concert", "b1", seats(5, 5))
		require.Error(t, err)
		assert.True(t, IsPersistenceError(err))
		assert.ErrorIs(t, err, ErrBookingExists)

		loaded, err := repo.LoadAllBookings(ctx, "Concert")
		require.NoError(t, err)
		assert.ElementsMatch(t, seats(0, 0, 0, 1), loaded["b1"], "existing rows untouched")
	})

	t.Run("repeated seat in one booking", func(t *testing.T) {
		err := repo.SaveBooking(ctx, "Concert", "b3", seats(4, 4, 4, 4))
		require.Error(t, err)
		assert.True(t, IsPersistenceError(err))
		assert.ErrorIs(t, err, ErrBookingExists)

		exists, err := repo.BookingExists(ctx, "Concert", "b3")
		require.NoError(t, err)
		assert.False(t, exists, "nothing of the rejected booking is stored")
	})

	t.Run("seats load in row then column order", func(t *testing.T) {
		require.NoError(t, repo.SaveBooking(ctx, "Gala", "b1", seats(2, 18, 2, 19, 0, 9)))

		loaded, err := repo.LoadAllBookings(ctx, "Gala")
		require.NoError(t, err)
		assert.Equal(t, seats(0, 9, 2, 18, 2, 19), loaded["b1"])

		page, err := repo.ListBookings(ctx, "Gala", 10, 0)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, seats(0, 9, 2, 18, 2, 19), page[0].Seats)
	})

	t.Run("empty seats", func(t *testing.T) {
		err := repo.SaveBooking(ctx, "Concert", "b9", nil)
		assert.ErrorIs(t, err, ErrEmptySeats)
		assert.False(t, IsPersistenceError(err))

		exists, err := repo.BookingExists(ctx, "Concert", "b9")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("exists is scoped by plan", func(t *testing.T) {
		exists, err := repo.BookingExists(ctx, "Opera", "b1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.BookingExists(ctx, "Opera", "b2")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list and count", func(t *testing.T) {
		count, err := repo.CountBookings(ctx, "Concert")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		page, err := repo.ListBookings(ctx, "Concert", 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "b2", page[0].BookingID)
		assert.Equal(t, entity.BookingStateConfirmed, page[0].State)

		page, err = repo.ListBookings(ctx, "Concert", 10, 5)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteBooking(ctx, "Concert", "b2"))

		err := repo.DeleteBooking(ctx, "Concert", "b2")
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.True(t, IsPersistenceError(err))

		loaded, err := repo.LoadAllBookings(ctx, "Concert")
		require.NoError(t, err)
		assert.NotContains(t, loaded, "b2")
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, repo.ClearAllBookings(ctx))

		for _, title := range []string{"Concert", "Opera", "Gala"} {
			loaded, err := repo.LoadAllBookings(ctx, title)
			require.NoError(t, err)
			assert.Empty(t, loaded)
		}
	})
}

func TestMemoryBookingRepository(t *testing.T) {
	exerciseBookingRepository(t, NewMemoryBookingRepository(zap.NewNop()))
}

func TestMemoryBookingRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryBookingRepository(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.SaveBooking(ctx, "Concert", "b1", seats(0, 0))
	require.Error(t, err)
	assert.True(t, IsPersistenceError(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMemoryBookingRepository_SavedSeatsAreCopied(t *testing.T) {
	repo := NewMemoryBookingRepository(zap.NewNop())
	ctx := context.Background()

	in := seats(0, 0)
	require.NoError(t, repo.SaveBooking(ctx, "Concert", "b1", in))
	in[0].Col = 9

	loaded, err := repo.LoadAllBookings(ctx, "Concert")
	require.NoError(t, err)
	assert.Equal(t, seats(0, 0), loaded["b1"])
}

func TestPersistenceError_TimeoutClassification(t *testing.T) {
	err := persistenceError("save booking", "Concert", "b1", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "save booking Concert/b1")
}
