package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"cinema-seating/pkg/database"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgresBookingRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, dsn, 4)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.EnsureSchema(ctx, db))

	repo := NewBookingRepository(db, 5*time.Second, zap.NewNop())
	exerciseBookingRepository(t, repo)
}
