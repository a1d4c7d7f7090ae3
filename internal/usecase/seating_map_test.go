package usecase

import (
	"context"
	"testing"

	"cinema-seating/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSeatingMap(t *testing.T) {
	p := newPlanner(t, newMemoryRepo(), 2, 3)
	_, err := p.Book(context.Background(), 1, "A1")
	require.NoError(t, err)
	_, err = p.Propose(context.Background(), 1, "B3")
	require.NoError(t, err)

	out := RenderSeatingMap(p.SeatingPlan(), entity.DefaultSeatStatus(), map[string]string{
		"AVAILABLE": ".",
		"BOOKED":    "#",
	})

	want := "" +
		"S C R E E N\n" +
		"----------\n" +
		"B .  .  P\n" +
		"A #  .  .\n" +
		"  1  2  3\n"
	assert.Equal(t, want, out)
}

func TestRenderSeatingMap_Empty(t *testing.T) {
	out := RenderSeatingMap(entity.SeatingPlan{Title: "Empty"}, entity.DefaultSeatStatus(), nil)
	assert.Equal(t, "Seating plan is empty.\n", out)
}
