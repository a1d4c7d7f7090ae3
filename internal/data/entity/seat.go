package entity

import (
	"cmp"
	"slices"
)

// SeatPosition is a zero-based (row, col) address in a seating grid.
type SeatPosition struct {
	Row int `json:"row" db:"seat_row"`
	Col int `json:"col" db:"seat_col"`
}

// CompareSeatPositions orders seats front row first, then left to right.
// Stores return booking seats in this order.
func CompareSeatPositions(a, b SeatPosition) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}

// SortSeats sorts seats in place by row, then column.
func SortSeats(seats []SeatPosition) {
	slices.SortFunc(seats, CompareSeatPositions)
}

type Seat struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Status StatusCode `json:"status"`
}

func (s Seat) Position() SeatPosition {
	return SeatPosition{Row: s.Row, Col: s.Col}
}

// SeatingPlan is a read-only snapshot of one plan's grid.
type SeatingPlan struct {
	Title               string   `json:"title"`
	Plan                [][]Seat `json:"plan"`
	AvailableSeatsCount int      `json:"available_seats_count"`
}

func (p SeatingPlan) NumRows() int { return len(p.Plan) }

func (p SeatingPlan) SeatsPerRow() int {
	if len(p.Plan) == 0 {
		return 0
	}
	return len(p.Plan[0])
}

// CountStatus returns how many seats carry code.
func (p SeatingPlan) CountStatus(code StatusCode) int {
	n := 0
	for _, row := range p.Plan {
		for _, seat := range row {
			if seat.Status == code {
				n++
			}
		}
	}
	return n
}
