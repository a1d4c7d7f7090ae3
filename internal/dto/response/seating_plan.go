package response

import (
	"cinema-seating/internal/data/entity"
)

type SeatingPlanResponse struct {
	Title               string                `json:"title"`
	NumRows             int                   `json:"num_rows"`
	SeatsPerRow         int                   `json:"seats_per_row"`
	AvailableSeatsCount int                   `json:"available_seats_count"`
	SeatStatus          entity.SeatStatus     `json:"seat_status"`
	Plan                [][]entity.StatusCode `json:"plan"`
}

func SeatingPlanToResponse(plan entity.SeatingPlan, status entity.SeatStatus) SeatingPlanResponse {
	rows := make([][]entity.StatusCode, len(plan.Plan))
	for r, seats := range plan.Plan {
		codes := make([]entity.StatusCode, len(seats))
		for c, seat := range seats {
			codes[c] = seat.Status
		}
		rows[r] = codes
	}

	return SeatingPlanResponse{
		Title:               plan.Title,
		NumRows:             plan.NumRows(),
		SeatsPerRow:         plan.SeatsPerRow(),
		AvailableSeatsCount: plan.AvailableSeatsCount,
		SeatStatus:          status,
		Plan:                rows,
	}
}
