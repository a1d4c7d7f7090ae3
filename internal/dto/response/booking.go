package response

import (
	"cinema-seating/internal/data/entity"
)

type BookingResponse struct {
	PlanTitle string              `json:"plan_title"`
	BookingID string              `json:"booking_id"`
	State     entity.BookingState `json:"state"`
	Seats     []string            `json:"seats"`
	SeatCount int                 `json:"seat_count"`
}

type BookingPlanResponse struct {
	Booking BookingResponse     `json:"booking"`
	Plan    SeatingPlanResponse `json:"plan"`
}

// BookingToResponse pairs a booking with the labels of its seats.
func BookingToResponse(b entity.Booking, labels []string) BookingResponse {
	return BookingResponse{
		PlanTitle: b.PlanTitle,
		BookingID: b.BookingID,
		State:     b.State,
		Seats:     labels,
		SeatCount: len(b.Seats),
	}
}
