package request

// BookSeatsRequest asks for NumSeats seats, optionally starting at StartSeat
// (e.g. "C5") and filling to the right.
type BookSeatsRequest struct {
	NumSeats  int    `json:"num_seats" validate:"gte=1"`
	StartSeat string `json:"start_seat,omitempty" validate:"omitempty,seatlabel"`
}
