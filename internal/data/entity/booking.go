package entity

type BookingState string

const (
	BookingStateProposed  BookingState = "proposed"
	BookingStateConfirmed BookingState = "confirmed"
)

// Booking is a set of seats held under one identifier within one plan.
// Only confirmed bookings are persisted.
type Booking struct {
	PlanTitle string         `json:"plan_title" db:"plan_title"`
	BookingID string         `json:"booking_id" db:"booking_id"`
	Seats     []SeatPosition `json:"seats"`
	State     BookingState   `json:"state"`
}

func (b Booking) SeatCount() int { return len(b.Seats) }
