// Package queue publishes booking lifecycle events to RabbitMQ.
package queue

import "time"

const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is the message body for both booking queues.
type BookingEvent struct {
	PlanTitle  string    `json:"plan_title"`
	BookingID  string    `json:"booking_id"`
	Seats      []string  `json:"seats"`
	SeatCount  int       `json:"seat_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
