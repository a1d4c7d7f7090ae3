package wire

import (
	"cinema-seating/internal/adaptor"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSeating(
	r chi.Router,
	seatingHandler *adaptor.SeatingHandler,
	log *zap.Logger,
) {
	log.Debug("Registering seating routes")

	r.Route("/seating-plan", func(r chi.Router) {
		// POST /seating-plan - Store a seating plan and load its bookings
		r.Post("/", seatingHandler.CreatePlan)

		r.Route("/{title}", func(r chi.Router) {
			r.Get("/", seatingHandler.GetPlan)
			r.Delete("/", seatingHandler.DeletePlan)

			// PATCH /seating-plan/{title} - Book seats in one step
			r.Patch("/", seatingHandler.BookSeats)

			// Two-step booking: propose, then confirm
			r.Post("/proposals", seatingHandler.ProposeSeats)
			r.Post("/proposals/{booking_id}/confirm", seatingHandler.ConfirmBooking)

			r.Get("/bookings", seatingHandler.ListBookings)
			r.Get("/{booking_id}", seatingHandler.GetBookingPlan)
			r.Delete("/{booking_id}", seatingHandler.CancelBooking)
		})
	})
}
