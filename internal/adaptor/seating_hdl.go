package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/dto/request"
	"cinema-seating/internal/usecase"
	"cinema-seating/pkg/lock"
	"cinema-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SeatingHandler struct {
	service usecase.SeatingService
	log     *zap.Logger
}

func NewSeatingHandler(service usecase.SeatingService, log *zap.Logger) *SeatingHandler {
	return &SeatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "seating")),
	}
}

// CreatePlan handles POST /seating-plan
func (h *SeatingHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSeatingPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	plan, created, err := h.service.CreatePlan(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create seating plan")
		return
	}

	if !created {
		utils.ResponseSuccess(w, "Seating plan for "+req.Title+" already stored", plan)
		return
	}
	utils.ResponseCreated(w, "Stored seating plan for "+req.Title, plan)
}

// GetPlan handles GET /seating-plan/{title}. ?format=text renders the map.
func (h *SeatingHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	if r.URL.Query().Get("format") == "text" {
		out, err := h.service.RenderPlan(r.Context(), title)
		if err != nil {
			h.handleServiceError(w, err, "render seating plan")
			return
		}
		utils.ResponseText(w, http.StatusOK, out)
		return
	}

	plan, err := h.service.GetPlan(r.Context(), title)
	if err != nil {
		h.handleServiceError(w, err, "get seating plan")
		return
	}

	utils.ResponseSuccess(w, "Seating plan for "+title, plan)
}

// DeletePlan handles DELETE /seating-plan/{title}
func (h *SeatingHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	if err := h.service.DeletePlan(r.Context(), title); err != nil {
		h.handleServiceError(w, err, "delete seating plan")
		return
	}

	utils.ResponseSuccess(w, "Seating plan for "+title+" removed", nil)
}

// BookSeats handles PATCH /seating-plan/{title}
func (h *SeatingHandler) BookSeats(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	req, ok := h.decodeBookSeats(w, r)
	if !ok {
		return
	}

	booking, err := h.service.BookSeats(r.Context(), title, req)
	if err != nil {
		h.handleServiceError(w, err, "book seats")
		return
	}

	utils.ResponseSuccess(w, "Updated seating plan", booking)
}

// ProposeSeats handles POST /seating-plan/{title}/proposals
func (h *SeatingHandler) ProposeSeats(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	req, ok := h.decodeBookSeats(w, r)
	if !ok {
		return
	}

	proposal, err := h.service.ProposeSeats(r.Context(), title, req)
	if err != nil {
		h.handleServiceError(w, err, "propose seats")
		return
	}

	utils.ResponseCreated(w, "Seats proposed", proposal)
}

// ConfirmBooking handles POST /seating-plan/{title}/proposals/{booking_id}/confirm
func (h *SeatingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), title, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "Booking "+bookingID+" confirmed", booking)
}

// CancelBooking handles DELETE /seating-plan/{title}/{booking_id}
func (h *SeatingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), title, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking id "+bookingID+" removed. Seating plan updated.", booking)
}

// GetBookingPlan handles GET /seating-plan/{title}/{booking_id}
func (h *SeatingHandler) GetBookingPlan(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	bookingID, ok := bookingIDParam(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetBookingPlan(r.Context(), title, bookingID)
	if err != nil {
		h.handleServiceError(w, err, "get booking plan")
		return
	}

	utils.ResponseSuccess(w, "success", plan)
}

// ListBookings handles GET /seating-plan/{title}/bookings
func (h *SeatingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")

	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.ListBookings(r.Context(), title, req)
	if err != nil {
		h.handleServiceError(w, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// bookingIDParam rejects ids that were not issued by the planner.
func bookingIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	bookingID := chi.URLParam(r, "booking_id")
	if _, err := utils.ParseUUID(bookingID); err != nil {
		utils.ResponseNotFound(w, "booking "+bookingID+" not found")
		return "", false
	}
	return bookingID, true
}

func (h *SeatingHandler) decodeBookSeats(w http.ResponseWriter, r *http.Request) (*request.BookSeatsRequest, bool) {
	var req request.BookSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return nil, false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return nil, false
	}
	return &req, true
}

// handleServiceError maps domain and persistence errors to HTTP responses.
func (h *SeatingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrPlanNotFound),
		errors.Is(err, usecase.ErrBookingNotFound),
		errors.Is(err, usecase.ErrProposalNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidPlan),
		errors.Is(err, usecase.ErrInvalidSeatLabel),
		errors.Is(err, usecase.ErrInvalidSeatCount):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case errors.Is(err, usecase.ErrInsufficientSeats),
		errors.Is(err, usecase.ErrSeatUnavailable),
		errors.Is(err, usecase.ErrPlanExists),
		errors.Is(err, usecase.ErrPlanMismatch),
		errors.Is(err, repository.ErrBookingExists):
		h.log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, errMsg)

	case errors.Is(err, repository.ErrTimeout),
		errors.Is(err, lock.ErrNotAcquired),
		errors.Is(err, context.DeadlineExceeded):
		h.log.Error(operation+" timed out", zap.Error(err))
		utils.ResponseGatewayTimeout(w, errMsg)

	default:
		h.log.Error("Unexpected error during "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
