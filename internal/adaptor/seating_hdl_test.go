package adaptor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/queue"
	"cinema-seating/internal/usecase"
	"cinema-seating/pkg/appconfig"
	"cinema-seating/pkg/lock"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type bookingBody struct {
	BookingID string   `json:"booking_id"`
	State     string   `json:"state"`
	Seats     []string `json:"seats"`
	SeatCount int      `json:"seat_count"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg, err := appconfig.New(appconfig.Options{Raw: map[string]any{
		"application":         map[string]any{"name": "GIC Cinemas"},
		"seat_status_symbols": map[string]any{"AVAILABLE": ".", "BOOKED": "#", "PROPOSED": "o"},
	}})
	require.NoError(t, err)

	svc, err := usecase.NewService(repository.NewMemoryRepository(zap.NewNop()), cfg, lock.NewLocalLocker(), queue.NoopPublisher{}, zap.NewNop())
	require.NoError(t, err)

	h := NewHandler(svc, zap.NewNop()).Seating
	r := chi.NewRouter()
	r.Post("/seating-plan", h.CreatePlan)
	r.Route("/seating-plan/{title}", func(r chi.Router) {
		r.Get("/", h.GetPlan)
		r.Delete("/", h.DeletePlan)
		r.Patch("/", h.BookSeats)
		r.Post("/proposals", h.ProposeSeats)
		r.Post("/proposals/{booking_id}/confirm", h.ConfirmBooking)
		r.Get("/bookings", h.ListBookings)
		r.Get("/{booking_id}", h.GetBookingPlan)
		r.Delete("/{booking_id}", h.CancelBooking)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func createPlan(t *testing.T, h http.Handler) {
	t.Helper()
	rec, _ := do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":10,"seats_per_row":20}`)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestSeatingHandler_CreatePlan(t *testing.T) {
	h := newTestRouter(t)

	rec, env := do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":10,"seats_per_row":20}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Status)

	rec, _ = do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":10,"seats_per_row":20}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":5,"seats_per_row":20}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSeatingHandler_CreatePlan_Invalid(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodPost, "/seating-plan", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":27,"seats_per_row":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "num_rows")
	assert.Contains(t, env.Errors, "seats_per_row")
}

func TestSeatingHandler_BookAndCancel(t *testing.T) {
	h := newTestRouter(t)
	createPlan(t, h)

	rec, env := do(t, h, http.MethodPatch, "/seating-plan/Concert", `{"num_seats":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var booking bookingBody
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, []string{"A9", "A10", "A11"}, booking.Seats)
	assert.Equal(t, "confirmed", booking.State)

	rec, _ = do(t, h, http.MethodGet, "/seating-plan/Concert/"+booking.BookingID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/seating-plan/Concert/"+booking.BookingID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/seating-plan/Concert/"+booking.BookingID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatingHandler_ProposeConfirm(t *testing.T) {
	h := newTestRouter(t)
	createPlan(t, h)

	rec, env := do(t, h, http.MethodPost, "/seating-plan/Concert/proposals", `{"num_seats":2,"start_seat":"B1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var proposal struct {
		Booking bookingBody `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &proposal))
	assert.Equal(t, []string{"B1", "B2"}, proposal.Booking.Seats)
	assert.Equal(t, "proposed", proposal.Booking.State)

	rec, _ = do(t, h, http.MethodPost, "/seating-plan/Concert/proposals/"+proposal.Booking.BookingID+"/confirm", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/seating-plan/Concert/proposals/"+proposal.Booking.BookingID+"/confirm", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, h, http.MethodGet, "/seating-plan/Concert/bookings?page=1&per_page=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), proposal.Booking.BookingID)
}

func TestSeatingHandler_Errors(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/seating-plan/Missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	createPlan(t, h)

	rec, env := do(t, h, http.MethodPatch, "/seating-plan/Concert", `{"num_seats":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "num_seats")

	rec, _ = do(t, h, http.MethodPatch, "/seating-plan/Concert", `{"num_seats":1,"start_seat":"Z1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPatch, "/seating-plan/Concert", `{"num_seats":201}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/seating-plan/Concert/unknown-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatingHandler_GetPlanText(t *testing.T) {
	h := newTestRouter(t)
	createPlan(t, h)

	rec, _ := do(t, h, http.MethodGet, "/seating-plan/Concert?format=text", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "GIC Cinemas - Concert\n"))
	assert.Contains(t, rec.Body.String(), "S C R E E N")
}

func TestSeatingHandler_DeletePlan(t *testing.T) {
	h := newTestRouter(t)
	createPlan(t, h)

	rec, _ := do(t, h, http.MethodDelete, "/seating-plan/Concert", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/seating-plan/Concert", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeatingHandler_RecreateSmallerThanBookings(t *testing.T) {
	h := newTestRouter(t)
	createPlan(t, h)

	rec, _ := do(t, h, http.MethodPatch, "/seating-plan/Concert", `{"num_seats":1,"start_seat":"J20"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, "/seating-plan/Concert", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":5,"seats_per_row":5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Status)
	assert.Contains(t, env.Message, "outside a 5x5 plan")

	rec, _ = do(t, h, http.MethodPost, "/seating-plan", `{"title":"Concert","num_rows":10,"seats_per_row":20}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
