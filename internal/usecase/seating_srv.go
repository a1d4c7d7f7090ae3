package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cinema-seating/internal/data/entity"
	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/dto/request"
	"cinema-seating/internal/dto/response"
	"cinema-seating/internal/queue"
	"cinema-seating/pkg/appconfig"
	"cinema-seating/pkg/lock"
	"cinema-seating/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultMaxSeatsPerRow = 50
	publishTimeout        = 3 * time.Second
)

type SeatingService interface {
	CreatePlan(ctx context.Context, req *request.CreateSeatingPlanRequest) (*response.SeatingPlanResponse, bool, error)
	GetPlan(ctx context.Context, title string) (*response.SeatingPlanResponse, error)
	RenderPlan(ctx context.Context, title string) (string, error)
	DeletePlan(ctx context.Context, title string) error

	ProposeSeats(ctx context.Context, title string, req *request.BookSeatsRequest) (*response.BookingPlanResponse, error)
	ConfirmBooking(ctx context.Context, title, bookingID string) (*response.BookingResponse, error)
	BookSeats(ctx context.Context, title string, req *request.BookSeatsRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, title, bookingID string) (*response.BookingResponse, error)

	GetBookingPlan(ctx context.Context, title, bookingID string) (*response.BookingPlanResponse, error)
	ListBookings(ctx context.Context, title string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type seatingService struct {
	repo      *repository.Repository
	config    *appconfig.Store
	status    entity.SeatStatus
	locker    lock.Locker
	publisher queue.Publisher
	log       *zap.Logger

	mu       sync.RWMutex
	planners map[string]*SeatingPlanner
}

func NewSeatingService(repo *repository.Repository, config *appconfig.Store, locker lock.Locker, publisher queue.Publisher, log *zap.Logger) (SeatingService, error) {
	status, err := entity.SeatStatusFromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("load seat statuses: %w", err)
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}

	return &seatingService{
		repo:      repo,
		config:    config,
		status:    status,
		locker:    locker,
		publisher: publisher,
		log:       log.With(zap.String("service", "seating")),
		planners:  make(map[string]*SeatingPlanner),
	}, nil
}

func (s *seatingService) limits() (maxRows, maxSeatsPerRow int) {
	maxRows, maxSeatsPerRow = MaxRows, defaultMaxSeatsPerRow
	if s.config != nil {
		maxRows = s.config.Int("plan_limits:max_rows", MaxRows)
		maxSeatsPerRow = s.config.Int("plan_limits:max_seats_per_row", defaultMaxSeatsPerRow)
	}
	return min(maxRows, MaxRows), maxSeatsPerRow
}

func (s *seatingService) symbols() map[string]string {
	out := make(map[string]string)
	if s.config == nil {
		return out
	}
	raw, ok := s.config.Get("seat_status_symbols", nil).(map[string]any)
	if !ok {
		return out
	}
	for key, val := range raw {
		if symbol, ok := val.(string); ok {
			out[key] = symbol
		}
	}
	return out
}

// CreatePlan registers a plan and loads its persisted bookings. Repeating
// the call with the same dimensions returns the existing plan.
func (s *seatingService) CreatePlan(ctx context.Context, req *request.CreateSeatingPlanRequest) (*response.SeatingPlanResponse, bool, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create seating plan validation failed", zap.Any("errors", errs))
		return nil, false, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	maxRows, maxSeats := s.limits()
	if req.NumRows > maxRows {
		return nil, false, fmt.Errorf("%w: num_rows must not exceed %d", ErrValidation, maxRows)
	}
	if req.SeatsPerRow > maxSeats {
		return nil, false, fmt.Errorf("%w: seats_per_row must not exceed %d", ErrValidation, maxSeats)
	}

	unlock, err := s.locker.Lock(ctx, req.Title)
	if err != nil {
		return nil, false, fmt.Errorf("create seating plan %s: %w", req.Title, err)
	}
	defer unlock()

	if existing, ok := s.planner(req.Title); ok {
		rows, cols := existing.Dimensions()
		if rows != req.NumRows || cols != req.SeatsPerRow {
			return nil, false, fmt.Errorf("%w: %s is %dx%d", ErrPlanExists, req.Title, rows, cols)
		}
		resp := response.SeatingPlanToResponse(existing.SeatingPlan(), s.status)
		return &resp, false, nil
	}

	planner, err := NewSeatingPlanner(ctx, req.Title, req.NumRows, req.SeatsPerRow, s.status, s.repo.Booking, s.log)
	if err != nil {
		s.log.Error("Failed to create seating plan", zap.Error(err), zap.String("title", req.Title))
		return nil, false, fmt.Errorf("create seating plan %s: %w", req.Title, err)
	}

	s.mu.Lock()
	s.planners[req.Title] = planner
	s.mu.Unlock()

	s.log.Info("Seating plan created",
		zap.String("title", req.Title),
		zap.Int("rows", req.NumRows),
		zap.Int("seats_per_row", req.SeatsPerRow),
	)

	resp := response.SeatingPlanToResponse(planner.SeatingPlan(), s.status)
	return &resp, true, nil
}

func (s *seatingService) planner(title string) (*SeatingPlanner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.planners[title]
	return p, ok
}

func (s *seatingService) lookup(title string) (*SeatingPlanner, error) {
	p, ok := s.planner(title)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, title)
	}
	return p, nil
}

// mutate runs fn on the plan's planner while holding the plan lock. With a
// distributed lock the planner first catches up with other instances.
func (s *seatingService) mutate(ctx context.Context, title string, fn func(p *SeatingPlanner) error) error {
	p, err := s.lookup(title)
	if err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, title)
	if err != nil {
		s.log.Warn("Failed to lock seating plan", zap.Error(err), zap.String("title", title))
		return fmt.Errorf("lock seating plan %s: %w", title, err)
	}
	defer unlock()

	if s.locker.Distributed() {
		if err := p.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh seating plan %s: %w", title, err)
		}
	}
	return fn(p)
}

func (s *seatingService) GetPlan(ctx context.Context, title string) (*response.SeatingPlanResponse, error) {
	p, err := s.current(ctx, title)
	if err != nil {
		return nil, err
	}

	resp := response.SeatingPlanToResponse(p.SeatingPlan(), s.status)
	return &resp, nil
}

func (s *seatingService) RenderPlan(ctx context.Context, title string) (string, error) {
	p, err := s.current(ctx, title)
	if err != nil {
		return "", err
	}

	name := ""
	if s.config != nil {
		name = s.config.String("application:name", "")
	}
	out := RenderSeatingMap(p.SeatingPlan(), s.status, s.symbols())
	if name != "" {
		out = name + " - " + title + "\n" + out
	}
	return out, nil
}

// current returns the planner, refreshed from the store when other
// instances may have changed it.
func (s *seatingService) current(ctx context.Context, title string) (*SeatingPlanner, error) {
	p, err := s.lookup(title)
	if err != nil {
		return nil, err
	}
	if s.locker.Distributed() {
		if err := p.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("refresh seating plan %s: %w", title, err)
		}
	}
	return p, nil
}

// DeletePlan forgets the cached planner. Persisted bookings are kept and
// reappear when the plan is created again.
func (s *seatingService) DeletePlan(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.planners[title]; !ok {
		return fmt.Errorf("%w: %s", ErrPlanNotFound, title)
	}
	delete(s.planners, title)

	s.log.Info("Seating plan removed", zap.String("title", title))
	return nil
}

func (s *seatingService) ProposeSeats(ctx context.Context, title string, req *request.BookSeatsRequest) (*response.BookingPlanResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	var resp *response.BookingPlanResponse
	err := s.mutate(ctx, title, func(p *SeatingPlanner) error {
		booking, err := p.Propose(ctx, req.NumSeats, req.StartSeat)
		if err != nil {
			return err
		}
		plan, err := p.BookingPlan(booking.BookingID)
		if err != nil {
			return err
		}
		resp = &response.BookingPlanResponse{
			Booking: s.bookingResponse(p, booking),
			Plan:    response.SeatingPlanToResponse(plan, s.status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *seatingService) ConfirmBooking(ctx context.Context, title, bookingID string) (*response.BookingResponse, error) {
	var resp response.BookingResponse
	err := s.mutate(ctx, title, func(p *SeatingPlanner) error {
		booking, err := p.Confirm(ctx, bookingID)
		if err != nil {
			return err
		}
		resp = s.bookingResponse(p, booking)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.BookingConfirmedQueue, resp)
	return &resp, nil
}

func (s *seatingService) BookSeats(ctx context.Context, title string, req *request.BookSeatsRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	var resp response.BookingResponse
	err := s.mutate(ctx, title, func(p *SeatingPlanner) error {
		booking, err := p.Book(ctx, req.NumSeats, req.StartSeat)
		if err != nil {
			return err
		}
		resp = s.bookingResponse(p, booking)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.BookingConfirmedQueue, resp)
	return &resp, nil
}

func (s *seatingService) CancelBooking(ctx context.Context, title, bookingID string) (*response.BookingResponse, error) {
	var resp response.BookingResponse
	err := s.mutate(ctx, title, func(p *SeatingPlanner) error {
		booking, err := p.Cancel(ctx, bookingID)
		if err != nil {
			return err
		}
		resp = s.bookingResponse(p, booking)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.State == entity.BookingStateConfirmed {
		s.publish(ctx, queue.BookingCancelledQueue, resp)
	}
	return &resp, nil
}

func (s *seatingService) GetBookingPlan(ctx context.Context, title, bookingID string) (*response.BookingPlanResponse, error) {
	p, err := s.current(ctx, title)
	if err != nil {
		return nil, err
	}

	booking, err := p.Booking(bookingID)
	if err != nil {
		return nil, err
	}
	plan, err := p.BookingPlan(bookingID)
	if err != nil {
		return nil, err
	}

	return &response.BookingPlanResponse{
		Booking: s.bookingResponse(p, booking),
		Plan:    response.SeatingPlanToResponse(plan, s.status),
	}, nil
}

func (s *seatingService) ListBookings(ctx context.Context, title string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	p, err := s.lookup(title)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Booking.CountBookings(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("count bookings for %s: %w", title, err)
	}

	bookings, err := s.repo.Booking.ListBookings(ctx, title, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list bookings for %s: %w", title, err)
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, s.bookingResponse(p, b))
	}

	return response.NewPaginatedResponse(items, req.PageNumber(), req.Limit(), total), nil
}

func (s *seatingService) bookingResponse(p *SeatingPlanner, b entity.Booking) response.BookingResponse {
	rows, cols := p.Dimensions()
	labels := make([]string, 0, len(b.Seats))
	for _, seat := range b.Seats {
		label, err := IndicesToLabel(seat.Row, seat.Col, rows, cols)
		if err != nil {
			label = fmt.Sprintf("%d:%d", seat.Row, seat.Col)
		}
		labels = append(labels, label)
	}
	return response.BookingToResponse(b, labels)
}

// publish never fails the request; a lost event is only logged.
func (s *seatingService) publish(ctx context.Context, queueName string, b response.BookingResponse) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := queue.BookingEvent{
		PlanTitle:  b.PlanTitle,
		BookingID:  b.BookingID,
		Seats:      b.Seats,
		SeatCount:  b.SeatCount,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, queueName, event); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("queue", queueName),
			zap.String("booking_id", b.BookingID),
		)
	}
}
