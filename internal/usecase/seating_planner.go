package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"cinema-seating/internal/data/entity"
	"cinema-seating/internal/data/repository"
	"cinema-seating/pkg/utils"

	"go.uber.org/zap"
)

type plannerBooking struct {
	seats []entity.SeatPosition
	state entity.BookingState
}

// SeatingPlanner owns the in-memory seat grid of one plan. The grid is a
// cache of the persisted bookings plus any open proposals.
type SeatingPlanner struct {
	mu          sync.Mutex
	title       string
	numRows     int
	seatsPerRow int
	status      entity.SeatStatus
	grid        [][]entity.StatusCode
	bookings    map[string]*plannerBooking
	repo        repository.BookingRepository
	newID       func() string
	log         *zap.Logger
}

// NewSeatingPlanner builds the grid for title and re-applies every booking
// persisted for it.
func NewSeatingPlanner(ctx context.Context, title string, numRows, seatsPerRow int, status entity.SeatStatus, repo repository.BookingRepository, log *zap.Logger) (*SeatingPlanner, error) {
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlan)
	case numRows <= 0 || seatsPerRow <= 0:
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidPlan, numRows, seatsPerRow)
	case numRows > MaxRows:
		return nil, fmt.Errorf("%w: at most %d rows are supported, got %d", ErrInvalidPlan, MaxRows, numRows)
	}

	p := &SeatingPlanner{
		title:       title,
		numRows:     numRows,
		seatsPerRow: seatsPerRow,
		status:      status,
		repo:        repo,
		newID:       utils.GenerateUUIDString,
		log:         log.With(zap.String("planner", title)),
	}

	grid, bookings, err := p.loadPersisted(ctx)
	if err != nil {
		return nil, err
	}
	p.grid = grid
	p.bookings = bookings

	p.log.Info("Seating plan loaded",
		zap.Int("rows", numRows),
		zap.Int("seats_per_row", seatsPerRow),
		zap.Int("bookings", len(bookings)),
	)
	return p, nil
}

func (p *SeatingPlanner) Title() string { return p.title }

func (p *SeatingPlanner) Dimensions() (numRows, seatsPerRow int) {
	return p.numRows, p.seatsPerRow
}

func (p *SeatingPlanner) Status() entity.SeatStatus { return p.status }

func (p *SeatingPlanner) newGrid() [][]entity.StatusCode {
	grid := make([][]entity.StatusCode, p.numRows)
	for r := range grid {
		row := make([]entity.StatusCode, p.seatsPerRow)
		for c := range row {
			row[c] = p.status.Available
		}
		grid[r] = row
	}
	return grid
}

// loadPersisted derives a fresh grid from the store without touching p's state.
func (p *SeatingPlanner) loadPersisted(ctx context.Context) ([][]entity.StatusCode, map[string]*plannerBooking, error) {
	persisted, err := p.repo.LoadAllBookings(ctx, p.title)
	if err != nil {
		return nil, nil, fmt.Errorf("load bookings for %s: %w", p.title, err)
	}

	ids := make([]string, 0, len(persisted))
	for id := range persisted {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	grid := p.newGrid()
	bookings := make(map[string]*plannerBooking, len(persisted))
	for _, id := range ids {
		seats := persisted[id]
		for _, seat := range seats {
			if !p.inBounds(seat) {
				return nil, nil, fmt.Errorf("%w: booking %s holds seat (%d, %d) outside a %dx%d plan",
					ErrPlanMismatch, id, seat.Row, seat.Col, p.numRows, p.seatsPerRow)
			}
			if grid[seat.Row][seat.Col] != p.status.Available {
				return nil, nil, fmt.Errorf("%w: seat (%d, %d) of booking %s is booked twice",
					ErrPlanMismatch, seat.Row, seat.Col, id)
			}
			grid[seat.Row][seat.Col] = p.status.Booked
		}
		bookings[id] = &plannerBooking{seats: slices.Clone(seats), state: entity.BookingStateConfirmed}
	}

	return grid, bookings, nil
}

// Refresh re-derives the grid from the store. Open proposals survive unless
// a persisted booking now holds one of their seats.
func (p *SeatingPlanner) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	grid, bookings, err := p.loadPersisted(ctx)
	if err != nil {
		return err
	}

	for id, b := range p.bookings {
		if b.state != entity.BookingStateProposed {
			continue
		}
		if _, taken := bookings[id]; taken || !seatsAvailable(grid, b.seats, p.status.Available) {
			p.log.Warn("Dropping proposal that conflicts with persisted bookings", zap.String("booking_id", id))
			continue
		}
		for _, seat := range b.seats {
			grid[seat.Row][seat.Col] = p.status.Proposed
		}
		bookings[id] = b
	}

	p.grid = grid
	p.bookings = bookings
	return nil
}

func seatsAvailable(grid [][]entity.StatusCode, seats []entity.SeatPosition, available entity.StatusCode) bool {
	for _, seat := range seats {
		if grid[seat.Row][seat.Col] != available {
			return false
		}
	}
	return true
}

func (p *SeatingPlanner) inBounds(seat entity.SeatPosition) bool {
	return seat.Row >= 0 && seat.Row < p.numRows && seat.Col >= 0 && seat.Col < p.seatsPerRow
}

func (p *SeatingPlanner) availableCount() int {
	n := 0
	for _, row := range p.grid {
		for _, code := range row {
			if code == p.status.Available {
				n++
			}
		}
	}
	return n
}

func (p *SeatingPlanner) setSeats(seats []entity.SeatPosition, code entity.StatusCode) {
	for _, seat := range seats {
		p.grid[seat.Row][seat.Col] = code
	}
}

// Propose holds count seats as a new provisional booking.
func (p *SeatingPlanner) Propose(ctx context.Context, count int, startLabel string) (entity.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seats, err := p.selectSeats(count, startLabel)
	if err != nil {
		return entity.Booking{}, err
	}

	id := p.newID()
	p.setSeats(seats, p.status.Proposed)
	p.bookings[id] = &plannerBooking{seats: seats, state: entity.BookingStateProposed}

	p.log.Debug("Seats proposed", zap.String("booking_id", id), zap.Int("seats", len(seats)))
	return p.bookingView(id, p.bookings[id]), nil
}

// Confirm books the seats of an open proposal and persists them. On a
// store failure the seats stay proposed so the caller may retry or cancel.
func (p *SeatingPlanner) Confirm(ctx context.Context, bookingID string) (entity.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.bookings[bookingID]
	if !ok || b.state != entity.BookingStateProposed {
		return entity.Booking{}, fmt.Errorf("confirm %s: %w", bookingID, ErrProposalNotFound)
	}

	p.setSeats(b.seats, p.status.Booked)
	if err := p.repo.SaveBooking(ctx, p.title, bookingID, b.seats); err != nil {
		p.setSeats(b.seats, p.status.Proposed)
		p.log.Error("Failed to persist confirmed booking", zap.Error(err), zap.String("booking_id", bookingID))
		return entity.Booking{}, fmt.Errorf("confirm booking %s: %w", bookingID, err)
	}
	b.state = entity.BookingStateConfirmed

	p.log.Info("Booking confirmed", zap.String("booking_id", bookingID), zap.Int("seats", len(b.seats)))
	return p.bookingView(bookingID, b), nil
}

// Book selects and persists count seats in one step.
func (p *SeatingPlanner) Book(ctx context.Context, count int, startLabel string) (entity.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	seats, err := p.selectSeats(count, startLabel)
	if err != nil {
		return entity.Booking{}, err
	}

	id := p.newID()
	p.setSeats(seats, p.status.Booked)
	if err := p.repo.SaveBooking(ctx, p.title, id, seats); err != nil {
		p.setSeats(seats, p.status.Available)
		p.log.Error("Failed to persist booking", zap.Error(err), zap.String("booking_id", id))
		return entity.Booking{}, fmt.Errorf("book %d seats: %w", count, err)
	}

	b := &plannerBooking{seats: seats, state: entity.BookingStateConfirmed}
	p.bookings[id] = b

	p.log.Info("Booking confirmed", zap.String("booking_id", id), zap.Int("seats", len(seats)))
	return p.bookingView(id, b), nil
}

// Cancel releases an open proposal, or deletes a confirmed booking from the
// store and then frees its seats.
func (p *SeatingPlanner) Cancel(ctx context.Context, bookingID string) (entity.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.bookings[bookingID]
	if !ok {
		return entity.Booking{}, fmt.Errorf("cancel %s: %w", bookingID, ErrBookingNotFound)
	}
	view := p.bookingView(bookingID, b)

	if b.state == entity.BookingStateConfirmed {
		err := p.repo.DeleteBooking(ctx, p.title, bookingID)
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			p.log.Warn("Cached booking missing from store", zap.String("booking_id", bookingID))
			p.setSeats(b.seats, p.status.Available)
			delete(p.bookings, bookingID)
			return entity.Booking{}, fmt.Errorf("cancel %s: %w", bookingID, ErrBookingNotFound)
		case err != nil:
			p.log.Error("Failed to delete booking", zap.Error(err), zap.String("booking_id", bookingID))
			return entity.Booking{}, fmt.Errorf("cancel booking %s: %w", bookingID, err)
		}
	}

	p.setSeats(b.seats, p.status.Available)
	delete(p.bookings, bookingID)

	p.log.Info("Booking cancelled", zap.String("booking_id", bookingID), zap.String("state", string(b.state)))
	return view, nil
}

// SeatingPlan returns a snapshot of the grid.
func (p *SeatingPlanner) SeatingPlan() entity.SeatingPlan {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshot(nil)
}

// BookingPlan returns a snapshot in which the seats of bookingID are shown
// with the proposed code.
func (p *SeatingPlanner) BookingPlan(bookingID string) (entity.SeatingPlan, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.bookings[bookingID]
	if !ok {
		return entity.SeatingPlan{}, fmt.Errorf("booking plan %s: %w", bookingID, ErrBookingNotFound)
	}
	return p.snapshot(b.seats), nil
}

func (p *SeatingPlanner) Booking(bookingID string) (entity.Booking, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.bookings[bookingID]
	if !ok {
		return entity.Booking{}, fmt.Errorf("booking %s: %w", bookingID, ErrBookingNotFound)
	}
	return p.bookingView(bookingID, b), nil
}

func (p *SeatingPlanner) AvailableSeats() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.availableCount()
}

func (p *SeatingPlanner) snapshot(highlight []entity.SeatPosition) entity.SeatingPlan {
	marked := make(map[entity.SeatPosition]bool, len(highlight))
	for _, seat := range highlight {
		marked[seat] = true
	}

	plan := entity.SeatingPlan{
		Title: p.title,
		Plan:  make([][]entity.Seat, p.numRows),
	}
	for r, row := range p.grid {
		seats := make([]entity.Seat, len(row))
		for c, code := range row {
			if marked[entity.SeatPosition{Row: r, Col: c}] {
				code = p.status.Proposed
			}
			seats[c] = entity.Seat{Row: r, Col: c, Status: code}
			if code == p.status.Available {
				plan.AvailableSeatsCount++
			}
		}
		plan.Plan[r] = seats
	}
	return plan
}

func (p *SeatingPlanner) bookingView(id string, b *plannerBooking) entity.Booking {
	return entity.Booking{
		PlanTitle: p.title,
		BookingID: id,
		Seats:     slices.Clone(b.seats),
		State:     b.state,
	}
}

// selectSeats picks count available seats without mutating the grid.
func (p *SeatingPlanner) selectSeats(count int, startLabel string) ([]entity.SeatPosition, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSeatCount, count)
	}

	var start *entity.SeatPosition
	if startLabel != "" {
		row, col, err := LabelToIndices(startLabel, p.numRows, p.seatsPerRow)
		if err != nil {
			return nil, err
		}
		start = &entity.SeatPosition{Row: row, Col: col}
	}

	if available := p.availableCount(); available < count {
		return nil, fmt.Errorf("%w: requested %d, %d available", ErrInsufficientSeats, count, available)
	}

	taken := make(map[entity.SeatPosition]bool, count)
	free := func(r, c int) bool {
		return p.grid[r][c] == p.status.Available && !taken[entity.SeatPosition{Row: r, Col: c}]
	}

	var seats []entity.SeatPosition
	if start != nil {
		if !free(start.Row, start.Col) {
			return nil, fmt.Errorf("%w: %s", ErrSeatUnavailable, startLabel)
		}
		for c := start.Col; c < p.seatsPerRow && len(seats) < count && free(start.Row, c); c++ {
			seat := entity.SeatPosition{Row: start.Row, Col: c}
			taken[seat] = true
			seats = append(seats, seat)
		}
	}

	if remaining := count - len(seats); remaining > 0 {
		seats = append(seats, p.allocate(remaining, free)...)
	}
	entity.SortSeats(seats)
	return seats, nil
}

// allocate prefers the first row with a contiguous run of n seats, choosing
// the run closest to the row centre. Otherwise it fills rows front to back,
// centre seats first. The caller guarantees at least n free seats.
func (p *SeatingPlanner) allocate(n int, free func(r, c int) bool) []entity.SeatPosition {
	centre := p.seatsPerRow - 1

	for r := 0; r < p.numRows; r++ {
		best, bestScore := -1, 0
		for s := 0; s+n <= p.seatsPerRow; s++ {
			run := true
			for c := s; c < s+n; c++ {
				if !free(r, c) {
					run = false
					break
				}
			}
			if !run {
				continue
			}
			score := abs(2*s + n - 1 - centre)
			if best < 0 || score < bestScore {
				best, bestScore = s, score
			}
		}
		if best >= 0 {
			seats := make([]entity.SeatPosition, 0, n)
			for c := best; c < best+n; c++ {
				seats = append(seats, entity.SeatPosition{Row: r, Col: c})
			}
			return seats
		}
	}

	order := make([]int, p.seatsPerRow)
	for c := range order {
		order[c] = c
	}
	sort.SliceStable(order, func(i, j int) bool {
		return abs(2*order[i]-centre) < abs(2*order[j]-centre)
	})

	seats := make([]entity.SeatPosition, 0, n)
	for r := 0; r < p.numRows && len(seats) < n; r++ {
		var picked []entity.SeatPosition
		for _, c := range order {
			if len(seats)+len(picked) == n {
				break
			}
			if free(r, c) {
				picked = append(picked, entity.SeatPosition{Row: r, Col: c})
			}
		}
		sort.Slice(picked, func(i, j int) bool { return picked[i].Col < picked[j].Col })
		seats = append(seats, picked...)
	}
	return seats
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
