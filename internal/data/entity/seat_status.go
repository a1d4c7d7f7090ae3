package entity

import (
	"fmt"

	"cinema-seating/pkg/appconfig"
)

// StatusCode is the single-character code a seat shows in a plan.
type StatusCode string

const (
	DefaultAvailable StatusCode = "O"
	DefaultBooked    StatusCode = "B"
	DefaultProposed  StatusCode = "P"
)

// SeatStatus is the configured status vocabulary.
type SeatStatus struct {
	Available StatusCode `json:"available"`
	Booked    StatusCode `json:"booked"`
	Proposed  StatusCode `json:"proposed"`
}

func DefaultSeatStatus() SeatStatus {
	return SeatStatus{
		Available: DefaultAvailable,
		Booked:    DefaultBooked,
		Proposed:  DefaultProposed,
	}
}

// SeatStatusFromConfig reads seat_statuses:{available,booked,proposed},
// falling back per key to the defaults. A nil store yields the defaults.
func SeatStatusFromConfig(cfg *appconfig.Store) (SeatStatus, error) {
	status := DefaultSeatStatus()
	if cfg == nil {
		return status, nil
	}

	status.Available = statusFromConfig(cfg, "seat_statuses:available", DefaultAvailable)
	status.Booked = statusFromConfig(cfg, "seat_statuses:booked", DefaultBooked)
	status.Proposed = statusFromConfig(cfg, "seat_statuses:proposed", DefaultProposed)

	if status.Available == status.Booked || status.Available == status.Proposed || status.Booked == status.Proposed {
		return SeatStatus{}, &appconfig.Error{
			Op:   "lookup",
			Path: "seat_statuses",
			Err:  fmt.Errorf("seat status codes must be distinct, got %q/%q/%q", status.Available, status.Booked, status.Proposed),
		}
	}
	return status, nil
}

func statusFromConfig(cfg *appconfig.Store, path string, def StatusCode) StatusCode {
	code := cfg.String(path, "")
	if code == "" {
		return def
	}
	return StatusCode(code)
}

func (s SeatStatus) IsAvailable(code StatusCode) bool { return code == s.Available }

func (s SeatStatus) IsBooked(code StatusCode) bool { return code == s.Booked }

func (s SeatStatus) IsProposed(code StatusCode) bool { return code == s.Proposed }

// Valid reports whether code belongs to the vocabulary.
func (s SeatStatus) Valid(code StatusCode) bool {
	return code == s.Available || code == s.Booked || code == s.Proposed
}

// Name maps a code back to its vocabulary key ("AVAILABLE", "BOOKED", "PROPOSED").
func (s SeatStatus) Name(code StatusCode) string {
	switch code {
	case s.Available:
		return "AVAILABLE"
	case s.Booked:
		return "BOOKED"
	case s.Proposed:
		return "PROPOSED"
	}
	return string(code)
}
