package adaptor

import (
	"cinema-seating/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Seating *SeatingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Seating: NewSeatingHandler(service.Seating, log),
	}
}
