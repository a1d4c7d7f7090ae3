package usecase

import (
	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/queue"
	"cinema-seating/pkg/appconfig"
	"cinema-seating/pkg/lock"

	"go.uber.org/zap"
)

type Service struct {
	Seating SeatingService
}

func NewService(repo *repository.Repository, config *appconfig.Store, locker lock.Locker, publisher queue.Publisher, log *zap.Logger) (*Service, error) {
	seating, err := NewSeatingService(repo, config, locker, publisher, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		Seating: seating,
	}, nil
}
