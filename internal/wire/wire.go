package wire

import (
	"context"
	"net/http"
	"time"

	"cinema-seating/internal/adaptor"
	"cinema-seating/internal/data/repository"
	"cinema-seating/internal/queue"
	"cinema-seating/internal/usecase"
	"cinema-seating/pkg/appconfig"
	"cinema-seating/pkg/lock"
	"cinema-seating/pkg/middleware"
	"cinema-seating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Dependencies are the infrastructure pieces main builds from configuration.
type Dependencies struct {
	Repo      *repository.Repository
	Seating   *appconfig.Store
	Locker    lock.Locker
	Publisher queue.Publisher
	// Ping reports storage health. Nil means always healthy.
	Ping func(ctx context.Context) error
}

type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes.
func Wiring(deps Dependencies, logger *zap.Logger) (*App, error) {
	service, err := usecase.NewService(deps.Repo, deps.Seating, deps.Locker, deps.Publisher, logger)
	if err != nil {
		return nil, err
	}
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, deps, logger)

	return &App{
		Router: router,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	deps Dependencies,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireSeating(r, handler.Seating, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "storage unavailable", nil, nil)
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
