package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db         Pinger
	types      int
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(db Pinger, types int, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		db:         db,
		types:      types,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("database ping failed", "error", err)
			return nil, huma.Error503ServiceUnavailable("database unavailable", err)
		}
	}

	return &Output{
		Body: Response{
			Status:   "OK",
			Database: "OK",
			Types:    h.types,
		},
	}, nil
}
