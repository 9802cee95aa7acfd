package sync

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"qbsync/internal/app/server/api/http/httperr"
	"qbsync/internal/domain/record"
)

type Handler struct {
	service    record.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service record.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "sync_handler"),
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.syncOp(), h.sync)
	huma.Register(api, h.syncPendingOp(), h.syncPending)
	huma.Register(api, h.remoteOp(), h.remote)
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	result, err := h.service.Sync(ctx, input.ID)
	if err != nil {
		if result != nil {
			// сущность создана в QuickBooks, но связь не сохранена
			h.log.Error("remote entity orphaned",
				"record_id", input.ID,
				"remote_id", result.RemoteID,
				"error", err,
			)
		}
		return nil, httperr.From(err)
	}

	return &syncOutput{Body: result}, nil
}

// syncPending всегда отвечает 200 с отчетом; ошибки отдельных записей внутри отчета
func (h *Handler) syncPending(ctx context.Context, input *batchInput) (*batchOutput, error) {
	batch, err := h.service.SyncPending(ctx, record.Filter{
		Type:    input.Body.Type,
		Pending: true,
		Limit:   input.Body.Limit,
	})
	if batch == nil {
		return nil, httperr.From(err)
	}
	if err != nil {
		h.log.Warn("pending sync finished with errors", "failed", len(batch.Failed), "error", err)
	}

	return &batchOutput{Body: batch}, nil
}

func (h *Handler) remote(ctx context.Context, input *remoteInput) (*remoteOutput, error) {
	entity, err := h.service.FetchRemote(ctx, input.ID)
	if err != nil {
		return nil, httperr.From(err)
	}

	return &remoteOutput{Body: entity}, nil
}
