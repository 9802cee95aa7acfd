package record

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
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findOp(), h.find)
	huma.Register(api, h.updateOp(), h.update)
	huma.Register(api, h.typesOp(), h.types)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	records, err := h.service.List(ctx, record.Filter{
		Type:    input.Type,
		Pending: input.Pending,
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return nil, httperr.From(err)
	}

	resp := listResponse{Records: make([]recordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, toResponse(rec))
	}

	return &listOutput{Body: resp}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*output, error) {
	rec, err := h.service.Create(ctx, record.CreateRequest{
		Type:       input.Body.Type,
		Attributes: input.Body.Attributes,
	})
	if err != nil {
		return nil, httperr.From(err)
	}

	return &output{Body: toResponse(rec)}, nil
}

func (h *Handler) find(ctx context.Context, input *findInput) (*output, error) {
	rec, err := h.service.Get(ctx, input.ID)
	if err != nil {
		return nil, httperr.From(err)
	}

	return &output{Body: toResponse(rec)}, nil
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*output, error) {
	rec, err := h.service.Update(ctx, input.ID, record.UpdateRequest{
		Attributes: input.Body.Attributes,
	})
	if err != nil {
		return nil, httperr.From(err)
	}

	return &output{Body: toResponse(rec)}, nil
}

func (h *Handler) types(_ context.Context, _ *struct{}) (*typesOutput, error) {
	types := h.service.Types()

	resp := typesResponse{Types: make([]typeInfo, 0, len(types))}
	for _, typ := range types {
		endpoint, _ := typ.Endpoint()
		resp.Types = append(resp.Types, typeInfo{Type: typ, Endpoint: endpoint})
	}

	return &typesOutput{Body: resp}, nil
}
