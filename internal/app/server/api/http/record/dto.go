package record

import (
	"time"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

type listInput struct {
	Type    resource.Type `query:"type" doc:"Фильтр по типу сущности"`
	Pending bool          `query:"pending" doc:"Только несинхронизированные или измененные записи"`
	Limit   int           `query:"limit" minimum:"0" maximum:"1000" default:"100"`
	Offset  int           `query:"offset" minimum:"0" default:"0"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Records []recordResponse `json:"records"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Type       resource.Type  `json:"type" doc:"Логический тип сущности QuickBooks"`
	Attributes map[string]any `json:"attributes" doc:"Поля сущности в формате QuickBooks"`
}

type findInput struct {
	ID string `path:"id" format:"uuid" doc:"ID записи"`
}

type updateInput struct {
	ID   string `path:"id" format:"uuid" doc:"ID записи"`
	Body updateRequest
}

type updateRequest struct {
	Attributes map[string]any `json:"attributes" doc:"Новые поля сущности"`
}

type output struct {
	Body recordResponse
}

type recordResponse struct {
	ID           string         `json:"id"`
	Type         resource.Type  `json:"type"`
	Attributes   map[string]any `json:"attributes"`
	QuickBooksID string         `json:"quickbooks_id,omitempty"`
	SyncedAt     *time.Time     `json:"synced_at,omitempty"`
	Pending      bool           `json:"pending"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type typesOutput struct {
	Body typesResponse
}

type typesResponse struct {
	Types []typeInfo `json:"types"`
}

type typeInfo struct {
	Type     resource.Type `json:"type"`
	Endpoint string        `json:"endpoint"`
}

func toResponse(rec *record.Record) recordResponse {
	resp := recordResponse{
		ID:         rec.ID,
		Type:       rec.Type,
		Attributes: rec.Attributes,
		SyncedAt:   rec.SyncedAt,
		Pending:    rec.IsPending(),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
	if rec.IsSynced() {
		resp.QuickBooksID = *rec.QuickBooksID
	}
	return resp
}
