package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/records/{id}/sync",
		Summary:     "Синхронизировать запись с QuickBooks",
		Description: "Создает сущность в QuickBooks, если у записи нет удаленного ID, иначе обновляет ее.",
		Tags:        []string{"sync"},
		Errors: []int{
			http.StatusNotFound,
			http.StatusConflict,
			http.StatusUnprocessableEntity,
			http.StatusServiceUnavailable,
		},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) syncPendingOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-sync-pending",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Синхронизировать все ожидающие записи",
		Tags:        []string{"sync"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) remoteOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-remote",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/{id}/remote",
		Summary:     "Получить сущность из QuickBooks",
		Tags:        []string{"sync"},
		Errors:      []int{http.StatusNotFound, http.StatusConflict, http.StatusServiceUnavailable},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
