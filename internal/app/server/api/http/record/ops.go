package record

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "Список локальных записей",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) createOp() huma.Operation {
	return huma.Operation{
		OperationID:   "records-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/records",
		Summary:       "Создать запись",
		Description:   "Создает локальную запись. В QuickBooks она попадет при синхронизации.",
		Tags:          []string{"records"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnprocessableEntity},
		Security:      []map[string][]string{{"bearer": {}}},
		Middlewares:   h.middleware,
	}
}

func (h *Handler) findOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-find",
		Method:      http.MethodGet,
		Path:        "/api/v1/records/{id}",
		Summary:     "Получить запись",
		Tags:        []string{"records"},
		Errors:      []int{http.StatusNotFound},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) updateOp() huma.Operation {
	return huma.Operation{
		OperationID: "records-update",
		Method:      http.MethodPut,
		Path:        "/api/v1/records/{id}",
		Summary:     "Обновить поля записи",
		Description: "Заменяет поля записи. Связь с сущностью QuickBooks сохраняется.",
		Tags:        []string{"records"},
		Errors:      []int{http.StatusNotFound},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) typesOp() huma.Operation {
	return huma.Operation{
		OperationID: "types-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/types",
		Summary:     "Поддерживаемые типы сущностей",
		Tags:        []string{"records"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
