package httperr

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/sync"
)

// From переводит ошибку домена в HTTP-ответ
func From(err error) error {
	if err == nil {
		return nil
	}

	var statusErr huma.StatusError
	if errors.As(err, &statusErr) {
		return err
	}

	switch {
	// ApplyRemoteID оборачивает ошибку хранилища, проверяем его раньше нее
	case errors.Is(err, sync.ErrApplyRemoteID):
		return huma.Error500InternalServerError("remote entity created but local record not updated", err)
	case errors.Is(err, record.ErrNotFound):
		return huma.Error404NotFound("record not found")
	case errors.Is(err, record.ErrInvalidData):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, sync.ErrUnsupportedEntityType):
		return huma.Error422UnprocessableEntity("unsupported entity type", err)
	case errors.Is(err, sync.ErrRemoteValidation):
		return huma.Error422UnprocessableEntity("remote validation error", err)
	case errors.Is(err, sync.ErrRemoteEntityGone):
		return huma.Error409Conflict("remote entity gone", err)
	case errors.Is(err, sync.ErrNotSynced):
		return huma.Error409Conflict("record is not synced", err)
	case errors.Is(err, record.ErrRemoteIDConflict):
		return huma.Error409Conflict("remote id conflict", err)
	case errors.Is(err, sync.ErrRemoteTransient):
		return huma.Error503ServiceUnavailable("remote temporarily unavailable", err)
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
