package sync

import (
	"errors"

	"qbsync/internal/domain/resource"
)

var (
	// ErrUnsupportedEntityType нет привязки для логического типа; не повторять
	ErrUnsupportedEntityType = resource.ErrUnsupportedType
	// ErrRemoteValidation удаленный сервис отклонил данные; не повторять
	ErrRemoteValidation = errors.New("remote validation error")
	// ErrRemoteTransient сеть, таймаут, лимит запросов; можно повторить
	ErrRemoteTransient = errors.New("remote transient error")
	// ErrRemoteEntityGone удаленная сущность по сохраненному ID больше не существует
	ErrRemoteEntityGone = errors.New("remote entity gone")
	// ErrApplyRemoteID сущность создана удаленно, но ID не удалось сохранить локально
	ErrApplyRemoteID = errors.New("failed to apply remote id")
	// ErrNotSynced у записи еще нет удаленного идентификатора
	ErrNotSynced = errors.New("record is not synced")
)

// Retryable сообщает, безопасно ли повторить тот же вызов Sync
func Retryable(err error) bool {
	return errors.Is(err, ErrRemoteTransient)
}
