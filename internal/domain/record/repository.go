package record

import (
	"context"
	"time"
)

// Repository - хранилище локальных записей
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, error)
	UpdateAttributes(ctx context.Context, id string, attributes map[string]any, updatedAt time.Time) error

	// SetRemoteID сохраняет удаленный ID и время синхронизации.
	// Повторный вызов с тем же ID только обновляет synced_at;
	// другой ID для уже связанной записи - ErrRemoteIDConflict.
	SetRemoteID(ctx context.Context, id, remoteID string, syncedAt time.Time) error
}
