package record

import (
	"time"

	"qbsync/internal/domain/resource"
)

// Record - локальная бизнес-запись (счет, инвойс, поставщик и т.д.)
type Record struct {
	ID           string         `json:"id"`
	Type         resource.Type  `json:"type"`
	Attributes   map[string]any `json:"attributes"`
	QuickBooksID *string        `json:"quickbooks_id,omitempty"`
	SyncedAt     *time.Time     `json:"synced_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsSynced сообщает, есть ли у записи удаленный идентификатор
func (r *Record) IsSynced() bool {
	return r.QuickBooksID != nil && *r.QuickBooksID != ""
}

// IsPending сообщает, нужно ли отправить запись в удаленный сервис
func (r *Record) IsPending() bool {
	if !r.IsSynced() || r.SyncedAt == nil {
		return true
	}
	return r.UpdatedAt.After(*r.SyncedAt)
}

// Filter критерии выборки записей
type Filter struct {
	Type resource.Type
	// Pending - только несинхронизированные или измененные после синхронизации
	Pending bool
	Limit   int
	Offset  int
}
