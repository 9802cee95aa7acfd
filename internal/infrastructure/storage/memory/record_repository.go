package memory

import (
	"context"
	"fmt"
	"sort"
	gosync "sync"
	"time"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

// RecordRepository - хранилище записей в памяти.
// Используется, когда SQLite недоступен, и в тестах.
type RecordRepository struct {
	mu      gosync.RWMutex
	records map[string]*record.Record
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		records: make(map[string]*record.Record),
	}
}

func (m *RecordRepository) Create(_ context.Context, rec *record.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; exists {
		return fmt.Errorf("%w: duplicate id %s", record.ErrInvalidData, rec.ID)
	}
	if rec.QuickBooksID != nil {
		if owner, taken := m.linkedTo(rec.Type, *rec.QuickBooksID); taken {
			return fmt.Errorf("%w: %s %s already linked to %s", record.ErrInvalidData, rec.Type, *rec.QuickBooksID, owner)
		}
	}
	m.records[rec.ID] = rec.Clone()
	return nil
}

func (m *RecordRepository) Get(_ context.Context, id string) (*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, exists := m.records[id]
	if !exists {
		return nil, record.ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *RecordRepository) List(_ context.Context, filter record.Filter) ([]*record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*record.Record, 0, len(m.records))
	for _, rec := range m.records {
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if filter.Pending && !rec.IsPending() {
			continue
		}
		records = append(records, rec.Clone())
	}

	// как в SQL хранилищах: старые изменения первыми
	sort.Slice(records, func(i, j int) bool {
		if records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].UpdatedAt.Before(records[j].UpdatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(records) {
			return []*record.Record{}, nil
		}
		records = records[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(records) {
		records = records[:filter.Limit]
	}

	return records, nil
}

func (m *RecordRepository) UpdateAttributes(_ context.Context, id string, attributes map[string]any, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[id]
	if !exists {
		return record.ErrNotFound
	}

	updated := rec.Clone()
	updated.Attributes = attributes
	updated.UpdatedAt = updatedAt
	m.records[id] = updated.Clone()
	return nil
}

func (m *RecordRepository) SetRemoteID(_ context.Context, id, remoteID string, syncedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, exists := m.records[id]
	if !exists {
		return record.ErrNotFound
	}
	if rec.IsSynced() && *rec.QuickBooksID != remoteID {
		return fmt.Errorf("%w: %s has %s, got %s", record.ErrRemoteIDConflict, id, *rec.QuickBooksID, remoteID)
	}
	if owner, taken := m.linkedTo(rec.Type, remoteID); taken && owner != id {
		return fmt.Errorf("%w: %s %s already linked to %s", record.ErrRemoteIDConflict, rec.Type, remoteID, owner)
	}

	qbID := remoteID
	at := syncedAt
	rec.QuickBooksID = &qbID
	rec.SyncedAt = &at
	return nil
}

// linkedTo ищет запись того же типа с данным удаленным ID,
// как уникальный индекс (type, quickbooks_id) в SQL схемах
func (m *RecordRepository) linkedTo(typ resource.Type, remoteID string) (string, bool) {
	for id, rec := range m.records {
		if rec.Type == typ && rec.QuickBooksID != nil && *rec.QuickBooksID == remoteID {
			return id, true
		}
	}
	return "", false
}
