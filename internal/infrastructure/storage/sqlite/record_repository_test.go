package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

func setupRepository(t *testing.T) *RecordRepository {
	t.Helper()

	storage, err := Open(filepath.Join(t.TempDir(), "data", "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	return NewRecordRepository(storage)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// повторное открытие не должно падать на уже примененных миграциях
	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestRecordRepository_CRUD(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 123456789, time.UTC)

	rec := &record.Record{
		ID:         "r1",
		Type:       resource.TypeInvoice,
		Attributes: map[string]any{"CustomerRef": map[string]any{"value": "1"}, "TotalAmt": 99.5},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, repo.Create(ctx, rec))
	assert.ErrorIs(t, repo.Create(ctx, rec), record.ErrInvalidData)

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, resource.TypeInvoice, got.Type)
	assert.Equal(t, 99.5, got.Attributes["TotalAmt"])
	assert.Equal(t, map[string]any{"value": "1"}, got.Attributes["CustomerRef"])
	assert.True(t, got.CreatedAt.Equal(now))
	assert.Nil(t, got.QuickBooksID)
	assert.Nil(t, got.SyncedAt)

	later := now.Add(time.Minute)
	require.NoError(t, repo.UpdateAttributes(ctx, "r1", map[string]any{"TotalAmt": 100.0}, later))
	got, err = repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Attributes["TotalAmt"])
	assert.True(t, got.UpdatedAt.Equal(later))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, record.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateAttributes(ctx, "missing", map[string]any{}, now), record.ErrNotFound)
}

func TestRecordRepository_SetRemoteID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &record.Record{ID: "r1", Type: resource.TypeVendor, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repo.Create(ctx, &record.Record{ID: "r2", Type: resource.TypeVendor, CreatedAt: now, UpdatedAt: now}))

	require.NoError(t, repo.SetRemoteID(ctx, "r1", "42", now.Add(time.Second)))
	require.NoError(t, repo.SetRemoteID(ctx, "r1", "42", now.Add(2*time.Second)))

	err := repo.SetRemoteID(ctx, "r1", "43", now)
	assert.ErrorIs(t, err, record.ErrRemoteIDConflict)

	// один удаленный ID не может принадлежать двум записям одного типа
	err = repo.SetRemoteID(ctx, "r2", "42", now)
	assert.ErrorIs(t, err, record.ErrRemoteIDConflict)

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got.QuickBooksID)
	assert.Equal(t, "42", *got.QuickBooksID)
	require.NotNil(t, got.SyncedAt)
	assert.True(t, got.SyncedAt.Equal(now.Add(2*time.Second)))

	assert.ErrorIs(t, repo.SetRemoteID(ctx, "missing", "1", now), record.ErrNotFound)
}

func TestRecordRepository_List(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, typ := range []resource.Type{resource.TypeVendor, resource.TypeBill, resource.TypeVendor} {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, &record.Record{
			ID:         string(rune('a' + i)),
			Type:       typ,
			Attributes: map[string]any{},
			CreatedAt:  at,
			UpdatedAt:  at,
		}))
	}
	require.NoError(t, repo.SetRemoteID(ctx, "a", "1", base.Add(time.Hour)))

	tests := []struct {
		name   string
		filter record.Filter
		want   []string
	}{
		{name: "all", filter: record.Filter{}, want: []string{"a", "b", "c"}},
		{name: "by type", filter: record.Filter{Type: resource.TypeVendor}, want: []string{"a", "c"}},
		{name: "pending", filter: record.Filter{Pending: true}, want: []string{"b", "c"}},
		{name: "limit", filter: record.Filter{Limit: 2}, want: []string{"a", "b"}},
		{name: "offset only", filter: record.Filter{Offset: 1}, want: []string{"b", "c"}},
		{name: "offset past end", filter: record.Filter{Offset: 5}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			ids := make([]string, 0, len(records))
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	// изменение после синхронизации снова делает запись ожидающей
	require.NoError(t, repo.UpdateAttributes(ctx, "a", map[string]any{"x": 1}, base.Add(2*time.Hour)))
	pending, err := repo.List(ctx, record.Filter{Pending: true})
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
