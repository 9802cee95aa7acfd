package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

const uniqueViolation = "23505"

const selectRecord = `
	SELECT id, type, attributes, quickbooks_id, synced_at, created_at, updated_at
	FROM records`

type RecordRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

var _ record.Repository = (*RecordRepository)(nil)

func NewRecordRepository(pool *pgxpool.Pool, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		pool: pool,
		log:  log.With("component", "record_repository"),
	}
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.Record) error {
	const query = `
		INSERT INTO records (id, type, attributes, quickbooks_id, synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrInvalidData, err)
	}

	_, err = r.pool.Exec(ctx, query,
		rec.ID, string(rec.Type), attrs, rec.QuickBooksID, rec.SyncedAt, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: duplicate id %s", record.ErrInvalidData, rec.ID)
		}
		r.log.Error("failed to create record", "record_id", rec.ID, "type", rec.Type, "error", err)
		return fmt.Errorf("create record: %w", err)
	}

	return nil
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*record.Record, error) {
	row := r.pool.QueryRow(ctx, selectRecord+` WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		r.log.Error("failed to get record", "record_id", id, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}

	return rec, nil
}

func (r *RecordRepository) List(ctx context.Context, filter record.Filter) ([]*record.Record, error) {
	query := selectRecord + ` WHERE TRUE`
	args := []any{}
	argIndex := 1

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(filter.Type))
		argIndex++
	}
	if filter.Pending {
		query += " AND (quickbooks_id IS NULL OR synced_at IS NULL OR updated_at > synced_at)"
	}

	query += " ORDER BY updated_at ASC, id ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list records", "filter", filter, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]*record.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *RecordRepository) UpdateAttributes(ctx context.Context, id string, attributes map[string]any, updatedAt time.Time) error {
	const query = `UPDATE records SET attributes = $2, updated_at = $3 WHERE id = $1`

	attrs, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrInvalidData, err)
	}

	result, err := r.pool.Exec(ctx, query, id, attrs, updatedAt)
	if err != nil {
		r.log.Error("failed to update record", "record_id", id, "error", err)
		return fmt.Errorf("update record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return record.ErrNotFound
	}

	return nil
}

// SetRemoteID записывает quickbooks_id, только если он пуст или совпадает
func (r *RecordRepository) SetRemoteID(ctx context.Context, id, remoteID string, syncedAt time.Time) error {
	const query = `
		UPDATE records SET quickbooks_id = $2, synced_at = $3
		WHERE id = $1 AND (quickbooks_id IS NULL OR quickbooks_id = $2)`

	result, err := r.pool.Exec(ctx, query, id, remoteID, syncedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s already linked to another record", record.ErrRemoteIDConflict, remoteID)
		}
		r.log.Error("failed to set remote id", "record_id", id, "remote_id", remoteID, "error", err)
		return fmt.Errorf("set remote id: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s has %s, got %s", record.ErrRemoteIDConflict, id, *current.QuickBooksID, remoteID)
}

func scanRecord(row pgx.Row) (*record.Record, error) {
	var (
		rec   record.Record
		typ   string
		attrs []byte
	)

	err := row.Scan(&rec.ID, &typ, &attrs, &rec.QuickBooksID, &rec.SyncedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rec.Type = resource.Type(typ)
	if err := json.Unmarshal(attrs, &rec.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	if rec.Attributes == nil {
		rec.Attributes = map[string]any{}
	}

	return &rec, nil
}
