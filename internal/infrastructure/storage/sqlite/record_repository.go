package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
)

// фиксированная ширина, чтобы строки сравнивались как время
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectRecord = `
	SELECT id, type, attributes, quickbooks_id, synced_at, created_at, updated_at
	FROM records`

type RecordRepository struct {
	db *sql.DB
}

var _ record.Repository = (*RecordRepository)(nil)

func NewRecordRepository(s *Storage) *RecordRepository {
	return &RecordRepository{db: s.db}
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.Record) error {
	attrs, err := json.Marshal(rec.Attributes)
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrInvalidData, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO records (id, type, attributes, quickbooks_id, synced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Type), string(attrs), rec.QuickBooksID, formatNullTime(rec.SyncedAt),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: duplicate id %s", record.ErrInvalidData, rec.ID)
		}
		return fmt.Errorf("ошибка сохранения записи: %w", err)
	}

	return nil
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*record.Record, error) {
	row := r.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	return rec, nil
}

func (r *RecordRepository) List(ctx context.Context, filter record.Filter) ([]*record.Record, error) {
	var (
		where []string
		args  []any
	)

	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Pending {
		where = append(where, "(quickbooks_id IS NULL OR synced_at IS NULL OR updated_at > synced_at)")
	}

	query := selectRecord
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at ASC, id ASC"

	// OFFSET в SQLite допустим только вместе с LIMIT
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения записей: %w", err)
	}
	defer rows.Close()

	records := make([]*record.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения записи: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *RecordRepository) UpdateAttributes(ctx context.Context, id string, attributes map[string]any, updatedAt time.Time) error {
	attrs, err := json.Marshal(attributes)
	if err != nil {
		return fmt.Errorf("%w: %v", record.ErrInvalidData, err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE records SET attributes = ?, updated_at = ? WHERE id = ?`,
		string(attrs), formatTime(updatedAt), id,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления записи: %w", err)
	}

	return requireAffected(result)
}

func (r *RecordRepository) SetRemoteID(ctx context.Context, id, remoteID string, syncedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE records SET quickbooks_id = ?, synced_at = ?
		WHERE id = ? AND (quickbooks_id IS NULL OR quickbooks_id = ?)`,
		remoteID, formatTime(syncedAt), id, remoteID,
	)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: %s already linked to another record", record.ErrRemoteIDConflict, remoteID)
		}
		return fmt.Errorf("ошибка сохранения удаленного ID: %w", err)
	}

	if err := requireAffected(result); err == nil {
		return nil
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s has %s, got %s", record.ErrRemoteIDConflict, id, *current.QuickBooksID, remoteID)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return nil
}

func scanRecord(row interface{ Scan(dest ...any) error }) (*record.Record, error) {
	var (
		rec       record.Record
		typ       string
		attrs     string
		qbID      sql.NullString
		syncedAt  sql.NullString
		createdAt string
		updatedAt string
	)

	if err := row.Scan(&rec.ID, &typ, &attrs, &qbID, &syncedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rec.Type = resource.Type(typ)
	if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	if rec.Attributes == nil {
		rec.Attributes = map[string]any{}
	}
	if qbID.Valid {
		rec.QuickBooksID = &qbID.String
	}

	var err error
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, err
	}
	if syncedAt.Valid {
		t, err := time.Parse(timeLayout, syncedAt.String)
		if err != nil {
			return nil, err
		}
		rec.SyncedAt = &t
	}

	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
