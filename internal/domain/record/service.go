package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slog"

	"qbsync/internal/domain/resource"
	"qbsync/internal/domain/sync"
)

// Servicer defines the business logic for local records
type Servicer interface {
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, filter Filter) ([]*Record, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Record, error)

	// Sync synchronizes one record with the remote service
	Sync(ctx context.Context, id string) (*sync.Result, error)
	// SyncPending synchronizes every record matching the filter, one by one
	SyncPending(ctx context.Context, filter Filter) (*BatchResult, error)
	// FetchRemote reads the remote counterpart of a synced record
	FetchRemote(ctx context.Context, id string) (*resource.RemoteEntity, error)

	Types() []resource.Type
}

// Service implements Servicer
type Service struct {
	repo     Repository
	engine   sync.Syncer
	registry *resource.Registry
	log      *slog.Logger
	locks    *keyedMutex
	now      func() time.Time
}

// NewService creates a new record service
func NewService(repo Repository, engine sync.Syncer, registry *resource.Registry, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		engine:   engine,
		registry: registry,
		log:      log.With("component", "record_service"),
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// Create stores a new unsynced record
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	if req.Type == "" {
		return nil, fmt.Errorf("%w: type is required", ErrInvalidData)
	}
	if !s.registry.Has(req.Type) {
		return nil, fmt.Errorf("%w: %q", resource.ErrUnsupportedType, string(req.Type))
	}

	now := s.now().UTC()
	rec := &Record{
		ID:         uuid.NewString(),
		Type:       req.Type,
		Attributes: localAttributes(req.Attributes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Error("failed to create record", "type", req.Type.String(), "error", err)
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.log.Info("record created", "record_id", rec.ID, "type", rec.Type.String())

	return rec, nil
}

// Get returns a record by local ID
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to get record", "record_id", id, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns records matching the filter
func (s *Service) List(ctx context.Context, filter Filter) ([]*Record, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("failed to list records", "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

// Update replaces the attributes of a record; the remote ID is kept
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Record, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.Attributes = localAttributes(req.Attributes)
	rec.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateAttributes(ctx, id, rec.Attributes, rec.UpdatedAt); err != nil {
		s.log.Error("failed to update record", "record_id", id, "error", err)
		return nil, fmt.Errorf("update record: %w", err)
	}

	return rec, nil
}

// Sync runs the sync engine for one record.
// Calls for the same record are serialized.
func (s *Service) Sync(ctx context.Context, id string) (*sync.Result, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Sync(ctx, s.syncable(rec))
	if err != nil {
		return result, err
	}

	if result.Operation == sync.OperationUpdated {
		if err := s.repo.SetRemoteID(ctx, rec.ID, result.RemoteID, s.now().UTC()); err != nil {
			s.log.Warn("failed to touch synced_at", "record_id", rec.ID, "error", err)
		}
	}

	return result, nil
}

// SyncPending syncs the matching records sequentially and collects failures.
// Only a cancelled context stops the loop early.
func (s *Service) SyncPending(ctx context.Context, filter Filter) (*BatchResult, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{
		Total:  len(records),
		Synced: make([]*sync.Result, 0, len(records)),
	}

	var errs *multierror.Error
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		result, err := s.Sync(ctx, rec.ID)
		if err != nil {
			batch.Failed = append(batch.Failed, FailedSync{
				RecordID:  rec.ID,
				Error:     err.Error(),
				Retryable: sync.Retryable(err),
			})
			errs = multierror.Append(errs, fmt.Errorf("record %s: %w", rec.ID, err))
			continue
		}
		batch.Synced = append(batch.Synced, result)
	}

	s.log.Info("pending records synced",
		"total", batch.Total,
		"synced", len(batch.Synced),
		"failed", len(batch.Failed),
	)

	return batch, errs.ErrorOrNil()
}

// FetchRemote returns the remote entity linked to the record
func (s *Service) FetchRemote(ctx context.Context, id string) (*resource.RemoteEntity, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.engine.Fetch(ctx, s.syncable(rec))
}

// Types returns the logical types the registry supports
func (s *Service) Types() []resource.Type {
	return s.registry.Types()
}

func (s *Service) syncable(rec *Record) *syncable {
	return &syncable{
		rec:  rec,
		repo: s.repo,
		now:  s.now,
	}
}
