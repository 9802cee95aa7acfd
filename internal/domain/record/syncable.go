package record

import (
	"context"
	"time"

	"qbsync/internal/domain/resource"
)

// syncable связывает запись с хранилищем и реализует sync.Record
type syncable struct {
	rec  *Record
	repo Repository
	now  func() time.Time
}

func (s *syncable) LocalID() string {
	return s.rec.ID
}

func (s *syncable) LogicalType() resource.Type {
	return s.rec.Type
}

func (s *syncable) RemoteID() (string, bool) {
	if !s.rec.IsSynced() {
		return "", false
	}
	return *s.rec.QuickBooksID, true
}

func (s *syncable) RemotePayload() resource.Payload {
	return PayloadOf(s.rec.Attributes)
}

// ApplyRemoteID сначала пишет в хранилище, затем в запись в памяти
func (s *syncable) ApplyRemoteID(ctx context.Context, id string) error {
	syncedAt := s.now().UTC()
	if err := s.repo.SetRemoteID(ctx, s.rec.ID, id, syncedAt); err != nil {
		return err
	}

	s.rec.QuickBooksID = &id
	s.rec.SyncedAt = &syncedAt
	return nil
}
