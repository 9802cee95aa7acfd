package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/exp/slog"

	"qbsync/internal/domain/record"
	"qbsync/internal/domain/sync"
)

// RetryConfig параметры повторов временных ошибок
type RetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig возвращает параметры по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

// SyncService синхронизирует локальные записи с повторами временных ошибок
type SyncService struct {
	records record.Servicer
	log     *slog.Logger
	retry   RetryConfig
}

func NewSyncService(records record.Servicer, log *slog.Logger) *SyncService {
	return &SyncService{
		records: records,
		log:     log.With("component", "sync_service"),
		retry:   DefaultRetryConfig(),
	}
}

// WithRetry задает параметры повторов
func (s *SyncService) WithRetry(cfg RetryConfig) *SyncService {
	s.retry = cfg
	return s
}

// SyncRecord синхронизирует одну запись.
// Повторяются только временные ошибки; после ошибки сохранения ID повтор
// создал бы дубликат, поэтому результат возвращается сразу.
func (s *SyncService) SyncRecord(ctx context.Context, id string) (*sync.Result, error) {
	var (
		result  *sync.Result
		attempt int
	)

	operation := func() error {
		attempt++
		res, err := s.records.Sync(ctx, id)
		if err == nil {
			result = res
			return nil
		}
		if errors.Is(err, sync.ErrApplyRemoteID) {
			result = res
			return backoff.Permanent(err)
		}
		if !sync.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		s.log.Warn("Временная ошибка синхронизации, повтор",
			"record_id", id,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(operation, s.policy(ctx), notify)
	if err != nil {
		return result, fmt.Errorf("синхронизация %s: %w", id, err)
	}

	return result, nil
}

// SyncPending синхронизирует все ожидающие записи, для каждой с повторами
func (s *SyncService) SyncPending(ctx context.Context, filter record.Filter) (*record.BatchResult, error) {
	filter.Pending = true
	records, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения ожидающих записей: %w", err)
	}

	batch := &record.BatchResult{
		Total:  len(records),
		Synced: make([]*sync.Result, 0, len(records)),
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}

		res, err := s.SyncRecord(ctx, rec.ID)
		if err != nil {
			batch.Failed = append(batch.Failed, record.FailedSync{
				RecordID:  rec.ID,
				Error:     err.Error(),
				Retryable: sync.Retryable(err),
			})
			continue
		}
		batch.Synced = append(batch.Synced, res)
	}

	s.log.Info("Синхронизация завершена",
		"total", batch.Total,
		"synced", len(batch.Synced),
		"failed", len(batch.Failed),
	)

	return batch, nil
}

func (s *SyncService) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = s.retry.InitialInterval
	exp.MaxInterval = s.retry.MaxInterval
	exp.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(exp, s.retry.MaxRetries), ctx)
}
