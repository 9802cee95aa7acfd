package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"qbsync/internal/domain/resource"
)

// Syncer интерфейс движка синхронизации
type Syncer interface {
	// Sync создает или обновляет удаленную сущность для локальной записи
	Sync(ctx context.Context, rec Record) (*Result, error)

	// Fetch читает удаленную сущность, связанную с записью
	Fetch(ctx context.Context, rec Record) (*resource.RemoteEntity, error)
}

// Engine - движок синхронизации.
// Состояния между вызовами не хранит, кроме неизменяемого реестра.
// Взаимное исключение для одной и той же записи обеспечивает вызывающий.
type Engine struct {
	registry *resource.Registry
	log      *slog.Logger
}

// NewEngine создает движок поверх реестра привязок
func NewEngine(registry *resource.Registry, log *slog.Logger) *Engine {
	return &Engine{
		registry: registry,
		log:      log.With("component", "sync_engine"),
	}
}

// Sync выбирает create или update по наличию сохраненного удаленного ID.
// Создание - единственный путь из "не синхронизирована" в "синхронизирована";
// ApplyRemoteID вызывается только после подтвержденного создания.
func (e *Engine) Sync(ctx context.Context, rec Record) (*Result, error) {
	if rec == nil {
		return nil, errors.New("sync: nil record")
	}

	start := time.Now()
	log := e.log.With("local_id", rec.LocalID(), "type", rec.LogicalType().String())

	binding, err := e.registry.Lookup(rec.LogicalType())
	if err != nil {
		log.Error("нет привязки для типа записи", "error", err)
		return nil, err
	}

	payload := rec.RemotePayload()

	result := &Result{
		Record:  rec,
		LocalID: rec.LocalID(),
		Type:    rec.LogicalType(),
	}

	if remoteID, ok := rec.RemoteID(); ok && remoteID != "" {
		remote, err := binding.Update(ctx, remoteID, payload)
		if err != nil {
			err = classify(err, ErrRemoteEntityGone)
			log.Warn("ошибка обновления удаленной сущности", "remote_id", remoteID, "error", err)
			return nil, err
		}

		result.RemoteID = remoteID
		result.Operation = OperationUpdated
		result.Remote = remote
	} else {
		remote, err := binding.Create(ctx, payload)
		if err != nil {
			err = classify(err, ErrRemoteValidation)
			log.Warn("ошибка создания удаленной сущности", "error", err)
			return nil, err
		}
		if remote == nil || remote.ID == "" {
			log.Error("удаленный сервис не вернул идентификатор")
			return nil, fmt.Errorf("%w: remote returned empty identifier", ErrRemoteValidation)
		}

		result.RemoteID = remote.ID
		result.Operation = OperationCreated
		result.Remote = remote

		if err := rec.ApplyRemoteID(ctx, remote.ID); err != nil {
			log.Error("сущность создана, но ID не сохранен локально",
				"remote_id", remote.ID,
				"error", err,
			)
			result.Duration = time.Since(start)
			return result, fmt.Errorf("%w %s: %w", ErrApplyRemoteID, remote.ID, err)
		}
	}

	result.Duration = time.Since(start)
	log.Info("запись синхронизирована",
		"operation", string(result.Operation),
		"remote_id", result.RemoteID,
		"duration", result.Duration,
	)

	return result, nil
}

// Fetch возвращает удаленную сущность для синхронизированной записи
func (e *Engine) Fetch(ctx context.Context, rec Record) (*resource.RemoteEntity, error) {
	if rec == nil {
		return nil, errors.New("fetch: nil record")
	}

	binding, err := e.registry.Lookup(rec.LogicalType())
	if err != nil {
		return nil, err
	}

	remoteID, ok := rec.RemoteID()
	if !ok || remoteID == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotSynced, rec.LocalID())
	}

	remote, err := binding.Find(ctx, remoteID)
	if err != nil {
		return nil, classify(err, ErrRemoteEntityGone)
	}
	if remote == nil {
		return nil, fmt.Errorf("%w: %s", ErrRemoteEntityGone, remoteID)
	}

	return remote, nil
}

// classify переводит ошибку клиента в таксономию движка.
// notFound - чем считать ответ "не найдено" на данном пути.
// Неклассифицированные ошибки считаются временными: локальное состояние
// до удаленного вызова не менялось, повтор безопасен.
func classify(err error, notFound error) error {
	switch {
	case errors.Is(err, resource.ErrNotFound):
		return fmt.Errorf("%w: %w", notFound, err)
	case errors.Is(err, resource.ErrValidation):
		return fmt.Errorf("%w: %w", ErrRemoteValidation, err)
	default:
		return fmt.Errorf("%w: %w", ErrRemoteTransient, err)
	}
}
