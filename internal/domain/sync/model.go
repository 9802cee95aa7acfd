package sync

import (
	"context"
	"time"

	"qbsync/internal/domain/resource"
)

// Record - возможность локальной записи участвовать в синхронизации.
// Любой тип записи, реализующий эти методы, синхронизируется движком.
type Record interface {
	// LocalID локальный идентификатор записи (для логов и блокировок)
	LocalID() string
	// LogicalType ключ реестра привязок
	LogicalType() resource.Type
	// RemoteID известный удаленный идентификатор; false - запись не синхронизировалась
	RemoteID() (string, bool)
	// RemotePayload чистая проекция состояния записи без удаленного ID
	RemotePayload() resource.Payload
	// ApplyRemoteID сохраняет удаленный идентификатор в локальной записи
	ApplyRemoteID(ctx context.Context, id string) error
}

// Operation - выполненная над удаленной сущностью операция
type Operation string

const (
	OperationCreated Operation = "created"
	OperationUpdated Operation = "updated"
)

// Result результат синхронизации одной записи
type Result struct {
	Record    Record                 `json:"-"`
	LocalID   string                 `json:"local_id"`
	Type      resource.Type          `json:"type"`
	RemoteID  string                 `json:"remote_id"`
	Operation Operation              `json:"operation"`
	Remote    *resource.RemoteEntity `json:"remote,omitempty"`
	Duration  time.Duration          `json:"duration"`
}
