package resource

import (
	"context"
	"fmt"
)

// Payload - плоское представление локальной записи в форме удаленного API
type Payload map[string]any

// RemoteEntity - результат удаленного вызова.
// Движку синхронизации нужен только ID, остальное для отображения.
type RemoteEntity struct {
	ID         string         `json:"id"`
	SyncToken  string         `json:"sync_token,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type (
	FindFunc   func(ctx context.Context, id string) (*RemoteEntity, error)
	CreateFunc func(ctx context.Context, payload Payload) (*RemoteEntity, error)
	UpdateFunc func(ctx context.Context, id string, payload Payload) (*RemoteEntity, error)
)

// Binding связывает логический тип с операциями удаленного API
type Binding struct {
	Type   Type
	Find   FindFunc
	Create CreateFunc
	Update UpdateFunc
}

func (b Binding) validate() error {
	if b.Type == "" {
		return fmt.Errorf("%w: empty type", ErrInvalidBinding)
	}
	if b.Find == nil || b.Create == nil || b.Update == nil {
		return fmt.Errorf("%w: %s: all of find, create and update are required", ErrInvalidBinding, b.Type)
	}
	return nil
}

// RemoteAPI - клиент удаленного API, общий для всех сущностей.
// entity - сегмент пути из таблицы supportedTypes.
type RemoteAPI interface {
	Find(ctx context.Context, entity string, id string) (*RemoteEntity, error)
	Create(ctx context.Context, entity string, payload Payload) (*RemoteEntity, error)
	Update(ctx context.Context, entity string, id string, payload Payload) (*RemoteEntity, error)
}

// bindEndpoint строит Binding поверх RemoteAPI для одного сегмента пути
func bindEndpoint(api RemoteAPI, t Type, endpoint string) Binding {
	readEndpoint := endpoint
	if re, ok := readEndpoints[t]; ok {
		readEndpoint = re
	}

	b := Binding{
		Type: t,
		Find: func(ctx context.Context, id string) (*RemoteEntity, error) {
			return api.Find(ctx, readEndpoint, id)
		},
		Create: func(ctx context.Context, payload Payload) (*RemoteEntity, error) {
			return api.Create(ctx, endpoint, payload)
		},
		Update: func(ctx context.Context, id string, payload Payload) (*RemoteEntity, error) {
			return api.Update(ctx, endpoint, id, payload)
		},
	}

	if _, ok := createOnly[t]; ok {
		b.Update = func(context.Context, string, Payload) (*RemoteEntity, error) {
			return nil, fmt.Errorf("%w: %s cannot be updated after creation", ErrValidation, t)
		}
	}

	return b
}
