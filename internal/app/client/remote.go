package client

import (
	"context"
	"errors"
	"sync/atomic"

	"qbsync/internal/domain/resource"
)

var ErrNotConnected = errors.New("клиент QuickBooks не подключен. Выполните: qbsync auth login")

// remoteProxy позволяет собрать реестр до того, как известен токен доступа
type remoteProxy struct {
	api atomic.Pointer[resource.RemoteAPI]
}

var _ resource.RemoteAPI = (*remoteProxy)(nil)

func (p *remoteProxy) set(api resource.RemoteAPI) {
	p.api.Store(&api)
}

func (p *remoteProxy) get() (resource.RemoteAPI, error) {
	api := p.api.Load()
	if api == nil {
		return nil, ErrNotConnected
	}
	return *api, nil
}

func (p *remoteProxy) connected() bool {
	return p.api.Load() != nil
}

func (p *remoteProxy) Find(ctx context.Context, entity string, id string) (*resource.RemoteEntity, error) {
	api, err := p.get()
	if err != nil {
		return nil, err
	}
	return api.Find(ctx, entity, id)
}

func (p *remoteProxy) Create(ctx context.Context, entity string, payload resource.Payload) (*resource.RemoteEntity, error) {
	api, err := p.get()
	if err != nil {
		return nil, err
	}
	return api.Create(ctx, entity, payload)
}

func (p *remoteProxy) Update(ctx context.Context, entity string, id string, payload resource.Payload) (*resource.RemoteEntity, error) {
	api, err := p.get()
	if err != nil {
		return nil, err
	}
	return api.Update(ctx, entity, id, payload)
}
