package sync

import (
	"qbsync/internal/domain/record"
	"qbsync/internal/domain/resource"
	"qbsync/internal/domain/sync"
)

type syncInput struct {
	ID string `path:"id" format:"uuid" doc:"ID записи"`
}

type syncOutput struct {
	Body *sync.Result
}

type batchInput struct {
	Body batchRequest `required:"false"`
}

type batchRequest struct {
	Type  resource.Type `json:"type,omitempty" doc:"Синхронизировать только этот тип"`
	Limit int           `json:"limit,omitempty" minimum:"0" maximum:"1000" doc:"Максимум записей за вызов"`
}

type batchOutput struct {
	Body *record.BatchResult
}

type remoteInput struct {
	ID string `path:"id" format:"uuid" doc:"ID записи"`
}

type remoteOutput struct {
	Body *resource.RemoteEntity
}
