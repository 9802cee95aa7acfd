package record

import (
	"qbsync/internal/domain/resource"
	"qbsync/internal/domain/sync"
)

type CreateRequest struct {
	Type       resource.Type  `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

type UpdateRequest struct {
	Attributes map[string]any `json:"attributes"`
}

// BatchResult итог синхронизации набора записей
type BatchResult struct {
	Total  int            `json:"total"`
	Synced []*sync.Result `json:"synced"`
	Failed []FailedSync   `json:"failed,omitempty"`
}

type FailedSync struct {
	RecordID  string `json:"record_id"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}
