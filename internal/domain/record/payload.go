package record

import (
	"qbsync/internal/domain/resource"
)

// reservedKeys управляются удаленным сервисом и в payload не попадают
var reservedKeys = map[string]struct{}{
	"Id":        {},
	"SyncToken": {},
	"sparse":    {},
}

// PayloadOf строит payload из атрибутов записи.
// Результат - глубокая копия, исходные атрибуты не меняются.
func PayloadOf(attributes map[string]any) resource.Payload {
	payload := make(resource.Payload, len(attributes))
	for k, v := range attributes {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		payload[k] = cloneValue(v)
	}
	return payload
}

// localAttributes копирует атрибуты без полей, которыми управляет удаленный сервис
func localAttributes(attributes map[string]any) map[string]any {
	out := cloneAttributes(attributes)
	for k := range reservedKeys {
		delete(out, k)
	}
	return out
}

func cloneAttributes(attributes map[string]any) map[string]any {
	if attributes == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(attributes))
	for k, v := range attributes {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneAttributes(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// Clone возвращает независимую копию записи
func (r *Record) Clone() *Record {
	out := *r
	out.Attributes = cloneAttributes(r.Attributes)
	if r.QuickBooksID != nil {
		id := *r.QuickBooksID
		out.QuickBooksID = &id
	}
	if r.SyncedAt != nil {
		at := *r.SyncedAt
		out.SyncedAt = &at
	}
	return &out
}
