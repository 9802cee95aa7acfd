package quickbooks

import (
	"encoding/json"
	"net/http"

	"qbsync/internal/domain/resource"
)

const (
	codeObjectNotFound = "610"
	codeStaleObject    = "5010"
)

// faultEnvelope - формат ошибки QuickBooks Online
type faultEnvelope struct {
	Fault *struct {
		Type  string `json:"type"`
		Error []struct {
			Message string `json:"Message"`
			Detail  string `json:"Detail"`
			Code    string `json:"code"`
			Element string `json:"element"`
		} `json:"Error"`
	} `json:"Fault"`
}

// parseFault строит resource.Fault из ответа; nil - ошибки в теле нет
func parseFault(status int, body []byte) *resource.Fault {
	var env faultEnvelope
	_ = json.Unmarshal(body, &env)

	if env.Fault == nil && status < http.StatusBadRequest {
		return nil
	}

	f := &resource.Fault{StatusCode: status}
	if env.Fault != nil {
		f.Type = env.Fault.Type
		if len(env.Fault.Error) > 0 {
			first := env.Fault.Error[0]
			f.Code = first.Code
			f.Message = first.Message
			f.Detail = first.Detail
		}
	}
	if f.Message == "" {
		f.Message = http.StatusText(status)
	}

	f.Kind = classify(status, f.Code, env.Fault != nil)
	return f
}

// classify относит ответ к классу ошибок привязки.
// "Не найдено" засчитывается только по ответу QuickBooks (код 610 или 404 с
// телом Fault). Голый 404 означает неверный адрес или маршрут, а не удаленную
// сущность. 401/403 не повторяются: токен сам не обновится.
func classify(status int, code string, hasFault bool) error {
	switch {
	case code == codeObjectNotFound:
		return resource.ErrNotFound
	case status == http.StatusNotFound && hasFault:
		return resource.ErrNotFound
	case code == codeStaleObject:
		// SyncToken устарел между чтением и записью - повтор перечитает его
		return resource.ErrTransient
	case status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		return resource.ErrTransient
	case status >= http.StatusInternalServerError:
		return resource.ErrTransient
	default:
		return resource.ErrValidation
	}
}
