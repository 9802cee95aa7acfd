package record

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// parseAttributes собирает атрибуты из JSON файла и пар key=value.
// Значение пары разбирается как JSON, иначе берется строкой.
func parseAttributes(file string, pairs []string) (map[string]any, error) {
	attrs := make(map[string]any)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения файла: %w", err)
		}
		if err := json.Unmarshal(data, &attrs); err != nil {
			return nil, fmt.Errorf("файл %s не является JSON объектом: %w", file, err)
		}
	}

	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("неверный атрибут %q, ожидается key=value", pair)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		attrs[key] = value
	}

	return attrs, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

// title подбирает человекочитаемое имя записи
func title(attrs map[string]any) string {
	for _, key := range []string{"DisplayName", "Name", "DocNumber", "FullyQualifiedName"} {
		if v, ok := attrs[key].(string); ok && v != "" {
			return v
		}
	}
	return "Без названия"
}
