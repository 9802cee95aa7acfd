package resource

import (
	"fmt"
	"sort"
)

// Registry - неизменяемая таблица привязок.
// Строится один раз при старте, дальше только читается и безопасна
// для конкурентного использования без блокировок.
type Registry struct {
	bindings map[Type]Binding
}

// NewRegistry создает реестр из набора привязок
func NewRegistry(bindings ...Binding) (*Registry, error) {
	r := &Registry{
		bindings: make(map[Type]Binding, len(bindings)),
	}

	for _, b := range bindings {
		if err := b.validate(); err != nil {
			return nil, err
		}
		if _, exists := r.bindings[b.Type]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateType, b.Type)
		}
		r.bindings[b.Type] = b
	}

	return r, nil
}

// Bind строит реестр по таблице supportedTypes поверх одного клиента
func Bind(api RemoteAPI) (*Registry, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: nil remote api", ErrInvalidBinding)
	}

	bindings := make([]Binding, 0, len(supportedTypes))
	for _, st := range supportedTypes {
		bindings = append(bindings, bindEndpoint(api, st.Type, st.Endpoint))
	}

	return NewRegistry(bindings...)
}

// Lookup возвращает привязку для типа
func (r *Registry) Lookup(t Type) (Binding, error) {
	b, ok := r.bindings[t]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrUnsupportedType, string(t))
	}
	return b, nil
}

// Has проверяет, зарегистрирован ли тип
func (r *Registry) Has(t Type) bool {
	_, ok := r.bindings[t]
	return ok
}

// Types возвращает зарегистрированные типы в отсортированном порядке
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.bindings))
	for t := range r.bindings {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Len возвращает количество привязок
func (r *Registry) Len() int {
	return len(r.bindings)
}
