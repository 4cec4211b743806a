package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// ContextKey is the type of the context keys bindings are stored under.
type ContextKey string

// BindingsKey is the key used when none is given.
const BindingsKey ContextKey = "nativeecma_bindings"

// ContextProvider keeps per-request bindings in a context value.
type ContextProvider struct {
	contextKey ContextKey
}

func NewContextProvider(contextKey ContextKey) *ContextProvider {
	return &ContextProvider{contextKey: contextKey}
}

func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, ErrInvalidDataKey
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return map[string]any{}, nil
	}
	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid bindings type: expected map[string]any, got %T", value)
	}
	return maps.Clone(d), nil
}

// AddDataToContext returns a context holding the existing bindings plus the
// given ones; later maps override earlier keys. Entries with an empty key
// are dropped and reported, the rest are still stored.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrInvalidDataKey
	}

	toStore := make(map[string]any)
	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}

	var errz []error
	for _, m := range data {
		for key, value := range m {
			if key == "" {
				errz = append(errz, ErrEmptyKey)
				continue
			}
			toStore[key] = value
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}
