package data

import (
	"context"
	"maps"
)

// StaticProvider returns the same bindings for every run, e.g. values set
// once on the command line.
type StaticProvider struct {
	data map[string]any
}

func NewStaticProvider(data map[string]any) *StaticProvider {
	return &StaticProvider{data: maps.Clone(data)}
}

// GetData returns a copy of the bindings.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	if p.data == nil {
		return map[string]any{}, nil
	}
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails with ErrNoRuntimeData.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	_ ...map[string]any,
) (context.Context, error) {
	return ctx, ErrNoRuntimeData
}
