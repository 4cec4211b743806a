package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider merges the bindings of several providers; a later
// provider overrides keys of an earlier one.
type CompositeProvider struct {
	providers []Provider
}

func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{providers: providers}
}

func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		maps.Copy(result, d)
	}
	return result, nil
}

// AddDataToContext passes data to every provider that accepts runtime data.
// Static providers are skipped; it fails only when no provider stored it.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx
	var errz []error
	stored := 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		next, err := provider.AddDataToContext(finalCtx, data...)
		if errors.Is(err, ErrNoRuntimeData) {
			continue
		}
		if err != nil {
			errz = append(errz, fmt.Errorf("error from provider %d: %w", i, err))
			if next == finalCtx {
				continue
			}
		}
		finalCtx = next
		stored++
	}

	if stored == 0 {
		if len(errz) == 0 {
			return ctx, ErrNoRuntimeData
		}
		return ctx, errors.Join(errz...)
	}
	return finalCtx, errors.Join(errz...)
}
