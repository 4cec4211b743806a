// Package data supplies the host bindings that are declared as globals
// before a script runs.
package data

import (
	"context"
	"errors"
)

var (
	ErrEmptyKey       = errors.New("empty keys are not allowed")
	ErrNoRuntimeData  = errors.New("static provider does not accept runtime data")
	ErrInvalidDataKey = errors.New("context key is empty")
)

// Getter returns the bindings visible to a script run under ctx.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter stores bindings in a derived context.
type Setter interface {
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider both reads and stores bindings.
type Provider interface {
	Getter
	Setter
}
