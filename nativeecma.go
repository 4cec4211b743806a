// Package nativeecma evaluates JavaScript fragments on a process-wide pool
// of isolated runtimes.
//
// Init starts the pool, Evaluate runs fragments in one shared scope on one
// worker and blocks until the result is ready, and Shutdown stops the pool.
// Programs that need more than one pool, or other settings, build their own
// handle with NewEngine.
package nativeecma

import (
	"sync"

	"github.com/mintjams/go-nativeecma/engine"
	"github.com/mintjams/go-nativeecma/platform"
)

var (
	defaultOnce   sync.Once
	defaultEngine *engine.Engine
	defaultErr    error
)

// NewEngine builds an independent engine handle.
func NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(opts...)
}

// Default returns the handle behind the package-level functions.
func Default() (*engine.Engine, error) {
	defaultOnce.Do(func() {
		defaultEngine, defaultErr = engine.New()
	})
	return defaultEngine, defaultErr
}

// Init starts the default engine with poolSize workers, or one per CPU when
// poolSize is not positive. A second call while running does nothing.
func Init(identityPath string, poolSize int) error {
	e, err := Default()
	if err != nil {
		return err
	}
	return e.Init(identityPath, poolSize)
}

// Shutdown stops the default engine. No Evaluate call may be in progress.
func Shutdown() {
	if e, err := Default(); err == nil {
		e.Shutdown()
	}
}

// Evaluate runs fragments on the default engine. It returns NoValue when
// Init has not been called.
func Evaluate(fragments ...string) platform.EvalResult {
	e, err := Default()
	if err != nil {
		return platform.NoValue()
	}
	return e.Evaluate(fragments...)
}

// ScriptError carries the diagnostic of a failed evaluation.
type ScriptError struct {
	Diagnostic string
}

func (e *ScriptError) Error() string {
	return e.Diagnostic
}

// Eval is Evaluate in host form: the textual value and true, an empty string
// and false for NoValue, or a *ScriptError.
func Eval(fragments ...string) (string, bool, error) {
	return Unwrap(Evaluate(fragments...))
}

// Unwrap converts a result into the (value, ok, error) form used by Eval.
func Unwrap(r platform.EvalResult) (string, bool, error) {
	if diag, failed := r.Diagnostic(); failed {
		return "", false, &ScriptError{Diagnostic: diag}
	}
	text, ok := r.Text()
	return text, ok, nil
}
