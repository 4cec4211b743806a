// Package script keeps named scripts loaded from loaders and evaluates them
// with host bindings rendered as a prelude fragment.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/internal/helpers"
	"github.com/mintjams/go-nativeecma/platform"
	"github.com/mintjams/go-nativeecma/platform/data"
	"github.com/mintjams/go-nativeecma/platform/script/loader"
)

// Evaluator runs an ordered list of fragments in one shared scope.
// *engine.Engine satisfies it.
type Evaluator interface {
	Evaluate(fragments ...string) platform.EvalResult
}

// ExecutionError is returned when a script's evaluation ends in an error
// result.
type ExecutionError struct {
	Script     string
	Diagnostic string
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("failed to execute the script '%s': %s", e.Script, e.Diagnostic)
}

// Script is loaded source text with the modification time it was read at.
type Script struct {
	name         string
	source       string
	lastModified time.Time
	machine      types.Type
}

// NewScript wraps source text that did not come from a loader.
func NewScript(name, source string, machine types.Type) *Script {
	return &Script{name: name, source: source, machine: machine}
}

func (s *Script) Name() string            { return s.name }
func (s *Script) Source() string          { return s.source }
func (s *Script) LastModified() time.Time { return s.lastModified }

func (s *Script) String() string {
	return fmt.Sprintf("script.Script{Name: %s, Chars: %d}", s.name, len(s.source))
}

// Fragments returns the prelude for bindings, when it is not empty,
// followed by the script source.
func (s *Script) Fragments(bindings map[string]any) ([]string, error) {
	prelude, err := Prelude(s.machine, bindings)
	if err != nil {
		return nil, err
	}
	if prelude == "" {
		return []string{s.source}, nil
	}
	return []string{prelude, s.source}, nil
}

// Eval evaluates the script on ev. An error result is returned as is and
// also reported as an *ExecutionError.
func (s *Script) Eval(ev Evaluator, bindings map[string]any) (platform.EvalResult, error) {
	return s.EvalContext(context.Background(), ev, data.NewStaticProvider(bindings))
}

// EvalContext is Eval with the bindings taken from g for ctx.
func (s *Script) EvalContext(ctx context.Context, ev Evaluator, g data.Getter) (platform.EvalResult, error) {
	if ev == nil {
		return platform.NoValue(), ErrNoEvaluator
	}
	var bindings map[string]any
	if g != nil {
		var err error
		if bindings, err = g.GetData(ctx); err != nil {
			return platform.NoValue(), fmt.Errorf("failed to execute the script '%s': %w", s.name, err)
		}
	}
	fragments, err := s.Fragments(bindings)
	if err != nil {
		return platform.NoValue(), fmt.Errorf("failed to execute the script '%s': %w", s.name, err)
	}

	result := ev.Evaluate(fragments...)
	if diag, failed := result.Diagnostic(); failed {
		return result, &ExecutionError{Script: s.name, Diagnostic: diag}
	}
	return result, nil
}

// Registry caches scripts by name. A cached script is reused until its
// loader reports a different modification time.
type Registry struct {
	machine types.Type
	logger  *slog.Logger

	mu      sync.Mutex
	scripts map[string]*Script
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry) error

// WithMachineType sets the dialect the prelude is rendered in.
func WithMachineType(t types.Type) RegistryOption {
	return func(r *Registry) error {
		parsed, err := types.Parse(string(t))
		if err != nil {
			return err
		}
		r.machine = parsed
		return nil
	}
}

// WithLogHandler sets the handler for registry logs.
func WithLogHandler(handler slog.Handler) RegistryOption {
	return func(r *Registry) error {
		if handler == nil {
			return errors.New("log handler cannot be nil")
		}
		_, r.logger = helpers.SetupLogger(handler, "script", "Registry")
		return nil
	}
}

func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		machine: types.JavaScript,
		scripts: make(map[string]*Script),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if r.logger == nil {
		_, r.logger = helpers.SetupLogger(nil, "script", "Registry")
	}
	return r, nil
}

// Load returns the script registered under name, reading it from l when it
// is new or its modification time changed. An empty name uses the loader's
// source URL.
func (r *Registry) Load(name string, l loader.Loader) (*Script, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loader is nil", ErrScriptLoad)
	}
	if name == "" {
		name = l.GetSourceURL().String()
	}

	modified, err := loader.LastModified(l)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrScriptLoad, name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.scripts[name]; ok && cached.lastModified.Equal(modified) {
		return cached, nil
	}

	source, err := loader.ReadSource(l)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrScriptLoad, name, err)
	}
	s := &Script{
		name:         name,
		source:       source,
		lastModified: modified,
		machine:      r.machine,
	}
	r.scripts[name] = s
	r.logger.Debug("script loaded", "name", name, "source", l.GetSourceURL(), "lastModified", modified)
	return s, nil
}

// Get returns a registered script without reloading it.
func (r *Registry) Get(name string) (*Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scripts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScript, name)
	}
	return s, nil
}

func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scripts, name)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scripts)
}

// Eval loads the script under name from l and evaluates it with bindings.
func (r *Registry) Eval(ev Evaluator, name string, l loader.Loader, bindings map[string]any) (platform.EvalResult, error) {
	s, err := r.Load(name, l)
	if err != nil {
		return platform.NoValue(), err
	}
	return s.Eval(ev, bindings)
}
