// Package javascript runs ECMAScript fragments on goja.
//
// Each worker owns one Runtime. Every job gets a fresh goja.Runtime as its
// scope, so nothing a script defines survives into the next job, while
// compiled *goja.Program values are reused across jobs through the worker's
// code cache.
package javascript

import (
	"log/slog"
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/internal/helpers"
	"github.com/mintjams/go-nativeecma/platform"
)

// Machine creates JavaScript runtimes. It is immutable after New and safe to
// share between workers.
type Machine struct {
	maxCallStackSize int
	strict           bool

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a JavaScript machine using the functional options pattern.
func New(opts ...FunctionalOption) (*Machine, error) {
	m := &Machine{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, err
	}

	if m.logger != nil {
		m.logHandler = m.logger.Handler()
	} else {
		m.logHandler, m.logger = helpers.SetupLogger(m.logHandler, "javascript", "Machine")
	}
	return m, nil
}

func (m *Machine) String() string {
	return "javascript.Machine"
}

func (m *Machine) Type() types.Type {
	return types.JavaScript
}

// NewRuntime creates the engine instance for one worker.
func (m *Machine) NewRuntime() (platform.Runtime, error) {
	// Running any program flushes goja's promise job queue on exit, so an
	// empty program is the drain step.
	drain, err := goja.Compile("<drain>", "", false)
	if err != nil {
		return nil, err
	}
	_, logger := helpers.SetupLogger(m.logHandler, "javascript", "Runtime")
	return &Runtime{
		machine: m,
		drain:   drain,
		logger:  logger,
	}, nil
}

// Runtime is a worker-confined JavaScript engine instance.
type Runtime struct {
	machine *Machine
	drain   *goja.Program
	scopes  atomic.Uint64
	closed  bool
	logger  *slog.Logger
}

// NewScope creates a fresh goja.Runtime. Only the ECMAScript built-ins are
// present on its global object.
func (r *Runtime) NewScope() (platform.Scope, error) {
	if r.closed {
		return nil, ErrRuntimeClosed
	}
	vm := goja.New()
	vm.SetMaxCallStackSize(r.machine.maxCallStackSize)
	r.scopes.Add(1)
	return &Scope{
		vm:     vm,
		strict: r.machine.strict,
		drain:  r.drain,
	}, nil
}

// Scopes reports how many scopes this runtime has created.
func (r *Runtime) Scopes() uint64 {
	return r.scopes.Load()
}

func (r *Runtime) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.logger.Debug("runtime closed", "scopes", r.scopes.Load())
	return nil
}
