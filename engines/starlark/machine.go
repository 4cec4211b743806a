// Package starlark runs Starlark fragments as an alternative worker machine.
//
// A fragment reports its value by assigning the global "_". Globals defined by
// one fragment are predeclared for the fragments after it in the same job.
// Compiled programs are cached in their serialized form.
package starlark

import (
	"log/slog"
	"maps"

	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/internal/helpers"
	"github.com/mintjams/go-nativeecma/platform"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Machine creates Starlark runtimes.
type Machine struct {
	maxSteps uint64

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates a Starlark machine using the functional options pattern.
func New(opts ...FunctionalOption) (*Machine, error) {
	m := &Machine{}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.applyDefaults()

	if m.logger != nil {
		m.logHandler = m.logger.Handler()
	} else {
		m.logHandler, m.logger = helpers.SetupLogger(m.logHandler, "starlark", "Machine")
	}
	return m, nil
}

func (m *Machine) String() string {
	return "starlark.Machine"
}

func (m *Machine) Type() types.Type {
	return types.Starlark
}

// NewRuntime creates the engine instance for one worker.
func (m *Machine) NewRuntime() (platform.Runtime, error) {
	_, logger := helpers.SetupLogger(m.logHandler, "starlark", "Runtime")
	return &Runtime{
		machine: m,
		modules: standardModules(),
		logger:  logger,
	}, nil
}

// Runtime is a worker-confined Starlark engine instance.
type Runtime struct {
	machine *Machine
	modules starlarkLib.StringDict
	closed  bool
	logger  *slog.Logger
}

func (r *Runtime) NewScope() (platform.Scope, error) {
	if r.closed {
		return nil, ErrRuntimeClosed
	}

	logger := r.logger
	thread := &starlarkLib.Thread{
		Name: "eval",
		Print: func(thread *starlarkLib.Thread, msg string) {
			logger.Info(msg, "starlark-thread", thread.Name)
		},
	}
	if r.machine.maxSteps > 0 {
		thread.SetMaxExecutionSteps(r.machine.maxSteps)
	}

	return &Scope{
		thread:  thread,
		globals: maps.Clone(r.modules),
		logger:  logger,
	}, nil
}

func (r *Runtime) Close() error {
	r.closed = true
	r.modules = nil
	return nil
}

// fileOptions enables the full language for fragments. Global reassignment is
// allowed so a later fragment may rebind a name an earlier one defined.
func fileOptions() *syntax.FileOptions {
	return &syntax.FileOptions{
		Set:             true,
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
		Recursion:       true,
	}
}
