package platform

import "github.com/mintjams/go-nativeecma/engines/types"

// Machine builds runtimes for one script language. A Machine is shared by the
// whole pool and must be safe for concurrent use; everything it returns is
// confined to the goroutine that created it.
type Machine interface {
	// Type reports which language this machine runs.
	Type() types.Type

	// NewRuntime creates the engine instance owned by a single worker.
	NewRuntime() (Runtime, error)
}

// Runtime is a worker's engine instance. It is never used from any goroutine
// other than the worker's own.
type Runtime interface {
	// NewScope creates a fresh evaluation context with no host capabilities.
	NewScope() (Scope, error)

	// Close releases the engine instance.
	Close() error
}

// Scope is one evaluation context. Every fragment of a job runs in the same
// scope, so declarations made by one fragment are visible to the next.
type Scope interface {
	// Compile compiles a fragment. When hint is a previously produced artifact
	// for the same source it is used instead of compiling from scratch, and
	// the returned artifact is nil. Otherwise the source is compiled and the
	// new artifact is returned for caching. Failures carry a
	// *diagnostic.Exception when the language reported one.
	Compile(name, source string, hint any) (program any, artifact any, err error)

	// Run executes a compiled program in this scope and reports its value.
	Run(program any) (Completion, error)

	// Drain runs deferred work queued by the fragments (promise jobs).
	Drain() error

	// Close releases the scope.
	Close() error
}

// Completion is the value produced by running one fragment.
type Completion struct {
	Text    string
	Textual bool
}
