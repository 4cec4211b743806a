package engine

import "errors"

var (
	ErrNoMachine   = errors.New("no machine configured")
	ErrWorkerStart = errors.New("worker failed to start")
)

const (
	// ScriptFailedMessage is the diagnostic for a compile or run failure that
	// raised no script exception.
	ScriptFailedMessage = "Script failed (compile/run)"

	// ShuttingDownMessage is the diagnostic for jobs still queued when their
	// worker stops.
	ShuttingDownMessage = "engine is shutting down"
)
