package helpers

import (
	"log/slog"
	"os"
)

// SetupLogger returns a handler and a logger for one component of the engine.
// A nil handler is replaced by a text handler on stderr, grouped under the
// component name, and a warning is emitted once on that fallback logger.
//
// Parameters:
//   - handler: the slog.Handler to use, or nil for the default
//   - component: the owning subsystem (e.g., "engine", "javascript")
//   - groupName: optional group for the returned logger (e.g., "Worker")
func SetupLogger(
	handler slog.Handler,
	component string,
	groupName string,
) (slog.Handler, *slog.Logger) {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, nil).WithGroup(component)
		slog.New(handler).Warn("Handler is nil, using the default logger configuration.")
	}

	if groupName == "" {
		return handler, slog.New(handler)
	}
	return handler, slog.New(handler.WithGroup(groupName))
}
