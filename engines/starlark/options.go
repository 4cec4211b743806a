package starlark

import (
	"fmt"
	"log/slog"
	"os"
)

// FunctionalOption configures a Machine.
type FunctionalOption func(*Machine) error

// WithMaxExecutionSteps cancels a fragment after n computation steps.
// Zero means unlimited.
func WithMaxExecutionSteps(n uint64) FunctionalOption {
	return func(m *Machine) error {
		m.maxSteps = n
		return nil
	}
}

// WithLogHandler sets the log handler; script print() output is logged at Info.
func WithLogHandler(handler slog.Handler) FunctionalOption {
	return func(m *Machine) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler cannot be nil", ErrInvalidOptions)
		}
		m.logHandler = handler
		m.logger = nil
		return nil
	}
}

// WithLogger sets a specific logger.
func WithLogger(logger *slog.Logger) FunctionalOption {
	return func(m *Machine) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidOptions)
		}
		m.logger = logger
		m.logHandler = nil
		return nil
	}
}

func (m *Machine) applyDefaults() {
	if m.logHandler == nil && m.logger == nil {
		m.logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
}
