package javascript

import (
	"fmt"
	"log/slog"
	"os"
)

// DefaultMaxCallStackSize is the call depth at which scripts raise a
// RangeError unless WithMaxCallStackSize says otherwise.
const DefaultMaxCallStackSize = 10000

// FunctionalOption configures a Machine.
type FunctionalOption func(*Machine) error

// WithMaxCallStackSize sets the call depth at which scripts raise a RangeError.
func WithMaxCallStackSize(size int) FunctionalOption {
	return func(m *Machine) error {
		if size <= 0 {
			return fmt.Errorf("%w: max call stack size must be positive, got %d", ErrInvalidOptions, size)
		}
		m.maxCallStackSize = size
		return nil
	}
}

// WithStrict compiles every fragment in strict mode.
func WithStrict(strict bool) FunctionalOption {
	return func(m *Machine) error {
		m.strict = strict
		return nil
	}
}

// WithLogHandler sets the log handler for the machine and its runtimes.
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

// WithLogger sets a specific logger; its handler is used for the runtimes.
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
	if m.maxCallStackSize == 0 {
		m.maxCallStackSize = DefaultMaxCallStackSize
	}
}

func (m *Machine) validate() error {
	if m.logHandler == nil && m.logger == nil {
		return fmt.Errorf("%w: either log handler or logger must be specified", ErrInvalidOptions)
	}
	return nil
}
