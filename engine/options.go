package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mintjams/go-nativeecma/engines/javascript"
	"github.com/mintjams/go-nativeecma/engines/starlark"
	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/platform"
)

// Config holds the settings an Engine is built from.
type Config struct {
	handler     slog.Handler
	machineType types.Type
	machine     platform.Machine
	verifyCache bool
}

// Option is a function that modifies Config.
type Option func(*Config) error

// WithLogHandler sets the log handler for the engine and its workers.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		return nil
	}
}

// WithLogger sets the logger for the engine; its handler is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.handler = logger.Handler()
		return nil
	}
}

// WithMachineType selects one of the built-in machines. The machine itself
// is created with default settings when the Engine is built.
func WithMachineType(t types.Type) Option {
	return func(c *Config) error {
		if _, err := types.Parse(string(t)); err != nil {
			return err
		}
		c.machineType = t
		c.machine = nil
		return nil
	}
}

// WithMachine runs the pool on a preconfigured machine.
func WithMachine(m platform.Machine) Option {
	return func(c *Config) error {
		if m == nil {
			return fmt.Errorf("%w: machine is nil", ErrNoMachine)
		}
		c.machine = m
		c.machineType = m.Type()
		return nil
	}
}

// WithCacheVerification controls whether code cache hits are checked
// against a SHA-256 digest of the source. Enabled by default.
func WithCacheVerification(enabled bool) Option {
	return func(c *Config) error {
		c.verifyCache = enabled
		return nil
	}
}

func defaultConfig() *Config {
	return &Config{
		machineType: types.JavaScript,
		verifyCache: true,
	}
}

func (c *Config) applyDefaults() error {
	if c.handler == nil {
		c.handler = slog.NewTextHandler(os.Stderr, nil)
	}
	if c.machine != nil {
		return nil
	}

	var err error
	switch c.machineType {
	case types.Starlark:
		c.machine, err = starlark.New(starlark.WithLogHandler(c.handler))
	default:
		c.machineType = types.JavaScript
		c.machine, err = javascript.New(javascript.WithLogHandler(c.handler))
	}
	if err != nil {
		return fmt.Errorf("unable to create %s machine: %w", c.machineType, err)
	}
	return nil
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	var errz []error
	if c.handler == nil {
		errz = append(errz, fmt.Errorf("no logger specified"))
	}
	if c.machine == nil {
		errz = append(errz, ErrNoMachine)
	}
	return errors.Join(errz...)
}

func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

func (c *Config) GetMachine() platform.Machine {
	return c.machine
}

func (c *Config) GetMachineType() types.Type {
	return c.machineType
}

func (c *Config) CacheVerification() bool {
	return c.verifyCache
}
