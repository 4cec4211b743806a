// Package engine runs script fragments on a fixed pool of workers.
//
// Each worker owns one runtime instance and one code cache, used only from
// the worker's own OS thread. Evaluate hands a job to the next worker in
// round-robin order and blocks until that worker fulfills it.
package engine

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/mintjams/go-nativeecma/internal/helpers"
	"github.com/mintjams/go-nativeecma/platform"
)

// MinPoolSize is used when the CPU count cannot be detected.
const MinPoolSize = 2

// pool is the immutable set of workers published by Init.
type pool struct {
	workers []*worker
}

// Engine is an explicit handle over a worker pool. Its lifecycle is
// Uninitialized -> Ready (Init) -> Uninitialized (Shutdown); Init may be
// called again after Shutdown.
type Engine struct {
	config *Config

	// mu serializes Init and Shutdown. Evaluate never takes it.
	mu           sync.Mutex
	pool         atomic.Pointer[pool]
	next         atomic.Uint64
	identityPath string

	logHandler slog.Handler
	logger     *slog.Logger
}

// New builds an Engine. No worker exists until Init is called.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handler, logger := helpers.SetupLogger(cfg.GetHandler(), "engine", "Engine")
	return &Engine{
		config:     cfg,
		logHandler: handler,
		logger:     logger,
	}, nil
}

func (e *Engine) String() string {
	return fmt.Sprintf("engine.Engine{Machine: %s}", e.config.GetMachineType())
}

// ResolvePoolSize maps a requested size to the number of workers started:
// a positive request is used as is, otherwise the CPU count, at least
// MinPoolSize.
func ResolvePoolSize(requested int) int {
	if requested > 0 {
		return requested
	}
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return MinPoolSize
}

// Init starts the worker pool. identityPath is an opaque hint for where
// runtime data lives; it is recorded but not interpreted. Calling Init on a
// ready engine does nothing. Every worker has built its runtime when Init
// returns; if one fails, the others are stopped and the error is returned.
func (e *Engine) Init(identityPath string, poolSize int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool.Load() != nil {
		e.logger.Debug("engine already initialized")
		return nil
	}

	size := ResolvePoolSize(poolSize)
	workers := make([]*worker, 0, size)
	for i := range size {
		w, err := startWorker(i, e.config.GetMachine(), e.config.CacheVerification(), e.logHandler)
		if err != nil {
			for _, started := range workers {
				started.stop()
			}
			e.logger.Error("engine initialization failed", "error", err)
			return err
		}
		workers = append(workers, w)
	}

	e.identityPath = identityPath
	e.next.Store(0)
	e.pool.Store(&pool{workers: workers})
	e.logger.Info("engine initialized",
		"identityPath", identityPath,
		"poolSize", size,
		"machine", e.config.GetMachineType(),
	)
	return nil
}

// Shutdown stops every worker and returns the engine to the uninitialized
// state. It is safe to call repeatedly and before Init.
//
// Callers must ensure no Evaluate call is in progress: a job still queued
// when its worker stops is failed with ShuttingDownMessage, and a job
// submitted after Shutdown returns NoValue.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.pool.Swap(nil)
	if p == nil {
		return
	}
	for _, w := range p.workers {
		w.stop()
	}
	e.identityPath = ""
	e.logger.Info("engine shut down", "poolSize", len(p.workers))
}

// Ready reports whether Init has completed and Shutdown has not run since.
func (e *Engine) Ready() bool {
	return e.pool.Load() != nil
}

// IdentityPath returns the path given to the last successful Init.
func (e *Engine) IdentityPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identityPath
}

// PoolSize is the number of running workers, zero when not initialized.
func (e *Engine) PoolSize() int {
	p := e.pool.Load()
	if p == nil {
		return 0
	}
	return len(p.workers)
}

// Evaluate runs fragments, in order, in one fresh scope on one worker and
// blocks until the result is ready. It returns NoValue at once when the
// engine is not initialized. Safe for concurrent use; there is no timeout
// and a running evaluation cannot be cancelled.
func (e *Engine) Evaluate(fragments ...string) platform.EvalResult {
	p := e.pool.Load()
	if p == nil || len(p.workers) == 0 {
		return platform.NoValue()
	}

	j := newJob(fragments)
	idx := (e.next.Add(1) - 1) % uint64(len(p.workers))
	p.workers[idx].post(j)
	return j.wait()
}

// Stats returns a snapshot per worker, nil when not initialized.
func (e *Engine) Stats() []WorkerStats {
	p := e.pool.Load()
	if p == nil {
		return nil
	}
	out := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		out[i] = w.stats()
	}
	return out
}
