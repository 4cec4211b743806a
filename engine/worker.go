package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/mintjams/go-nativeecma/internal/helpers"
	"github.com/mintjams/go-nativeecma/platform"
	"github.com/mintjams/go-nativeecma/platform/cache"
	"github.com/mintjams/go-nativeecma/platform/diagnostic"
)

// WorkerState is the lifecycle position of a worker.
type WorkerState int32

const (
	WorkerStarting WorkerState = iota
	WorkerRunning
	WorkerStopping
	WorkerStopped
)

func (s WorkerState) String() string {
	switch s {
	case WorkerStarting:
		return "Starting"
	case WorkerRunning:
		return "Running"
	case WorkerStopping:
		return "Stopping"
	case WorkerStopped:
		return "Stopped"
	}
	return fmt.Sprintf("WorkerState(%d)", int32(s))
}

// WorkerStats is a snapshot of one worker's counters.
type WorkerStats struct {
	ID          int
	State       WorkerState
	Jobs        uint64
	CacheSize   int
	CacheHits   uint64
	CacheMisses uint64
}

// worker owns one runtime and one code cache, both confined to the
// goroutine started by startWorker. Other goroutines only touch the queue.
type worker struct {
	id      int
	machine platform.Machine
	verify  bool
	logger  *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*job
	stopping bool

	state atomic.Int32
	done  chan struct{}

	// published by the worker goroutine after each job
	jobs        atomic.Uint64
	cacheSize   atomic.Int64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// startWorker launches a worker and waits until its runtime is built, so a
// returned worker is ready to accept jobs.
func startWorker(id int, machine platform.Machine, verify bool, handler slog.Handler) (*worker, error) {
	_, logger := helpers.SetupLogger(handler, "engine", "Worker")
	w := &worker{
		id:      id,
		machine: machine,
		verify:  verify,
		logger:  logger.With("worker", id),
		done:    make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	w.state.Store(int32(WorkerStarting))

	ready := make(chan error, 1)
	go w.run(ready)
	if err := <-ready; err != nil {
		<-w.done
		return nil, fmt.Errorf("%w: worker %d: %w", ErrWorkerStart, id, err)
	}
	return w, nil
}

func (w *worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// post appends a job to the queue. A worker that is stopping fails the job
// right away.
func (w *worker) post(j *job) {
	w.mu.Lock()
	if w.stopping {
		w.mu.Unlock()
		j.fulfill(platform.Failure(ShuttingDownMessage))
		return
	}
	w.queue = append(w.queue, j)
	w.mu.Unlock()
	w.cond.Signal()
}

// stop requests the loop to end, fails every job still queued, and waits for
// the goroutine to release the runtime and cache. A job already running
// completes normally. Calling stop again only waits.
func (w *worker) stop() {
	w.mu.Lock()
	if w.stopping {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.stopping = true
	pending := w.queue
	w.queue = nil
	if w.State() == WorkerRunning {
		w.state.Store(int32(WorkerStopping))
	}
	w.mu.Unlock()
	w.cond.Broadcast()

	for _, j := range pending {
		j.fulfill(platform.Failure(ShuttingDownMessage))
	}
	if len(pending) > 0 {
		w.logger.Warn("failed queued jobs on shutdown", "count", len(pending))
	}
	<-w.done
}

// next blocks until a job is queued or the worker is stopping.
func (w *worker) next() (*job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.queue) == 0 && !w.stopping {
		w.cond.Wait()
	}
	if w.stopping {
		return nil, false
	}
	j := w.queue[0]
	w.queue[0] = nil
	w.queue = w.queue[1:]
	return j, true
}

func (w *worker) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	rt, err := w.machine.NewRuntime()
	if err != nil {
		w.state.Store(int32(WorkerStopped))
		ready <- err
		return
	}
	codeCache := cache.New(cache.WithVerification(w.verify))

	defer func() {
		codeCache.Clear()
		if err := rt.Close(); err != nil {
			w.logger.Error("failed to close runtime", "error", err)
		}
		w.state.Store(int32(WorkerStopped))
		w.logger.Info("worker stopped", "jobs", w.jobs.Load())
	}()

	w.state.Store(int32(WorkerRunning))
	w.logger.Info("worker started", "machine", w.machine.Type())
	ready <- nil

	for {
		j, ok := w.next()
		if !ok {
			return
		}
		result := w.execute(rt, codeCache, j)
		w.publish(codeCache)
		w.logger.Debug("job done", "kind", result.Kind(), "fragments", len(j.fragments))
		if !j.fulfill(result) {
			w.logger.Error("job result was already fulfilled")
		}
	}
}

func (w *worker) publish(c *cache.Cache) {
	stats := c.Stats()
	w.jobs.Add(1)
	w.cacheSize.Store(int64(stats.Entries))
	w.cacheHits.Store(stats.Hits)
	w.cacheMisses.Store(stats.Misses)
}

func (w *worker) stats() WorkerStats {
	return WorkerStats{
		ID:          w.id,
		State:       w.State(),
		Jobs:        w.jobs.Load(),
		CacheSize:   int(w.cacheSize.Load()),
		CacheHits:   w.cacheHits.Load(),
		CacheMisses: w.cacheMisses.Load(),
	}
}

// execute runs every fragment of a job in one fresh scope and classifies the
// outcome. Nothing escapes as a panic: a failure without a script exception
// becomes the generic script failure diagnostic.
func (w *worker) execute(rt platform.Runtime, codeCache *cache.Cache, j *job) (result platform.EvalResult) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("panic while executing job", "panic", r)
			result = platform.Failure(ScriptFailedMessage)
		}
	}()

	scope, err := rt.NewScope()
	if err != nil {
		w.logger.Error("failed to create scope", "error", err)
		return platform.Failure(ScriptFailedMessage)
	}
	defer func() {
		if err := scope.Close(); err != nil {
			w.logger.Warn("failed to close scope", "error", err)
		}
	}()

	var last platform.Completion
	var failure error
	for i, source := range j.fragments {
		name := fmt.Sprintf("<eval:%d>", i)
		key := cache.Hash(source)

		hint, _ := codeCache.Lookup(key, name, source)
		program, artifact, err := scope.Compile(name, source, hint)
		if err != nil {
			failure = err
			break
		}
		if artifact != nil {
			codeCache.Store(key, name, source, artifact)
		}

		last, err = scope.Run(program)
		if err != nil {
			failure = err
			break
		}
	}

	if err := scope.Drain(); err != nil && failure == nil {
		failure = err
	}

	return w.classify(last, failure)
}

func (w *worker) classify(last platform.Completion, failure error) platform.EvalResult {
	if failure != nil {
		var exc *diagnostic.Exception
		if errors.As(failure, &exc) {
			return platform.Failure(diagnostic.Format(exc))
		}
		w.logger.Error("script failed without an exception", "error", failure)
		return platform.Failure(ScriptFailedMessage)
	}
	if last.Textual {
		return platform.Value(last.Text)
	}
	return platform.NoValue()
}
