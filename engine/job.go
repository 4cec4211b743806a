package engine

import (
	"sync"

	"github.com/mintjams/go-nativeecma/platform"
)

// job is one Evaluate call: the fragments and a single-shot result slot. The
// worker is the only writer, the submitting caller the only reader.
type job struct {
	fragments []string
	result    chan platform.EvalResult
	once      sync.Once
}

func newJob(fragments []string) *job {
	return &job{
		fragments: fragments,
		result:    make(chan platform.EvalResult, 1),
	}
}

// fulfill stores the result. Only the first call has any effect; it reports
// whether this call was the one that stored.
func (j *job) fulfill(r platform.EvalResult) bool {
	stored := false
	j.once.Do(func() {
		j.result <- r
		stored = true
	})
	return stored
}

// wait blocks until the result is available.
func (j *job) wait() platform.EvalResult {
	return <-j.result
}
