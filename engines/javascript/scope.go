package javascript

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/mintjams/go-nativeecma/platform"
)

// Scope is the evaluation context of one job.
type Scope struct {
	vm     *goja.Runtime
	strict bool
	drain  *goja.Program
}

// Compile returns the cached program when hint holds one; otherwise it
// compiles source and hands the new program back as the artifact to cache.
func (s *Scope) Compile(name, source string, hint any) (any, any, error) {
	if s.vm == nil {
		return nil, nil, ErrScopeClosed
	}
	if prg, ok := hint.(*goja.Program); ok && prg != nil {
		return prg, nil, nil
	}

	prg, err := goja.Compile(name, source, s.strict)
	if err != nil {
		return nil, nil, compileException(err, name, source)
	}
	return prg, prg, nil
}

// Run executes a compiled program against this scope's global object.
func (s *Scope) Run(program any) (platform.Completion, error) {
	if s.vm == nil {
		return platform.Completion{}, ErrScopeClosed
	}
	prg, ok := program.(*goja.Program)
	if !ok {
		return platform.Completion{}, fmt.Errorf("%w: got %T", ErrProgramType, program)
	}

	v, err := s.vm.RunProgram(prg)
	if err != nil {
		return platform.Completion{}, s.runtimeException(err)
	}
	return completionOf(v), nil
}

func (s *Scope) Drain() error {
	if s.vm == nil {
		return ErrScopeClosed
	}
	if _, err := s.vm.RunProgram(s.drain); err != nil {
		return s.runtimeException(err)
	}
	return nil
}

func (s *Scope) Close() error {
	s.vm = nil
	return nil
}

// completionOf reports string primitives as textual. String objects, like
// every other object, are not.
func completionOf(v goja.Value) platform.Completion {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return platform.Completion{}
	}
	if _, isObject := v.(*goja.Object); isObject {
		return platform.Completion{}
	}
	if text, ok := v.Export().(string); ok {
		return platform.Completion{Text: text, Textual: true}
	}
	return platform.Completion{}
}
