package starlark

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/mintjams/go-nativeecma/platform"
	starlarkLib "go.starlark.net/starlark"
)

// Scope is the evaluation context of one job.
type Scope struct {
	thread  *starlarkLib.Thread
	globals starlarkLib.StringDict
	logger  *slog.Logger
}

// Compile revives a serialized program from hint when possible and otherwise
// compiles source. Every free name is resolved as predeclared so a program
// does not depend on what earlier fragments defined; names missing at run
// time fail when the program runs.
func (s *Scope) Compile(name, source string, hint any) (any, any, error) {
	if s.thread == nil {
		return nil, nil, ErrScopeClosed
	}

	if raw, ok := hint.([]byte); ok && len(raw) > 0 {
		prog, err := starlarkLib.CompiledProgram(bytes.NewReader(raw))
		if err == nil {
			return prog, nil, nil
		}
		s.logger.Warn("cached program rejected, recompiling", "name", name, "error", err)
	}

	f, err := fileOptions().Parse(name, source, 0)
	if err != nil {
		return nil, nil, compileException(err)
	}
	prog, err := starlarkLib.FileProgram(f, func(string) bool { return true })
	if err != nil {
		return nil, nil, compileException(err)
	}

	var buf bytes.Buffer
	if err := prog.Write(&buf); err != nil {
		s.logger.Warn("program not cacheable", "name", name, "error", err)
		return prog, nil, nil
	}
	return prog, buf.Bytes(), nil
}

// Run initializes the program's module against the scope globals and merges
// the globals it defines back into the scope.
func (s *Scope) Run(program any) (platform.Completion, error) {
	if s.thread == nil {
		return platform.Completion{}, ErrScopeClosed
	}
	prog, ok := program.(*starlarkLib.Program)
	if !ok {
		return platform.Completion{}, fmt.Errorf("%w: got %T", ErrProgramType, program)
	}

	defined, err := prog.Init(s.thread, s.globals)
	if err != nil {
		return platform.Completion{}, runtimeException(err)
	}
	for k, v := range defined {
		s.globals[k] = v
	}

	if str, ok := defined[ResultGlobal].(starlarkLib.String); ok {
		return platform.Completion{Text: str.GoString(), Textual: true}, nil
	}
	return platform.Completion{}, nil
}

// Drain is a no-op: Starlark has no deferred work.
func (s *Scope) Drain() error {
	if s.thread == nil {
		return ErrScopeClosed
	}
	return nil
}

func (s *Scope) Close() error {
	s.thread = nil
	s.globals = nil
	return nil
}
