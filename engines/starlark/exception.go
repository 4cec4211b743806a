package starlark

import (
	"errors"
	"strings"

	"github.com/mintjams/go-nativeecma/platform/diagnostic"
	starlarkLib "go.starlark.net/starlark"
	"go.starlark.net/resolve"
	"go.starlark.net/syntax"
)

func location(pos syntax.Position) *diagnostic.Location {
	return &diagnostic.Location{
		Resource: pos.Filename(),
		Line:     int(pos.Line),
		Column:   int(pos.Col),
	}
}

func compileException(err error) error {
	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &diagnostic.Exception{
			Message:  "syntax error: " + syntaxErr.Msg,
			Location: location(syntaxErr.Pos),
		}
	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) && len(resolveErrs) > 0 {
		first := resolveErrs[0]
		return &diagnostic.Exception{
			Message:  "resolve error: " + first.Msg,
			Location: location(first.Pos),
		}
	}
	return err
}

const (
	uninitializedPrefix = "internal error: predeclared variable "
	uninitializedSuffix = " is uninitialized"
)

func runtimeException(err error) error {
	var evalErr *starlarkLib.EvalError
	if !errors.As(err, &evalErr) {
		return err
	}

	msg := evalErr.Msg
	// Free names are compiled as predeclared; one that no fragment defined
	// surfaces as an uninitialized predeclared variable.
	if rest, ok := strings.CutPrefix(msg, uninitializedPrefix); ok {
		if name, ok := strings.CutSuffix(rest, uninitializedSuffix); ok {
			msg = "undefined: " + name
		}
	}

	exc := &diagnostic.Exception{
		Message: msg,
		Stack:   evalErr.Backtrace(),
	}
	for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
		if pos := evalErr.CallStack[i].Pos; pos.Line > 0 {
			exc.Location = location(pos)
			break
		}
	}
	return exc
}
