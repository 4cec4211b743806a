package starlark

import "errors"

var (
	ErrProgramType    = errors.New("program is not a *starlark.Program")
	ErrScopeClosed    = errors.New("starlark scope is closed")
	ErrRuntimeClosed  = errors.New("starlark runtime is closed")
	ErrInvalidOptions = errors.New("invalid starlark machine options")
)
