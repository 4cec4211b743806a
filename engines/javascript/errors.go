package javascript

import "errors"

var (
	ErrProgramType    = errors.New("program is not a *goja.Program")
	ErrScopeClosed    = errors.New("javascript scope is closed")
	ErrRuntimeClosed  = errors.New("javascript runtime is closed")
	ErrInvalidOptions = errors.New("invalid javascript machine options")
)
