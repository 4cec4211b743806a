package script

import "errors"

var (
	ErrScriptLoad     = errors.New("unable to load script")
	ErrNoEvaluator    = errors.New("no evaluator provided")
	ErrInvalidBinding = errors.New("invalid binding value")
	ErrUnknownScript  = errors.New("script not registered")
)
