// Package types names the script machines a worker pool can be built on.
package types

import (
	"fmt"
	"strings"
)

// Type identifies a script machine.
type Type string

const (
	// JavaScript engine: https://github.com/dop251/goja
	JavaScript Type = "javascript"

	// Starlark engine: https://github.com/google/starlark-go
	Starlark Type = "starlark"
)

// Types lists every supported machine, default first.
func Types() []Type {
	return []Type{JavaScript, Starlark}
}

func (t Type) String() string {
	return string(t)
}

// Parse resolves a machine name, accepting common aliases.
func Parse(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "javascript", "js", "ecmascript":
		return JavaScript, nil
	case "starlark", "star":
		return Starlark, nil
	}
	return "", fmt.Errorf("unknown machine type: %q", name)
}
