package script

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mintjams/go-nativeecma/engines/types"
	"github.com/mintjams/go-nativeecma/platform/data"
)

var (
	jsIdentifier       = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	starlarkIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	jsReserved = map[string]struct{}{
		"await": {}, "break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
		"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
		"else": {}, "enum": {}, "export": {}, "extends": {}, "false": {},
		"finally": {}, "for": {}, "function": {}, "if": {}, "import": {}, "in": {},
		"instanceof": {}, "let": {}, "new": {}, "null": {}, "return": {},
		"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {}, "try": {},
		"typeof": {}, "var": {}, "void": {}, "while": {}, "with": {}, "yield": {},
	}
	starlarkReserved = map[string]struct{}{
		"and": {}, "break": {}, "continue": {}, "def": {}, "elif": {}, "else": {},
		"for": {}, "if": {}, "in": {}, "lambda": {}, "load": {}, "not": {},
		"or": {}, "pass": {}, "return": {}, "while": {},
		"True": {}, "False": {}, "None": {},
		// reserved for future use by the language
		"as": {}, "assert": {}, "async": {}, "await": {}, "class": {}, "del": {},
		"except": {}, "finally": {}, "from": {}, "global": {}, "import": {},
		"is": {}, "nonlocal": {}, "raise": {}, "try": {}, "with": {}, "yield": {},
	}
)

// Prelude renders bindings as a leading fragment that declares one global
// per binding, in name order. Supported values are strings, booleans,
// numbers, time.Time and slices or arrays of those. Other values, names
// containing a dot and names that are not identifiers of the dialect are
// skipped. An empty string means nothing was rendered.
func Prelude(machine types.Type, bindings map[string]any) (string, error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, name := range names {
		if !validName(machine, name) {
			continue
		}
		literal, ok, err := renderValue(machine, bindings[name])
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidBinding, name, err)
		}
		if !ok {
			continue
		}
		if machine == types.Starlark {
			fmt.Fprintf(&b, "%s = %s\n", name, literal)
		} else {
			fmt.Fprintf(&b, "var %s=%s;", name, literal)
		}
	}
	return b.String(), nil
}

// PreludeFrom renders the bindings g returns for ctx.
func PreludeFrom(ctx context.Context, machine types.Type, g data.Getter) (string, error) {
	bindings, err := g.GetData(ctx)
	if err != nil {
		return "", err
	}
	return Prelude(machine, bindings)
}

func validName(machine types.Type, name string) bool {
	if strings.Contains(name, ".") {
		return false
	}
	if machine == types.Starlark {
		_, reserved := starlarkReserved[name]
		return !reserved && starlarkIdentifier.MatchString(name)
	}
	_, reserved := jsReserved[name]
	return !reserved && jsIdentifier.MatchString(name)
}

// renderValue reports false for values of an unsupported type.
func renderValue(machine types.Type, value any) (string, bool, error) {
	if t, ok := value.(time.Time); ok {
		return renderTime(machine, t), true, nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "", false, nil
		}
		items := make([]string, 0, v.Len())
		for i := range v.Len() {
			item, ok, err := renderScalar(machine, v.Index(i).Interface())
			if err != nil {
				return "", false, fmt.Errorf("index %d: %w", i, err)
			}
			if !ok {
				return "", false, nil
			}
			items = append(items, item)
		}
		return "[" + strings.Join(items, ",") + "]", true, nil
	default:
		return renderScalar(machine, value)
	}
}

func renderScalar(machine types.Type, value any) (string, bool, error) {
	if t, ok := value.(time.Time); ok {
		return renderTime(machine, t), true, nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		if machine == types.Starlark {
			return strconv.Quote(v.String()), true, nil
		}
		return jsonLiteral(v.String())
	case reflect.Bool:
		if machine == types.Starlark {
			if v.Bool() {
				return "True", true, nil
			}
			return "False", true, nil
		}
		return strconv.FormatBool(v.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false, fmt.Errorf("unsupported number %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if machine == types.Starlark && !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, true, nil
	}
	return "", false, nil
}

func renderTime(machine types.Type, t time.Time) string {
	if machine == types.Starlark {
		return fmt.Sprintf("time.from_timestamp(%d, %d)", t.Unix(), t.Nanosecond())
	}
	return fmt.Sprintf("new Date(%d)", t.UnixMilli())
}

func jsonLiteral(s string) (string, bool, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return "", false, err
	}
	return string(encoded), true, nil
}
