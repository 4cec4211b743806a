package javascript

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/parser"
	"github.com/mintjams/go-nativeecma/platform/diagnostic"
)

// compileException converts a goja compile failure. Parse errors from goja
// carry no position, so the source is parsed again to recover one.
func compileException(err error, name, source string) error {
	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		exc := &diagnostic.Exception{Message: "SyntaxError: " + syntaxErr.Message}
		if syntaxErr.File != nil {
			pos := syntaxErr.File.Position(syntaxErr.Offset)
			exc.Location = &diagnostic.Location{
				Resource: pos.Filename,
				Line:     pos.Line,
				Column:   pos.Column,
			}
			return exc
		}
		if pe := firstParseError(name, source); pe != nil {
			exc.Message = "SyntaxError: " + pe.Message
			exc.Location = &diagnostic.Location{
				Resource: pe.Position.Filename,
				Line:     pe.Position.Line,
				Column:   pe.Position.Column,
			}
		}
		return exc
	}

	var refErr *goja.CompilerReferenceError
	if errors.As(err, &refErr) {
		exc := &diagnostic.Exception{Message: "ReferenceError: " + refErr.Message}
		if refErr.File != nil {
			pos := refErr.File.Position(refErr.Offset)
			exc.Location = &diagnostic.Location{
				Resource: pos.Filename,
				Line:     pos.Line,
				Column:   pos.Column,
			}
			return exc
		}
		if pe := firstParseError(name, source); pe != nil {
			exc.Location = &diagnostic.Location{
				Resource: pe.Position.Filename,
				Line:     pe.Position.Line,
				Column:   pe.Position.Column,
			}
			return exc
		}
		exc.Location = &diagnostic.Location{Resource: name, Line: 1, Column: 1}
		return exc
	}
	return err
}

func firstParseError(name, source string) *parser.Error {
	_, err := parser.ParseFile(nil, name, source, 0)
	var list parser.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return list[0]
	}
	return nil
}

// overflowMessage is what V8-style engines report; goja raises the overflow
// without a value.
const overflowMessage = "RangeError: Maximum call stack size exceeded"

// framePattern matches one "\tat" line of a goja stack trace, optionally
// wrapped as "fn (file:line:col(pc))".
var framePattern = regexp.MustCompile(`^\tat (?:.* \()?(.+):(\d+):(\d+)\(\d+\)\)?$`)

// runtimeException converts an uncaught exception raised while running.
// Errors that are not script exceptions are returned unchanged.
func (s *Scope) runtimeException(err error) error {
	var overflow *goja.StackOverflowError
	if errors.As(err, &overflow) {
		exc := &diagnostic.Exception{Message: overflowMessage}
		frames := stackFrames(overflow.String())
		exc.Location = firstLocation(frames)
		exc.Stack = strings.Join(frames, "\n")
		return exc
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return s.fromException(ex)
	}
	return err
}

func (s *Scope) fromException(ex *goja.Exception) *diagnostic.Exception {
	exc := &diagnostic.Exception{}

	if v := ex.Value(); v != nil {
		// toString and the stack getter are script code and may throw.
		_ = s.vm.Try(func() {
			exc.Message = v.String()
		})
		if obj, ok := v.(*goja.Object); ok {
			_ = s.vm.Try(func() {
				st := obj.Get("stack")
				if st != nil && !goja.IsUndefined(st) && !goja.IsNull(st) {
					exc.Stack = st.String()
				}
			})
		}
	}

	// String renders the value before the frames and shares its failure modes.
	var trace string
	_ = s.vm.Try(func() {
		trace = ex.String()
	})
	frames := stackFrames(trace)
	exc.Location = firstLocation(frames)
	if exc.Stack == "" {
		exc.Stack = strings.Join(frames, "\n")
	}
	return exc
}

// stackFrames keeps the "\tat ..." lines of a rendered goja exception.
func stackFrames(trace string) []string {
	var frames []string
	for _, line := range strings.Split(trace, "\n") {
		if strings.HasPrefix(line, "\tat ") {
			frames = append(frames, line)
		}
	}
	return frames
}

func firstLocation(frames []string) *diagnostic.Location {
	for _, frame := range frames {
		m := framePattern.FindStringSubmatch(frame)
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		if line <= 0 {
			continue
		}
		return &diagnostic.Location{Resource: m[1], Line: line, Column: col}
	}
	return nil
}
