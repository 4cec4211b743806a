// Package diagnostic turns script exceptions into single, bounded strings.
package diagnostic

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MaxStackLength bounds the stack trace appended to a diagnostic, in characters.
	MaxStackLength = 8192

	// DefaultMessage replaces an exception whose text is unavailable.
	DefaultMessage = "JavaScript exception"

	// UnknownResource replaces an empty resource name in a location prefix.
	UnknownResource = "<unknown>"
)

// Location points at the source position an exception was raised from.
// Column is 1-based.
type Location struct {
	Resource string
	Line     int
	Column   int
}

// Exception is the language-neutral form of an uncaught script exception.
type Exception struct {
	Message  string
	Location *Location
	Stack    string
}

// Error renders the exception with Format, so an *Exception can travel as an error.
func (e *Exception) Error() string {
	return Format(e)
}

// Format renders an exception as
//
//	<resource>:<line>:<column>: <message>
//	<stack>
//
// The location prefix is present only when a location is known; the stack
// line only when a stack is known, cut to MaxStackLength characters.
func Format(e *Exception) string {
	if e == nil {
		return DefaultMessage
	}

	msg := e.Message
	if msg == "" {
		msg = DefaultMessage
	}

	var b strings.Builder
	if loc := e.Location; loc != nil {
		resource := loc.Resource
		if resource == "" {
			resource = UnknownResource
		}
		b.WriteString(resource)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(loc.Line))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(loc.Column))
		b.WriteString(": ")
	}
	b.WriteString(msg)

	if e.Stack != "" {
		b.WriteByte('\n')
		b.WriteString(Truncate(e.Stack, MaxStackLength))
	}
	return b.String()
}

// Truncate cuts s to at most limit characters without splitting a rune.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// Length reports the character count used by Truncate.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
