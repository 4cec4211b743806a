package platform

import "fmt"

// Kind tags the variant held by an EvalResult.
type Kind int

const (
	// KindNoValue means the final value was not textual (or there was none).
	KindNoValue Kind = iota
	// KindValue means the final value was a string.
	KindValue
	// KindError means the job failed; the text is a formatted diagnostic.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindNoValue:
		return "NoValue"
	case KindValue:
		return "Value"
	case KindError:
		return "Error"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// EvalResult is the outcome of one evaluation: exactly one of Value, NoValue
// or Error. The zero value is NoValue.
type EvalResult struct {
	kind Kind
	text string
}

// Value builds a result carrying the textual final value.
func Value(text string) EvalResult {
	return EvalResult{kind: KindValue, text: text}
}

// NoValue builds a successful result without a textual value.
func NoValue() EvalResult {
	return EvalResult{kind: KindNoValue}
}

// Failure builds an error result holding a diagnostic string.
func Failure(diagnostic string) EvalResult {
	return EvalResult{kind: KindError, text: diagnostic}
}

func (r EvalResult) Kind() Kind {
	return r.kind
}

// Text returns the textual value, and false for NoValue and Error results.
func (r EvalResult) Text() (string, bool) {
	if r.kind != KindValue {
		return "", false
	}
	return r.text, true
}

// Diagnostic returns the diagnostic of an Error result.
func (r EvalResult) Diagnostic() (string, bool) {
	if r.kind != KindError {
		return "", false
	}
	return r.text, true
}

func (r EvalResult) IsError() bool {
	return r.kind == KindError
}

func (r EvalResult) String() string {
	switch r.kind {
	case KindValue:
		return fmt.Sprintf("Value(%q)", r.text)
	case KindError:
		return fmt.Sprintf("Error(%q)", r.text)
	}
	return "NoValue"
}
