package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

// InferLoader picks a loader for the input:
//   - string: http/https URL -> FromHTTP, file:// URL or path -> FromDisk,
//     anything else is inline script text
//   - []byte: FromBytes
//   - io.Reader: read fully into FromBytes
//   - Loader: returned as is
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case Loader:
		return v, nil
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case io.Reader:
		content, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read from reader: %w", err)
		}
		return NewFromBytes(content)
	case nil:
		return nil, fmt.Errorf("%w: input is nil", ErrInputEmpty)
	default:
		return nil, fmt.Errorf("unsupported input type: %T", input)
	}
}

func inferFromString(input string) (Loader, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrInputEmpty)
	}

	// Script text may contain "://" or "/" too, so only single-line input is
	// taken as a location.
	if strings.ContainsAny(trimmed, "\n\r") {
		return NewFromString(input)
	}

	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		switch parsed.Scheme {
		case "http", "https":
			return NewFromHTTP(trimmed)
		case "file":
			return diskFromPath(parsed.Path)
		}
	}

	if looksLikePath(trimmed) {
		return diskFromPath(trimmed)
	}
	return NewFromString(input)
}

func looksLikePath(s string) bool {
	if filepath.IsAbs(s) {
		return true
	}
	if strings.ContainsAny(s, " ;()'\"=+") {
		return false
	}
	switch filepath.Ext(s) {
	case ".js", ".mjs", ".cjs", ".star", ".sky", ".bzl":
		return true
	}
	return strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../")
}

func diskFromPath(path string) (Loader, error) {
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = abs
	}
	return NewFromDisk(path)
}
