// Package loader fetches script source text from strings, files and HTTP.
package loader

import (
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/mintjams/go-nativeecma/internal/helpers"
)

// Loader is an interface used to load script source.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// Modifiable is implemented by loaders whose content can change after the
// loader is built. A zero time means the modification time is unknown.
type Modifiable interface {
	LastModified() (time.Time, error)
}

// ReadSource reads everything from the loader and decodes it as text.
// UTF-8 is assumed unless a UTF-8 or UTF-16 byte order mark says otherwise.
func ReadSource(l Loader) (string, error) {
	if l == nil {
		return "", fmt.Errorf("%w: loader is nil", ErrScriptNotAvailable)
	}
	reader, err := l.GetReader()
	if err != nil {
		return "", err
	}
	defer func() { _ = reader.Close() }()

	text, err := helpers.ReadText(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", l.GetSourceURL(), err)
	}
	return text, nil
}

// LastModified returns the modification time reported by the loader, or the
// zero time when it has none.
func LastModified(l Loader) (time.Time, error) {
	if m, ok := l.(Modifiable); ok {
		return m.LastModified()
	}
	return time.Time{}, nil
}
