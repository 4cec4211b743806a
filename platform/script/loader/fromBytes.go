package loader

import (
	"bytes"
	"fmt"
	"io"
	"net/url"

	"github.com/mintjams/go-nativeecma/internal/helpers"
)

// FromBytes implements the Loader interface for raw, possibly UTF-16
// encoded, script bytes.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes creates a new Loader from a byte slice.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrInputEmpty)
	}
	// UTF-16 text has NUL bytes, so only single-byte text is checked for blanks.
	if !hasNUL(content) && len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content contains only whitespace", ErrInputEmpty)
	}

	u, err := url.Parse("bytes://inline/" + helpers.DigestBytes(content)[:8])
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}

	return &FromBytes{
		content:   bytes.Clone(content),
		sourceURL: u,
	}, nil
}

func (l *FromBytes) String() string {
	return fmt.Sprintf("loader.FromBytes{Bytes: %d}", len(l.content))
}

// GetReader returns a new reader for the stored content.
func (l *FromBytes) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(l.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromBytes) GetSourceURL() *url.URL {
	return l.sourceURL
}

func hasNUL(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}
