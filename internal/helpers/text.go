package helpers

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText converts raw script bytes to a Go string. A UTF-8 or UTF-16
// (LE/BE) byte order mark selects the encoding and is stripped; without a
// BOM the input is read as UTF-8.
func DecodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("unable to decode script text: %w", err)
	}
	return string(out), nil
}

// ReadText drains r and decodes the result with DecodeText.
func ReadText(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return DecodeText(raw)
}
