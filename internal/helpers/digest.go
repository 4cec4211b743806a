package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// Digest returns the hex SHA-256 of a script source.
func Digest(source string) string {
	return DigestBytes([]byte(source))
}

func DigestBytes(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:])
}

// DigestReader hashes everything readable from r.
func DigestReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
