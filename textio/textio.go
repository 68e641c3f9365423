// Package textio reads and writes whole messages for the cipher front ends.
package textio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

var (
	// ErrTooLarge is returned when a message exceeds the read limit.
	ErrTooLarge = errors.New("message exceeds maximum size")

	// ErrNotUTF8 is returned for input that is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("message is not valid UTF-8 text")
)

// Read loads the whole of r. A non-positive limit disables the size check.
func Read(r io.Reader, limit int64) (string, error) {
	if r == nil {
		return "", errors.New("reader cannot be nil")
	}
	if limit > 0 {
		// one extra byte tells an exact fit from an overflow
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read message: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, limit)
	}
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

// ReadFile loads the message stored at path.
func ReadFile(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	msg, err := Read(f, limit)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return msg, nil
}

// WriteFile replaces the contents of path with msg.
func WriteFile(path, msg string) error {
	if err := os.WriteFile(path, []byte(msg), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// TrimLineEnding drops trailing newlines that editors append to ciphertext
// files. Ciphertext never ends in one, since every symbol is 'A' or above.
func TrimLineEnding(msg string) string {
	return strings.TrimRight(msg, "\r\n")
}
