package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeySize bounds snapshot keys in bytes.
const MaxKeySize = 256

// ErrInvalidKey is returned for snapshot keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid snapshot key")

// ValidateKey checks that key can name a snapshot in any store: non-empty,
// bounded, valid UTF-8, free of control characters and path separators, and
// not a relative path element.
func ValidateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > MaxKeySize {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInvalidKey, len(key), MaxKeySize)
	}
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: invalid UTF-8", ErrInvalidKey)
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", ErrInvalidKey, key)
		}
	}
	return nil
}
