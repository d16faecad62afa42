package config

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
)

// RedactedToken wraps the CMDB session cookie to prevent accidental logging.
//
// It formats as "[REDACTED]" through fmt, %#v, encoding.TextMarshaler and
// json.Marshaler. Value is the only way to get the secret back out.
//
//	token := config.NewRedactedToken("SESSION=abc")
//	fmt.Println(token)          // prints: [REDACTED]
//	req.Header.Set("Cookie", token.Value())
type RedactedToken struct {
	value string
}

// NewRedactedToken creates a new RedactedToken wrapping the given value.
func NewRedactedToken(value string) RedactedToken {
	return RedactedToken{value: value}
}

// Value returns the actual cookie. Never log the result of this method.
func (t RedactedToken) Value() string {
	return t.value
}

// String implements fmt.Stringer.
func (t RedactedToken) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (t RedactedToken) GoString() string {
	return "config.RedactedToken{[REDACTED]}"
}

// IsEmpty returns true if the token value is empty or only whitespace.
func (t RedactedToken) IsEmpty() bool {
	return strings.TrimSpace(t.value) == ""
}

// MarshalText implements encoding.TextMarshaler.
func (t RedactedToken) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// MarshalJSON implements json.Marshaler.
func (t RedactedToken) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// TokenCell holds the current session cookie. Reads and writes are atomic,
// so request handlers can call Load concurrently with an out-of-band refresh.
type TokenCell struct {
	p atomic.Pointer[RedactedToken]
}

// NewTokenCell creates a cell seeded with value.
func NewTokenCell(value string) *TokenCell {
	c := &TokenCell{}
	c.Store(value)
	return c
}

// Load returns the current token. A nil cell yields an empty token.
func (c *TokenCell) Load() RedactedToken {
	if c == nil {
		return RedactedToken{}
	}
	if t := c.p.Load(); t != nil {
		return *t
	}
	return RedactedToken{}
}

// Store replaces the current token. Surrounding whitespace is trimmed.
func (c *TokenCell) Store(value string) {
	t := NewRedactedToken(strings.TrimSpace(value))
	c.p.Store(&t)
}

// LoadFile replaces the current token with the contents of path.
// An empty file clears the token.
func (c *TokenCell) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}
	c.Store(string(data))
	return nil
}
