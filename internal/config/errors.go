package config

import (
	"fmt"
	"strings"
)

// LoadError describes a failure to read or parse a configuration file.
type LoadError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	ErrorType   string   `json:"errorType"`   // io, parse or validation
	Message     string   `json:"message"`     // Human-readable error message
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
	Err         error    `json:"-"`
}

// Error types reported in LoadError.ErrorType.
const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

func (le *LoadError) Error() string {
	if le.Err != nil {
		return fmt.Sprintf("error loading config from %s: %s: %v", le.FilePath, le.Message, le.Err)
	}
	return fmt.Sprintf("error loading config from %s: %s", le.FilePath, le.Message)
}

func (le *LoadError) Unwrap() error { return le.Err }

// DetailedError returns a multi-line message including suggestions.
func (le *LoadError) DetailedError() string {
	parts := []string{
		fmt.Sprintf("Configuration Error: %s", le.Message),
		fmt.Sprintf("  File: %s", le.FilePath),
		fmt.Sprintf("  Type: %s", le.ErrorType),
	}
	if le.Err != nil {
		parts = append(parts, fmt.Sprintf("  Details: %v", le.Err))
	}
	if len(le.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, s := range le.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", s))
		}
	}
	return strings.Join(parts, "\n")
}
