package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed invocation for the protocol layer.
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "configuration_error"
	KindValidation        ErrorKind = "validation_error"
	KindUpstreamHTTP      ErrorKind = "upstream_http_error"
	KindUpstreamTransport ErrorKind = "upstream_transport_error"
	KindNotFound          ErrorKind = "not_found"
	KindCancelled         ErrorKind = "cancelled"
	KindInternal          ErrorKind = "internal_error"
)

// ErrCapabilityNotRegistered is returned when no descriptor matches a (kind, name) pair.
// Mapping it onto a protocol error is left to the runtime.
var ErrCapabilityNotRegistered = errors.New("capability not registered")

// ErrRegistrySealed is returned when registering after startup has completed.
var ErrRegistrySealed = errors.New("capability registry is sealed")

// ConfigurationError reports that a required setting is missing.
// It fails the single invocation only and is never retried.
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// Kind returns KindConfiguration.
func (e *ConfigurationError) Kind() ErrorKind { return KindConfiguration }

// NewConfigurationError creates a ConfigurationError for the named setting.
func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

// ValidationError reports that invocation arguments failed schema binding.
type ValidationError struct {
	Argument string
	Value    interface{}
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Argument == "" {
		return e.Message
	}
	return fmt.Sprintf("argument '%s': %s", e.Argument, e.Message)
}

// Kind returns KindValidation.
func (e *ValidationError) Kind() ErrorKind { return KindValidation }

// NewValidationError creates a ValidationError for the named argument.
func NewValidationError(argument string, value interface{}, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Argument: argument,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	}
}

// UpstreamHTTPError is a non-2xx answer (or an undecodable 2xx body) from the CMDB API.
// Status and Body are preserved verbatim for diagnostics.
type UpstreamHTTPError struct {
	Method string
	URL    string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamHTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "upstream %s %s returned status %d", e.Method, e.URL, e.Status)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

func (e *UpstreamHTTPError) Unwrap() error { return e.Err }

// Kind returns KindUpstreamHTTP.
func (e *UpstreamHTTPError) Kind() ErrorKind { return KindUpstreamHTTP }

// UpstreamTransportError means the CMDB API could not be reached at all
// (timeout, DNS, refused connection, aborted request).
type UpstreamTransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *UpstreamTransportError) Error() string {
	return fmt.Sprintf("upstream %s %s unreachable: %v", e.Method, e.URL, e.Err)
}

func (e *UpstreamTransportError) Unwrap() error { return e.Err }

// Kind returns KindUpstreamTransport.
func (e *UpstreamTransportError) Kind() ErrorKind { return KindUpstreamTransport }

// NotFoundError represents a static-content lookup miss.
// The offending key is echoed back to the caller.
type NotFoundError struct {
	// ResourceType categorizes what was looked up (e.g. "city", "prompt template")
	ResourceType string

	// Key is the identifier exactly as requested
	Key string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.Key)
}

// Kind returns KindNotFound.
func (e *NotFoundError) Kind() ErrorKind { return KindNotFound }

// NewNotFoundError creates a new NotFoundError with the specified resource type and key.
//
// Example:
//
//	return api.NewNotFoundError("city", "Atlantis")
func NewNotFoundError(resourceType, key string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		Key:          key,
	}
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is or wraps a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsConfiguration checks if an error is or wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// IsUpstream reports whether err came from the CMDB API, rejected or unreachable.
func IsUpstream(err error) bool {
	var httpErr *UpstreamHTTPError
	var transportErr *UpstreamTransportError
	return errors.As(err, &httpErr) || errors.As(err, &transportErr)
}

// KindOf classifies err into one of the ErrorKind values.
// Wrapped errors are inspected with errors.As; unknown errors map to KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var (
		configErr     *ConfigurationError
		validationErr *ValidationError
		httpErr       *UpstreamHTTPError
		transportErr  *UpstreamTransportError
		notFoundErr   *NotFoundError
	)

	switch {
	case errors.As(err, &configErr):
		return KindConfiguration
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &httpErr):
		return KindUpstreamHTTP
	case errors.As(err, &transportErr):
		return KindUpstreamTransport
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCancelled
	default:
		return KindInternal
	}
}
