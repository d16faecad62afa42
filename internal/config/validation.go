package config

import (
	"fmt"
	"net/url"
	"strings"

	"cmdbmcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateURL checks that value is an absolute http(s) URL.
func ValidateURL(field, value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "must be an absolute http(s) URL",
		}
	}
	return nil
}

// Validate checks transport, log level and URL settings.
// It returns nil or a ValidationErrors value.
func (c Config) Validate() error {
	var errs ValidationErrors

	collect := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	collect(ValidateOneOf("server.transport", c.Server.Transport,
		[]string{MCPTransportStdio, MCPTransportSSE, MCPTransportStreamableHTTP}))

	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		errs.Add("logging.level", "must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.Server.Transport != MCPTransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs.Add("server.port", "must be between 1 and 65535", c.Server.Port)
	}

	collect(ValidateURL("cmdb.baseURL", c.CMDB.BaseURL))
	for _, ep := range []struct{ field, value string }{
		{"cmdb.endpoints.productLines", c.CMDB.Endpoints.ProductLines},
		{"cmdb.endpoints.userDirectory", c.CMDB.Endpoints.UserDirectory},
		{"cmdb.endpoints.listChildren", c.CMDB.Endpoints.ListChildren},
		{"cmdb.endpoints.domainCreate", c.CMDB.Endpoints.DomainCreate},
	} {
		if ep.value != "" {
			collect(ValidateURL(ep.field, ep.value))
		}
	}

	if c.Content.CitiesFile == "" {
		errs.Add("content.citiesFile", "is required")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
