package config

import (
	"fmt"
	"net"
	"strings"
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

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value, entityType string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: fmt.Sprintf("is required for %s", entityType),
		}
	}
	return nil
}

// Validate checks the configuration and returns every problem found.
func (c SmartspaceConfig) Validate() ValidationErrors {
	var errs ValidationErrors
	collect := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	collect(ValidateRequired("provider.package", c.Provider.Package, "provider"))
	collect(ValidateRequired("provider.widgetClass", c.Provider.WidgetClass, "provider"))
	collect(ValidateRequired("provider.widgetKey", c.Provider.WidgetKey, "provider"))
	if strings.ContainsAny(c.Provider.Package, " /") {
		errs.Add("provider.package", "must be a package name", c.Provider.Package)
	}
	if c.Provider.Profile < 0 {
		errs.Add("provider.profile", "must not be negative", c.Provider.Profile)
	}

	if c.Host.HostID <= 0 {
		errs.Add("host.hostId", "must be positive", c.Host.HostID)
	}
	if c.Host.Debounce < 0 {
		errs.Add("host.debounce", "must not be negative", c.Host.Debounce)
	}
	collect(ValidateRequired("host.packagesDir", c.Host.PackagesDir, "host"))
	collect(ValidateRequired("host.layoutsDir", c.Host.LayoutsDir, "host"))

	if !strings.HasPrefix(c.Keyguard.SliceURI, "content://") {
		errs.Add("keyguard.sliceUri", "must be a content:// URI", c.Keyguard.SliceURI)
	}
	if c.Keyguard.Media.Playing && c.Keyguard.Media.Title == "" {
		errs.Add("keyguard.media.title", "is required while media is playing")
	}

	if c.Metrics.Address != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Address); err != nil {
			errs.Add("metrics.address", fmt.Sprintf("must be host:port: %v", err), c.Metrics.Address)
		}
	}
	return errs
}
