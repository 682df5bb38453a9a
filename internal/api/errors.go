package api

import (
	"errors"
	"fmt"
)

// NotFoundError represents a lookup of a widget record, provider or package
// that does not exist.
//
// It is an expected-absence condition: callers log it and carry on.
type NotFoundError struct {
	// ResourceType categorizes the resource that was not found
	// (e.g., "widget", "provider", "package")
	ResourceType string

	// ResourceName is the identifier that was looked up
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is or wraps a NotFoundError.
//
// Example:
//
//	if err := manager.RemoveWidget(key); api.IsNotFound(err) {
//	    // nothing was tracked under key
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// NewNotFoundErrorWithMessage creates a new NotFoundError with a custom message.
func NewNotFoundErrorWithMessage(resourceType, resourceName, message string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
		Message:      message,
	}
}

// Specific NotFoundError constructors for each resource type.
var (
	// NewWidgetNotFoundError creates an error for a widget key that is not tracked.
	NewWidgetNotFoundError = func(key string) *NotFoundError {
		return NewNotFoundError("widget", key)
	}

	// NewProviderNotFoundError creates an error for a widget provider class
	// that the package does not offer.
	NewProviderNotFoundError = func(className string) *NotFoundError {
		return NewNotFoundError("widget provider", className)
	}

	// NewPackageNotFoundError creates an error for a package that is not installed.
	NewPackageNotFoundError = func(packageName string) *NotFoundError {
		return NewNotFoundError("package", packageName)
	}
)

// ProviderMismatchError is returned when a widget key is requested with a
// provider other than the one the record was created with.
//
// This is a programming error. The record is left untouched and the caller
// must not retry with the same arguments.
type ProviderMismatchError struct {
	Key       string
	Existing  string
	Requested string
}

// Error implements the error interface.
func (e *ProviderMismatchError) Error() string {
	return fmt.Sprintf("widget %s was created with a different provider (have %s, requested %s)",
		e.Key, e.Existing, e.Requested)
}

// IsProviderMismatch checks if an error is or wraps a ProviderMismatchError.
func IsProviderMismatch(err error) bool {
	var mismatch *ProviderMismatchError
	return errors.As(err, &mismatch)
}

var (
	// ErrWidgetNotBound is returned by a render subscription whose widget was
	// found unbound before the first event could be delivered.
	ErrWidgetNotBound = errors.New("widget not bound")

	// ErrSubscriptionClosed is returned by a render subscription that was
	// cancelled or that completed without ever becoming active.
	ErrSubscriptionClosed = errors.New("subscription closed")
)
