// Package layouterr holds the error kinds shared by the layout packages.
package layouterr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common sentinel errors
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConfiguration   = errors.New("invalid configuration")
	ErrUnknownEntity   = errors.New("unknown entity")
)

// Error provides structured error information for layout operations.
type Error struct {
	Op        string    // Operation that failed (e.g., "Insert", "Step")
	Component string    // Component (e.g., "octree", "grid", "engine")
	ID        uuid.UUID // Entity ID (if applicable)
	Field     string    // Field or parameter name
	Cause     error     // Underlying error
	Context   string    // Additional context
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := e.Op
	if e.Component != "" {
		prefix = e.Component + " " + e.Op
	}
	if e.ID != uuid.Nil {
		prefix = fmt.Sprintf("%s %s", prefix, e.ID)
	}
	if e.Field != "" {
		prefix = fmt.Sprintf("%s (field %s)", prefix, e.Field)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %v: %s", prefix, e.Cause, e.Context)
	}
	return fmt.Sprintf("%s: %v", prefix, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building Errors.
type ErrorBuilder struct {
	err Error
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Op: op}}
}

// Component sets the component that failed.
func (b *ErrorBuilder) Component(name string) *ErrorBuilder {
	b.err.Component = name
	return b
}

// Entity sets the entity the operation was about.
func (b *ErrorBuilder) Entity(id uuid.UUID) *ErrorBuilder {
	b.err.ID = id
	return b
}

// Field sets the offending field or parameter.
func (b *ErrorBuilder) Field(name string) *ErrorBuilder {
	b.err.Field = name
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed Error.
func (b *ErrorBuilder) Build() *Error {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// InvalidArgument creates an invalid argument error for a parameter.
func InvalidArgument(component, op, field, format string, args ...any) error {
	return NewError(op).Component(component).Field(field).
		Cause(ErrInvalidArgument).Context(format, args...).Err()
}

// UnknownEntity creates an unknown entity error.
func UnknownEntity(component, op string, id uuid.UUID) error {
	return NewError(op).Component(component).Entity(id).Cause(ErrUnknownEntity).Err()
}

// Configuration wraps a validation failure as a configuration error.
func Configuration(op string, cause error) error {
	return NewError(op).Component("config").
		Cause(fmt.Errorf("%w: %w", ErrConfiguration, cause)).Err()
}

// IsInvalidArgument returns true if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsConfiguration returns true if the error is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsUnknownEntity returns true if the error refers to an unknown entity.
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}
