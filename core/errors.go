package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ConfigError reports static configuration that cannot be used (e.g. a malformed tier table).
// It is raised while constructing components, never while serving requests.
type ConfigError struct {
	Component string
	Reason    string
}

func NewConfigError(component, format string, args ...interface{}) error {
	return &ConfigError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

func (err ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", err.Component, err.Reason)
}

func IsConfigError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
