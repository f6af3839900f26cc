// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Store errors.
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedColumn = errors.New("column cannot be updated")
	ErrEmptySelection    = errors.New("no rows selected")
	ErrBusy              = errors.New("database is busy")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigurationError reports an invalid or incomplete format mapping or
// configuration entry. It is raised while building the registry, never
// during a batch.
type ConfigurationError struct {
	Format string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error in format %q: %s", e.Format, e.Reason)
}

// Unwrap lets callers match ErrInvalidConfig.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// UnknownFormatError reports a file whose discriminator matches no registered format.
type UnknownFormatError struct {
	Path          string
	Discriminator string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown file format for %s (discriminator %q)", e.Path, e.Discriminator)
}

// ParseError reports a malformed amount or date inside a recognized file.
// Row is the 1-based data row; zero when the value was not read from a file.
type ParseError struct {
	Err   error
	Path  string
	Field string
	Value string
	Row   int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	fmt.Fprintf(&b, ": invalid %s %q", e.Field, e.Value)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateKeyCollisionError reports stored rows that share one natural
// duplicate key. It only happens when the store was edited by hand.
type DuplicateKeyCollisionError struct {
	Key string
	IDs []int64
}

func (e *DuplicateKeyCollisionError) Error() string {
	return fmt.Sprintf("stored rows %v share the duplicate key %s", e.IDs, e.Key)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
