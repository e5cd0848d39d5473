package models

import (
	"errors"
	"fmt"
)

var (
	ErrLoad       = errors.New("load error")
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
)

// LoadError reports an export file or directory that is missing, unreadable or undecodable.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// ParseError reports a single field value that could not be parsed.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError reports a record that violates a structural invariant.
type ValidationError struct {
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Record, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
