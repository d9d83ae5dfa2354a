package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing entity by kind. It matches ErrNotFound.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a violation on field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns e when it holds violations and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, format string, args ...any) error {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// GenerationError wraps a failed question generation.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return "generate questions: " + e.Op + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }
