package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested claim or entity is absent
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor may not perform the edit
	// (wrong owner, or the claim is no longer editable)
	ErrForbidden = errors.New("operation not permitted")

	// ErrConflict is returned when a concurrent writer changed the claim
	// between the precondition check and the update
	ErrConflict = errors.New("claim was modified concurrently")
)

// ValidationError aggregates every violated field constraint so the
// caller sees all problems at once rather than the first
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a violation for a field
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasViolations returns true if any violation was recorded
func (e *ValidationError) HasViolations() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var parts []string
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
