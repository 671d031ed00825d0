package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a malformed or oversized query or contradictory range bounds.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSearchTimeout signals that a search exceeded its per-request deadline.
	ErrSearchTimeout = errors.New("search timeout")
	// ErrSnapshotUnavailable signals that no catalog snapshot has been loaded yet.
	ErrSnapshotUnavailable = errors.New("catalog snapshot unavailable")
)

// InvalidQueryError wraps ErrInvalidQuery with the offending request field.
type InvalidQueryError struct {
	Field  string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidQuery.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidQuery.Error(), e.Field, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid query error for a request field.
func NewInvalidQuery(field, format string, args ...any) error {
	return &InvalidQueryError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
