package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no caller identity is present.
	// Requests without an identity never reach the resolver in the HTTP
	// path (the auth middleware rejects them first); this guards direct
	// callers.
	ErrUnauthenticated = errors.New("calendar: no caller identity")

	// ErrInvalidRange is returned for malformed or inverted date ranges.
	ErrInvalidRange = errors.New("calendar: invalid range")
)

// DataAccessError wraps a failed underlying query for a single day.
type DataAccessError struct {
	Day Day
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("calendar: query for %s failed: %v", e.Day, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// AggregateFetchError wraps the first per-day failure encountered while
// fetching a multi-day range. The whole range is considered failed even
// if other days resolved, so a view never shows a span with silently
// missing days.
type AggregateFetchError struct {
	Key RangeKey
	Err error
}

func (e *AggregateFetchError) Error() string {
	return fmt.Sprintf("calendar: fetch for range %s failed: %v", e.Key, e.Err)
}

func (e *AggregateFetchError) Unwrap() error { return e.Err }
