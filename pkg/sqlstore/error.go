package sqlstore

import (
	"fmt"
	"time"
)

// UnsafeQueryError is returned when a statement fails the read-only
// allow-list. The statement is never executed.
type UnsafeQueryError struct {
	// Keyword is the mutation keyword that triggered the rejection,
	// empty when the statement simply isn't a SELECT.
	Keyword string
}

func (e *UnsafeQueryError) Error() string {
	if e.Keyword == "" {
		return "only SELECT statements are allowed"
	}
	return fmt.Sprintf("statement contains forbidden keyword %q", e.Keyword)
}

// QuerySyntaxError wraps a statement the database rejected.
type QuerySyntaxError struct {
	Err error
}

func (e *QuerySyntaxError) Error() string {
	return "query rejected by database: " + e.Err.Error()
}

func (e *QuerySyntaxError) Unwrap() error {
	return e.Err
}

// QueryTimeoutError is returned when execution exceeds the configured bound.
type QueryTimeoutError struct {
	Timeout time.Duration
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("query exceeded timeout of %s", e.Timeout)
}

// UnknownTableError is returned when a named table doesn't exist in the
// sample database.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	if e.Table == "" {
		return "table not found"
	}
	return "table not found: " + e.Table
}
