// Package errors implements the structured error model shared by every
// component of the engine: schema construction, validation and execution.
package errors

import (
	"errors"
	"fmt"
)

// QueryError is a GraphQL error, as specified in
// https://spec.graphql.org/draft/#sec-Errors.
//
// It is returned on its own (schema and validation errors) or inside a
// Response (execution errors), and can carry the node's source location,
// the response path that produced it, and arbitrary extensions.
type QueryError struct {
	Message       string                 `json:"message"`
	Locations     []Location             `json:"locations,omitempty"`
	Path          []interface{}          `json:"path,omitempty"`
	Rule          string                 `json:"-"`
	ResolverError error                  `json:"-"`
	Extensions    map[string]interface{} `json:"extensions,omitempty"`

	// Err is the underlying cause, when this QueryError wraps another error
	// (e.g. a resolver failure). Exposed through Unwrap so callers can use
	// errors.Is/errors.As against it.
	Err error `json:"-"`
}

// Location is a line/column pair pointing at the offending token in the
// original source text. Both fields are 1-based.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Before reports whether a sorts strictly before b in document order.
func (a Location) Before(b Location) bool {
	return a.Line < b.Line || (a.Line == b.Line && a.Column < b.Column)
}

// Errorf builds a QueryError from a format string. If the last argument
// implements error, it becomes the wrapped cause (retrievable via Unwrap).
func Errorf(format string, a ...interface{}) *QueryError {
	qe := &QueryError{
		Message: fmt.Sprintf(format, a...),
	}
	if len(a) > 0 {
		if cause, ok := a[len(a)-1].(error); ok {
			qe.Err = cause
		}
	}
	return qe
}

// WithPath returns a copy of err with its response path set. Used by the
// executor when attaching a field's position in the response tree to an
// error produced before that path was known.
func (err *QueryError) WithPath(path []interface{}) *QueryError {
	cp := *err
	cp.Path = path
	return &cp
}

func (err *QueryError) Error() string {
	if err == nil {
		return "<nil>"
	}
	str := fmt.Sprintf("graphql: %s", err.Message)
	for _, loc := range err.Locations {
		str += fmt.Sprintf(" (line %d, column %d)", loc.Line, loc.Column)
	}
	return str
}

// Unwrap exposes the underlying cause, if any, so that errors.Is and
// errors.As work against QueryError values produced by Errorf or by
// resolver failures.
func (err *QueryError) Unwrap() error {
	if err == nil {
		return nil
	}
	return err.Err
}

var _ error = (*QueryError)(nil)

// MultiError aggregates several QueryErrors behind a single error value,
// for collaborators that need a plain `error` return in addition to the
// structured list (e.g. log.Logger callers, host frameworks).
type MultiError []*QueryError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return "graphql: no errors"
	}
	msg := m[0].Error()
	if len(m) > 1 {
		msg += fmt.Sprintf(" (and %d more errors)", len(m)-1)
	}
	return msg
}

// As allows errors.As(err, &queryErr) to reach the first entry.
func (m MultiError) As(target interface{}) bool {
	if len(m) == 0 {
		return false
	}
	if t, ok := target.(**QueryError); ok {
		*t = m[0]
		return true
	}
	return false
}

// Is supports errors.Is(multiErr, sentinel) by checking every entry.
func (m MultiError) Is(target error) bool {
	for _, e := range m {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}

// SubscriptionError is the hook by which a top-level resolver object can
// report a terminal subscription error while a stream is still active.
//
// This module does not execute subscriptions, and nothing in it calls
// SubscriptionError; the interface is declared for host code that runs
// subscription streams itself.
type SubscriptionError interface {
	// SubscriptionError returns nil while the stream is healthy and a
	// non-nil error once it has reached a terminal failure.
	SubscriptionError() error
}
