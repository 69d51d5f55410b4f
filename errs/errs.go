// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errs defines the error taxonomy shared by every stage of the
// conversion pipeline. Filters and readers return these instead of ad-hoc
// error strings so that a driver can map a failure to an exit code without
// string-matching messages.
package errs

import "fmt"

// Kind classifies a pipeline failure. The zero value is not a valid kind.
type Kind int

const (
	// SourceUnrecognized means no reader claims the input path.
	SourceUnrecognized Kind = iota + 1

	// CapabilityMismatch means a filter's precondition was violated, e.g.
	// KeyZones was asked to wrap an already-keyed source.
	CapabilityMismatch

	// ConversionUnavailable means no path exists in the coordinate graph
	// from a candidate system to the requested target.
	ConversionUnavailable

	// ShapeMismatch means a FieldData operation violated a size or
	// component-count invariant.
	ShapeMismatch

	// DataFormatError means a topology constructor failed to parse a
	// binary or text blob.
	DataFormatError

	// Missing means a referenced basis, field, or zone was not present.
	Missing
)

func (k Kind) String() string {
	switch k {
	case SourceUnrecognized:
		return "SourceUnrecognized"
	case CapabilityMismatch:
		return "CapabilityMismatch"
	case ConversionUnavailable:
		return "ConversionUnavailable"
	case ShapeMismatch:
		return "ShapeMismatch"
	case DataFormatError:
		return "DataFormatError"
	case Missing:
		return "Missing"
	default:
		return "Unknown"
	}
}

// ExitCode maps a Kind to the process exit code described in spec §6.
func (k Kind) ExitCode() int {
	switch k {
	case SourceUnrecognized:
		return 2
	default:
		return 3
	}
}

// Error is the concrete error type returned by pipeline components. It
// carries enough context (component, zone, field) for a driver to print a
// useful diagnostic without the caller needing to inspect Kind-specific
// fields.
type Error struct {
	Kind      Kind
	Component string // e.g. "KeyZones", "FieldData.concat"
	Zone      string // local or global zone key, if relevant
	Field     string // field name, if relevant
	Offset    int64  // byte offset, for DataFormatError; 0 otherwise
	Msg       string
	Cause     error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Component != "" {
		s += fmt.Sprintf(" (component=%s)", e.Component)
	}
	if e.Zone != "" {
		s += fmt.Sprintf(" (zone=%s)", e.Zone)
	}
	if e.Field != "" {
		s += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Kind == DataFormatError && e.Offset != 0 {
		s += fmt.Sprintf(" (offset=%d)", e.Offset)
	}
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, component string, format string, args ...any) *Error {
	return &Error{Kind: kind, Component: component, Msg: fmt.Sprintf(format, args...)}
}

// WithZone attaches a zone key to the error, returning the same error for
// chaining.
func (e *Error) WithZone(zone string) *Error {
	e.Zone = zone
	return e
}

// WithField attaches a field name to the error, returning the same error
// for chaining.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithOffset attaches a byte offset (for DataFormatError), returning the
// same error for chaining.
func (e *Error) WithOffset(off int64) *Error {
	e.Offset = off
	return e
}

// Wrap attaches an underlying cause, returning the same error for chaining.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, errs.New(errs.Missing, ...)) style checks work against a
// sentinel built with the right Kind and empty fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
