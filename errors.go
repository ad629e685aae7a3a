// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for scanning and parsing.
// Every failure is reported as a ScanError carrying the mark where it was
// detected and a sentinel classifying it for errors.Is.

package yamlstream

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure mode. A ScanError wraps exactly
// one of these, so callers can dispatch with errors.Is without parsing
// message text.
var (
	// ErrUnterminatedScalar reports a quoted or verbatim construct that ran
	// into the end of the stream before its closing delimiter.
	ErrUnterminatedScalar = errors.New("unterminated scalar")

	// ErrInvalidEscape reports a bad escape character or truncated hex
	// digits in a double-quoted scalar or a %XX URI escape.
	ErrInvalidEscape = errors.New("invalid escape")

	// ErrInvalidDirective reports a malformed %YAML or %TAG directive.
	ErrInvalidDirective = errors.New("invalid directive")

	// ErrInvalidIndentation reports a token column that neither continues
	// nor legally ends the enclosing block construct.
	ErrInvalidIndentation = errors.New("invalid indentation")

	// ErrUnbalancedFlow reports a missing ',' or terminator inside a flow
	// collection, or a ']'/'}' with no matching opener.
	ErrUnbalancedFlow = errors.New("unbalanced flow collection")

	// ErrUnexpectedDocumentMarker reports a '---' or '...' in a position
	// where no document boundary may occur.
	ErrUnexpectedDocumentMarker = errors.New("unexpected document marker")

	// ErrRecursionLimit reports nesting deeper than the configured maximum.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrUnresolvedAlias reports an alias naming an anchor that has not
	// been defined. Only returned in the default strict-alias mode; see
	// WithResolveAliasSentinel.
	ErrUnresolvedAlias = errors.New("unresolved alias")

	// ErrDuplicateAnchor reports an anchor name defined twice in one
	// document while WithAllowDuplicateAnchors(false) is in effect.
	ErrDuplicateAnchor = errors.New("duplicate anchor")

	// ErrUnexpectedToken reports a token that cannot appear in the current
	// grammar position. In the default permissive mode most of these are
	// absorbed as empty scalars instead of being returned.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// ScanError is the error type shared by the scanner and the parser. Info is
// the human-readable description; Err is the classifying sentinel.
type ScanError struct {
	Mark Mark
	Info string
	Err  error
}

// Error renders the message with the 1-based position, for example
// "did not find expected ',' or ']' at line 3 col 7".
func (e *ScanError) Error() string {
	return fmt.Sprintf("%s at %s", e.Info, e.Mark)
}

// Unwrap exposes the classifying sentinel to errors.Is and errors.As.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// scanErrorf builds a ScanError at the given mark.
func scanErrorf(kind error, mark Mark, format string, args ...any) error {
	return &ScanError{
		Mark: mark,
		Info: fmt.Sprintf(format, args...),
		Err:  kind,
	}
}
