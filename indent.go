// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Indentation tracking for block context.
// The parser owns one indentStack per parse; the scanner shares it to decide
// whether a new line continues or ends a multi-line scalar.

package yamlstream

// indentLevel records one active block construct. Levels are strictly
// increasing in column from bottom to top of the stack.
type indentLevel struct {
	column       int
	isSequence   bool
	isFirstEntry bool
}

// indentDecision is the verdict of validate for a token column against the
// innermost active level.
type indentDecision int

const (
	indentContinue indentDecision = iota
	indentEndSequence
	indentEndMapping
	indentInvalid
)

// indentStack tracks the columns of active block constructs. The implicit
// root level is column -1.
type indentStack struct {
	levels []indentLevel
}

// topColumn returns the column of the innermost level, or -1 at the root.
func (s *indentStack) topColumn() int {
	if len(s.levels) == 0 {
		return -1
	}
	return s.levels[len(s.levels)-1].column
}

// push opens a new block level. The caller decides that a nested construct
// starts at a greater column before calling; pushing a column that does not
// exceed the current top is a logic error in the state machine, not a
// user-facing condition.
func (s *indentStack) push(column int, isSequence bool) {
	if column <= s.topColumn() {
		panic("yamlstream: indent push without increasing column")
	}
	s.levels = append(s.levels, indentLevel{
		column:       column,
		isSequence:   isSequence,
		isFirstEntry: true,
	})
}

// pop closes the innermost level and reports whether it was a sequence, so
// the caller can select the matching end event.
func (s *indentStack) pop() (isSequence bool) {
	last := len(s.levels) - 1
	isSequence = s.levels[last].isSequence
	s.levels = s.levels[:last]
	return isSequence
}

// firstEntry reports whether the innermost level is still waiting for its
// first entry.
func (s *indentStack) firstEntry() bool {
	return len(s.levels) > 0 && s.levels[len(s.levels)-1].isFirstEntry
}

// entryScanned clears the first-entry flag of the innermost level.
func (s *indentStack) entryScanned() {
	if len(s.levels) > 0 {
		s.levels[len(s.levels)-1].isFirstEntry = false
	}
}

// validate compares a token's column against the innermost level. An exact
// match continues the construct; a smaller column ends it, with the end
// kind chosen by the level's recorded type; a larger column is legal only
// in a mapping value position, which never consults validate, so for keys
// and sequence entries it is invalid.
func (s *indentStack) validate(column int) indentDecision {
	expected := s.topColumn()
	switch {
	case column == expected:
		return indentContinue
	case column < expected:
		if len(s.levels) > 0 && s.levels[len(s.levels)-1].isSequence {
			return indentEndSequence
		}
		return indentEndMapping
	default:
		return indentInvalid
	}
}

// reset drops all levels; used when a document ends.
func (s *indentStack) reset() {
	s.levels = s.levels[:0]
}
