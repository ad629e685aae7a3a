// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Source position tracking.
// Every token, event and error carries a Mark identifying where in the
// input it was produced.

package yamlstream

import "fmt"

// Mark is a position in the input stream: a byte offset, a 1-based line
// and a 0-based column. Marks produced by a Scanner are monotonically
// non-decreasing.
type Mark struct {
	Index  int // byte offset from the start of the stream
	Line   int // 1-based
	Column int // 0-based, counted in runes
}

// String renders the mark in the 1-based form used by error messages.
func (m Mark) String() string {
	return fmt.Sprintf("line %d col %d", m.Line, m.Column+1)
}

// advance moves the mark past one rune of the given encoded size.
// A line break resets the column and bumps the line; everything else
// advances the column.
func (m *Mark) advance(r rune, size int) {
	m.Index += size
	if r == '\n' {
		m.Line++
		m.Column = 0
	} else {
		m.Column++
	}
}
