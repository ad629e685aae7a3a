// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkString(t *testing.T) {
	assert.Equal(t, "line 1 col 1", Mark{Line: 1, Column: 0}.String())
	assert.Equal(t, "line 4 col 9", Mark{Index: 40, Line: 4, Column: 8}.String())
}

func TestMarkAdvance(t *testing.T) {
	m := Mark{Line: 1}

	m.advance('a', 1)
	assert.Equal(t, Mark{Index: 1, Line: 1, Column: 1}, m)

	// Multi-byte runes advance the column by one and the index by their
	// encoded size.
	m.advance('é', 2)
	assert.Equal(t, Mark{Index: 3, Line: 1, Column: 2}, m)

	m.advance('\n', 1)
	assert.Equal(t, Mark{Index: 4, Line: 2, Column: 0}, m)

	m.advance('x', 1)
	assert.Equal(t, Mark{Index: 5, Line: 2, Column: 1}, m)
}
