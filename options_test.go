// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cfg := newConfig()
	assert.Equal(t, 1024, cfg.getMaxDepth())
	assert.Equal(t, 1024, cfg.getInitialBufferCapacity())
	assert.Equal(t, 256, cfg.getMaxAnchorLength())
	assert.False(t, cfg.getStrictYAML12())
	assert.True(t, cfg.getAllowDuplicateAnchors())
	assert.False(t, cfg.getStrict())
	assert.False(t, cfg.getResolveAliasSentinel())
}

func TestConfigOverrides(t *testing.T) {
	cfg := newConfig(
		WithMaxDepth(8),
		WithInitialBufferCapacity(64),
		WithMaxAnchorLength(16),
		WithStrictYAML12(true),
		WithAllowDuplicateAnchors(false),
		WithStrict(true),
		WithResolveAliasSentinel(true),
	)
	assert.Equal(t, 8, cfg.getMaxDepth())
	assert.Equal(t, 64, cfg.getInitialBufferCapacity())
	assert.Equal(t, 16, cfg.getMaxAnchorLength())
	assert.True(t, cfg.getStrictYAML12())
	assert.False(t, cfg.getAllowDuplicateAnchors())
	assert.True(t, cfg.getStrict())
	assert.True(t, cfg.getResolveAliasSentinel())
}

func TestStrictYAML12Option(t *testing.T) {
	input := []byte("%YAML 1.1\n---\na\n")

	_, err := NewParser(input).Parse()
	assert.NoError(t, err)

	_, err = NewParser(input, WithStrictYAML12(true)).Parse()
	assert.ErrorIs(t, err, ErrInvalidDirective)
}

func TestMaxAnchorLengthOption(t *testing.T) {
	_, err := ScanAll([]byte("&abcdef a\n"), WithMaxAnchorLength(3))
	assert.ErrorIs(t, err, ErrUnexpectedToken)

	_, err = ScanAll([]byte("&abc a\n"), WithMaxAnchorLength(3))
	assert.NoError(t, err)
}
