// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Configuration surface for the scanner and parser.
// Options follow the functional-option pattern: unset fields fall back to
// defaults through the getters.

package yamlstream

// config holds configuration shared by a Scanner and the Parser that owns
// it.
type config struct {
	maxDepth              *int
	initialBufferCapacity *int
	maxAnchorLength       *int
	strictYAML12          *bool
	allowDuplicateAnchors *bool
	strict                *bool
	resolveAliasSentinel  *bool
}

const (
	defaultMaxDepth              = 1024
	defaultInitialBufferCapacity = 1024
	defaultMaxAnchorLength       = 256
)

// Option configures a Scanner or Parser at construction time.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth of the parser's state stack.
// Exceeding it yields ErrRecursionLimit instead of unbounded growth on
// adversarial input. The default is 1024.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = &depth
	}
}

// WithInitialBufferCapacity sets the initial capacity, in bytes, of the
// scanner's scalar assembly buffer. It affects only allocation behavior,
// never semantics. The default is 1024.
func WithInitialBufferCapacity(capacity int) Option {
	return func(c *config) {
		c.initialBufferCapacity = &capacity
	}
}

// WithMaxAnchorLength caps the length of anchor and alias names. The
// default is 256.
func WithMaxAnchorLength(length int) Option {
	return func(c *config) {
		c.maxAnchorLength = &length
	}
}

// WithStrictYAML12 makes a %YAML directive naming any version other than
// 1.2 an error. By default only a major version other than 1 is rejected.
func WithStrictYAML12(enable bool) Option {
	return func(c *config) {
		c.strictYAML12 = &enable
	}
}

// WithAllowDuplicateAnchors controls re-definition of an anchor name within
// one document. When allowed (the default), the last definition wins for
// aliases textually after it; when disallowed, re-definition yields
// ErrDuplicateAnchor.
func WithAllowDuplicateAnchors(allow bool) Option {
	return func(c *config) {
		c.allowDuplicateAnchors = &allow
	}
}

// WithStrict disables the permissive empty-scalar recovery. By default,
// tokens that do not fit the expected grammar position (a missing ':' after
// a key, a stray token in node position) are absorbed as empty scalars so
// the event stream stays well-formed; in strict mode they are returned as
// ErrUnexpectedToken.
func WithStrict(enable bool) Option {
	return func(c *config) {
		c.strict = &enable
	}
}

// WithResolveAliasSentinel restores the legacy behavior of emitting an
// alias event with the sentinel id -1 when an alias names an undefined
// anchor, instead of returning ErrUnresolvedAlias. Consumers must treat the
// sentinel as "unresolved".
func WithResolveAliasSentinel(enable bool) Option {
	return func(c *config) {
		c.resolveAliasSentinel = &enable
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config) getMaxDepth() int {
	if c.maxDepth != nil {
		return *c.maxDepth
	}
	return defaultMaxDepth
}

func (c *config) getInitialBufferCapacity() int {
	if c.initialBufferCapacity != nil {
		return *c.initialBufferCapacity
	}
	return defaultInitialBufferCapacity
}

func (c *config) getMaxAnchorLength() int {
	if c.maxAnchorLength != nil {
		return *c.maxAnchorLength
	}
	return defaultMaxAnchorLength
}

func (c *config) getStrictYAML12() bool {
	if c.strictYAML12 != nil {
		return *c.strictYAML12
	}
	return false
}

func (c *config) getAllowDuplicateAnchors() bool {
	if c.allowDuplicateAnchors != nil {
		return *c.allowDuplicateAnchors
	}
	return true
}

func (c *config) getStrict() bool {
	if c.strict != nil {
		return *c.strict
	}
	return false
}

func (c *config) getResolveAliasSentinel() bool {
	if c.resolveAliasSentinel != nil {
		return *c.resolveAliasSentinel
	}
	return false
}
