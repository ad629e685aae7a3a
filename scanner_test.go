// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package yamlstream

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenSummary renders a token compactly for comparison in tests.
func tokenSummary(tok Token) string {
	switch tok.Type {
	case SCALAR_TOKEN:
		return fmt.Sprintf("SCALAR(%s) %q", tok.Style, tok.Value)
	case ANCHOR_TOKEN, ALIAS_TOKEN, RESERVED_DIRECTIVE_TOKEN:
		return fmt.Sprintf("%s %q", tok.Type, tok.Value)
	case TAG_TOKEN, TAG_DIRECTIVE_TOKEN:
		return fmt.Sprintf("%s %q %q", tok.Type, tok.Handle, tok.Suffix)
	case VERSION_DIRECTIVE_TOKEN:
		return fmt.Sprintf("%s %d.%d", tok.Type, tok.Major, tok.Minor)
	default:
		return tok.Type.String()
	}
}

func scanSummaries(t *testing.T, input string, opts ...Option) []string {
	t.Helper()
	tokens, err := ScanAll([]byte(input), opts...)
	require.NoError(t, err)
	summaries := make([]string, len(tokens))
	for i, tok := range tokens {
		summaries[i] = tokenSummary(tok)
	}
	return summaries
}

func TestScannerTokenStreams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  []string{"STREAM-START", "STREAM-END"},
		},
		{
			name:  "block sequence",
			input: "- a\n- b\n",
			want: []string{
				"STREAM-START",
				"BLOCK-ENTRY",
				`SCALAR(plain) "a"`,
				"BLOCK-ENTRY",
				`SCALAR(plain) "b"`,
				"STREAM-END",
			},
		},
		{
			name:  "block mapping",
			input: "a: b\nc: d\n",
			want: []string{
				"STREAM-START",
				`SCALAR(plain) "a"`,
				"VALUE",
				`SCALAR(plain) "b"`,
				`SCALAR(plain) "c"`,
				"VALUE",
				`SCALAR(plain) "d"`,
				"STREAM-END",
			},
		},
		{
			name:  "flow collections",
			input: "[a, {k: v}]\n",
			want: []string{
				"STREAM-START",
				"FLOW-SEQUENCE-START",
				`SCALAR(plain) "a"`,
				"FLOW-ENTRY",
				"FLOW-MAPPING-START",
				`SCALAR(plain) "k"`,
				"VALUE",
				`SCALAR(plain) "v"`,
				"FLOW-MAPPING-END",
				"FLOW-SEQUENCE-END",
				"STREAM-END",
			},
		},
		{
			name:  "document markers",
			input: "---\na\n...\n",
			want: []string{
				"STREAM-START",
				"DOCUMENT-START",
				`SCALAR(plain) "a"`,
				"DOCUMENT-END",
				"STREAM-END",
			},
		},
		{
			name:  "version directive",
			input: "%YAML 1.2\n---\n",
			want: []string{
				"STREAM-START",
				"VERSION-DIRECTIVE 1.2",
				"DOCUMENT-START",
				"STREAM-END",
			},
		},
		{
			name:  "tag directive and tag",
			input: "%TAG !e! tag:example.com,2000:\n---\n!e!foo bar\n",
			want: []string{
				"STREAM-START",
				`TAG-DIRECTIVE "!e!" "tag:example.com,2000:"`,
				"DOCUMENT-START",
				`TAG "!e!" "foo"`,
				`SCALAR(plain) "bar"`,
				"STREAM-END",
			},
		},
		{
			name:  "reserved directive",
			input: "%FOO bar baz\n---\n",
			want: []string{
				"STREAM-START",
				`RESERVED-DIRECTIVE "FOO"`,
				"DOCUMENT-START",
				"STREAM-END",
			},
		},
		{
			name:  "anchor and alias",
			input: "- &x a\n- *x\n",
			want: []string{
				"STREAM-START",
				"BLOCK-ENTRY",
				`ANCHOR "x"`,
				`SCALAR(plain) "a"`,
				"BLOCK-ENTRY",
				`ALIAS "x"`,
				"STREAM-END",
			},
		},
		{
			name:  "verbatim secondary and local tags",
			input: "- !<tag:example.com,2000:foo> a\n- !!str b\n- !local c\n",
			want: []string{
				"STREAM-START",
				"BLOCK-ENTRY",
				`TAG "" "tag:example.com,2000:foo"`,
				`SCALAR(plain) "a"`,
				"BLOCK-ENTRY",
				`TAG "!!" "str"`,
				`SCALAR(plain) "b"`,
				"BLOCK-ENTRY",
				`TAG "!" "local"`,
				`SCALAR(plain) "c"`,
				"STREAM-END",
			},
		},
		{
			name:  "explicit key",
			input: "? a\n: b\n",
			want: []string{
				"STREAM-START",
				"KEY",
				`SCALAR(plain) "a"`,
				"VALUE",
				`SCALAR(plain) "b"`,
				"STREAM-END",
			},
		},
		{
			name:  "plain scalar folds across lines",
			input: "a\nb\n",
			want: []string{
				"STREAM-START",
				`SCALAR(plain) "a b"`,
				"STREAM-END",
			},
		},
		{
			name:  "comments are skipped",
			input: "# head\na: b # trailing\n",
			want: []string{
				"STREAM-START",
				`SCALAR(plain) "a"`,
				"VALUE",
				`SCALAR(plain) "b"`,
				"STREAM-END",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanSummaries(t, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("token stream mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerBlockScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		style ScalarStyle
	}{
		{"literal clip", "|\n  a\n  b\n", "a\nb\n", LITERAL_SCALAR_STYLE},
		{"literal strip", "|-\n  a\n\n", "a", LITERAL_SCALAR_STYLE},
		{"literal keep", "|+\n  a\n\n", "a\n\n", LITERAL_SCALAR_STYLE},
		{"folded", ">\n  a\n  b\n\n  c\n", "a b\nc\n", FOLDED_SCALAR_STYLE},
		{"folded keeps deeper indentation", ">\n  a\n   b\n", "a\n b\n", FOLDED_SCALAR_STYLE},
		{"explicit indentation indicator", "|2\n   a\n", " a\n", LITERAL_SCALAR_STYLE},
		{"chomping before indicator", "|-2\n   a\n", " a", LITERAL_SCALAR_STYLE},
		{"empty literal", "|\n", "", LITERAL_SCALAR_STYLE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := ScanAll([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, tokens, 3)
			assert.Equal(t, SCALAR_TOKEN, tokens[1].Type)
			assert.Equal(t, tt.style, tokens[1].Style)
			assert.Equal(t, tt.want, tokens[1].Value)
		})
	}
}

func TestScannerQuotedScalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		style ScalarStyle
	}{
		{"single quoted", "'abc'", "abc", SINGLE_QUOTED_SCALAR_STYLE},
		{"escaped single quote", "'it''s'", "it's", SINGLE_QUOTED_SCALAR_STYLE},
		{"single quoted break folds", "'a\nb'", "a b", SINGLE_QUOTED_SCALAR_STYLE},
		{"single quoted blank line kept", "'a\n\nb'", "a\nb", SINGLE_QUOTED_SCALAR_STYLE},
		{"double quoted", `"abc"`, "abc", DOUBLE_QUOTED_SCALAR_STYLE},
		{"simple escapes", `"a\tb\nc"`, "a\tb\nc", DOUBLE_QUOTED_SCALAR_STYLE},
		{"hex escapes", `"\x41é\U0001F600"`, "Aé\U0001F600", DOUBLE_QUOTED_SCALAR_STYLE},
		{"unicode whitespace escapes", `"\N\_"`, "\u0085\u00a0", DOUBLE_QUOTED_SCALAR_STYLE},
		{"double quoted break folds", "\"a\nb\"", "a b", DOUBLE_QUOTED_SCALAR_STYLE},
		{"escaped line break elided", "\"a\\\nb\"", "ab", DOUBLE_QUOTED_SCALAR_STYLE},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := ScanAll([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, tokens, 3)
			assert.Equal(t, SCALAR_TOKEN, tokens[1].Type)
			assert.Equal(t, tt.style, tokens[1].Style)
			assert.Equal(t, tt.want, tokens[1].Value)
		})
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  error
	}{
		{name: "unterminated single quote", input: "'abc", want: ErrUnterminatedScalar},
		{name: "unterminated double quote", input: `"abc`, want: ErrUnterminatedScalar},
		{name: "document marker in quoted scalar", input: "\"a\n---\n", want: ErrUnexpectedDocumentMarker},
		{name: "unknown escape", input: `"\q"`, want: ErrInvalidEscape},
		{name: "truncated hex escape", input: `"\x4"`, want: ErrInvalidEscape},
		{name: "surrogate escape", input: `"\uD800"`, want: ErrInvalidEscape},
		{name: "incompatible version", input: "%YAML 2.0\n", want: ErrInvalidDirective},
		{name: "non-1.2 under strict", input: "%YAML 1.1\n", opts: []Option{WithStrictYAML12(true)}, want: ErrInvalidDirective},
		{name: "missing directive name", input: "% foo\n", want: ErrInvalidDirective},
		{name: "zero indentation indicator", input: "|0\n", want: ErrInvalidIndentation},
		{name: "tab in block scalar indentation", input: "|2\n\ta\n", want: ErrInvalidIndentation},
		{name: "unmatched closing bracket", input: "]", want: ErrUnbalancedFlow},
		{name: "unmatched closing brace", input: "}", want: ErrUnbalancedFlow},
		{name: "flow entry outside flow", input: ", a", want: ErrUnexpectedToken},
		{name: "reserved anchor character", input: "&@ a", want: ErrUnexpectedToken},
		{name: "anchor name too long", input: "&abcdef a", opts: []Option{WithMaxAnchorLength(3)}, want: ErrUnexpectedToken},
		{name: "character that starts no token", input: "@foo", want: ErrUnexpectedToken},
		{name: "unterminated verbatim tag", input: "!<tag:foo", want: ErrUnterminatedScalar},
		{name: "bad uri escape", input: "%TAG !e! tag:%zz\n", want: ErrInvalidEscape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanAll([]byte(tt.input), tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var scanErr *ScanError
			require.ErrorAs(t, err, &scanErr)
			assert.NotEmpty(t, scanErr.Info)
		})
	}
}

func TestScannerPeekNextProtocol(t *testing.T) {
	s := NewScanner([]byte("a\n"))

	// Peek is idempotent until the token is consumed.
	tok1, err := s.Peek()
	require.NoError(t, err)
	tok2, err := s.Peek()
	require.NoError(t, err)
	assert.Same(t, tok1, tok2)
	assert.Equal(t, STREAM_START_TOKEN, tok1.Type)

	consumed := s.Next()
	assert.Equal(t, STREAM_START_TOKEN, consumed.Type)

	// Next without a preceding Peek yields NO_TOKEN.
	assert.Equal(t, NO_TOKEN, s.Next().Type)

	tok3, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, SCALAR_TOKEN, tok3.Type)
	assert.Equal(t, "a", tok3.Value)
}

func TestScannerStickyError(t *testing.T) {
	s := NewScanner([]byte("@oops"))

	_, err := s.Peek()
	require.NoError(t, err) // stream start is fine
	s.Next()

	_, err = s.Peek()
	require.Error(t, err)
	_, again := s.Peek()
	assert.Equal(t, err, again)
}

func TestScannerMarks(t *testing.T) {
	tokens, err := ScanAll([]byte("a: b\nc: d\n"))
	require.NoError(t, err)

	type pos struct {
		line, col int
	}
	var got []pos
	for _, tok := range tokens {
		got = append(got, pos{tok.Mark.Line, tok.Mark.Column})
	}
	want := []pos{
		{1, 0}, // stream start
		{1, 0}, // a
		{1, 1}, // :
		{1, 3}, // b
		{2, 0}, // c
		{2, 1}, // :
		{2, 3}, // d
		{3, 0}, // stream end
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(pos{})); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerReader(t *testing.T) {
	s, err := NewScannerFromReader(strings.NewReader("x: 1\n"))
	require.NoError(t, err)
	tok, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, STREAM_START_TOKEN, tok.Type)
}
