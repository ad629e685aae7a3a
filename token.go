// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Token vocabulary shared between the scanner and the parser.

package yamlstream

// TokenType identifies the kind of a lexical token.
type TokenType int

// Token type constants. BLOCK_SEQUENCE_START_TOKEN, BLOCK_MAPPING_START_TOKEN
// and BLOCK_END_TOKEN are part of the vocabulary for downstream token
// consumers, but the scanner never produces them: block structure is decided
// by the parser's indentation stack, not by synthetic tokens.
const (
	NO_TOKEN TokenType = iota

	STREAM_START_TOKEN
	STREAM_END_TOKEN
	VERSION_DIRECTIVE_TOKEN
	TAG_DIRECTIVE_TOKEN
	RESERVED_DIRECTIVE_TOKEN
	DOCUMENT_START_TOKEN
	DOCUMENT_END_TOKEN
	BLOCK_SEQUENCE_START_TOKEN
	BLOCK_MAPPING_START_TOKEN
	BLOCK_END_TOKEN
	FLOW_SEQUENCE_START_TOKEN
	FLOW_SEQUENCE_END_TOKEN
	FLOW_MAPPING_START_TOKEN
	FLOW_MAPPING_END_TOKEN
	BLOCK_ENTRY_TOKEN
	FLOW_ENTRY_TOKEN
	KEY_TOKEN
	VALUE_TOKEN
	ALIAS_TOKEN
	ANCHOR_TOKEN
	TAG_TOKEN
	SCALAR_TOKEN
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case NO_TOKEN:
		return "NO-TOKEN"
	case STREAM_START_TOKEN:
		return "STREAM-START"
	case STREAM_END_TOKEN:
		return "STREAM-END"
	case VERSION_DIRECTIVE_TOKEN:
		return "VERSION-DIRECTIVE"
	case TAG_DIRECTIVE_TOKEN:
		return "TAG-DIRECTIVE"
	case RESERVED_DIRECTIVE_TOKEN:
		return "RESERVED-DIRECTIVE"
	case DOCUMENT_START_TOKEN:
		return "DOCUMENT-START"
	case DOCUMENT_END_TOKEN:
		return "DOCUMENT-END"
	case BLOCK_SEQUENCE_START_TOKEN:
		return "BLOCK-SEQUENCE-START"
	case BLOCK_MAPPING_START_TOKEN:
		return "BLOCK-MAPPING-START"
	case BLOCK_END_TOKEN:
		return "BLOCK-END"
	case FLOW_SEQUENCE_START_TOKEN:
		return "FLOW-SEQUENCE-START"
	case FLOW_SEQUENCE_END_TOKEN:
		return "FLOW-SEQUENCE-END"
	case FLOW_MAPPING_START_TOKEN:
		return "FLOW-MAPPING-START"
	case FLOW_MAPPING_END_TOKEN:
		return "FLOW-MAPPING-END"
	case BLOCK_ENTRY_TOKEN:
		return "BLOCK-ENTRY"
	case FLOW_ENTRY_TOKEN:
		return "FLOW-ENTRY"
	case KEY_TOKEN:
		return "KEY"
	case VALUE_TOKEN:
		return "VALUE"
	case ALIAS_TOKEN:
		return "ALIAS"
	case ANCHOR_TOKEN:
		return "ANCHOR"
	case TAG_TOKEN:
		return "TAG"
	case SCALAR_TOKEN:
		return "SCALAR"
	}
	return "<unknown token type>"
}

// ScalarStyle identifies the presentation style a scalar was written in.
// It governs both the scanning rules that produced the text and the
// escaping/folding semantics a consumer may want to preserve.
type ScalarStyle int

const (
	PLAIN_SCALAR_STYLE ScalarStyle = iota
	SINGLE_QUOTED_SCALAR_STYLE
	DOUBLE_QUOTED_SCALAR_STYLE
	LITERAL_SCALAR_STYLE
	FOLDED_SCALAR_STYLE
)

// String returns a string representation of the scalar style.
func (ss ScalarStyle) String() string {
	switch ss {
	case PLAIN_SCALAR_STYLE:
		return "plain"
	case SINGLE_QUOTED_SCALAR_STYLE:
		return "single-quoted"
	case DOUBLE_QUOTED_SCALAR_STYLE:
		return "double-quoted"
	case LITERAL_SCALAR_STYLE:
		return "literal"
	case FOLDED_SCALAR_STYLE:
		return "folded"
	}
	return "<unknown scalar style>"
}

// Token is one lexical unit of the input stream. Payload fields are used
// depending on the type:
//
//	SCALAR_TOKEN              Value, Style
//	ANCHOR_TOKEN, ALIAS_TOKEN Value (the name)
//	TAG_TOKEN                 Handle, Suffix
//	VERSION_DIRECTIVE_TOKEN   Major, Minor
//	TAG_DIRECTIVE_TOKEN       Handle (the handle), Suffix (the prefix)
//	RESERVED_DIRECTIVE_TOKEN  Value (the directive name)
//
// Tokens are handed out by value; a token is produced lazily, held in the
// scanner's single lookahead slot, and consumed exactly once.
type Token struct {
	Type TokenType
	Mark Mark

	Value string
	Style ScalarStyle

	Handle string
	Suffix string

	Major int
	Minor int
}
