// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Scanner stage: transforms the input character stream into a token stream.
// The scanner classifies the next construct by its leading character and
// hands tokens to the parser through a peek/consume protocol with a single
// lookahead slot.

package yamlstream

import (
	"io"
	"unicode/utf8"
)

// Scanner produces Tokens from raw input. It owns the input exclusively;
// at most one token is buffered between Peek and Next.
type Scanner struct {
	input []byte
	pos   int
	mark  Mark

	cfg     *config
	indents *indentStack

	// ownIndents follows block indentation from the token stream alone:
	// columns of '-', '?' and implicit keys, rolled and unrolled the way
	// libyaml does. It keeps multi-line scalars bounded even when the
	// scanner runs without a parser maintaining the shared stack.
	ownIndents []int

	// lastMark is the start of the most recently fetched token, used to
	// recover the key column when a ':' is fetched.
	lastMark Mark

	tok *Token
	err error

	streamStartProduced bool
	streamEndProduced   bool

	// The number of unclosed '[' and '{' indicators.
	flowLevel int

	// Scratch buffer for scalar assembly, reused across tokens.
	buf []byte
}

// NewScanner creates a Scanner over the given input.
func NewScanner(input []byte, opts ...Option) *Scanner {
	return newScanner(input, newConfig(opts...), &indentStack{})
}

// NewScannerFromReader creates a Scanner reading the whole input from r.
func NewScannerFromReader(r io.Reader, opts ...Option) (*Scanner, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewScanner(input, opts...), nil
}

func newScanner(input []byte, cfg *config, indents *indentStack) *Scanner {
	return &Scanner{
		input:   input,
		mark:    Mark{Line: 1},
		cfg:     cfg,
		indents: indents,
		buf:     make([]byte, 0, cfg.getInitialBufferCapacity()),
	}
}

// Peek returns the next token without consuming it. It is idempotent: the
// token is scanned once and cached until Next. A scan failure is sticky.
func (s *Scanner) Peek() (*Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.tok == nil {
		tok, err := s.fetch()
		if err != nil {
			s.err = err
			return nil, err
		}
		s.lastMark = tok.Mark
		s.tok = &tok
	}
	return s.tok, nil
}

// Next consumes the token most recently returned by Peek. Consuming without
// a prior successful Peek yields a NO_TOKEN token.
func (s *Scanner) Next() Token {
	if s.tok == nil {
		return Token{Type: NO_TOKEN, Mark: s.mark}
	}
	tok := *s.tok
	s.tok = nil
	return tok
}

// Mark returns the scanner's current position.
func (s *Scanner) Mark() Mark {
	return s.mark
}

//-----------------------------------------------------------------------------
// Character access
//-----------------------------------------------------------------------------

func (s *Scanner) eof() bool {
	return s.pos >= len(s.input)
}

// at returns the byte i positions ahead, or 0 past the end of input.
func (s *Scanner) at(i int) byte {
	if s.pos+i >= len(s.input) {
		return 0
	}
	return s.input[s.pos+i]
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}

// blankzAt reports whether the byte i positions ahead is a blank, a line
// break, or past the end of input.
func (s *Scanner) blankzAt(i int) bool {
	if s.pos+i >= len(s.input) {
		return true
	}
	b := s.input[s.pos+i]
	return isBlank(b) || isLineBreak(b)
}

func isFlowIndicator(b byte) bool {
	switch b {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) int {
	switch {
	case isDigit(b):
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

func isWordChar(b byte) bool {
	return isDigit(b) ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') ||
		b == '-' || b == '_'
}

// isURIChar covers the characters permitted in tag URIs and directive
// prefixes. '%' is handled separately as the escape introducer.
func isURIChar(b byte) bool {
	if isWordChar(b) {
		return true
	}
	switch b {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',',
		'.', '!', '~', '*', '\'', '(', ')', '[', ']':
		return true
	}
	return false
}

// isTagChar is isURIChar minus the flow indicators, which must terminate a
// tag token so that tags work inside flow collections.
func isTagChar(b byte) bool {
	return isURIChar(b) && !isFlowIndicator(b)
}

// skip advances past one rune, updating the mark.
func (s *Scanner) skip() {
	r, size := utf8.DecodeRune(s.input[s.pos:])
	s.pos += size
	s.mark.advance(r, size)
}

// readRune appends the current rune to buf and advances past it.
func (s *Scanner) readRune(buf []byte) []byte {
	r, size := utf8.DecodeRune(s.input[s.pos:])
	buf = append(buf, s.input[s.pos:s.pos+size]...)
	s.pos += size
	s.mark.advance(r, size)
	return buf
}

// skipBreak advances past one line break, treating CRLF as a single break.
func (s *Scanner) skipBreak() {
	if s.at(0) == '\r' && s.at(1) == '\n' {
		s.pos += 2
		s.mark.Index += 2
	} else {
		s.pos++
		s.mark.Index++
	}
	s.mark.Line++
	s.mark.Column = 0
}

// readBreak consumes one line break and appends it to buf normalized to
// '\n'.
func (s *Scanner) readBreak(buf []byte) []byte {
	s.skipBreak()
	return append(buf, '\n')
}

//-----------------------------------------------------------------------------
// Token dispatch
//-----------------------------------------------------------------------------

// skipBOM consumes a leading UTF-8 byte order mark, if present. Encoding
// detection beyond that is the caller's concern.
func (s *Scanner) skipBOM() {
	if s.at(0) == 0xEF && s.at(1) == 0xBB && s.at(2) == 0xBF {
		s.pos += 3
		s.mark.Index += 3
	}
}

// skipToNextToken eats whitespace, comments and line breaks up to the start
// of the next token.
func (s *Scanner) skipToNextToken() {
	for !s.eof() {
		switch b := s.at(0); {
		case isBlank(b):
			s.skip()
		case b == '#':
			for !s.eof() && !isLineBreak(s.at(0)) {
				s.skip()
			}
		case isLineBreak(b):
			s.skipBreak()
		default:
			return
		}
	}
}

// ownTop returns the innermost column of the scanner's own indent follow,
// or -1 when none is active.
func (s *Scanner) ownTop() int {
	if len(s.ownIndents) == 0 {
		return -1
	}
	return s.ownIndents[len(s.ownIndents)-1]
}

// parentIndent is the column of the innermost enclosing block construct, as
// the wider of the parser-maintained stack and the scanner's own follow.
// Multi-line scalars must stay strictly to the right of it.
func (s *Scanner) parentIndent() int {
	if top := s.indents.topColumn(); top > s.ownTop() {
		return top
	}
	return s.ownTop()
}

func (s *Scanner) rollIndent(column int) {
	if s.flowLevel == 0 && column > s.ownTop() {
		s.ownIndents = append(s.ownIndents, column)
	}
}

func (s *Scanner) unrollIndent(column int) {
	for len(s.ownIndents) > 0 && s.ownIndents[len(s.ownIndents)-1] > column {
		s.ownIndents = s.ownIndents[:len(s.ownIndents)-1]
	}
}

// atDocumentIndicator reports whether the scanner sits on a '---' or '...'
// marker: column 0, followed by whitespace, EOF or a flow indicator.
func (s *Scanner) atDocumentIndicator() bool {
	if s.mark.Column != 0 {
		return false
	}
	b := s.at(0)
	if b != '-' && b != '.' {
		return false
	}
	if s.at(1) != b || s.at(2) != b {
		return false
	}
	return s.blankzAt(3) || isFlowIndicator(s.at(3))
}

// fetch scans the next token. Called only through Peek.
func (s *Scanner) fetch() (Token, error) {
	if !s.streamStartProduced {
		s.streamStartProduced = true
		s.skipBOM()
		return Token{Type: STREAM_START_TOKEN, Mark: s.mark}, nil
	}

	s.skipToNextToken()

	if s.eof() {
		s.streamEndProduced = true
		return Token{Type: STREAM_END_TOKEN, Mark: s.mark}, nil
	}

	if s.flowLevel == 0 {
		s.unrollIndent(s.mark.Column)
	}

	mark := s.mark
	b := s.at(0)

	if s.mark.Column == 0 && b == '%' {
		return s.scanDirective()
	}

	if s.atDocumentIndicator() {
		s.ownIndents = s.ownIndents[:0]
		typ := DOCUMENT_START_TOKEN
		if b == '.' {
			typ = DOCUMENT_END_TOKEN
		}
		s.skip()
		s.skip()
		s.skip()
		return Token{Type: typ, Mark: mark}, nil
	}

	switch {
	case b == '[':
		s.flowLevel++
		s.skip()
		return Token{Type: FLOW_SEQUENCE_START_TOKEN, Mark: mark}, nil

	case b == '{':
		s.flowLevel++
		s.skip()
		return Token{Type: FLOW_MAPPING_START_TOKEN, Mark: mark}, nil

	case b == ']':
		if s.flowLevel == 0 {
			return Token{}, scanErrorf(ErrUnbalancedFlow, mark,
				"found ']' with no matching '['")
		}
		s.flowLevel--
		s.skip()
		return Token{Type: FLOW_SEQUENCE_END_TOKEN, Mark: mark}, nil

	case b == '}':
		if s.flowLevel == 0 {
			return Token{}, scanErrorf(ErrUnbalancedFlow, mark,
				"found '}' with no matching '{'")
		}
		s.flowLevel--
		s.skip()
		return Token{Type: FLOW_MAPPING_END_TOKEN, Mark: mark}, nil

	case b == ',':
		if s.flowLevel == 0 {
			return Token{}, scanErrorf(ErrUnexpectedToken, mark,
				"found ',' outside a flow collection")
		}
		s.skip()
		return Token{Type: FLOW_ENTRY_TOKEN, Mark: mark}, nil

	case b == '-' && s.blankzAt(1):
		if s.flowLevel > 0 {
			return Token{}, scanErrorf(ErrUnexpectedToken, mark,
				"block sequence entries are not allowed in this context")
		}
		s.rollIndent(mark.Column)
		s.skip()
		return Token{Type: BLOCK_ENTRY_TOKEN, Mark: mark}, nil

	case b == '?' && (s.flowLevel > 0 || s.blankzAt(1)):
		s.rollIndent(mark.Column)
		s.skip()
		return Token{Type: KEY_TOKEN, Mark: mark}, nil

	case b == ':' && (s.flowLevel > 0 || s.blankzAt(1)):
		// The mapping opened by an implicit key starts at the key's
		// column, not at the ':'.
		keyColumn := mark.Column
		if s.lastMark.Line == mark.Line {
			keyColumn = s.lastMark.Column
		}
		s.rollIndent(keyColumn)
		s.skip()
		return Token{Type: VALUE_TOKEN, Mark: mark}, nil

	case b == '&':
		return s.scanAnchor(ANCHOR_TOKEN)

	case b == '*':
		return s.scanAnchor(ALIAS_TOKEN)

	case b == '!':
		return s.scanTag()

	case b == '|' && s.flowLevel == 0:
		return s.scanBlockScalar(true)

	case b == '>' && s.flowLevel == 0:
		return s.scanBlockScalar(false)

	case b == '\'':
		return s.scanFlowScalar(true)

	case b == '"':
		return s.scanFlowScalar(false)
	}

	if s.canStartPlainScalar(b) {
		return s.scanPlainScalar()
	}
	return Token{}, scanErrorf(ErrUnexpectedToken, mark,
		"found character %q that cannot start any token", b)
}

// canStartPlainScalar reports whether b may begin a plain scalar in the
// current context. Indicators are excluded, except '-', '?' and ':' when
// immediately followed by a non-blank character.
func (s *Scanner) canStartPlainScalar(b byte) bool {
	switch b {
	case '-':
		return !s.blankzAt(1)
	case '?', ':':
		return s.flowLevel == 0 && !s.blankzAt(1)
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>',
		'\'', '"', '%', '@', '`':
		return false
	}
	return !isBlank(b) && !isLineBreak(b)
}

// scanAnchor scans an '&' anchor or a '*' alias token. The name runs until
// whitespace, a flow indicator or a comment introducer.
func (s *Scanner) scanAnchor(typ TokenType) (Token, error) {
	noun := "anchor"
	if typ == ALIAS_TOKEN {
		noun = "alias"
	}
	mark := s.mark
	s.skip() // '&' or '*'

	if b := s.at(0); b == '@' || b == '`' {
		return Token{}, scanErrorf(ErrUnexpectedToken, mark,
			"while scanning an %s: found reserved character %q", noun, b)
	}

	start := s.pos
	for !s.blankzAt(0) && !isFlowIndicator(s.at(0)) && s.at(0) != '#' {
		s.skip()
	}
	name := string(s.input[start:s.pos])
	if name == "" {
		return Token{}, scanErrorf(ErrUnexpectedToken, mark,
			"while scanning an %s: did not find expected %s name", noun, noun)
	}
	if limit := s.cfg.getMaxAnchorLength(); len(name) > limit {
		return Token{}, scanErrorf(ErrUnexpectedToken, mark,
			"while scanning an %s: name longer than %d characters", noun, limit)
	}
	return Token{Type: typ, Mark: mark, Value: name}, nil
}
