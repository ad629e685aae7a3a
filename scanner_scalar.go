// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Scalar scanning: block scalars with chomping and folding, quoted scalars
// with escape processing, and plain scalars with indentation-sensitive
// continuation.

package yamlstream

import "unicode/utf8"

//-----------------------------------------------------------------------------
// Block scalars
//-----------------------------------------------------------------------------

// scanBlockScalar scans a '|' literal or '>' folded scalar. The indentation
// baseline is the explicit indent from the header if given, otherwise the
// indentation of the first non-empty content line.
func (s *Scanner) scanBlockScalar(literal bool) (Token, error) {
	mark := s.mark
	s.skip() // '|' or '>'

	// The header allows a chomping indicator and an indentation indicator,
	// in either order, at most one of each.
	chomping := 0 // -1 strip, 0 clip, +1 keep
	increment := 0
	if b := s.at(0); b == '+' || b == '-' {
		if b == '+' {
			chomping = 1
		} else {
			chomping = -1
		}
		s.skip()
		if isDigit(s.at(0)) {
			if s.at(0) == '0' {
				return Token{}, scanErrorf(ErrInvalidIndentation, mark,
					"while scanning a block scalar: found an indentation indicator equal to 0")
			}
			increment = int(s.at(0) - '0')
			s.skip()
		}
	} else if isDigit(b) {
		if b == '0' {
			return Token{}, scanErrorf(ErrInvalidIndentation, mark,
				"while scanning a block scalar: found an indentation indicator equal to 0")
		}
		increment = int(b - '0')
		s.skip()
		if b := s.at(0); b == '+' || b == '-' {
			if b == '+' {
				chomping = 1
			} else {
				chomping = -1
			}
			s.skip()
		}
	}

	// Only blanks and a comment may follow the header on the same line.
	for isBlank(s.at(0)) {
		s.skip()
	}
	if s.at(0) == '#' {
		for !s.eof() && !isLineBreak(s.at(0)) {
			s.skip()
		}
	}
	if !s.eof() && !isLineBreak(s.at(0)) {
		return Token{}, scanErrorf(ErrUnexpectedToken, mark,
			"while scanning a block scalar: did not find expected comment or line break")
	}
	if !s.eof() {
		s.skipBreak()
	}

	indent := 0
	if increment > 0 {
		if parent := s.parentIndent(); parent >= 0 {
			indent = parent + increment
		} else {
			indent = increment
		}
	}

	content := s.buf[:0]
	var leadingBreak, trailingBreaks []byte
	var err error
	trailingBreaks, err = s.scanBlockScalarBreaks(&indent, trailingBreaks, mark)
	if err != nil {
		return Token{}, err
	}

	var leadingBlank, trailingBlank bool
	for s.mark.Column == indent && !s.eof() {
		// At the first content column of a non-empty line.
		trailingBlank = isBlank(s.at(0))

		// A single break between two content lines folds to a space; lines
		// that are more indented than the baseline keep their breaks.
		if !literal && !leadingBlank && !trailingBlank &&
			len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				content = append(content, ' ')
			}
		} else {
			content = append(content, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]

		content = append(content, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = isBlank(s.at(0))

		for !s.eof() && !isLineBreak(s.at(0)) {
			content = s.readRune(content)
		}
		if s.eof() {
			break
		}
		leadingBreak = s.readBreak(leadingBreak[:0])

		trailingBreaks, err = s.scanBlockScalarBreaks(&indent, trailingBreaks, mark)
		if err != nil {
			return Token{}, err
		}
	}

	// Chomp the tail: strip drops every trailing break, clip keeps the
	// final content break, keep preserves trailing blank lines too.
	if chomping != -1 {
		content = append(content, leadingBreak...)
	}
	if chomping == 1 {
		content = append(content, trailingBreaks...)
	}

	style := LITERAL_SCALAR_STYLE
	if !literal {
		style = FOLDED_SCALAR_STYLE
	}
	s.buf = content
	return Token{Type: SCALAR_TOKEN, Mark: mark, Value: string(content), Style: style}, nil
}

// scanBlockScalarBreaks eats indentation spaces and line breaks between
// content lines, collecting the breaks. While the baseline is still
// unknown (indent == 0) it records the maximum indentation seen and
// resolves the baseline when the first non-empty line is found.
func (s *Scanner) scanBlockScalarBreaks(indent *int, breaks []byte, start Mark) ([]byte, error) {
	maxIndent := 0
	for {
		for (*indent == 0 || s.mark.Column < *indent) && s.at(0) == ' ' {
			s.skip()
		}
		if s.mark.Column > maxIndent {
			maxIndent = s.mark.Column
		}
		if (*indent == 0 || s.mark.Column < *indent) && s.at(0) == '\t' {
			return breaks, scanErrorf(ErrInvalidIndentation, start,
				"while scanning a block scalar: found a tab character where an indentation space is expected")
		}
		if s.eof() || !isLineBreak(s.at(0)) {
			break
		}
		breaks = s.readBreak(breaks)
	}

	if *indent == 0 {
		*indent = maxIndent
		if min := s.parentIndent() + 1; *indent < min {
			*indent = min
		}
		if *indent < 1 {
			*indent = 1
		}
	}
	return breaks, nil
}

//-----------------------------------------------------------------------------
// Quoted scalars
//-----------------------------------------------------------------------------

// scanFlowScalar scans a single- or double-quoted scalar. Line breaks fold
// to a single space with continuation indentation discarded; blank lines
// are preserved minus one break.
func (s *Scanner) scanFlowScalar(single bool) (Token, error) {
	mark := s.mark
	s.skip() // opening quote

	content := s.buf[:0]
	var leadingBreak, trailingBreaks, whitespaces []byte
	closed := false

	for !closed {
		if s.atDocumentIndicator() {
			return Token{}, scanErrorf(ErrUnexpectedDocumentMarker, mark,
				"while scanning a quoted scalar: found unexpected document indicator")
		}
		if s.eof() {
			return Token{}, scanErrorf(ErrUnterminatedScalar, mark,
				"while scanning a quoted scalar: found unexpected end of stream")
		}

		leadingBlanks := false
	content:
		for !s.blankzAt(0) {
			b := s.at(0)
			switch {
			case single && b == '\'' && s.at(1) == '\'':
				// An escaped single quote.
				content = append(content, '\'')
				s.skip()
				s.skip()

			case single && b == '\'', !single && b == '"':
				closed = true
				break content

			case !single && b == '\\' && isLineBreak(s.at(1)):
				// An escaped line break: elided, continuation trimmed.
				s.skip()
				s.skipBreak()
				leadingBlanks = true
				break content

			case !single && b == '\\':
				var err error
				content, err = s.scanEscape(content)
				if err != nil {
					return Token{}, err
				}

			default:
				content = s.readRune(content)
			}
		}
		if closed {
			break
		}

		for isBlank(s.at(0)) || isLineBreak(s.at(0)) {
			if isBlank(s.at(0)) {
				// Continuation indentation is discarded after a break.
				if !leadingBlanks {
					whitespaces = s.readRune(whitespaces)
				} else {
					s.skip()
				}
			} else {
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.readBreak(leadingBreak[:0])
					leadingBlanks = true
				} else {
					trailingBreaks = s.readBreak(trailingBreaks)
				}
			}
		}

		// Join: fold a single break to a space, keep blank lines minus one
		// break, or flush pending same-line whitespace.
		if leadingBlanks {
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					content = append(content, ' ')
				} else {
					content = append(content, trailingBreaks...)
				}
			} else {
				content = append(content, leadingBreak...)
				content = append(content, trailingBreaks...)
			}
			leadingBreak = leadingBreak[:0]
			trailingBreaks = trailingBreaks[:0]
		} else {
			content = append(content, whitespaces...)
			whitespaces = whitespaces[:0]
		}
	}

	s.skip() // closing quote

	style := SINGLE_QUOTED_SCALAR_STYLE
	if !single {
		style = DOUBLE_QUOTED_SCALAR_STYLE
	}
	s.buf = content
	return Token{Type: SCALAR_TOKEN, Mark: mark, Value: string(content), Style: style}, nil
}

// scanEscape processes one backslash escape in a double-quoted scalar and
// appends the decoded bytes to content.
func (s *Scanner) scanEscape(content []byte) ([]byte, error) {
	escMark := s.mark
	s.skip() // '\'

	codeLength := 0
	switch b := s.at(0); b {
	case '0':
		content = append(content, 0x00)
	case 'a':
		content = append(content, 0x07)
	case 'b':
		content = append(content, 0x08)
	case 't', '\t':
		content = append(content, 0x09)
	case 'n':
		content = append(content, 0x0A)
	case 'v':
		content = append(content, 0x0B)
	case 'f':
		content = append(content, 0x0C)
	case 'r':
		content = append(content, 0x0D)
	case 'e':
		content = append(content, 0x1B)
	case ' ':
		content = append(content, 0x20)
	case '"':
		content = append(content, '"')
	case '/':
		content = append(content, '/')
	case '\\':
		content = append(content, '\\')
	case 'N': // NEL (#x85)
		content = append(content, 0xC2, 0x85)
	case '_': // NBSP (#xA0)
		content = append(content, 0xC2, 0xA0)
	case 'L': // LS (#x2028)
		content = append(content, 0xE2, 0x80, 0xA8)
	case 'P': // PS (#x2029)
		content = append(content, 0xE2, 0x80, 0xA9)
	case 'x':
		codeLength = 2
	case 'u':
		codeLength = 4
	case 'U':
		codeLength = 8
	default:
		return content, scanErrorf(ErrInvalidEscape, escMark,
			"while scanning a double-quoted scalar: found unknown escape character %q", b)
	}
	s.skip()

	if codeLength == 0 {
		return content, nil
	}

	value := 0
	for k := 0; k < codeLength; k++ {
		b := s.at(0)
		if !isHexDigit(b) {
			return content, scanErrorf(ErrInvalidEscape, escMark,
				"while scanning a double-quoted scalar: did not find expected hexadecimal number")
		}
		value = value<<4 + hexValue(b)
		s.skip()
	}
	if (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		return content, scanErrorf(ErrInvalidEscape, escMark,
			"while scanning a double-quoted scalar: found invalid Unicode character escape code")
	}
	return utf8.AppendRune(content, rune(value)), nil
}

//-----------------------------------------------------------------------------
// Plain scalars
//-----------------------------------------------------------------------------

// scanPlainScalar scans an unquoted scalar. The scalar continues across
// folded line breaks while continuation lines stay more indented than the
// enclosing block construct; a dedent, a ': ' separator, a flow indicator
// in flow context, or a comment after whitespace ends it.
func (s *Scanner) scanPlainScalar() (Token, error) {
	mark := s.mark
	indent := s.parentIndent() + 1

	content := s.buf[:0]
	var leadingBreak, trailingBreaks, whitespaces []byte
	leadingBlanks := false

	for {
		if s.atDocumentIndicator() {
			break
		}
		if s.at(0) == '#' {
			break
		}

		for !s.blankzAt(0) {
			b := s.at(0)
			if b == ':' && (s.blankzAt(1) || (s.flowLevel > 0 && isFlowIndicator(s.at(1)))) {
				break
			}
			if s.flowLevel > 0 && (isFlowIndicator(b) || b == '?') {
				break
			}

			// Fold pending breaks or flush pending whitespace before the
			// next content character.
			if leadingBlanks || len(whitespaces) > 0 {
				if leadingBlanks {
					if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
						if len(trailingBreaks) == 0 {
							content = append(content, ' ')
						} else {
							content = append(content, trailingBreaks...)
						}
					} else {
						content = append(content, leadingBreak...)
						content = append(content, trailingBreaks...)
					}
					leadingBreak = leadingBreak[:0]
					trailingBreaks = trailingBreaks[:0]
					leadingBlanks = false
				} else {
					content = append(content, whitespaces...)
					whitespaces = whitespaces[:0]
				}
			}

			content = s.readRune(content)
		}

		if !(isBlank(s.at(0)) || isLineBreak(s.at(0))) || s.eof() {
			break
		}

		for isBlank(s.at(0)) || isLineBreak(s.at(0)) {
			if isBlank(s.at(0)) {
				if leadingBlanks && s.mark.Column < indent && s.at(0) == '\t' {
					return Token{}, scanErrorf(ErrInvalidIndentation, mark,
						"while scanning a plain scalar: found a tab character that violates indentation")
				}
				if !leadingBlanks {
					whitespaces = s.readRune(whitespaces)
				} else {
					s.skip()
				}
			} else {
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.readBreak(leadingBreak[:0])
					leadingBlanks = true
				} else {
					trailingBreaks = s.readBreak(trailingBreaks)
				}
			}
		}

		// A dedent below the enclosing block construct ends the scalar.
		if s.flowLevel == 0 && s.mark.Column < indent {
			break
		}
	}

	s.buf = content
	return Token{Type: SCALAR_TOKEN, Mark: mark, Value: string(content), Style: PLAIN_SCALAR_STYLE}, nil
}
