// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Directive and tag scanning: %YAML and %TAG directives, reserved
// directives, and the three tag forms (verbatim, prefixed, local), with
// %XX escape decoding in URIs.

package yamlstream

// maxTagURILength is a defensive cap on tag URIs and directive prefixes.
const maxTagURILength = 4096

// maxVersionDigits bounds a %YAML version component.
const maxVersionDigits = 9

// scanDirective scans a '%' line: a %YAML version directive, a %TAG
// directive, or a reserved directive whose name is recorded and whose
// arguments are discarded without validation.
func (s *Scanner) scanDirective() (Token, error) {
	mark := s.mark
	s.skip() // '%'

	start := s.pos
	for isWordChar(s.at(0)) {
		s.skip()
	}
	name := string(s.input[start:s.pos])
	if name == "" {
		return Token{}, scanErrorf(ErrInvalidDirective, mark,
			"while scanning a directive: did not find expected directive name")
	}

	var tok Token
	switch name {
	case "YAML":
		for isBlank(s.at(0)) {
			s.skip()
		}
		major, err := s.scanVersionNumber(mark)
		if err != nil {
			return Token{}, err
		}
		if s.at(0) != '.' {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"while scanning a %%YAML directive: did not find expected digit or '.' character")
		}
		s.skip()
		minor, err := s.scanVersionNumber(mark)
		if err != nil {
			return Token{}, err
		}
		if major != 1 {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"found incompatible YAML document (version %d.%d)", major, minor)
		}
		if s.cfg.getStrictYAML12() && minor != 2 {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"found YAML version %d.%d where 1.2 is required", major, minor)
		}
		tok = Token{Type: VERSION_DIRECTIVE_TOKEN, Mark: mark, Major: major, Minor: minor}

	case "TAG":
		for isBlank(s.at(0)) {
			s.skip()
		}
		handle, err := s.scanTagHandle(mark, true)
		if err != nil {
			return Token{}, err
		}
		if !isBlank(s.at(0)) {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"while scanning a %%TAG directive: did not find expected whitespace")
		}
		for isBlank(s.at(0)) {
			s.skip()
		}
		prefix, err := s.scanTagURI(mark, nil, true, false)
		if err != nil {
			return Token{}, err
		}
		if prefix == "" {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"while scanning a %%TAG directive: did not find expected tag URI")
		}
		tok = Token{Type: TAG_DIRECTIVE_TOKEN, Mark: mark, Handle: handle, Suffix: prefix}

	default:
		// Reserved directive: keep the name, skip whitespace-separated
		// arguments to the end of the line.
		for !s.eof() && !isLineBreak(s.at(0)) {
			s.skip()
		}
		return Token{Type: RESERVED_DIRECTIVE_TOKEN, Mark: mark, Value: name}, nil
	}

	// Only blanks and a comment may follow a directive.
	for isBlank(s.at(0)) {
		s.skip()
	}
	if s.at(0) == '#' {
		for !s.eof() && !isLineBreak(s.at(0)) {
			s.skip()
		}
	}
	if !s.eof() && !isLineBreak(s.at(0)) {
		return Token{}, scanErrorf(ErrInvalidDirective, mark,
			"while scanning a directive: did not find expected comment or line break")
	}
	return tok, nil
}

// scanVersionNumber scans one numeric component of a %YAML directive.
func (s *Scanner) scanVersionNumber(mark Mark) (int, error) {
	value := 0
	digits := 0
	for isDigit(s.at(0)) {
		digits++
		if digits > maxVersionDigits {
			return 0, scanErrorf(ErrInvalidDirective, mark,
				"while scanning a %%YAML directive: found extremely long version number")
		}
		value = value*10 + int(s.at(0)-'0')
		s.skip()
	}
	if digits == 0 {
		return 0, scanErrorf(ErrInvalidDirective, mark,
			"while scanning a %%YAML directive: did not find expected version number")
	}
	return value, nil
}

// scanTag scans a '!' tag token in one of its three forms:
//
//	!<verbatim-uri>     handle "", suffix the URI
//	!!suffix, !h!suffix handle "!!" or "!h!", suffix as written
//	!suffix or !        handle "!", suffix possibly empty
func (s *Scanner) scanTag() (Token, error) {
	mark := s.mark

	var handle, suffix string
	if s.at(1) == '<' {
		s.skip() // '!'
		s.skip() // '<'
		uri, err := s.scanTagURI(mark, nil, false, true)
		if err != nil {
			return Token{}, err
		}
		if uri == "" {
			return Token{}, scanErrorf(ErrInvalidDirective, mark,
				"while scanning a verbatim tag: did not find expected tag URI")
		}
		if s.at(0) != '>' {
			return Token{}, scanErrorf(ErrUnterminatedScalar, mark,
				"while scanning a verbatim tag: did not find the expected '>'")
		}
		s.skip()
		suffix = uri
	} else {
		raw, err := s.scanTagHandle(mark, false)
		if err != nil {
			return Token{}, err
		}
		if len(raw) > 1 && raw[len(raw)-1] == '!' {
			// A complete handle: '!!' or '!handle!'.
			handle = raw
			suffix, err = s.scanTagURI(mark, nil, false, false)
			if err != nil {
				return Token{}, err
			}
			if suffix == "" {
				return Token{}, scanErrorf(ErrInvalidDirective, mark,
					"while scanning a tag: did not find expected tag URI")
			}
		} else {
			// A local tag: whatever followed the '!' belongs to the suffix.
			handle = "!"
			suffix, err = s.scanTagURI(mark, []byte(raw[1:]), false, false)
			if err != nil {
				return Token{}, err
			}
		}
	}

	if !s.blankzAt(0) && !(s.flowLevel > 0 && isFlowIndicator(s.at(0))) {
		return Token{}, scanErrorf(ErrUnexpectedToken, mark,
			"while scanning a tag: did not find expected whitespace or line break")
	}
	return Token{Type: TAG_TOKEN, Mark: mark, Handle: handle, Suffix: suffix}, nil
}

// scanTagHandle scans a '!', '!!' or '!word!' handle. In a %TAG directive
// the handle must be complete: a trailing word without the closing '!' is
// rejected there, while in a tag token it is returned as-is for the caller
// to fold into the suffix.
func (s *Scanner) scanTagHandle(mark Mark, directive bool) (string, error) {
	if s.at(0) != '!' {
		return "", scanErrorf(ErrInvalidDirective, mark,
			"while scanning a tag: did not find expected '!'")
	}
	raw := []byte{'!'}
	s.skip()

	for isWordChar(s.at(0)) {
		raw = append(raw, s.at(0))
		s.skip()
	}
	if s.at(0) == '!' {
		raw = append(raw, '!')
		s.skip()
	} else if directive && len(raw) > 1 {
		return "", scanErrorf(ErrInvalidDirective, mark,
			"while scanning a %%TAG directive: did not find expected '!'")
	}
	return string(raw), nil
}

// scanTagURI scans a tag suffix, verbatim URI or directive prefix,
// decoding %XX escapes. head carries characters already consumed by a
// handle scan that turned out to belong to the suffix.
func (s *Scanner) scanTagURI(mark Mark, head []byte, directive, verbatim bool) (string, error) {
	uri := append([]byte(nil), head...)
	for {
		b := s.at(0)
		switch {
		case b == '%':
			decoded, err := s.scanURIEscape(mark)
			if err != nil {
				return "", err
			}
			uri = append(uri, decoded)
		case verbatim && b == '>':
			return string(uri), nil
		case verbatim && s.eof():
			return "", scanErrorf(ErrUnterminatedScalar, mark,
				"while scanning a verbatim tag: found unexpected end of stream")
		case (directive || verbatim) && isURIChar(b),
			!directive && !verbatim && isTagChar(b):
			uri = append(uri, b)
			s.skip()
		default:
			return string(uri), nil
		}
		if len(uri) > maxTagURILength {
			return "", scanErrorf(ErrInvalidDirective, mark,
				"while scanning a tag: URI longer than %d characters", maxTagURILength)
		}
	}
}

// scanURIEscape decodes one %XX escape to a byte. Multi-byte UTF-8
// sequences arrive as consecutive escapes and concatenate naturally.
func (s *Scanner) scanURIEscape(mark Mark) (byte, error) {
	if !isHexDigit(s.at(1)) || !isHexDigit(s.at(2)) {
		return 0, scanErrorf(ErrInvalidEscape, mark,
			"while scanning a tag: did not find URI escaped octet")
	}
	value := byte(hexValue(s.at(1))<<4 + hexValue(s.at(2)))
	s.skip()
	s.skip()
	s.skip()
	return value, nil
}
