// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package yamlstream implements a streaming YAML 1.2 front end: a scanner
// that turns bytes into tokens and a parser that turns tokens into a
// structural event stream.
//
// The event stream follows a balanced-bracket discipline, suitable for
// driving a composer, a linter or any consumer that wants document
// structure without a node tree:
//
//	p := yamlstream.NewParser(input)
//	for {
//		ev, err := p.Next()
//		if err != nil || ev.Type == yamlstream.STREAM_END_EVENT {
//			break
//		}
//		// ...
//	}
//
// The scanner can also be used on its own through NewScanner and its
// Peek/Next protocol. Both stages are configured with functional options;
// see Option.
package yamlstream

import "strings"

// Parse drains the parser and returns every event up to and including
// STREAM_END_EVENT. On failure it returns the events produced so far
// together with the error.
func (p *Parser) Parse() ([]Event, error) {
	var events []Event
	for {
		ev, err := p.Next()
		if err != nil {
			return events, err
		}
		if ev.Type == NO_EVENT {
			return events, nil
		}
		events = append(events, ev)
		if ev.Type == STREAM_END_EVENT {
			return events, nil
		}
	}
}

// EventsString parses input and renders the event stream in the compact
// notation of Event.String, one event per line.
func EventsString(input []byte, opts ...Option) (string, error) {
	events, err := NewParser(input, opts...).Parse()
	if err != nil {
		return "", err
	}
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.String()
	}
	return strings.Join(lines, "\n"), nil
}

// ScanAll tokenizes input up to and including STREAM_END_TOKEN. On failure
// it returns the tokens produced so far together with the error.
func ScanAll(input []byte, opts ...Option) ([]Token, error) {
	s := NewScanner(input, opts...)
	var tokens []Token
	for {
		if _, err := s.Peek(); err != nil {
			return tokens, err
		}
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Type == STREAM_END_TOKEN {
			return tokens, nil
		}
	}
}
