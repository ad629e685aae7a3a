// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Parser stage: transforms the scanner's token stream into a structural
// event stream. The parser is an explicit state machine driven by a
// trampoline loop; suspended grammar productions live on a continuation
// stack, never on the Go call stack, so input nesting cannot overflow it.

package yamlstream

import "io"

// parserState identifies the grammar production the parser will attempt on
// the next step.
type parserState int

const (
	parseStreamStartState parserState = iota

	parseImplicitDocumentStartState
	parseDocumentStartState
	parseDocumentContentState
	parseDocumentEndState
	parseBlockNodeState
	parseBlockSequenceFirstEntryState
	parseBlockSequenceEntryState
	parseIndentlessSequenceEntryState
	parseBlockMappingFirstKeyState
	parseBlockMappingKeyState
	parseBlockMappingValueState
	parseFlowSequenceFirstEntryState
	parseFlowSequenceEntryState
	parseFlowSequenceEntryMappingKeyState
	parseFlowSequenceEntryMappingValueState
	parseFlowSequenceEntryMappingEndState
	parseFlowMappingFirstKeyState
	parseFlowMappingKeyState
	parseFlowMappingValueState
	parseFlowMappingEmptyValueState
	parseEndState
)

// String returns a string representation of the parser state.
func (ps parserState) String() string {
	switch ps {
	case parseStreamStartState:
		return "STREAM-START"
	case parseImplicitDocumentStartState:
		return "IMPLICIT-DOCUMENT-START"
	case parseDocumentStartState:
		return "DOCUMENT-START"
	case parseDocumentContentState:
		return "DOCUMENT-CONTENT"
	case parseDocumentEndState:
		return "DOCUMENT-END"
	case parseBlockNodeState:
		return "BLOCK-NODE"
	case parseBlockSequenceFirstEntryState:
		return "BLOCK-SEQUENCE-FIRST-ENTRY"
	case parseBlockSequenceEntryState:
		return "BLOCK-SEQUENCE-ENTRY"
	case parseIndentlessSequenceEntryState:
		return "INDENTLESS-SEQUENCE-ENTRY"
	case parseBlockMappingFirstKeyState:
		return "BLOCK-MAPPING-FIRST-KEY"
	case parseBlockMappingKeyState:
		return "BLOCK-MAPPING-KEY"
	case parseBlockMappingValueState:
		return "BLOCK-MAPPING-VALUE"
	case parseFlowSequenceFirstEntryState:
		return "FLOW-SEQUENCE-FIRST-ENTRY"
	case parseFlowSequenceEntryState:
		return "FLOW-SEQUENCE-ENTRY"
	case parseFlowSequenceEntryMappingKeyState:
		return "FLOW-SEQUENCE-ENTRY-MAPPING-KEY"
	case parseFlowSequenceEntryMappingValueState:
		return "FLOW-SEQUENCE-ENTRY-MAPPING-VALUE"
	case parseFlowSequenceEntryMappingEndState:
		return "FLOW-SEQUENCE-ENTRY-MAPPING-END"
	case parseFlowMappingFirstKeyState:
		return "FLOW-MAPPING-FIRST-KEY"
	case parseFlowMappingKeyState:
		return "FLOW-MAPPING-KEY"
	case parseFlowMappingValueState:
		return "FLOW-MAPPING-VALUE"
	case parseFlowMappingEmptyValueState:
		return "FLOW-MAPPING-EMPTY-VALUE"
	case parseEndState:
		return "END"
	}
	return "<unknown parser state>"
}

// unresolvedAliasID is the Anchor value of an ALIAS_EVENT naming an
// undefined anchor, emitted only under WithResolveAliasSentinel.
const unresolvedAliasID = -1

// Parser produces Events from a token stream. It owns the Scanner it was
// constructed with and shares its indentation stack with it, so multi-line
// scalars and block structure agree on where a construct ends.
type Parser struct {
	scanner *Scanner
	cfg     *config

	state  parserState
	states []parserState

	indents indentStack

	// anchors maps anchor names to their integer ids within the current
	// document; anchorCounter assigns ids starting at 1.
	anchors       map[string]int
	anchorCounter int

	// pending holds a stashed implicit-key scalar event, emitted on the
	// step after the MAPPING_START_EVENT it triggered.
	pending *Event

	err error
}

// NewParser creates a Parser over the given input.
func NewParser(input []byte, opts ...Option) *Parser {
	p := &Parser{
		cfg:     newConfig(opts...),
		state:   parseStreamStartState,
		anchors: make(map[string]int),
	}
	p.scanner = newScanner(input, p.cfg, &p.indents)
	return p
}

// NewParserFromReader creates a Parser reading the whole input from r.
func NewParserFromReader(r io.Reader, opts ...Option) (*Parser, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewParser(input, opts...), nil
}

// Next returns the next event. After STREAM_END_EVENT it returns an event
// of type NO_EVENT. A failure, from the scanner or from the grammar, is
// sticky: every later call returns the same error.
func (p *Parser) Next() (Event, error) {
	if p.err != nil {
		return Event{}, p.err
	}
	if p.state == parseEndState {
		return Event{Type: NO_EVENT, Mark: p.scanner.Mark()}, nil
	}
	// A step that consumes input without emitting (a reserved directive,
	// for example) reports emitted == false and the loop runs again.
	for {
		ev, emitted, err := p.step()
		if err != nil {
			p.err = err
			return Event{}, err
		}
		if emitted {
			return ev, nil
		}
	}
}

func (p *Parser) step() (Event, bool, error) {
	switch p.state {
	case parseStreamStartState:
		return p.parseStreamStart()
	case parseImplicitDocumentStartState:
		return p.parseDocumentStart(true)
	case parseDocumentStartState:
		return p.parseDocumentStart(false)
	case parseDocumentContentState:
		return p.parseDocumentContent()
	case parseDocumentEndState:
		return p.parseDocumentEnd()
	case parseBlockNodeState:
		return p.parseNode(true, false, true)
	case parseBlockSequenceFirstEntryState, parseBlockSequenceEntryState:
		return p.parseBlockSequenceEntry()
	case parseIndentlessSequenceEntryState:
		return p.parseIndentlessSequenceEntry()
	case parseBlockMappingFirstKeyState, parseBlockMappingKeyState:
		return p.parseBlockMappingKey()
	case parseBlockMappingValueState:
		return p.parseBlockMappingValue()
	case parseFlowSequenceFirstEntryState:
		return p.parseFlowSequenceEntry(true)
	case parseFlowSequenceEntryState:
		return p.parseFlowSequenceEntry(false)
	case parseFlowSequenceEntryMappingKeyState:
		return p.parseFlowSequenceEntryMappingKey()
	case parseFlowSequenceEntryMappingValueState:
		return p.parseFlowSequenceEntryMappingValue()
	case parseFlowSequenceEntryMappingEndState:
		return p.parseFlowSequenceEntryMappingEnd()
	case parseFlowMappingFirstKeyState:
		return p.parseFlowMappingKey(true)
	case parseFlowMappingKeyState:
		return p.parseFlowMappingKey(false)
	case parseFlowMappingValueState:
		return p.parseFlowMappingValue(false)
	case parseFlowMappingEmptyValueState:
		return p.parseFlowMappingValue(true)
	}
	return Event{}, false, scanErrorf(ErrUnexpectedToken, p.scanner.Mark(),
		"cannot step parser in state %s", p.state)
}

func (p *Parser) peek() (*Token, error) {
	return p.scanner.Peek()
}

func (p *Parser) skipToken() {
	p.scanner.Next()
}

// pushState suspends a production to resume after the current node; the
// continuation stack is bounded by the configured maximum depth.
func (p *Parser) pushState(st parserState) error {
	if len(p.states) >= p.cfg.getMaxDepth() {
		return scanErrorf(ErrRecursionLimit, p.scanner.Mark(),
			"exceeded maximum nesting depth of %d", p.cfg.getMaxDepth())
	}
	p.states = append(p.states, st)
	return nil
}

func (p *Parser) popState() parserState {
	if len(p.states) == 0 {
		return parseEndState
	}
	st := p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
	return st
}

// registerAnchor records an anchor definition and returns its id. Under
// WithAllowDuplicateAnchors (the default) a re-definition gets a fresh id
// and later aliases resolve to it.
func (p *Parser) registerAnchor(name string, mark Mark) (int, error) {
	if _, exists := p.anchors[name]; exists && !p.cfg.getAllowDuplicateAnchors() {
		return 0, scanErrorf(ErrDuplicateAnchor, mark,
			"found duplicate anchor %q previously defined in this document", name)
	}
	p.anchorCounter++
	p.anchors[name] = p.anchorCounter
	return p.anchorCounter, nil
}

// resetAnchors clears the anchor table; anchors are scoped to one document.
func (p *Parser) resetAnchors() {
	clear(p.anchors)
	p.anchorCounter = 0
}

func (p *Parser) emptyScalar(mark Mark) Event {
	return Event{
		Type:     SCALAR_EVENT,
		Mark:     mark,
		Style:    PLAIN_SCALAR_STYLE,
		Implicit: true,
	}
}

// isDocumentBoundary reports whether a token can only belong to the
// document layer: markers and directives.
func isDocumentBoundary(t TokenType) bool {
	switch t {
	case DOCUMENT_START_TOKEN, DOCUMENT_END_TOKEN,
		VERSION_DIRECTIVE_TOKEN, TAG_DIRECTIVE_TOKEN, RESERVED_DIRECTIVE_TOKEN:
		return true
	}
	return false
}

// isNodeBoundary reports whether a token legitimately terminates a node
// position, making an empty scalar there well-formed YAML rather than a
// recovery.
func isNodeBoundary(t TokenType) bool {
	switch t {
	case STREAM_END_TOKEN, DOCUMENT_START_TOKEN, DOCUMENT_END_TOKEN,
		FLOW_SEQUENCE_END_TOKEN, FLOW_MAPPING_END_TOKEN, FLOW_ENTRY_TOKEN,
		KEY_TOKEN, VALUE_TOKEN, BLOCK_ENTRY_TOKEN:
		return true
	}
	return false
}

// Parse the production:
// stream ::= STREAM-START implicit_document? explicit_document* STREAM-END
//
//	************
func (p *Parser) parseStreamStart() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if tok.Type != STREAM_START_TOKEN {
		return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
			"did not find expected <stream-start>, found %s", tok.Type)
	}
	mark := tok.Mark
	p.skipToken()
	p.state = parseImplicitDocumentStartState
	return Event{Type: STREAM_START_EVENT, Mark: mark}, true, nil
}

// Parse the productions:
// implicit_document ::= block_node DOCUMENT-END*
//
//	*
//
// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//
//	*************************
//
// Each directive contributes its own event; a directive seen on the
// implicit path commits the document to an explicit DOCUMENT-START.
func (p *Parser) parseDocumentStart(implicit bool) (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}

	switch tok.Type {
	case VERSION_DIRECTIVE_TOKEN:
		ev := Event{
			Type:  YAML_DIRECTIVE_EVENT,
			Mark:  tok.Mark,
			Major: tok.Major,
			Minor: tok.Minor,
		}
		p.skipToken()
		p.state = parseDocumentStartState
		return ev, true, nil

	case TAG_DIRECTIVE_TOKEN:
		ev := Event{
			Type:   TAG_DIRECTIVE_EVENT,
			Mark:   tok.Mark,
			Handle: tok.Handle,
			Prefix: tok.Suffix,
		}
		p.skipToken()
		p.state = parseDocumentStartState
		return ev, true, nil

	case RESERVED_DIRECTIVE_TOKEN:
		// Recorded by the scanner, contributes no event, but still
		// requires an explicit document start.
		p.skipToken()
		p.state = parseDocumentStartState
		return Event{}, false, nil

	case STREAM_END_TOKEN:
		if !implicit {
			return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
				"while parsing directives: did not find expected <document start>")
		}
		mark := tok.Mark
		p.skipToken()
		p.state = parseEndState
		return Event{Type: STREAM_END_EVENT, Mark: mark}, true, nil

	case DOCUMENT_START_TOKEN:
		mark := tok.Mark
		p.skipToken()
		p.resetAnchors()
		if err := p.pushState(parseDocumentEndState); err != nil {
			return Event{}, false, err
		}
		p.state = parseDocumentContentState
		return Event{Type: DOCUMENT_START_EVENT, Mark: mark}, true, nil

	default:
		if !implicit {
			return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
				"while parsing directives: did not find expected <document start>")
		}
		p.resetAnchors()
		if err := p.pushState(parseDocumentEndState); err != nil {
			return Event{}, false, err
		}
		p.state = parseBlockNodeState
		return Event{Type: DOCUMENT_START_EVENT, Mark: tok.Mark, Implicit: true}, true, nil
	}
}

// Parse the production:
// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//
//	***********
func (p *Parser) parseDocumentContent() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if isDocumentBoundary(tok.Type) || tok.Type == STREAM_END_TOKEN {
		p.state = p.popState()
		return p.emptyScalar(tok.Mark), true, nil
	}
	return p.parseNode(true, false, true)
}

// Parse the productions:
// implicit_document ::= block_node DOCUMENT-END*
//
//	*************
//
// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
//
//	*************
func (p *Parser) parseDocumentEnd() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	mark := tok.Mark
	implicit := true
	for tok.Type == DOCUMENT_END_TOKEN {
		implicit = false
		p.skipToken()
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
	}

	p.resetAnchors()
	p.indents.reset()
	p.pending = nil
	p.state = parseImplicitDocumentStartState
	return Event{Type: DOCUMENT_END_EVENT, Mark: mark, Implicit: implicit}, true, nil
}

// Parse the productions:
// block_node  ::= ALIAS | properties? block_content
// flow_node   ::= ALIAS | properties? flow_content
// properties  ::= TAG ANCHOR? | ANCHOR TAG?
//
// parseNode resolves what kind of node starts at the current token and
// either emits its event directly (alias, scalar, empty scalar) or opens a
// collection and hands control to the matching entry state.
//
// In block context with detectKey set, a scalar immediately followed by a
// VALUE token is an implicit mapping key: the parser emits
// MAPPING_START_EVENT first, stashes the key scalar and pushes an
// indentation level at the key's column. In flow-sequence context the same
// lookahead opens a single-pair mapping.
func (p *Parser) parseNode(block, indentless, detectKey bool) (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}

	anchor := 0
	tag := ""
	hasProps := false
	var propsMark Mark
	for tok.Type == ANCHOR_TOKEN || tok.Type == TAG_TOKEN {
		if !hasProps {
			hasProps = true
			propsMark = tok.Mark
		}
		switch tok.Type {
		case ANCHOR_TOKEN:
			if anchor != 0 {
				return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
					"while parsing a node: found a second anchor property")
			}
			if anchor, err = p.registerAnchor(tok.Value, tok.Mark); err != nil {
				return Event{}, false, err
			}
		case TAG_TOKEN:
			if tag != "" {
				return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
					"while parsing a node: found a second tag property")
			}
			tag = tok.Handle + tok.Suffix
		}
		p.skipToken()
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
	}
	nodeMark := tok.Mark
	if hasProps {
		nodeMark = propsMark
	}

	switch tok.Type {
	case ALIAS_TOKEN:
		if hasProps {
			return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
				"while parsing a node: an alias cannot carry anchor or tag properties")
		}
		id, defined := p.anchors[tok.Value]
		if !defined {
			if !p.cfg.getResolveAliasSentinel() {
				return Event{}, false, scanErrorf(ErrUnresolvedAlias, tok.Mark,
					"found undefined alias %q", tok.Value)
			}
			id = unresolvedAliasID
		}
		mark := tok.Mark
		p.skipToken()
		p.state = p.popState()
		return Event{Type: ALIAS_EVENT, Mark: mark, Anchor: id}, true, nil

	case SCALAR_TOKEN:
		scalar := p.scanner.Next()
		next, err := p.peek()
		if err != nil {
			return Event{}, false, err
		}
		if next.Type == VALUE_TOKEN && detectKey {
			// Properties on an earlier line than the key belong to the
			// mapping itself; properties on the key's own line belong to
			// the key scalar and count into the key's column.
			keyColumn := scalar.Mark.Column
			if hasProps && propsMark.Line == scalar.Mark.Line {
				keyColumn = propsMark.Column
			}
			if block && keyColumn > p.indents.topColumn() {
				start := Event{Type: MAPPING_START_EVENT, Mark: nodeMark}
				key := Event{
					Type:  SCALAR_EVENT,
					Mark:  scalar.Mark,
					Value: scalar.Value,
					Style: scalar.Style,
				}
				if hasProps && propsMark.Line < scalar.Mark.Line {
					start.Anchor, start.Tag = anchor, tag
				} else {
					key.Anchor, key.Tag = anchor, tag
				}
				p.indents.push(keyColumn, false)
				p.pending = &key
				p.state = parseBlockMappingFirstKeyState
				return start, true, nil
			}
			if !block {
				// The caller suspended the flow-sequence entry state for
				// this node; the single-pair states return there by
				// assignment, so drop the suspended copy to keep the
				// continuation stack balanced.
				p.popState()
				p.pending = &Event{
					Type:   SCALAR_EVENT,
					Mark:   scalar.Mark,
					Value:  scalar.Value,
					Style:  scalar.Style,
					Anchor: anchor,
					Tag:    tag,
				}
				p.state = parseFlowSequenceEntryMappingKeyState
				return Event{Type: MAPPING_START_EVENT, Mark: nodeMark, Flow: true}, true, nil
			}
		}
		p.state = p.popState()
		return Event{
			Type:   SCALAR_EVENT,
			Mark:   nodeMark,
			Value:  scalar.Value,
			Style:  scalar.Style,
			Anchor: anchor,
			Tag:    tag,
		}, true, nil

	case BLOCK_ENTRY_TOKEN:
		if block && tok.Mark.Column > p.indents.topColumn() {
			p.indents.push(tok.Mark.Column, true)
			p.state = parseBlockSequenceFirstEntryState
			return Event{Type: SEQUENCE_START_EVENT, Mark: nodeMark, Anchor: anchor, Tag: tag}, true, nil
		}
		if indentless && tok.Mark.Column == p.indents.topColumn() {
			p.state = parseIndentlessSequenceEntryState
			return Event{Type: SEQUENCE_START_EVENT, Mark: nodeMark, Anchor: anchor, Tag: tag}, true, nil
		}

	case KEY_TOKEN:
		// Explicit '?' key opens a block mapping.
		if block && tok.Mark.Column > p.indents.topColumn() {
			p.indents.push(tok.Mark.Column, false)
			p.state = parseBlockMappingFirstKeyState
			return Event{Type: MAPPING_START_EVENT, Mark: nodeMark, Anchor: anchor, Tag: tag}, true, nil
		}

	case FLOW_SEQUENCE_START_TOKEN:
		p.state = parseFlowSequenceFirstEntryState
		return Event{
			Type:   SEQUENCE_START_EVENT,
			Mark:   nodeMark,
			Anchor: anchor,
			Tag:    tag,
			Flow:   true,
		}, true, nil

	case FLOW_MAPPING_START_TOKEN:
		p.state = parseFlowMappingFirstKeyState
		return Event{
			Type:   MAPPING_START_EVENT,
			Mark:   nodeMark,
			Anchor: anchor,
			Tag:    tag,
			Flow:   true,
		}, true, nil
	}

	if p.cfg.getStrict() && !isNodeBoundary(tok.Type) {
		return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
			"while parsing a node: unexpected %s token", tok.Type)
	}
	p.state = p.popState()
	ev := p.emptyScalar(nodeMark)
	ev.Anchor, ev.Tag = anchor, tag
	return ev, true, nil
}

// Parse the production:
// block_sequence ::= (BLOCK-ENTRY block_node?)+
//
// The sequence's indentation level was pushed by parseNode at the column
// of the opening '-'. Every further entry must sit at exactly that column;
// a smaller column ends the sequence, a larger one is an indentation error.
func (p *Parser) parseBlockSequenceEntry() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	first := p.indents.firstEntry()

	if tok.Type != BLOCK_ENTRY_TOKEN {
		p.indents.pop()
		p.state = p.popState()
		return Event{Type: SEQUENCE_END_EVENT, Mark: tok.Mark}, true, nil
	}
	if !first {
		switch p.indents.validate(tok.Mark.Column) {
		case indentEndSequence, indentEndMapping:
			p.indents.pop()
			p.state = p.popState()
			return Event{Type: SEQUENCE_END_EVENT, Mark: tok.Mark}, true, nil
		case indentInvalid:
			return Event{}, false, scanErrorf(ErrInvalidIndentation, tok.Mark,
				"found sequence entry at column %d, expected column %d",
				tok.Mark.Column+1, p.indents.topColumn()+1)
		}
	}
	p.indents.entryScanned()

	entryMark := tok.Mark
	p.skipToken()
	next, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	// Entry content must sit to the right of the '-', whether on the same
	// line or on a following one.
	if next.Mark.Column > entryMark.Column {
		if err := p.pushState(parseBlockSequenceEntryState); err != nil {
			return Event{}, false, err
		}
		return p.parseNode(true, false, true)
	}
	p.state = parseBlockSequenceEntryState
	return p.emptyScalar(entryMark), true, nil
}

// Parse the production:
// indentless_sequence ::= (BLOCK-ENTRY block_node?)+
//
// An indentless sequence is a value whose entries sit at the same column
// as the enclosing mapping's keys; it has no indentation level of its own.
func (p *Parser) parseIndentlessSequenceEntry() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if tok.Type != BLOCK_ENTRY_TOKEN || tok.Mark.Column != p.indents.topColumn() {
		p.state = p.popState()
		return Event{Type: SEQUENCE_END_EVENT, Mark: tok.Mark}, true, nil
	}

	entryMark := tok.Mark
	p.skipToken()
	next, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if next.Mark.Column > entryMark.Column {
		if err := p.pushState(parseIndentlessSequenceEntryState); err != nil {
			return Event{}, false, err
		}
		return p.parseNode(true, false, true)
	}
	p.state = parseIndentlessSequenceEntryState
	return p.emptyScalar(entryMark), true, nil
}

// Parse the production:
// block_mapping ::= ((KEY block_node_or_indentless_sequence?)?
//
//	(VALUE block_node_or_indentless_sequence?)?)+
//
// Implicit keys arrive as SCALAR tokens; the first one was already emitted
// from the stash parseNode left behind. Explicit '?' keys and non-scalar
// keys route back through parseNode with key detection off.
func (p *Parser) parseBlockMappingKey() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	first := p.indents.firstEntry()

	if first && p.pending != nil {
		p.indents.entryScanned()
		ev := *p.pending
		p.pending = nil
		p.state = parseBlockMappingValueState
		return ev, true, nil
	}
	if isDocumentBoundary(tok.Type) || tok.Type == STREAM_END_TOKEN {
		p.indents.pop()
		p.state = p.popState()
		return Event{Type: MAPPING_END_EVENT, Mark: tok.Mark}, true, nil
	}
	if !first {
		switch p.indents.validate(tok.Mark.Column) {
		case indentEndSequence, indentEndMapping:
			p.indents.pop()
			p.state = p.popState()
			return Event{Type: MAPPING_END_EVENT, Mark: tok.Mark}, true, nil
		case indentInvalid:
			return Event{}, false, scanErrorf(ErrInvalidIndentation, tok.Mark,
				"found mapping key at column %d, expected column %d",
				tok.Mark.Column+1, p.indents.topColumn()+1)
		}
	}
	p.indents.entryScanned()

	switch tok.Type {
	case KEY_TOKEN:
		keyMark := tok.Mark
		p.skipToken()
		next, err := p.peek()
		if err != nil {
			return Event{}, false, err
		}
		if next.Type == VALUE_TOKEN || next.Type == KEY_TOKEN ||
			isDocumentBoundary(next.Type) || next.Type == STREAM_END_TOKEN {
			p.state = parseBlockMappingValueState
			return p.emptyScalar(keyMark), true, nil
		}
		if err := p.pushState(parseBlockMappingValueState); err != nil {
			return Event{}, false, err
		}
		return p.parseNode(true, true, false)

	case SCALAR_TOKEN:
		key := p.scanner.Next()
		p.state = parseBlockMappingValueState
		return Event{
			Type:  SCALAR_EVENT,
			Mark:  key.Mark,
			Value: key.Value,
			Style: key.Style,
		}, true, nil

	case VALUE_TOKEN:
		// ':' in key position: the key is empty.
		p.state = parseBlockMappingValueState
		return p.emptyScalar(tok.Mark), true, nil

	case ANCHOR_TOKEN, TAG_TOKEN, ALIAS_TOKEN,
		FLOW_SEQUENCE_START_TOKEN, FLOW_MAPPING_START_TOKEN:
		if err := p.pushState(parseBlockMappingValueState); err != nil {
			return Event{}, false, err
		}
		return p.parseNode(true, false, false)

	default:
		p.indents.pop()
		p.state = p.popState()
		return Event{Type: MAPPING_END_EVENT, Mark: tok.Mark}, true, nil
	}
}

// Parse the production:
// block_mapping ::= ((KEY block_node_or_indentless_sequence?)?
//
//	(VALUE block_node_or_indentless_sequence?)?)+
//
// A key with no VALUE token gets an empty value; in strict mode the
// missing ':' is an error instead. A value that dedents to or beyond the
// mapping's column is empty as well, except an indentless sequence entry
// at exactly the mapping's column.
func (p *Parser) parseBlockMappingValue() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if tok.Type != VALUE_TOKEN {
		if p.cfg.getStrict() {
			return Event{}, false, scanErrorf(ErrUnexpectedToken, tok.Mark,
				"while parsing a block mapping: did not find expected ':'")
		}
		p.state = parseBlockMappingKeyState
		return p.emptyScalar(tok.Mark), true, nil
	}

	valueMark := tok.Mark
	p.skipToken()
	next, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	level := p.indents.topColumn()
	if next.Mark.Line > valueMark.Line && next.Mark.Column <= level &&
		!(next.Type == BLOCK_ENTRY_TOKEN && next.Mark.Column == level) {
		p.state = parseBlockMappingKeyState
		return p.emptyScalar(valueMark), true, nil
	}
	if err := p.pushState(parseBlockMappingKeyState); err != nil {
		return Event{}, false, err
	}
	return p.parseNode(true, true, true)
}

// Parse the production:
// flow_sequence ::= FLOW-SEQUENCE-START
//
//	(flow_sequence_entry FLOW-ENTRY)* flow_sequence_entry?
//	FLOW-SEQUENCE-END
func (p *Parser) parseFlowSequenceEntry(first bool) (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if first {
		p.skipToken() // '['
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
	}

	if tok.Type != FLOW_SEQUENCE_END_TOKEN {
		if !first {
			if tok.Type != FLOW_ENTRY_TOKEN {
				return Event{}, false, scanErrorf(ErrUnbalancedFlow, tok.Mark,
					"while parsing a flow sequence: did not find expected ',' or ']'")
			}
			p.skipToken()
			if tok, err = p.peek(); err != nil {
				return Event{}, false, err
			}
		}

		if tok.Type == KEY_TOKEN {
			mark := tok.Mark
			p.skipToken()
			p.state = parseFlowSequenceEntryMappingKeyState
			return Event{Type: MAPPING_START_EVENT, Mark: mark, Flow: true}, true, nil
		}
		if tok.Type != FLOW_SEQUENCE_END_TOKEN {
			if err := p.pushState(parseFlowSequenceEntryState); err != nil {
				return Event{}, false, err
			}
			return p.parseNode(false, false, true)
		}
	}

	mark := tok.Mark
	p.skipToken()
	p.state = p.popState()
	return Event{Type: SEQUENCE_END_EVENT, Mark: mark}, true, nil
}

// Parse the production:
// flow_sequence_entry ::= flow_node | KEY flow_node? (VALUE flow_node?)?
//
// A single key/value pair inside a flow sequence is a mapping of its own.
// The key either waits in the stash (implicit '[a: b]') or follows an
// explicit KEY token.
func (p *Parser) parseFlowSequenceEntryMappingKey() (Event, bool, error) {
	if p.pending != nil {
		ev := *p.pending
		p.pending = nil
		p.state = parseFlowSequenceEntryMappingValueState
		return ev, true, nil
	}
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if tok.Type == VALUE_TOKEN || tok.Type == FLOW_ENTRY_TOKEN ||
		tok.Type == FLOW_SEQUENCE_END_TOKEN {
		p.state = parseFlowSequenceEntryMappingValueState
		return p.emptyScalar(tok.Mark), true, nil
	}
	if err := p.pushState(parseFlowSequenceEntryMappingValueState); err != nil {
		return Event{}, false, err
	}
	return p.parseNode(false, false, false)
}

func (p *Parser) parseFlowSequenceEntryMappingValue() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if tok.Type == VALUE_TOKEN {
		p.skipToken()
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
		if tok.Type != FLOW_ENTRY_TOKEN && tok.Type != FLOW_SEQUENCE_END_TOKEN {
			if err := p.pushState(parseFlowSequenceEntryMappingEndState); err != nil {
				return Event{}, false, err
			}
			return p.parseNode(false, false, false)
		}
	}
	p.state = parseFlowSequenceEntryMappingEndState
	return p.emptyScalar(tok.Mark), true, nil
}

func (p *Parser) parseFlowSequenceEntryMappingEnd() (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	p.state = parseFlowSequenceEntryState
	return Event{Type: MAPPING_END_EVENT, Mark: tok.Mark}, true, nil
}

// Parse the production:
// flow_mapping ::= FLOW-MAPPING-START
//
//	(flow_mapping_entry FLOW-ENTRY)* flow_mapping_entry?
//	FLOW-MAPPING-END
func (p *Parser) parseFlowMappingKey(first bool) (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if first {
		p.skipToken() // '{'
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
	}

	if tok.Type != FLOW_MAPPING_END_TOKEN {
		if !first {
			if tok.Type != FLOW_ENTRY_TOKEN {
				return Event{}, false, scanErrorf(ErrUnbalancedFlow, tok.Mark,
					"while parsing a flow mapping: did not find expected ',' or '}'")
			}
			p.skipToken()
			if tok, err = p.peek(); err != nil {
				return Event{}, false, err
			}
		}

		switch {
		case tok.Type == KEY_TOKEN:
			keyMark := tok.Mark
			p.skipToken()
			if tok, err = p.peek(); err != nil {
				return Event{}, false, err
			}
			switch tok.Type {
			case VALUE_TOKEN:
				p.state = parseFlowMappingValueState
				return p.emptyScalar(keyMark), true, nil
			case FLOW_ENTRY_TOKEN, FLOW_MAPPING_END_TOKEN:
				// '?' alone: both key and value are empty.
				p.state = parseFlowMappingEmptyValueState
				return p.emptyScalar(keyMark), true, nil
			default:
				if err := p.pushState(parseFlowMappingValueState); err != nil {
					return Event{}, false, err
				}
				return p.parseNode(false, false, false)
			}

		case tok.Type == VALUE_TOKEN:
			// ':' in key position: the key is empty.
			p.state = parseFlowMappingValueState
			return p.emptyScalar(tok.Mark), true, nil

		case tok.Type != FLOW_MAPPING_END_TOKEN:
			if err := p.pushState(parseFlowMappingValueState); err != nil {
				return Event{}, false, err
			}
			return p.parseNode(false, false, false)
		}
	}

	mark := tok.Mark
	p.skipToken()
	p.state = p.popState()
	return Event{Type: MAPPING_END_EVENT, Mark: mark}, true, nil
}

// Parse the production:
// flow_mapping_entry ::= flow_node | KEY flow_node? (VALUE flow_node?)?
func (p *Parser) parseFlowMappingValue(empty bool) (Event, bool, error) {
	tok, err := p.peek()
	if err != nil {
		return Event{}, false, err
	}
	if empty {
		p.state = parseFlowMappingKeyState
		return p.emptyScalar(tok.Mark), true, nil
	}
	if tok.Type == VALUE_TOKEN {
		p.skipToken()
		if tok, err = p.peek(); err != nil {
			return Event{}, false, err
		}
		if tok.Type != FLOW_ENTRY_TOKEN && tok.Type != FLOW_MAPPING_END_TOKEN {
			if err := p.pushState(parseFlowMappingKeyState); err != nil {
				return Event{}, false, err
			}
			return p.parseNode(false, false, false)
		}
	}
	p.state = parseFlowMappingKeyState
	return p.emptyScalar(tok.Mark), true, nil
}
