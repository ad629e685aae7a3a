// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Event vocabulary produced by the parser.
// Includes the compact yaml-test-suite rendering used by tests and the
// inspection CLI.

package yamlstream

import (
	"strconv"
	"strings"
)

// EventType identifies the kind of a structural event.
type EventType int

const (
	NO_EVENT EventType = iota

	STREAM_START_EVENT
	STREAM_END_EVENT
	DOCUMENT_START_EVENT
	DOCUMENT_END_EVENT
	YAML_DIRECTIVE_EVENT
	TAG_DIRECTIVE_EVENT
	ALIAS_EVENT
	SCALAR_EVENT
	SEQUENCE_START_EVENT
	SEQUENCE_END_EVENT
	MAPPING_START_EVENT
	MAPPING_END_EVENT
)

// String returns a string representation of the event type.
func (et EventType) String() string {
	switch et {
	case NO_EVENT:
		return "NO-EVENT"
	case STREAM_START_EVENT:
		return "STREAM-START"
	case STREAM_END_EVENT:
		return "STREAM-END"
	case DOCUMENT_START_EVENT:
		return "DOCUMENT-START"
	case DOCUMENT_END_EVENT:
		return "DOCUMENT-END"
	case YAML_DIRECTIVE_EVENT:
		return "YAML-DIRECTIVE"
	case TAG_DIRECTIVE_EVENT:
		return "TAG-DIRECTIVE"
	case ALIAS_EVENT:
		return "ALIAS"
	case SCALAR_EVENT:
		return "SCALAR"
	case SEQUENCE_START_EVENT:
		return "SEQUENCE-START"
	case SEQUENCE_END_EVENT:
		return "SEQUENCE-END"
	case MAPPING_START_EVENT:
		return "MAPPING-START"
	case MAPPING_END_EVENT:
		return "MAPPING-END"
	}
	return "<unknown event type>"
}

// Event is one structural unit of the parsed stream. The stream follows a
// balanced-bracket discipline: every SEQUENCE-START and MAPPING-START has a
// matching end event, every DOCUMENT-START a matching DOCUMENT-END, and the
// stream terminates with STREAM-END.
//
// Anchor carries the integer id assigned to an &name property (0 means no
// anchor); for ALIAS_EVENT it is the id of the referenced anchor. Tag is the
// raw tag text as written, not resolved against any schema. Implicit marks
// document boundaries that had no explicit marker, and scalars synthesized
// for empty nodes.
type Event struct {
	Type EventType
	Mark Mark

	Value  string
	Style  ScalarStyle
	Anchor int
	Tag    string

	Implicit bool
	Flow     bool

	// YAML_DIRECTIVE_EVENT payload.
	Major int
	Minor int

	// TAG_DIRECTIVE_EVENT payload.
	Handle string
	Prefix string
}

// eventValueEscaper renders scalar values on a single line for the compact
// event format.
var eventValueEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

// String formats the event in the compact yaml-test-suite notation:
// +STR, +DOC, +MAP, +SEQ, =VAL, =ALI and their closing counterparts.
// Anchor ids are rendered as &<id> and tags as <tag>.
func (e Event) String() string {
	var b strings.Builder
	switch e.Type {
	case STREAM_START_EVENT:
		b.WriteString("+STR")
	case STREAM_END_EVENT:
		b.WriteString("-STR")
	case DOCUMENT_START_EVENT:
		b.WriteString("+DOC")
		if !e.Implicit {
			b.WriteString(" ---")
		}
	case DOCUMENT_END_EVENT:
		b.WriteString("-DOC")
		if !e.Implicit {
			b.WriteString(" ...")
		}
	case YAML_DIRECTIVE_EVENT:
		b.WriteString("%YAML ")
		b.WriteString(strconv.Itoa(e.Major))
		b.WriteString(".")
		b.WriteString(strconv.Itoa(e.Minor))
	case TAG_DIRECTIVE_EVENT:
		b.WriteString("%TAG ")
		b.WriteString(e.Handle)
		b.WriteString(" ")
		b.WriteString(e.Prefix)
	case ALIAS_EVENT:
		b.WriteString("=ALI *")
		b.WriteString(strconv.Itoa(e.Anchor))
	case SCALAR_EVENT:
		b.WriteString("=VAL")
		e.writeProperties(&b)
		switch e.Style {
		case PLAIN_SCALAR_STYLE:
			b.WriteString(" :")
		case SINGLE_QUOTED_SCALAR_STYLE:
			b.WriteString(" '")
		case DOUBLE_QUOTED_SCALAR_STYLE:
			b.WriteString(` "`)
		case LITERAL_SCALAR_STYLE:
			b.WriteString(" |")
		case FOLDED_SCALAR_STYLE:
			b.WriteString(" >")
		}
		b.WriteString(eventValueEscaper.Replace(e.Value))
	case SEQUENCE_START_EVENT:
		b.WriteString("+SEQ")
		e.writeProperties(&b)
		if e.Flow {
			b.WriteString(" []")
		}
	case SEQUENCE_END_EVENT:
		b.WriteString("-SEQ")
	case MAPPING_START_EVENT:
		b.WriteString("+MAP")
		e.writeProperties(&b)
		if e.Flow {
			b.WriteString(" {}")
		}
	case MAPPING_END_EVENT:
		b.WriteString("-MAP")
	default:
		b.WriteString("=NONE")
	}
	return b.String()
}

func (e Event) writeProperties(b *strings.Builder) {
	if e.Anchor != 0 {
		b.WriteString(" &")
		b.WriteString(strconv.Itoa(e.Anchor))
	}
	if e.Tag != "" {
		b.WriteString(" <")
		b.WriteString(e.Tag)
		b.WriteString(">")
	}
}
