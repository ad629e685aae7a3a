// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Event output formatting for the yamlstream tool. The text format is the
// compact notation of Event.String; yaml and json render one EventInfo per
// event.

package main

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yamlstream/yamlstream"
)

// EventInfo is the serializable view of an event for the yaml and json
// formats.
type EventInfo struct {
	Event    string `yaml:"event" json:"event"`
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
	Style    string `yaml:"style,omitempty" json:"style,omitempty"`
	Tag      string `yaml:"tag,omitempty" json:"tag,omitempty"`
	Anchor   int    `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	Implicit *bool  `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Flow     *bool  `yaml:"flow,omitempty" json:"flow,omitempty"`
	Pos      string `yaml:"pos" json:"pos"`
}

func formatEventInfo(ev yamlstream.Event) EventInfo {
	info := EventInfo{
		Event:  ev.Type.String(),
		Anchor: ev.Anchor,
		Tag:    ev.Tag,
		Pos:    ev.Mark.String(),
	}
	switch ev.Type {
	case yamlstream.SCALAR_EVENT:
		info.Value = ev.Value
		info.Style = ev.Style.String()
	case yamlstream.YAML_DIRECTIVE_EVENT:
		info.Value = ev.String()
	case yamlstream.TAG_DIRECTIVE_EVENT:
		info.Value = ev.Handle + " " + ev.Prefix
	}
	if ev.Type == yamlstream.DOCUMENT_START_EVENT || ev.Type == yamlstream.DOCUMENT_END_EVENT {
		implicit := ev.Implicit
		info.Implicit = &implicit
	}
	if ev.Flow {
		flow := true
		info.Flow = &flow
	}
	return info
}

func writeEvents(w io.Writer, events []yamlstream.Event, format string) error {
	switch format {
	case "text":
		for _, ev := range events {
			line := ev.String()
			// Color the event tag, leave the payload plain.
			tag, rest, found := strings.Cut(line, " ")
			kindColor.Fprint(w, tag)
			if found {
				valueColor.Fprint(w, " "+rest)
			}
			io.WriteString(w, "\n")
		}
		return nil
	case "yaml":
		infos := make([]EventInfo, len(events))
		for i, ev := range events {
			infos[i] = formatEventInfo(ev)
		}
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return errors.Wrap(enc.Encode(infos), "failed to encode events as YAML")
	case "json":
		infos := make([]EventInfo, len(events))
		for i, ev := range events {
			infos[i] = formatEventInfo(ev)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "failed to encode events as JSON")
	}
	return errors.Errorf("unknown output format %q", format)
}
