// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Token output formatting for the yamlstream tool.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yamlstream/yamlstream"
)

// TokenInfo is the serializable view of a token for the yaml and json
// formats. Fields that do not apply to a token type are left empty and
// omitted.
type TokenInfo struct {
	Token  string `yaml:"token" json:"token"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
	Style  string `yaml:"style,omitempty" json:"style,omitempty"`
	Handle string `yaml:"handle,omitempty" json:"handle,omitempty"`
	Suffix string `yaml:"suffix,omitempty" json:"suffix,omitempty"`
	Major  int    `yaml:"major,omitempty" json:"major,omitempty"`
	Minor  int    `yaml:"minor,omitempty" json:"minor,omitempty"`
	Pos    string `yaml:"pos" json:"pos"`
}

func formatTokenInfo(tok yamlstream.Token) TokenInfo {
	info := TokenInfo{
		Token: tok.Type.String(),
		Pos:   tok.Mark.String(),
	}
	switch tok.Type {
	case yamlstream.SCALAR_TOKEN:
		info.Value = tok.Value
		info.Style = tok.Style.String()
	case yamlstream.ANCHOR_TOKEN, yamlstream.ALIAS_TOKEN, yamlstream.RESERVED_DIRECTIVE_TOKEN:
		info.Value = tok.Value
	case yamlstream.TAG_TOKEN, yamlstream.TAG_DIRECTIVE_TOKEN:
		info.Handle = tok.Handle
		info.Suffix = tok.Suffix
	case yamlstream.VERSION_DIRECTIVE_TOKEN:
		info.Major = tok.Major
		info.Minor = tok.Minor
	}
	return info
}

var (
	kindColor  = color.New(color.FgCyan)
	valueColor = color.New(color.FgGreen)
	posColor   = color.New(color.Faint)
)

func writeTokens(w io.Writer, tokens []yamlstream.Token, format string) error {
	infos := make([]TokenInfo, len(tokens))
	for i, tok := range tokens {
		infos[i] = formatTokenInfo(tok)
	}

	switch format {
	case "text":
		for _, info := range infos {
			kindColor.Fprint(w, info.Token)
			if info.Value != "" || info.Token == "SCALAR" {
				fmt.Fprint(w, " ")
				valueColor.Fprintf(w, "%q", info.Value)
			}
			if info.Style != "" {
				fmt.Fprintf(w, " (%s)", info.Style)
			}
			if info.Handle != "" || info.Suffix != "" {
				fmt.Fprintf(w, " %s %s", info.Handle, info.Suffix)
			}
			if info.Token == "VERSION-DIRECTIVE" {
				fmt.Fprintf(w, " %d.%d", info.Major, info.Minor)
			}
			fmt.Fprint(w, "  ")
			posColor.Fprintln(w, info.Pos)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return errors.Wrap(enc.Encode(infos), "failed to encode tokens as YAML")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(infos), "failed to encode tokens as JSON")
	}
	return errors.Errorf("unknown output format %q", format)
}
