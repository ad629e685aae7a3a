// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamlstream/yamlstream"
)

func TestMain(m *testing.M) {
	// The text format colors its output; disable it so assertions see the
	// plain bytes.
	color.NoColor = true
	os.Exit(m.Run())
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestEventsCommandText(t *testing.T) {
	path := writeTempFile(t, "a: b\n")
	out, err := runCommand(t, "events", path)
	require.NoError(t, err)
	assert.Equal(t, "+STR\n+DOC\n+MAP\n=VAL :a\n=VAL :b\n-MAP\n-DOC\n-STR\n", out)
}

func TestTokensCommandText(t *testing.T) {
	path := writeTempFile(t, "- a\n")
	out, err := runCommand(t, "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, out, "STREAM-START")
	assert.Contains(t, out, "BLOCK-ENTRY")
	assert.Contains(t, out, `SCALAR "a" (plain)`)
	assert.Contains(t, out, "STREAM-END")
}

func TestEventsCommandJSON(t *testing.T) {
	path := writeTempFile(t, "k: v\n")
	out, err := runCommand(t, "events", path, "--format", "json")
	require.NoError(t, err)

	var infos []EventInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.NotEmpty(t, infos)
	assert.Equal(t, "STREAM-START", infos[0].Event)
	assert.Equal(t, "STREAM-END", infos[len(infos)-1].Event)
}

func TestTokensCommandUnknownFormat(t *testing.T) {
	path := writeTempFile(t, "a\n")
	_, err := runCommand(t, "tokens", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestEventsCommandParseFailure(t *testing.T) {
	path := writeTempFile(t, "[1, 2\n")
	_, err := runCommand(t, "events", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, yamlstream.ErrUnbalancedFlow)
}

func TestEventsCommandStrictFlag(t *testing.T) {
	path := writeTempFile(t, "k: v\nq\n")

	_, err := runCommand(t, "events", path)
	require.NoError(t, err)

	_, err = runCommand(t, "events", path, "--strict")
	assert.ErrorIs(t, err, yamlstream.ErrUnexpectedToken)
}

func TestEventsCommandAliasSentinelFlag(t *testing.T) {
	path := writeTempFile(t, "*missing\n")

	_, err := runCommand(t, "events", path)
	require.ErrorIs(t, err, yamlstream.ErrUnresolvedAlias)

	out, err := runCommand(t, "events", path, "--alias-sentinel")
	require.NoError(t, err)
	assert.Contains(t, out, "=ALI *-1")
}

func TestMissingFile(t *testing.T) {
	_, err := runCommand(t, "events", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
