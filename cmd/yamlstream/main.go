// Copyright 2025 The yamlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// This binary provides a YAML stream inspection tool: it reads YAML from a
// file or stdin and prints the token stream or the structural event stream
// in text, yaml or json form.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yamlstream/yamlstream"
)

// version is the current version of the yamlstream CLI tool.
const version = "0.1.0"

// cliOptions collects the flags shared by the tokens and events commands.
type cliOptions struct {
	format                string
	strict                bool
	strictYAML12          bool
	aliasSentinel         bool
	rejectDuplicateAnchor bool
	maxDepth              int
}

func (o *cliOptions) parserOptions() []yamlstream.Option {
	opts := []yamlstream.Option{
		yamlstream.WithStrict(o.strict),
		yamlstream.WithStrictYAML12(o.strictYAML12),
		yamlstream.WithResolveAliasSentinel(o.aliasSentinel),
		yamlstream.WithAllowDuplicateAnchors(!o.rejectDuplicateAnchor),
	}
	if o.maxDepth > 0 {
		opts = append(opts, yamlstream.WithMaxDepth(o.maxDepth))
	}
	return opts
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yamlstream: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "yamlstream",
		Short:         "Inspect the token and event streams of YAML input",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "text",
		"output format: text, yaml or json")
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false,
		"fail on grammar positions that would otherwise recover as empty scalars")
	root.PersistentFlags().BoolVar(&opts.strictYAML12, "strict-yaml12", false,
		"reject %YAML directives naming a version other than 1.2")
	root.PersistentFlags().BoolVar(&opts.aliasSentinel, "alias-sentinel", false,
		"emit undefined aliases with id -1 instead of failing")
	root.PersistentFlags().BoolVar(&opts.rejectDuplicateAnchor, "no-duplicate-anchors", false,
		"fail when an anchor name is defined twice in one document")
	root.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", 0,
		"maximum nesting depth, 0 for the default")

	root.AddCommand(newTokensCommand(opts))
	root.AddCommand(newEventsCommand(opts))
	return root
}

func newTokensCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			tokens, err := yamlstream.ScanAll(input, opts.parserOptions()...)
			if err != nil {
				return errors.Wrap(err, "failed to scan input")
			}
			return writeTokens(cmd.OutOrStdout(), tokens, opts.format)
		},
	}
}

func newEventsCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events [file]",
		Short: "Print the structural event stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}
			events, err := yamlstream.NewParser(input, opts.parserOptions()...).Parse()
			if err != nil {
				return errors.Wrap(err, "failed to parse input")
			}
			return writeEvents(cmd.OutOrStdout(), events, opts.format)
		},
	}
}

// readInput reads the file named by args, or stdin when no file is given.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		input, err := io.ReadAll(os.Stdin)
		return input, errors.Wrap(err, "failed to read stdin")
	}
	input, err := os.ReadFile(args[0])
	return input, errors.Wrapf(err, "failed to read %s", args[0])
}
