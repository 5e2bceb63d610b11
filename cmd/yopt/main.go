// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command yopt checks and tries out command-line definitions written for
// the yopt parser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/shayne/yargs"
	"github.com/yeetrun/yopt/pkg/cmdspec"
	"github.com/yeetrun/yopt/pkg/defect"
)

// version is set with -ldflags "-X main.version=...". Definitions may
// require a minimum version of the tool.
var version = "1.0.0"

var (
	// passthrough holds everything after the first "--". It is kept away
	// from yargs so that the tried command line may use any flags.
	passthrough []string
	global      globalFlagsParsed
	st          = newStyler(true)
)

type globalFlagsParsed struct {
	Verbose bool `flag:"verbose" help:"Trace parsing decisions to stderr"`
	NoColor bool `flag:"no-color" help:"Disable colored output (also NO_COLOR)"`
}

func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args, yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	return result.Flags, result.RemainingArgs, nil
}

// splitPassthrough splits args at the first "--".
func splitPassthrough(args []string) (own, rest []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], slices.Clone(args[i+1:])
}

// logf returns the trace function for parsers, or nil unless --verbose.
func logf() func(string, ...any) {
	if global.Verbose {
		return log.Printf
	}
	return nil
}

// definitionPath returns the single FILE in pos, or the definition found
// from the working directory.
func definitionPath(pos []string) (string, error) {
	switch len(pos) {
	case 0:
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return cmdspec.Find(wd)
	case 1:
		return pos[0], nil
	}
	return "", fmt.Errorf("expected at most one FILE, got %d; put the command line to parse after --", len(pos))
}

// loadDefinition loads the definition at path and checks that this
// version of yopt satisfies it.
func loadDefinition(path string) (*cmdspec.Command, error) {
	c, err := cmdspec.Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.CheckRequires(version); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// positional drops the subcommand name from yargs positional arguments.
func positional(args []string, name string) []string {
	if len(args) > 0 && args[0] == name {
		return args[1:]
	}
	return args
}

func printCLIError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var l defect.List
	if errors.As(err, &l) {
		for _, d := range l {
			fmt.Fprintln(w, st.bad("error:"), d)
		}
		return
	}
	fmt.Fprintln(w, st.bad("error:"), err)
}

func main() {
	log.SetFlags(0)

	args, rest := splitPassthrough(os.Args[1:])
	passthrough = rest
	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(2)
	}
	global = flags
	st = newStyler(!global.NoColor && !color.NoColor)

	handlers := map[string]yargs.SubcommandHandler{
		"parse":   handleParse,
		"pattern": handlePattern,
		"usage":   handleUsage,
		"lint":    handleLint,
		"convert": handleConvert,
		"version": handleVersion,
	}
	if err := yargs.RunSubcommandsWithGroups(context.Background(), remaining, buildHelpConfig(), globalFlagsParsed{}, handlers, nil); err != nil {
		printCLIError(os.Stderr, err)
		os.Exit(1)
	}
}

func buildHelpConfig() yargs.HelpConfig {
	return yargs.HelpConfig{
		Command: yargs.CommandInfo{
			Name:        "yopt",
			Description: "Check command-line definitions and try them against real command lines.",
			Examples: []string{
				"yopt parse cp.toml -- -r a b dest",
				"yopt usage",
				"yopt pattern 'SOURCE... DEST' --sequences=3",
				"yopt lint defs/*.toml",
			},
		},
		SubCommands: map[string]yargs.SubCommandInfo{
			"parse": {
				Name:        "parse",
				Description: "Parse the arguments after -- with a definition and show what was bound",
				Usage:       "[FILE] [--json] -- ARGS...",
				Examples:    []string{"yopt parse serve.yaml -- -vv --port=9000 /srv"},
			},
			"pattern": {
				Name:        "pattern",
				Description: "Check an operand pattern for ambiguity and list the sequences it accepts",
				Usage:       "PATTERN [--sequences=N]",
			},
			"usage": {
				Name:        "usage",
				Description: "Print the help page of a definition",
				Usage:       "[FILE] [--width=N]",
				Aliases:     []string{"man"},
			},
			"lint": {
				Name:        "lint",
				Description: "Load and build definitions, reporting every one that fails",
				Usage:       "[FILE...]",
			},
			"convert": {
				Name:        "convert",
				Description: "Rewrite a definition as TOML or YAML",
				Usage:       "FILE [--to=toml|yaml] [-o OUT] [-y]",
				Examples:    []string{"yopt convert cp.toml -o cp.yaml"},
			},
			"version": {
				Name:        "version",
				Description: "Print the yopt version",
			},
		},
	}
}
