// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdspec loads command definitions from TOML or YAML files and
// builds parsers from them.
//
// A definition names the syntax, the options with their argument policy
// and value kind, the operand pattern and how operands are bound:
//
//	name = "cp"
//	syntax = "gnu"
//	operands = "SOURCE... DEST"
//
//	[[option]]
//	names = ["-r", "--recursive"]
//	help = "copy directories recursively"
package cmdspec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
	"tailscale.com/util/must"
)

// Format is the encoding of a definition file.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("cannot tell the format of %s: want .toml, .yaml or .yml", path)
}

// Command is one command definition.
type Command struct {
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
	// Syntax is "gnu" or "posix". Empty means gnu.
	Syntax string `toml:"syntax,omitempty" yaml:"syntax,omitempty"`
	// Requires is a version constraint on the tool, e.g. ">= 1.0".
	Requires string `toml:"requires,omitempty" yaml:"requires,omitempty"`
	// Operands is the operand pattern.
	Operands string        `toml:"operands,omitempty" yaml:"operands,omitempty"`
	Posix    SyntaxOptions `toml:"posix,omitempty" yaml:"posix,omitempty"`
	Options  []Option      `toml:"option,omitempty" yaml:"option,omitempty"`
	Operand  []Operand     `toml:"operand,omitempty" yaml:"operand,omitempty"`
}

// SyntaxOptions overrides the defaults of the chosen syntax. Unset fields
// keep the default.
type SyntaxOptions struct {
	JointArguments    *bool `toml:"joint_arguments,omitempty" yaml:"joint_arguments,omitempty"`
	OptionalArguments *bool `toml:"optional_arguments,omitempty" yaml:"optional_arguments,omitempty"`
	LateOptions       *bool `toml:"late_options,omitempty" yaml:"late_options,omitempty"`
	Abbreviation      *bool `toml:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
}

// Option defines one option and how its value is bound.
type Option struct {
	Names []string `toml:"names" yaml:"names"`
	// Argument is "none", "optional" or "required". Empty means none for
	// flags and required otherwise.
	Argument   string `toml:"argument,omitempty" yaml:"argument,omitempty"`
	Required   bool   `toml:"required,omitempty" yaml:"required,omitempty"`
	Repeatable bool   `toml:"repeatable,omitempty" yaml:"repeatable,omitempty"`
	// Kind is a bind.Kind name. If empty, an option that names no
	// argument, type, argument name, default or environment variable is a
	// flag; others are primitive, or primitive-array when repeatable.
	Kind string `toml:"kind,omitempty" yaml:"kind,omitempty"`
	// Type names a value type of bind.Registry, e.g. "int" or "port".
	Type    string `toml:"type,omitempty" yaml:"type,omitempty"`
	Range   string `toml:"range,omitempty" yaml:"range,omitempty"`
	Default string `toml:"default,omitempty" yaml:"default,omitempty"`
	Env     string `toml:"env,omitempty" yaml:"env,omitempty"`
	Help    string `toml:"help,omitempty" yaml:"help,omitempty"`
	ArgName string `toml:"arg_name,omitempty" yaml:"arg_name,omitempty"`
}

// Operand binds one name of the operand pattern.
type Operand struct {
	Name    string `toml:"name" yaml:"name"`
	Kind    string `toml:"kind,omitempty" yaml:"kind,omitempty"`
	Type    string `toml:"type,omitempty" yaml:"type,omitempty"`
	Range   string `toml:"range,omitempty" yaml:"range,omitempty"`
	Default string `toml:"default,omitempty" yaml:"default,omitempty"`
	Env     string `toml:"env,omitempty" yaml:"env,omitempty"`
}

// Load reads the definition at path. The format follows the extension.
func Load(path string) (*Command, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Command {
	return must.Get(Load(path))
}

// Decode parses a definition. Unknown keys are errors.
func Decode(data []byte, format Format) (*Command, error) {
	var c Command
	switch format {
	case TOML:
		md, err := toml.Decode(string(data), &c)
		if err != nil {
			return nil, err
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, fmt.Errorf("unknown key %q", keys[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Command) validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	switch strings.ToLower(c.Syntax) {
	case "", "gnu", "posix":
	default:
		return fmt.Errorf("unknown syntax %q: want gnu or posix", c.Syntax)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("invalid requires %q: %w", c.Requires, err)
		}
	}
	for i, o := range c.Options {
		if len(o.Names) == 0 {
			return fmt.Errorf("option %d has no names", i+1)
		}
	}
	return nil
}

// CheckRequires reports an error if version does not satisfy the
// definition's requires constraint.
func (c *Command) CheckRequires(version string) error {
	if c.Requires == "" {
		return nil
	}
	cons, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", version, err)
	}
	if !cons.Check(v) {
		return fmt.Errorf("%s requires version %s, have %s", c.Name, c.Requires, v)
	}
	return nil
}

// Encode writes c in the given format.
func (c *Command) Encode(w io.Writer, format Format) error {
	switch format {
	case TOML:
		return toml.NewEncoder(w).Encode(c)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}

// FileNames are the definition names Find looks for, in order.
var FileNames = []string{"yopt.toml", "yopt.yaml", "yopt.yml"}

// Find looks for a definition file in startDir and its parents. It
// returns an error wrapping os.ErrNotExist if there is none.
func Find(startDir string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !os.IsNotExist(err) {
				return "", err
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no %s found in %s or its parents: %w", strings.Join(FileNames, ", "), startDir, os.ErrNotExist)
}
