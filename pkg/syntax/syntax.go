// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax splits an argument vector into option occurrences and
// operands.
//
// Two conventions are supported. Posix follows the Utility Syntax
// Guidelines: single-character options that may be clustered ("-abc"),
// an option-argument in the next word or, if enabled, joined to the name
// ("-ofile"), and "--" to end the options. Gnu adds long options
// ("--name", "--name=value") with unambiguous prefixes accepted as
// abbreviations.
//
// Problems in the input never stop tokenizing. They are collected as
// defect.Defect values in the Outcome so that one run reports every
// problem.
package syntax

import (
	"errors"
	"slices"
	"strings"

	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/option"
	"tailscale.com/util/mak"
)

// ErrOptionalArgument is returned by Validate for an option with an
// optional argument when the syntax does not allow them.
var ErrOptionalArgument = errors.New("optional option-argument is not allowed by configuration")

// Syntax is a command-line convention.
type Syntax interface {
	// String names the convention, e.g. "POSIX".
	String() string
	// Validate reports whether o can be used with this syntax.
	Validate(o *option.Option) error

	rules() rules
}

type rules struct {
	joint  bool
	late   bool
	long   bool
	abbrev bool
}

// Occurrence is one appearance of an option on the command line.
type Occurrence struct {
	// Name is the name used, with abbreviations expanded.
	Name string
	Arg  string
	// HasArg is false when no argument was given.
	HasArg bool
}

// Outcome is the result of tokenizing one argument vector.
type Outcome struct {
	// Occurrences maps canonical option names to their occurrences in
	// command-line order. Options that did not occur are absent.
	Occurrences map[string][]Occurrence
	Operands    []string
	Defects     defect.List
}

// Options is a validated set of options for one syntax.
type Options struct {
	syn    Syntax
	list   []*option.Option
	byName map[string]*option.Option
	long   []string // sorted, for abbreviation lookup
	logf   func(format string, args ...any)
}

// NewOptions returns an empty option set that validates against syn.
func NewOptions(syn Syntax) *Options {
	return &Options{syn: syn}
}

// Syntax returns the syntax the set validates against.
func (s *Options) Syntax() Syntax { return s.syn }

// SetLogf installs a trace function called for every decoded token.
func (s *Options) SetLogf(logf func(format string, args ...any)) {
	s.logf = logf
}

// Add validates o and adds it to the set. It fails if o is not valid for
// the syntax or shares a name with an option already in the set.
func (s *Options) Add(o *option.Option) error {
	if err := s.syn.Validate(o); err != nil {
		return err
	}
	for _, n := range o.Names() {
		if _, dup := s.byName[n]; dup {
			return &option.DuplicateError{Name: n}
		}
	}
	for _, n := range o.Names() {
		mak.Set(&s.byName, n, o)
		if strings.HasPrefix(n, "--") {
			i, _ := slices.BinarySearch(s.long, n)
			s.long = slices.Insert(s.long, i, n)
		}
	}
	s.list = append(s.list, o)
	return nil
}

// Lookup returns the option with the given name.
func (s *Options) Lookup(name string) (*option.Option, bool) {
	o, ok := s.byName[name]
	return o, ok
}

// All returns the options in the order they were added.
func (s *Options) All() []*option.Option {
	return slices.Clone(s.list)
}

// withPrefix returns the long names starting with prefix, sorted.
func (s *Options) withPrefix(prefix string) []string {
	i, _ := slices.BinarySearch(s.long, prefix)
	var out []string
	for ; i < len(s.long) && strings.HasPrefix(s.long[i], prefix); i++ {
		out = append(out, s.long[i])
	}
	return out
}

// Tokenize splits args into option occurrences and operands.
func (s *Options) Tokenize(args []string) *Outcome {
	m := &machine{opts: s, rules: s.syn.rules(), out: &Outcome{}}
	for _, arg := range args {
		m.feed(arg)
	}
	m.finish()
	return m.out
}
