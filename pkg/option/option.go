// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package option declares command-line options: their names, how often
// they may occur and whether they take an argument.
package option

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Policy says whether an option takes an argument.
type Policy int

const (
	None Policy = iota
	Optional
	Required
)

func (p Policy) String() string {
	switch p {
	case None:
		return "none"
	case Optional:
		return "optional"
	case Required:
		return "required"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses the names produced by Policy.String. The empty string
// is None.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return None, nil
	case "optional":
		return Optional, nil
	case "required":
		return Required, nil
	}
	return None, fmt.Errorf("invalid argument policy %q (want none, optional or required)", s)
}

// ErrNoNames is returned when an option is declared without any name.
var ErrNoNames = errors.New("option must have at least one name")

// NameError reports a name the active syntax does not allow.
type NameError struct {
	Name   string
	Syntax string
	Reason string
}

func (e *NameError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%q is not a valid %s option name: %s", e.Name, e.Syntax, e.Reason)
	}
	return fmt.Sprintf("%q is not a valid %s option name", e.Name, e.Syntax)
}

// DuplicateError reports a name declared twice, either within one option or
// across the options of one parser.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return "duplicate option name: " + e.Name
}

// Option is an immutable option declaration. The first name is the
// canonical one; the rest are aliases.
type Option struct {
	names      []string
	required   bool
	repeatable bool
	policy     Policy
}

// New declares an option with the given argument policy and names.
func New(policy Policy, names ...string) (*Option, error) {
	if len(names) == 0 {
		return nil, ErrNoNames
	}
	for i, n := range names {
		if n == "" {
			return nil, &NameError{Name: n, Syntax: "any", Reason: "empty"}
		}
		if slices.Contains(names[:i], n) {
			return nil, &DuplicateError{Name: n}
		}
	}
	switch policy {
	case None, Optional, Required:
	default:
		return nil, fmt.Errorf("invalid argument policy %v", policy)
	}
	return &Option{names: slices.Clone(names), policy: policy}, nil
}

// Must is like New but panics on error.
func Must(policy Policy, names ...string) *Option {
	o, err := New(policy, names...)
	if err != nil {
		panic(err)
	}
	return o
}

// Require returns a copy of o that must occur at least once.
func (o *Option) Require() *Option {
	c := *o
	c.required = true
	return &c
}

// Repeat returns a copy of o that may occur more than once.
func (o *Option) Repeat() *Option {
	c := *o
	c.repeatable = true
	return &c
}

// Name returns the canonical name.
func (o *Option) Name() string { return o.names[0] }

// Names returns all names, canonical first.
func (o *Option) Names() []string { return slices.Clone(o.names) }

// Aliases returns every name but the canonical one.
func (o *Option) Aliases() []string { return slices.Clone(o.names[1:]) }

// Has reports whether name is one of o's names.
func (o *Option) Has(name string) bool { return slices.Contains(o.names, name) }

func (o *Option) IsRequired() bool   { return o.required }
func (o *Option) IsRepeatable() bool { return o.repeatable }
func (o *Option) Policy() Policy     { return o.policy }

// AcceptsArgument reports whether an argument may be given.
func (o *Option) AcceptsArgument() bool { return o.policy != None }

func (o *Option) String() string {
	return strings.Join(o.names, ", ")
}
