// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"regexp"

	"github.com/yeetrun/yopt/pkg/option"
)

// Posix is the POSIX utility argument syntax. The zero value is the strict
// form recommended by the guidelines: no optional option-arguments, no
// option-arguments joined to the name, and all options before the first
// operand.
type Posix struct {
	// OptionalArguments allows options whose argument may be left out.
	// Such an argument can only be given joined to the name, so enabling
	// it also enables JointArguments.
	OptionalArguments bool
	// JointArguments allows "-ofile" for "-o file".
	JointArguments bool
	// LateOptions allows options after the first operand.
	LateOptions bool
}

var posixName = regexp.MustCompile(`^-[A-Za-z0-9]$`)

func (p *Posix) String() string { return "POSIX" }

func (p *Posix) Validate(o *option.Option) error {
	return validate(o, p.OptionalArguments, p.String(), posixName)
}

func (p *Posix) rules() rules {
	return rules{
		joint: p.JointArguments || p.OptionalArguments,
		late:  p.LateOptions,
	}
}

func validate(o *option.Option, optional bool, syn string, re *regexp.Regexp) error {
	if o.Policy() == option.Optional && !optional {
		return ErrOptionalArgument
	}
	for _, n := range o.Names() {
		if !re.MatchString(n) {
			return &option.NameError{Name: n, Syntax: syn}
		}
	}
	return nil
}
