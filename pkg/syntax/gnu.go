// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"regexp"

	"github.com/yeetrun/yopt/pkg/option"
)

// Gnu extends Posix with long options. Use NewGnu for the usual GNU
// defaults.
type Gnu struct {
	Posix
	// Abbreviations accepts any unambiguous prefix of a long name.
	Abbreviations bool
}

// NewGnu returns a Gnu syntax that allows options after operands and
// abbreviated long names.
func NewGnu() *Gnu {
	return &Gnu{
		Posix:         Posix{LateOptions: true},
		Abbreviations: true,
	}
}

var gnuName = regexp.MustCompile(`^-(?:[A-Za-z0-9]|-[A-Za-z0-9-]+)$`)

func (g *Gnu) String() string { return "GNU" }

func (g *Gnu) Validate(o *option.Option) error {
	return validate(o, g.OptionalArguments, g.String(), gnuName)
}

func (g *Gnu) rules() rules {
	r := g.Posix.rules()
	r.long = true
	r.abbrev = g.Abbreviations
	return r
}
