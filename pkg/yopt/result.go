// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yopt

import (
	"fmt"
	"slices"

	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/operand"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/syntax"
)

// Result is the outcome of one Parse call. Option accessors accept any
// name of an option and panic for a name that was never registered.
type Result struct {
	opts     *syntax.Options
	pattern  *operand.Pattern
	occ      map[string][]syntax.Occurrence
	operands []string
	named    map[string][]string
	defects  defect.List
}

func (r *Result) option(name string) *option.Option {
	o, ok := r.opts.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("yopt: unknown option %q", name))
	}
	return o
}

// Option returns the registered option with the given name or alias.
func (r *Result) Option(name string) *option.Option { return r.option(name) }

// Occurrences returns every occurrence of the option in command-line
// order.
func (r *Result) Occurrences(name string) []syntax.Occurrence {
	return slices.Clone(r.occ[r.option(name).Name()])
}

// Count returns how many times the option occurred.
func (r *Result) Count(name string) int {
	return len(r.occ[r.option(name).Name()])
}

// Has reports whether the option occurred at least once.
func (r *Result) Has(name string) bool { return r.Count(name) > 0 }

// Names returns the name used for each occurrence, with abbreviated long
// names expanded.
func (r *Result) Names(name string) []string {
	occ := r.occ[r.option(name).Name()]
	out := make([]string, len(occ))
	for i, o := range occ {
		out[i] = o.Name
	}
	return out
}

// Args returns the argument of each occurrence. An occurrence given
// without an argument has a nil entry.
func (r *Result) Args(name string) []*string {
	occ := r.occ[r.option(name).Name()]
	out := make([]*string, len(occ))
	for i, o := range occ {
		if o.HasArg {
			out[i] = &o.Arg
		}
	}
	return out
}

// Values returns the arguments that were given, skipping occurrences
// without one.
func (r *Result) Values(name string) []string {
	var out []string
	for _, o := range r.occ[r.option(name).Name()] {
		if o.HasArg {
			out = append(out, o.Arg)
		}
	}
	return out
}

// Arg returns the first argument given to the option.
func (r *Result) Arg(name string) (string, bool) {
	for _, o := range r.occ[r.option(name).Name()] {
		if o.HasArg {
			return o.Arg, true
		}
	}
	return "", false
}

// Operands returns the words that were not options or option-arguments.
func (r *Result) Operands() []string { return slices.Clone(r.operands) }

// Operand returns the operands assigned to name by the operand pattern.
// It returns an empty slice if nothing was assigned or the operands did
// not match. It panics if there is no pattern or the pattern does not
// declare name.
func (r *Result) Operand(name string) []string {
	if r.pattern == nil {
		panic("yopt: no operand pattern")
	}
	if !r.pattern.Declares(name) {
		panic(fmt.Sprintf("yopt: operand %q not declared in %q", name, r.pattern))
	}
	return slices.Clone(r.named[name])
}

// Errors returns every defect found, in the order they were found.
func (r *Result) Errors() defect.List { return slices.Clone(r.defects) }

// Check returns the defects as a defect.List, or nil if there are none.
// With reasons given, only defects with one of those reasons count.
func (r *Result) Check(reasons ...defect.Reason) error {
	var l defect.List
	for _, d := range r.defects {
		if len(reasons) == 0 || slices.Contains(reasons, d.Reason) {
			l = append(l, d)
		}
	}
	if len(l) == 0 {
		return nil
	}
	return l
}
