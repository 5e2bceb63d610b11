// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package defect describes problems found in user input while parsing a
// command line. Defects are values: the parser collects them instead of
// stopping at the first one.
package defect

import (
	"fmt"
	"strings"
)

// Reason classifies a Defect.
type Reason int

const (
	UnknownOption Reason = iota + 1
	Ambiguous
	ArgumentRequired
	UnexpectedArgument
	TooManyOccurrences
	LateOption
	MissingOption
	TooManyOperands
	TooFewOperands
	IllegalValue
)

var reasonNames = map[Reason]string{
	UnknownOption:      "unknown-option",
	Ambiguous:          "ambiguous",
	ArgumentRequired:   "argument-required",
	UnexpectedArgument: "unexpected-argument",
	TooManyOccurrences: "too-many-occurrences",
	LateOption:         "late-option",
	MissingOption:      "missing-option",
	TooManyOperands:    "too-many-operands",
	TooFewOperands:     "too-few-operands",
	IllegalValue:       "illegal-value",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Defect is a single problem with the parsed input.
type Defect struct {
	Reason Reason
	// Name is the option or operand name the defect is about. For option
	// defects it is the canonical name when the option is known, and the
	// name as typed otherwise.
	Name string
	// Related lists the names that together caused the defect, e.g. every
	// alias used for a repeated option.
	Related []string
	// Value is the offending text for IllegalValue.
	Value string
	// Err is the decode failure for IllegalValue.
	Err error
}

func (d Defect) Error() string {
	switch d.Reason {
	case UnknownOption:
		return "unknown option: " + d.Name
	case Ambiguous:
		return "ambiguous option name: " + d.Name
	case ArgumentRequired:
		return fmt.Sprintf("option %s requires an argument", d.Name)
	case UnexpectedArgument:
		return fmt.Sprintf("option %s does not accept an argument", d.Name)
	case TooManyOccurrences:
		return fmt.Sprintf("option %s is specified more than once", namesString(d.Name, d.Related))
	case LateOption:
		return "options must precede operands: " + d.Name
	case MissingOption:
		return fmt.Sprintf("option %s missing", d.Name)
	case TooManyOperands:
		return "too many operands"
	case TooFewOperands:
		return "too few operands"
	case IllegalValue:
		if d.Err != nil {
			return fmt.Sprintf("illegal value for %s: %q: %v", d.Name, d.Value, d.Err)
		}
		return fmt.Sprintf("illegal value for %s: %q", d.Name, d.Value)
	}
	return fmt.Sprintf("%v: %s", d.Reason, d.Name)
}

func (d Defect) Unwrap() error {
	return d.Err
}

// namesString renders "main(alias, alias)", leaving out the main name from
// the parenthesized list.
func namesString(main string, related []string) string {
	var others []string
	for _, n := range related {
		if n != main {
			others = append(others, n)
		}
	}
	if len(others) == 0 {
		return main
	}
	return main + "(" + strings.Join(others, ", ") + ")"
}

// List is an ordered collection of defects. A non-empty List is an error.
type List []Defect

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, d := range l {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes every defect to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, d := range l {
		errs[i] = d
	}
	return errs
}

// Has reports whether any defect in l has the given reason.
func (l List) Has(r Reason) bool {
	for _, d := range l {
		if d.Reason == r {
			return true
		}
	}
	return false
}

// ByReason returns the defects with the given reason, in order.
func (l List) ByReason(r Reason) List {
	var out List
	for _, d := range l {
		if d.Reason == r {
			out = append(out, d)
		}
	}
	return out
}
