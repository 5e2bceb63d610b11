// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package operand compiles operand patterns and matches operand lists
// against them.
//
// A pattern describes the shape of the positional arguments of a command:
//
//	SOURCE... DEST
//	[A [B]] (C D E)...
//	FILE | --
//
// Names match [A-Za-z0-9-]+. Square brackets make the enclosed part
// optional, parentheses group, "..." repeats the preceding element one or
// more times and "|" separates alternatives of the enclosing group. Tokens
// may be separated by whitespace.
//
// A compiled Pattern is a finite automaton whose transitions are labelled
// with operand names. Each transition consumes one operand. Because a
// matcher only sees how many operands there are, two different label
// sequences of the same length cannot be told apart; such a pattern is
// ambiguous and must be rejected before it is used with Match.
package operand

import (
	"iter"
	"slices"
)

type edge struct {
	to    int
	label string
}

type state struct {
	final bool
	edges []edge
}

// put adds a transition to `to`, replacing the label of an existing one.
func (s *state) put(to int, label string) {
	for i := range s.edges {
		if s.edges[i].to == to {
			s.edges[i].label = label
			return
		}
	}
	s.edges = append(s.edges, edge{to: to, label: label})
}

// Pattern is a compiled operand pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	text  string
	names []string
	// states[0] is the initial state. No transition leads back to it.
	states []state
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.text }

// Names returns the declared operand names in order of first appearance.
func (p *Pattern) Names() []string { return slices.Clone(p.names) }

// Declares reports whether name appears in the pattern.
func (p *Pattern) Declares(name string) bool { return slices.Contains(p.names, name) }

func (p *Pattern) mustDeclare(name string) {
	if !p.Declares(name) {
		panic("operand: " + name + " is not declared in pattern " + p.text)
	}
}

// IsEmptyPossible reports whether the pattern accepts an empty operand
// list.
func (p *Pattern) IsEmptyPossible() bool {
	return p.states[0].final
}

// IsMoreThanOneOperandPossible reports whether any accepted or rejected
// input may hold more than one operand.
func (p *Pattern) IsMoreThanOneOperandPossible() bool {
	for _, e := range p.states[0].edges {
		if len(p.states[e.to].edges) > 0 {
			return true
		}
	}
	return false
}

// Sequences yields every accepted label sequence of exactly n operands.
// It is meant for documentation and tests; the number of sequences grows
// quickly with n.
func (p *Pattern) Sequences(n int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		if n < 0 {
			return
		}
		buf := make([]string, 0, n)
		var walk func(s int) bool
		walk = func(s int) bool {
			if len(buf) == n {
				if p.states[s].final {
					return yield(slices.Clone(buf))
				}
				return true
			}
			for _, e := range p.states[s].edges {
				buf = append(buf, e.label)
				ok := walk(e.to)
				buf = buf[:len(buf)-1]
				if !ok {
					return false
				}
			}
			return true
		}
		walk(0)
	}
}

func (p *Pattern) label(from, to int) string {
	for _, e := range p.states[from].edges {
		if e.to == to {
			return e.label
		}
	}
	return ""
}
