// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operand

import (
	"fmt"

	"github.com/yeetrun/yopt/pkg/defect"
)

// trail is a label path stored back to front so explorers can share
// prefixes.
type trail struct {
	label string
	prev  *trail
}

// explorer is one active state of the simulation. paths counts the
// distinct label paths that reached the state; only one is kept.
type explorer struct {
	state int
	trail *trail
	paths int
}

// Match assigns operands to the names of the pattern. On success every
// declared name is present in the result, mapped to an empty slice if no
// operand was assigned to it, and values keep their input order.
//
// If no path accepts the input, Match returns a defect.Defect with reason
// TooManyOperands or TooFewOperands. Matching with an ambiguous pattern
// panics if the input hits the ambiguity.
func (p *Pattern) Match(operands []string) (map[string][]string, error) {
	active := []explorer{{state: 0, paths: 1}}
	for range operands {
		var next []explorer
		at := make(map[int]int) // state -> index in next
		for _, x := range active {
			for _, e := range p.states[x.state].edges {
				if i, ok := at[e.to]; ok {
					next[i].paths += x.paths
					continue
				}
				at[e.to] = len(next)
				next = append(next, explorer{
					state: e.to,
					trail: &trail{label: e.label, prev: x.trail},
					paths: x.paths,
				})
			}
		}
		if len(next) == 0 {
			return nil, defect.Defect{Reason: defect.TooManyOperands}
		}
		active = next
	}

	var halted *explorer
	paths := 0
	for i := range active {
		if p.states[active[i].state].final {
			halted = &active[i]
			paths += active[i].paths
		}
	}
	switch {
	case paths == 0:
		return nil, defect.Defect{Reason: defect.TooFewOperands}
	case paths > 1:
		panic(fmt.Sprintf("operand: ambiguous pattern %q used for matching", p.text))
	}

	labels := make([]string, len(operands))
	i := len(operands) - 1
	for t := halted.trail; t != nil; t = t.prev {
		labels[i] = t.label
		i--
	}
	out := p.Empty()
	for i, l := range labels {
		out[l] = append(out[l], operands[i])
	}
	return out, nil
}

// Empty returns the result of a failed match: every declared name mapped
// to an empty slice.
func (p *Pattern) Empty() map[string][]string {
	out := make(map[string][]string, len(p.names))
	for _, n := range p.names {
		out[n] = []string{}
	}
	return out
}
