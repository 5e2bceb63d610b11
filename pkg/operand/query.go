// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operand

import "tailscale.com/util/set"

// IsAbsencePossible reports whether some accepted input assigns no operand
// to name. It panics if name is not declared.
func (p *Pattern) IsAbsencePossible(name string) bool {
	p.mustDeclare(name)
	if p.states[0].final {
		return true
	}
	seen := make(set.Set[int])
	seen.Add(0)
	queue := []int{0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, e := range p.states[s].edges {
			switch {
			case e.label == name:
			case p.states[e.to].final:
				return true
			case !seen.Contains(e.to):
				seen.Add(e.to)
				queue = append(queue, e.to)
			}
		}
	}
	return false
}

// IsMultipleOccurrencePossible reports whether some path assigns more than
// one operand to name. It panics if name is not declared.
func (p *Pattern) IsMultipleOccurrencePossible(name string) bool {
	p.mustDeclare(name)

	// States entered through a name transition, then everything reachable
	// from them. Seeing another name transition on the way means two.
	after := make(set.Set[int])
	for _, st := range p.states {
		for _, e := range st.edges {
			if e.label == name {
				after.Add(e.to)
			}
		}
	}
	queue := after.Slice()
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, e := range p.states[s].edges {
			if e.label == name {
				return true
			}
			if !after.Contains(e.to) {
				after.Add(e.to)
				queue = append(queue, e.to)
			}
		}
	}
	return false
}
