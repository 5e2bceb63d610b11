// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operand

import (
	"fmt"
	"strings"
)

// Ambiguity is a witness that a pattern is ambiguous: two different ways
// to read the same number of operands.
type Ambiguity struct {
	Pattern string
	First   []string
	Second  []string
}

func (a *Ambiguity) Error() string {
	return fmt.Sprintf("operand pattern %q is ambiguous: an input of length %d can be read as %q or as %q",
		a.Pattern, len(a.First), strings.Join(a.First, " "), strings.Join(a.Second, " "))
}

// IsAmbiguous reports whether Ambiguity returns a witness.
func (p *Pattern) IsAmbiguous() bool {
	return p.Ambiguity() != nil
}

// Ambiguity searches for two distinct paths of equal length from the
// initial state to a final state and returns the shortest such pair, or
// nil if the pattern is unambiguous.
//
// The search runs breadth-first over pairs of states plus a flag telling
// whether the two paths have diverged. Every final state gets an extra
// transition to a synthetic accept node, so the goal is the pair
// (accept, accept) with the flag set.
func (p *Pattern) Ambiguity() *Ambiguity {
	n := len(p.states)
	accept := n
	size := n + 1
	id := func(a, b int, diverged bool) int {
		v := (a*size + b) * 2
		if diverged {
			v++
		}
		return v
	}
	goal := id(accept, accept, true)

	succ := func(s int) []edge {
		if s == accept {
			return nil
		}
		out := p.states[s].edges
		if p.states[s].final {
			out = append(out[:len(out):len(out)], edge{to: accept})
		}
		return out
	}

	prev := make([]int, size*size*2)
	for i := range prev {
		prev[i] = -1
	}
	start := id(0, 0, false)
	prev[start] = start
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		a, b, d := cur/2/size, cur/2%size, cur%2 == 1
		for _, e1 := range succ(a) {
			for _, e2 := range succ(b) {
				nd := d || a != b || e1.to != e2.to || e1.label != e2.label
				next := id(e1.to, e2.to, nd)
				if next == goal {
					return p.witness(prev, cur, size)
				}
				if prev[next] >= 0 {
					continue
				}
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}
	return nil
}

// witness rebuilds the two label sequences ending at node last.
func (p *Pattern) witness(prev []int, last, size int) *Ambiguity {
	var nodes []int
	for cur := last; ; cur = prev[cur] {
		nodes = append(nodes, cur)
		if prev[cur] == cur {
			break
		}
	}
	steps := len(nodes) - 1
	a := &Ambiguity{
		Pattern: p.text,
		First:   make([]string, steps),
		Second:  make([]string, steps),
	}
	for i := 0; i < steps; i++ {
		from, to := nodes[steps-i], nodes[steps-i-1]
		a.First[i] = p.label(from/2/size, to/2/size)
		a.Second[i] = p.label(from/2%size, to/2%size)
	}
	return a
}
