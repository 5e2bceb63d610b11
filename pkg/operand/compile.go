// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operand

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a malformed pattern.
type SyntaxError struct {
	Pattern string
	Offset  int // byte offset into Pattern
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid operand pattern %q: %s (at offset %d)", e.Pattern, e.Msg, e.Offset)
}

type tokenKind int

const (
	tName tokenKind = iota
	tOpenOptional
	tCloseOptional
	tOpenGroup
	tCloseGroup
	tRepeat
	tBar
)

type token struct {
	kind tokenKind
	text string
	off  int
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-'
}

var punct = map[byte]tokenKind{
	'[': tOpenOptional,
	']': tCloseOptional,
	'(': tOpenGroup,
	')': tCloseGroup,
	'|': tBar,
}

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		if kind, ok := punct[c]; ok {
			toks = append(toks, token{kind: kind, text: src[i : i+1], off: i})
			i++
			continue
		}
		switch {
		case isNameByte(c):
			j := i
			for j < len(src) && isNameByte(src[j]) {
				j++
			}
			toks = append(toks, token{kind: tName, text: src[i:j], off: i})
			i = j
		case strings.HasPrefix(src[i:], "..."):
			toks = append(toks, token{kind: tRepeat, text: "...", off: i})
			i += 3
		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if !unicode.IsSpace(r) {
				return nil, &SyntaxError{Pattern: src, Offset: i, Msg: fmt.Sprintf("illegal character %q", r)}
			}
			i += size
		}
	}
	return toks, nil
}

// frag is an automaton fragment under construction: a start state and the
// states reachable from it, excluding the start.
type frag struct {
	start   int
	members []int
}

type compiler struct {
	src    string
	toks   []token
	states []state
}

func (c *compiler) newState(final bool) int {
	c.states = append(c.states, state{final: final})
	return len(c.states) - 1
}

func (c *compiler) copyEdges(dst, src int) {
	for _, e := range c.states[src].edges {
		c.states[dst].put(e.to, e.label)
	}
}

func (c *compiler) atom(name string) frag {
	start := c.newState(false)
	end := c.newState(true)
	c.states[start].put(end, name)
	return frag{start: start, members: []int{end}}
}

func (c *compiler) optional(f frag) {
	c.states[f.start].final = true
}

// repeat loops every final member back to the start's successors.
func (c *compiler) repeat(f frag) {
	for _, m := range f.members {
		if c.states[m].final {
			c.copyEdges(m, f.start)
		}
	}
}

func (c *compiler) concat(f, g frag) frag {
	var finals []int
	if c.states[f.start].final {
		finals = append(finals, f.start)
	}
	for _, m := range f.members {
		if c.states[m].final {
			finals = append(finals, m)
		}
	}
	gFinal := c.states[g.start].final
	for _, s := range finals {
		c.copyEdges(s, g.start)
		c.states[s].final = gFinal
	}
	return frag{start: f.start, members: append(slices.Clone(f.members), g.members...)}
}

func (c *compiler) alternate(f, g frag) frag {
	c.copyEdges(f.start, g.start)
	if c.states[g.start].final {
		c.states[f.start].final = true
	}
	return frag{start: f.start, members: append(slices.Clone(f.members), g.members...)}
}

func (c *compiler) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Pattern: c.src, Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// offset returns the source offset of token i, or the end of the source.
func (c *compiler) offset(i int) int {
	if i < len(c.toks) {
		return c.toks[i].off
	}
	return len(c.src)
}

// closing finds the token that closes the bracket at open, searching
// before hi.
func (c *compiler) closing(open, hi int) (int, error) {
	opener := c.toks[open].kind
	closer, closeText := tCloseOptional, "]"
	if opener == tOpenGroup {
		closer, closeText = tCloseGroup, ")"
	}
	depth := 1
	for j := open + 1; j < hi; j++ {
		switch c.toks[j].kind {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}
	return 0, c.errorf(c.offset(hi), "%q expected", closeText)
}

// alternatives compiles toks[lo:hi].
func (c *compiler) alternatives(lo, hi int) (frag, error) {
	var alts, seq []frag
	for i := lo; i < hi; i++ {
		t := c.toks[i]
		switch t.kind {
		case tName:
			seq = append(seq, c.atom(t.text))
		case tRepeat:
			if len(seq) == 0 {
				return frag{}, c.errorf(t.off, `unexpected "..."`)
			}
			c.repeat(seq[len(seq)-1])
		case tOpenOptional, tOpenGroup:
			end, err := c.closing(i, hi)
			if err != nil {
				return frag{}, err
			}
			inner, err := c.alternatives(i+1, end)
			if err != nil {
				return frag{}, err
			}
			if t.kind == tOpenOptional {
				c.optional(inner)
			}
			seq = append(seq, inner)
			i = end
		case tCloseOptional, tCloseGroup:
			return frag{}, c.errorf(t.off, "unexpected %q", t.text)
		case tBar:
			if len(seq) == 0 {
				return frag{}, c.errorf(t.off, `unexpected "|"`)
			}
			alts = append(alts, c.concatAll(seq))
			seq = nil
		}
	}
	if len(seq) == 0 {
		if hi < len(c.toks) {
			return frag{}, c.errorf(c.offset(hi), "token expected before %q", c.toks[hi].text)
		}
		return frag{}, c.errorf(len(c.src), "token expected at end of pattern")
	}
	alts = append(alts, c.concatAll(seq))
	f := alts[0]
	for _, g := range alts[1:] {
		f = c.alternate(f, g)
	}
	return f, nil
}

func (c *compiler) concatAll(seq []frag) frag {
	f := seq[0]
	for _, g := range seq[1:] {
		f = c.concat(f, g)
	}
	return f
}

// Compile parses text into a Pattern. It does not check the pattern for
// ambiguity; see Pattern.Ambiguity.
func Compile(text string) (*Pattern, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &Pattern{text: text}
	for _, t := range toks {
		if t.kind == tName && !slices.Contains(p.names, t.text) {
			p.names = append(p.names, t.text)
		}
	}
	if len(toks) == 0 {
		p.states = []state{{final: true}}
		return p, nil
	}
	c := &compiler{src: text, toks: toks}
	f, err := c.alternatives(0, len(toks))
	if err != nil {
		return nil, err
	}

	// Renumber the reachable states so the start is 0.
	order := append([]int{f.start}, f.members...)
	index := make(map[int]int, len(order))
	for i, s := range order {
		index[s] = i
	}
	p.states = make([]state, len(order))
	for i, old := range order {
		st := c.states[old]
		p.states[i].final = st.final
		for _, e := range st.edges {
			p.states[i].edges = append(p.states[i].edges, edge{to: index[e.to], label: e.label})
		}
	}
	return p, nil
}

// MustCompile is like Compile but panics if the pattern is malformed or
// ambiguous.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	if a := p.Ambiguity(); a != nil {
		panic(a)
	}
	return p
}
