// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package help renders GNU-style help text for a yopt.Parser.
package help

import (
	"io"
	"strings"

	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/yopt"
	"golang.org/x/term"
)

// DefaultWidth is the right margin used when Doc.Width is zero.
const DefaultWidth = 78

const (
	sectionIndent = 2
	wrapIndent    = 6
	// maxDescIndent is the widest option column; longer heads put their
	// description on the next line.
	maxDescIndent = 30
)

// Doc is the content of a help page.
type Doc struct {
	Name        string
	Description string
	Options     []*option.Option
	// Operands is the operand pattern text.
	Operands string
	// ArgNames maps a primary option name to the placeholder shown for
	// its argument. The default is "ARG".
	ArgNames map[string]string
	// OptionHelp maps a primary option name to its description.
	OptionHelp map[string]string
	// Width is the right margin. Zero means DefaultWidth.
	Width int
}

// FromParser returns a Doc listing the options and operand pattern of p.
func FromParser(name string, p *yopt.Parser) Doc {
	d := Doc{Name: name, Options: p.Options()}
	if pat := p.OperandPattern(); pat != nil {
		d.Operands = pat.String()
	}
	return d
}

// TermWidth returns a margin that fits the terminal on fd, or
// DefaultWidth if fd is not a terminal.
func TermWidth(fd int) int {
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return max(w-1, 40)
}

func (d Doc) argName(o *option.Option) string {
	if n := d.ArgNames[o.Name()]; n != "" {
		return n
	}
	return "ARG"
}

// argSuffix renders the argument part after name: " ARG", "[ARG]" or
// "[=ARG]".
func (d Doc) argSuffix(o *option.Option, name string) string {
	switch o.Policy() {
	case option.Required:
		return " " + d.argName(o)
	case option.Optional:
		if strings.HasPrefix(name, "--") {
			return "[=" + d.argName(o) + "]"
		}
		return "[" + d.argName(o) + "]"
	}
	return ""
}

// Usage returns the usage line, e.g. "cp [-r] -t ARG SOURCE... DEST".
func (d Doc) Usage() string {
	var b strings.Builder
	b.WriteString(d.Name)
	for _, o := range d.Options {
		b.WriteByte(' ')
		if !o.IsRequired() {
			b.WriteByte('[')
		}
		b.WriteString(o.Name())
		b.WriteString(d.argSuffix(o, o.Name()))
		if !o.IsRequired() {
			b.WriteByte(']')
		}
		if o.IsRepeatable() {
			b.WriteString("...")
		}
	}
	if d.Operands != "" {
		b.WriteByte(' ')
		b.WriteString(d.Operands)
	}
	return b.String()
}

// head returns the option column for o, e.g. "-o, --output FILE".
func (d Doc) head(o *option.Option) string {
	names := o.Names()
	return strings.Join(names, ", ") + d.argSuffix(o, names[len(names)-1])
}

// String renders the help page.
func (d Doc) String() string {
	width := d.Width
	if width <= 0 {
		width = DefaultWidth
	}
	p := &printer{margin: width}

	p.section("USAGE")
	p.text(d.Usage(), wrapIndent)
	p.newline(0)

	if d.Description != "" {
		p.newline(0)
		p.section("DESCRIPTION")
		p.text(d.Description, sectionIndent)
		p.newline(0)
	}

	if len(d.Options) > 0 {
		heads := make([]string, len(d.Options))
		short := false
		for i, o := range d.Options {
			heads[i] = d.head(o)
			short = short || !strings.HasPrefix(heads[i], "--")
		}
		longest := 0
		for _, h := range heads {
			n := runeLen(h)
			if short && strings.HasPrefix(h, "--") {
				n += 4
			}
			longest = max(longest, n)
		}
		desc := min(sectionIndent+longest+2, maxDescIndent, width/2)

		p.newline(0)
		p.section("OPTIONS")
		for i, o := range d.Options {
			if i > 0 {
				p.newline(sectionIndent)
			}
			if short && strings.HasPrefix(heads[i], "--") {
				p.pad(4)
			}
			p.text(heads[i], wrapIndent)
			if h := d.OptionHelp[o.Name()]; h != "" {
				p.forwardTo(desc)
				p.text(h, desc)
			}
		}
		p.newline(0)
	}
	return p.String()
}

// Render writes the help page to w.
func (d Doc) Render(w io.Writer) error {
	_, err := io.WriteString(w, d.String())
	return err
}
