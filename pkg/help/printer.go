// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// printer fills lines up to a margin, breaking text at whitespace and
// splitting words that are wider than a line.
type printer struct {
	b      strings.Builder
	margin int
	col    int
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func (p *printer) write(s string) {
	p.b.WriteString(s)
	p.col += runeLen(s)
}

func (p *printer) pad(n int) {
	if n > 0 {
		p.write(strings.Repeat(" ", n))
	}
}

func (p *printer) newline(indent int) {
	p.b.WriteByte('\n')
	p.col = 0
	p.pad(indent)
}

func (p *printer) section(title string) {
	p.write(title)
	p.newline(sectionIndent)
}

// forwardTo moves to column c, starting a new line if the cursor is
// already there or beyond.
func (p *printer) forwardTo(c int) {
	if p.col >= c {
		p.newline(c)
		return
	}
	p.pad(c - p.col)
}

// text writes s, continuing on lines indented by indent.
func (p *printer) text(s string, indent int) {
	for s != "" {
		r, _ := utf8.DecodeRuneInString(s)
		space := unicode.IsSpace(r)
		end := strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) != space })
		if end < 0 {
			end = len(s)
		}
		run := s[:end]
		s = s[end:]

		w := runeLen(run)
		switch {
		case space:
			if p.col+w <= p.margin {
				p.write(strings.Repeat(" ", w))
			}
		case p.col+w <= p.margin:
			p.write(run)
		case indent+w <= p.margin:
			p.newline(indent)
			p.write(run)
		default:
			for run != "" {
				if p.col >= p.margin {
					p.newline(indent)
				}
				// At least one rune per line, even when indent
				// reaches the margin.
				n := max(p.margin-p.col, 1)
				part := run
				if i := byteOffset(run, n); i < len(run) {
					part = run[:i]
				}
				p.write(part)
				run = run[len(part):]
			}
		}
	}
}

// byteOffset returns the byte offset of the n-th rune of s, or len(s).
func byteOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// String returns the text with trailing spaces removed from every line.
func (p *printer) String() string {
	lines := strings.Split(p.b.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n"
}
