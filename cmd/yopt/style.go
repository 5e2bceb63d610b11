// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import "github.com/fatih/color"

// styler colors terminal output. A disabled styler returns text as is.
type styler struct {
	red   *color.Color
	green *color.Color
}

func newStyler(enabled bool) styler {
	s := styler{
		red:   color.New(color.FgRed, color.Bold),
		green: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{s.red, s.green} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s styler) bad(text string) string  { return s.red.Sprint(text) }
func (s styler) good(text string) string { return s.green.Sprint(text) }
