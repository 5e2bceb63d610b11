// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/option"
	"tailscale.com/util/mak"
)

type machine struct {
	opts  *Options
	rules rules
	out   *Outcome

	// terminated is set once "--" has been seen.
	terminated bool
	// awaiting is set while the next word is the argument of pending.
	// pending is nil for an unknown long option, whose argument is
	// consumed and dropped.
	awaiting    bool
	pending     *option.Option
	pendingName string
}

func (m *machine) logf(format string, args ...any) {
	if m.opts.logf != nil {
		m.opts.logf(format, args...)
	}
}

func (m *machine) report(r defect.Reason, name string) {
	m.add(defect.Defect{Reason: r, Name: name})
}

func (m *machine) add(d defect.Defect) {
	m.logf("syntax: %v %s", d.Reason, d.Name)
	m.out.Defects = append(m.out.Defects, d)
}

func (m *machine) record(o *option.Option, name, arg string, hasArg bool) {
	if o == nil {
		return
	}
	if hasArg {
		m.logf("syntax: option %s = %q", name, arg)
	} else {
		m.logf("syntax: option %s", name)
	}
	key := o.Name()
	mak.Set(&m.out.Occurrences, key, append(m.out.Occurrences[key], Occurrence{Name: name, Arg: arg, HasArg: hasArg}))
}

func (m *machine) await(o *option.Option, name string) {
	m.awaiting = true
	m.pending = o
	m.pendingName = name
}

func (m *machine) feed(arg string) {
	switch {
	case m.terminated:
		m.out.Operands = append(m.out.Operands, arg)
	case m.awaiting:
		// The word is the argument even if it looks like an option.
		m.awaiting = false
		m.record(m.pending, m.pendingName, arg, true)
		m.pending = nil
	case arg == "--":
		m.terminated = true
	case !strings.HasPrefix(arg, "-") || arg == "-":
		m.logf("syntax: operand %q", arg)
		m.out.Operands = append(m.out.Operands, arg)
	default:
		if !m.rules.late && len(m.out.Operands) > 0 {
			m.report(defect.LateOption, arg)
		}
		if m.rules.long && strings.HasPrefix(arg, "--") {
			m.long(arg)
		} else {
			m.short(arg)
		}
	}
}

// short decodes a cluster of single-character options such as "-abofile".
func (m *machine) short(arg string) {
	for {
		_, size := utf8.DecodeRuneInString(arg[1:])
		name, rest := arg[:1+size], arg[1+size:]
		o, ok := m.opts.Lookup(name)
		if !ok {
			m.report(defect.UnknownOption, name)
			return
		}
		switch {
		case o.Policy() == option.None:
			m.record(o, name, "", false)
			if rest == "" {
				return
			}
			arg = "-" + rest
			continue
		case rest == "":
			if o.Policy() == option.Required {
				m.await(o, name)
			} else {
				m.record(o, name, "", false)
			}
		case m.rules.joint:
			m.record(o, name, rest, true)
		default:
			// The joined text cannot be the argument; finish reports
			// the missing argument.
			m.record(o, name, "", false)
		}
		return
	}
}

// long decodes "--name" and "--name=value".
func (m *machine) long(arg string) {
	name, value, hasValue := strings.Cut(arg, "=")
	o, ok := m.opts.Lookup(name)
	switch {
	case ok:
	case name == "--":
		// "--=value" names nothing; every long name would match it
		// as a prefix.
		m.report(defect.UnknownOption, name)
	default:
		o, name = m.resolve(name)
	}
	if hasValue || o != nil && o.Policy() != option.Required {
		m.record(o, name, value, hasValue)
		return
	}
	m.await(o, name)
}

// resolve expands an abbreviated long name. It returns a nil option if
// the name is unknown or ambiguous.
func (m *machine) resolve(name string) (*option.Option, string) {
	if !m.rules.abbrev {
		m.report(defect.UnknownOption, name)
		return nil, name
	}
	switch c := m.opts.withPrefix(name); len(c) {
	case 0:
		m.report(defect.UnknownOption, name)
	case 1:
		o, _ := m.opts.Lookup(c[0])
		return o, c[0]
	default:
		m.report(defect.Ambiguous, name)
	}
	return nil, name
}

func (m *machine) finish() {
	if m.awaiting {
		// Recorded without an argument; reported below.
		m.record(m.pending, m.pendingName, "", false)
		m.awaiting = false
	}
	for _, o := range m.opts.list {
		occ := m.out.Occurrences[o.Name()]
		if o.IsRequired() && len(occ) == 0 {
			m.report(defect.MissingOption, o.Name())
		}
		if !o.IsRepeatable() && len(occ) > 1 {
			var used []string
			for _, oc := range occ {
				if !slices.Contains(used, oc.Name) {
					used = append(used, oc.Name)
				}
			}
			m.add(defect.Defect{
				Reason:  defect.TooManyOccurrences,
				Name:    o.Name(),
				Related: used,
			})
		}
		for _, oc := range occ {
			switch {
			case o.Policy() == option.None && oc.HasArg:
				m.report(defect.UnexpectedArgument, oc.Name)
			case o.Policy() == option.Required && !oc.HasArg:
				m.report(defect.ArgumentRequired, oc.Name)
			}
		}
	}
}
