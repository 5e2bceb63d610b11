// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package yopt parses command lines against a set of options and an
// operand pattern.
//
// A Parser is configured once: options are added with AddOption (or the
// Option helper) and the shape of the operands is given as a pattern such
// as "[SOURCE...] DEST". Configuration mistakes are returned as errors at
// that point. Parsing never fails; problems with the command line are
// collected in the Result and turned into an error by Result.Check.
//
//	p := yopt.New(syntax.NewGnu())
//	p.MustOption(option.None, "-r", "--recursive")
//	if err := p.SetOperandPattern("SOURCE... DEST"); err != nil {
//		log.Fatal(err)
//	}
//	res := p.Parse(os.Args[1:])
//	if err := res.Check(); err != nil {
//		log.Fatal(err)
//	}
package yopt

import (
	"fmt"

	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/operand"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/syntax"
)

// Parser holds the options and operand pattern of one command. A
// configured Parser may be used by several goroutines at once; adding
// options while parsing is not supported.
type Parser struct {
	opts    *syntax.Options
	pattern *operand.Pattern
	logf    func(format string, args ...any)
}

// New returns a Parser for the given syntax with no options and no
// operand pattern.
func New(syn syntax.Syntax) *Parser {
	return &Parser{opts: syntax.NewOptions(syn)}
}

// Syntax returns the syntax the parser was created with.
func (p *Parser) Syntax() syntax.Syntax { return p.opts.Syntax() }

// SetLogf installs a trace function. It receives one line per decoded
// token and per defect.
func (p *Parser) SetLogf(logf func(format string, args ...any)) {
	p.logf = logf
	p.opts.SetLogf(logf)
}

func (p *Parser) trace(format string, args ...any) {
	if p.logf != nil {
		p.logf(format, args...)
	}
}

// AddOption registers o. It fails if a name of o is not valid for the
// syntax, if the syntax does not allow its argument policy, or if a name
// is already taken by another option.
func (p *Parser) AddOption(o *option.Option) error {
	return p.opts.Add(o)
}

// Option creates an option that is neither required nor repeatable and
// registers it.
func (p *Parser) Option(policy option.Policy, names ...string) (*option.Option, error) {
	o, err := option.New(policy, names...)
	if err != nil {
		return nil, err
	}
	if err := p.AddOption(o); err != nil {
		return nil, err
	}
	return o, nil
}

// MustOption is like Option but panics on error.
func (p *Parser) MustOption(policy option.Policy, names ...string) *option.Option {
	o, err := p.Option(policy, names...)
	if err != nil {
		panic(err)
	}
	return o
}

// Options returns the registered options in registration order.
func (p *Parser) Options() []*option.Option { return p.opts.All() }

// Lookup returns the option with the given name or alias.
func (p *Parser) Lookup(name string) (*option.Option, bool) {
	return p.opts.Lookup(name)
}

// SetOperandPattern compiles text and uses it to match operands. An
// ambiguous pattern is rejected with an *operand.Ambiguity. An empty text
// removes the pattern, after which any operands are accepted.
func (p *Parser) SetOperandPattern(text string) error {
	if text == "" {
		p.pattern = nil
		return nil
	}
	pat, err := operand.Compile(text)
	if err != nil {
		return err
	}
	if a := pat.Ambiguity(); a != nil {
		return a
	}
	p.pattern = pat
	return nil
}

// OperandPattern returns the compiled operand pattern, or nil.
func (p *Parser) OperandPattern() *operand.Pattern { return p.pattern }

// Parse parses args. The returned Result is never nil.
func (p *Parser) Parse(args []string) *Result {
	p.trace("yopt: parse %q", args)
	out := p.opts.Tokenize(args)
	r := &Result{
		opts:     p.opts,
		pattern:  p.pattern,
		occ:      out.Occurrences,
		operands: out.Operands,
		defects:  out.Defects,
	}
	if p.pattern != nil {
		named, err := p.pattern.Match(out.Operands)
		if err != nil {
			d := err.(defect.Defect)
			p.trace("yopt: %v", d)
			r.defects = append(r.defects, d)
			named = p.pattern.Empty()
		}
		r.named = named
	}
	return r
}

// ParseFrom parses args[offset:]. It panics if offset is out of range.
func (p *Parser) ParseFrom(args []string, offset int) *Result {
	if offset < 0 || offset > len(args) {
		panic(fmt.Sprintf("yopt: offset %d out of range [0:%d]", offset, len(args)))
	}
	return p.Parse(args[offset:])
}

// ParseSlice parses length arguments starting at offset. It panics if the
// range does not lie within args.
func (p *Parser) ParseSlice(args []string, offset, length int) *Result {
	if offset < 0 || offset > len(args) {
		panic(fmt.Sprintf("yopt: offset %d out of range [0:%d]", offset, len(args)))
	}
	if length < 0 || offset+length > len(args) {
		panic(fmt.Sprintf("yopt: slice [%d:%d] out of range [0:%d]", offset, offset+length, len(args)))
	}
	return p.Parse(args[offset : offset+length])
}
