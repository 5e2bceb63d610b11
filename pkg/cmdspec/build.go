// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdspec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/yeetrun/yopt/pkg/bind"
	"github.com/yeetrun/yopt/pkg/help"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/syntax"
	"github.com/yeetrun/yopt/pkg/yopt"
	"tailscale.com/util/mak"
)

// buildSyntax returns the configured syntax.
func (c *Command) buildSyntax() syntax.Syntax {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	if strings.EqualFold(c.Syntax, "posix") {
		p := &syntax.Posix{}
		set(&p.JointArguments, c.Posix.JointArguments)
		set(&p.OptionalArguments, c.Posix.OptionalArguments)
		set(&p.LateOptions, c.Posix.LateOptions)
		return p
	}
	g := syntax.NewGnu()
	set(&g.JointArguments, c.Posix.JointArguments)
	set(&g.OptionalArguments, c.Posix.OptionalArguments)
	set(&g.LateOptions, c.Posix.LateOptions)
	set(&g.Abbreviations, c.Posix.Abbreviation)
	return g
}

func (o *Option) kind() (bind.Kind, error) {
	if o.Kind != "" {
		return bind.ParseKind(o.Kind)
	}
	noArg := strings.EqualFold(o.Argument, "none") ||
		o.Argument == "" && o.Type == "" && o.ArgName == "" && o.Default == "" && o.Env == ""
	switch {
	case noArg && o.Required:
		return bind.MandatoryFlag, nil
	case noArg:
		return bind.Flag, nil
	case o.Repeatable:
		return bind.PrimitiveArray, nil
	}
	return bind.Primitive, nil
}

func (o *Option) policy(k bind.Kind) (option.Policy, error) {
	if o.Argument == "" {
		if k.IsFlag() {
			return option.None, nil
		}
		return option.Required, nil
	}
	return option.ParsePolicy(o.Argument)
}

// valueSpec fills the type and decoder of s from a type name and a port
// range.
func valueSpec(reg *bind.Registry, s *bind.Spec, typ, rng string) error {
	if s.Kind.IsFlag() {
		return nil
	}
	if typ == "" {
		typ = "string"
	}
	t, ok := reg.Named(typ)
	if !ok {
		return fmt.Errorf("unknown type %q", typ)
	}
	s.Type = t
	if rng != "" {
		if t != reflect.TypeFor[bind.Port]() {
			return fmt.Errorf("range only applies to type port, not %q", typ)
		}
		d, err := bind.PortRange(rng)
		if err != nil {
			return err
		}
		s.Decoder = d
		s.Kind = objectKind(s.Kind)
		return nil
	}
	if s.Kind == bind.Object || s.Kind == bind.ObjectArray {
		s.Decoder, _ = reg.Decoder(t)
	}
	return nil
}

func objectKind(k bind.Kind) bind.Kind {
	if k.IsArray() {
		return bind.ObjectArray
	}
	return bind.Object
}

// Build returns a parser for the definition and a binder for its values.
func (c *Command) Build() (*yopt.Parser, *bind.Binder, error) {
	p := yopt.New(c.buildSyntax())
	b := bind.NewBinder(nil)
	for _, od := range c.Options {
		name := od.Names[0]
		k, err := od.kind()
		if err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", name, err)
		}
		policy, err := od.policy(k)
		if err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", name, err)
		}
		o, err := option.New(policy, od.Names...)
		if err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", name, err)
		}
		if od.Required || k == bind.MandatoryFlag {
			o = o.Require()
		}
		if od.Repeatable {
			o = o.Repeat()
		}
		if err := p.AddOption(o); err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", name, err)
		}
		s := bind.Spec{Option: name, Kind: k, Env: od.Env, Default: od.Default}
		if err := valueSpec(b.Registry(), &s, od.Type, od.Range); err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", name, err)
		}
		if err := b.Add(s); err != nil {
			return nil, nil, err
		}
	}
	if err := p.SetOperandPattern(c.Operands); err != nil {
		return nil, nil, err
	}
	for _, od := range c.Operand {
		if pat := p.OperandPattern(); pat == nil || !pat.Declares(od.Name) {
			return nil, nil, fmt.Errorf("operand %s is not in the operand pattern %q", od.Name, c.Operands)
		}
		k, err := bind.ParseKind(od.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("operand %s: %w", od.Name, err)
		}
		s := bind.Spec{Operand: od.Name, Kind: k, Env: od.Env, Default: od.Default}
		if err := valueSpec(b.Registry(), &s, od.Type, od.Range); err != nil {
			return nil, nil, fmt.Errorf("operand %s: %w", od.Name, err)
		}
		if err := b.Add(s); err != nil {
			return nil, nil, err
		}
	}
	return p, b, nil
}

// Help builds the definition and returns its help page.
func (c *Command) Help() (help.Doc, error) {
	p, _, err := c.Build()
	if err != nil {
		return help.Doc{}, err
	}
	d := help.FromParser(c.Name, p)
	d.Description = c.Description
	for _, o := range c.Options {
		if o.Help != "" {
			mak.Set(&d.OptionHelp, o.Names[0], o.Help)
		}
		if o.ArgName != "" {
			mak.Set(&d.ArgNames, o.Names[0], o.ArgName)
		}
	}
	return d, nil
}
