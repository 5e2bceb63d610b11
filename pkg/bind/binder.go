// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/yopt"
)

// Spec describes one value to bind. Exactly one of Option and Operand is
// set.
type Spec struct {
	// Option is a name of the option the value comes from.
	Option string
	// Operand is an operand name of the parser's pattern.
	Operand string
	Kind    Kind
	// Type is the value type. Primitive kinds need a decoder registered
	// for it; nil means string. For object kinds it is optional and only
	// types the array of an ObjectArray.
	Type reflect.Type
	// Decoder decodes object kinds.
	Decoder Decoder
	// Env names an environment variable used when no value was given.
	Env string
	// Default is decoded when there is neither a value nor an environment
	// variable. It is checked by Binder.Add.
	Default string
}

func (s Spec) name() string {
	if s.Option != "" {
		return s.Option
	}
	return s.Operand
}

// Binder decodes a set of Specs.
type Binder struct {
	reg   *Registry
	specs []*spec
}

type spec struct {
	Spec
	decode Decoder
}

// NewBinder returns an empty Binder using reg for primitive kinds. A nil
// reg means NewRegistry().
func NewBinder(reg *Registry) *Binder {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Binder{reg: reg}
}

// Registry returns the registry the Binder decodes primitives with.
func (b *Binder) Registry() *Registry { return b.reg }

// Add checks s and adds it. The default value, if any, must decode.
func (b *Binder) Add(s Spec) error {
	if (s.Option == "") == (s.Operand == "") {
		return errors.New("bind: exactly one of Option and Operand must be set")
	}
	if _, ok := kindNames[s.Kind]; !ok {
		return fmt.Errorf("bind: %s: invalid kind %v", s.name(), s.Kind)
	}
	if s.Operand != "" && s.Kind.IsFlag() {
		return fmt.Errorf("bind: operand %s cannot be a %v", s.Operand, s.Kind)
	}
	for _, o := range b.specs {
		if o.name() == s.name() {
			return fmt.Errorf("bind: %s bound twice", s.name())
		}
	}
	bs := &spec{Spec: s}
	switch {
	case s.Kind.IsFlag():
		bs.Type = reflect.TypeFor[bool]()
	case s.Kind.isObject():
		if s.Decoder == nil {
			return fmt.Errorf("bind: %s: %v needs a decoder", s.name(), s.Kind)
		}
		bs.decode = s.Decoder
	default:
		if bs.Type == nil {
			bs.Type = reflect.TypeFor[string]()
		}
		d, ok := b.reg.Decoder(bs.Type)
		if !ok {
			return fmt.Errorf("bind: %s: no decoder for type %v", s.name(), bs.Type)
		}
		bs.decode = d
	}
	if s.Default != "" && bs.decode != nil {
		if _, err := bs.decode(s.Default); err != nil {
			return fmt.Errorf("bind: %s: invalid default %q: %w", s.name(), s.Default, err)
		}
	}
	b.specs = append(b.specs, bs)
	return nil
}

// Specs returns the specs in the order they were added.
func (b *Binder) Specs() []Spec {
	out := make([]Spec, len(b.specs))
	for i, s := range b.specs {
		out[i] = s.Spec
	}
	return out
}

// Derive registers an option for every option spec whose name p does not
// know yet. Flags take no argument, other kinds require one, array kinds
// are repeatable and MandatoryFlag options are required.
func (b *Binder) Derive(p *yopt.Parser) error {
	for _, s := range b.specs {
		if s.Option == "" {
			continue
		}
		if _, ok := p.Lookup(s.Option); ok {
			continue
		}
		policy := option.Required
		if s.Kind.IsFlag() {
			policy = option.None
		}
		o, err := option.New(policy, s.Option)
		if err != nil {
			return err
		}
		if s.Kind == MandatoryFlag {
			o = o.Require()
		}
		if s.Kind.IsArray() {
			o = o.Repeat()
		}
		if err := p.AddOption(o); err != nil {
			return err
		}
	}
	return nil
}

// Bind decodes every spec against r. Values that fail to decode are
// reported as IllegalValue defects and take the zero value. Bind panics if
// a spec names an option or operand that r's parser does not declare.
func (b *Binder) Bind(r *yopt.Result) (*Values, defect.List) {
	v := &Values{}
	var defects defect.List
	for _, s := range b.specs {
		key := s.name()
		var raw []*string
		if s.Option != "" {
			o := r.Option(s.Option)
			key = o.Name()
			for _, n := range o.Names() {
				v.alias(n, key)
			}
			if s.Kind.IsFlag() {
				v.set(key, r.Has(key))
				continue
			}
			raw = r.Args(key)
		} else {
			for _, op := range r.Operand(s.Operand) {
				raw = append(raw, &op)
			}
		}
		if s.Kind.IsArray() {
			v.set(key, s.decodeAll(key, raw, &defects))
			continue
		}
		var first *string
		if len(raw) > 0 {
			first = raw[0]
		}
		v.set(key, s.decodeOne(key, first, &defects))
	}
	return v, defects
}

func (s *spec) zero() any {
	if s.Type == nil {
		return nil
	}
	return reflect.Zero(s.Type).Interface()
}

// decodeOne decodes arg, falling back to the environment and the
// default when arg is nil.
func (s *spec) decodeOne(key string, arg *string, defects *defect.List) any {
	name, value := key, ""
	switch env, ok := os.LookupEnv(s.Env); {
	case arg != nil:
		value = *arg
	case s.Env != "" && ok:
		name, value = "$"+s.Env, env
	case s.Default != "":
		value = s.Default
	default:
		return s.zero()
	}
	x, err := s.decode(value)
	if err != nil {
		*defects = append(*defects, defect.Defect{
			Reason: defect.IllegalValue,
			Name:   name,
			Value:  value,
			Err:    err,
		})
		return s.zero()
	}
	return x
}

func (s *spec) decodeAll(key string, raw []*string, defects *defect.List) any {
	t := s.Type
	if t == nil {
		t = reflect.TypeFor[any]()
	}
	out := reflect.MakeSlice(reflect.SliceOf(t), 0, len(raw))
	for _, arg := range raw {
		x := s.decodeOne(key, arg, defects)
		if x == nil {
			out = reflect.Append(out, reflect.Zero(t))
			continue
		}
		xv := reflect.ValueOf(x)
		if !xv.Type().AssignableTo(t) {
			panic(fmt.Sprintf("bind: %s: decoder returned %v, want %v", key, xv.Type(), t))
		}
		out = reflect.Append(out, xv)
	}
	return out.Interface()
}
