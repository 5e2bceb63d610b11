// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"time"

	"tailscale.com/util/mak"
)

// Values holds the decoded values of one Bind call. Option values can be
// read by any name of the option.
type Values struct {
	vals    map[string]any
	aliases map[string]string
	order   []string
}

func (v *Values) set(key string, x any) {
	mak.Set(&v.vals, key, x)
	v.order = append(v.order, key)
}

func (v *Values) alias(name, key string) {
	mak.Set(&v.aliases, name, key)
}

// Names returns the canonical names of the bound values in binding
// order.
func (v *Values) Names() []string { return slices.Clone(v.order) }

// Get returns the value bound to name. The value is nil for an object
// kind without a value.
func (v *Values) Get(name string) (any, bool) {
	if key, ok := v.aliases[name]; ok {
		name = key
	}
	x, ok := v.vals[name]
	return x, ok
}

// Bool returns a boolean value, or false.
func (v *Values) Bool(name string) bool {
	x, _ := v.Get(name)
	b, _ := x.(bool)
	return b
}

// String returns the value formatted with fmt.Sprint, or "" if there is
// none.
func (v *Values) String(name string) string {
	x, _ := v.Get(name)
	switch x := x.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Int returns an integer value, or 0.
func (v *Values) Int(name string) int {
	x, _ := v.Get(name)
	if x == nil {
		return 0
	}
	rv := reflect.ValueOf(x)
	switch {
	case rv.CanInt():
		return int(rv.Int())
	case rv.CanUint():
		return int(rv.Uint())
	}
	return 0
}

// Duration returns a time.Duration value, or 0.
func (v *Values) Duration(name string) time.Duration {
	x, _ := v.Get(name)
	d, _ := x.(time.Duration)
	return d
}

// Strings returns an array value with every element formatted by
// fmt.Sprint. A single value becomes a one-element slice.
func (v *Values) Strings(name string) []string {
	x, _ := v.Get(name)
	if x == nil {
		return nil
	}
	if s, ok := x.([]string); ok {
		return slices.Clone(s)
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice {
		return []string{fmt.Sprint(x)}
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// Populate copies values into the fields of the struct dst points to.
// Fields are selected by an `opt:"--name"` or `operand:"NAME"` tag; other
// fields are left alone. A value is converted to the field type when the
// two are numeric, and slices are converted element by element.
func (v *Values) Populate(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.New("bind: Populate needs a non-nil pointer to a struct")
	}
	sv := rv.Elem()
	st := sv.Type()
	for i := range st.NumField() {
		f := st.Field(i)
		name := f.Tag.Get("opt")
		if name == "" {
			name = f.Tag.Get("operand")
		}
		if name == "" || !f.IsExported() {
			continue
		}
		x, ok := v.Get(name)
		if !ok {
			return fmt.Errorf("bind: field %s: %s is not bound", f.Name, name)
		}
		if x == nil {
			continue
		}
		if err := assign(sv.Field(i), reflect.ValueOf(x)); err != nil {
			return fmt.Errorf("bind: field %s: %w", f.Name, err)
		}
	}
	return nil
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func assign(dst, x reflect.Value) error {
	if x.Kind() == reflect.Interface {
		if x.IsNil() {
			return nil
		}
		x = x.Elem()
	}
	dt := dst.Type()
	switch {
	case x.Type().AssignableTo(dt):
		dst.Set(x)
	case numeric(x.Kind()) && numeric(dt.Kind()):
		dst.Set(x.Convert(dt))
	case dt.Kind() == reflect.Pointer && x.Type().AssignableTo(dt.Elem()):
		p := reflect.New(dt.Elem())
		p.Elem().Set(x)
		dst.Set(p)
	case dt.Kind() == reflect.Slice && x.Kind() == reflect.Slice:
		out := reflect.MakeSlice(dt, x.Len(), x.Len())
		for i := range x.Len() {
			if err := assign(out.Index(i), x.Index(i)); err != nil {
				return err
			}
		}
		dst.Set(out)
	default:
		return fmt.Errorf("cannot assign %v to %v", x.Type(), dt)
	}
	return nil
}
