// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Decoder converts one command-line string into a value.
type Decoder func(s string) (any, error)

// Port is a TCP or UDP port number. Use PortRange to restrict it.
type Port uint16

// Registry maps value types to decoders. Types can also be looked up by a
// short name such as "int" or "duration", which command definition files
// use.
type Registry struct {
	decoders map[reflect.Type]Decoder
	names    map[string]reflect.Type
}

// NewRegistry returns a Registry with decoders for the basic types,
// time.Duration, url.URL, *url.URL, *regexp.Regexp and Port.
func NewRegistry() *Registry {
	r := &Registry{
		decoders: make(map[reflect.Type]Decoder),
		names:    make(map[string]reflect.Type),
	}
	r.Register("string", reflect.TypeFor[string](), func(s string) (any, error) { return s, nil })
	r.Register("bool", reflect.TypeFor[bool](), func(s string) (any, error) {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, errors.New("not a boolean")
		}
		return b, nil
	})
	for _, t := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
	} {
		r.Register(t.Name(), t, intDecoder(t))
	}
	for _, t := range []reflect.Type{
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
	} {
		r.Register(t.Name(), t, uintDecoder(t))
	}
	for _, t := range []reflect.Type{reflect.TypeFor[float32](), reflect.TypeFor[float64]()} {
		r.Register(t.Name(), t, floatDecoder(t))
	}
	r.Register("duration", reflect.TypeFor[time.Duration](), func(s string) (any, error) {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, errors.New("not a duration")
		}
		return d, nil
	})
	r.Register("url", reflect.TypeFor[*url.URL](), func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, unwrapURL(err)
		}
		return u, nil
	})
	r.Register("", reflect.TypeFor[url.URL](), func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, unwrapURL(err)
		}
		return *u, nil
	})
	r.Register("regexp", reflect.TypeFor[*regexp.Regexp](), func(s string) (any, error) {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, err
		}
		return re, nil
	})
	r.Register("port", reflect.TypeFor[Port](), func(s string) (any, error) {
		return parsePort(s, "")
	})
	return r
}

// Register sets the decoder for t. A non-empty name makes the type
// available to Named.
func (r *Registry) Register(name string, t reflect.Type, d Decoder) {
	r.decoders[t] = d
	if name != "" {
		r.names[name] = t
	}
}

// Decoder returns the decoder registered for t.
func (r *Registry) Decoder(t reflect.Type) (Decoder, bool) {
	d, ok := r.decoders[t]
	return d, ok
}

// Named returns the type registered under name.
func (r *Registry) Named(name string) (reflect.Type, bool) {
	t, ok := r.names[name]
	return t, ok
}

func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

func unwrapURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func intDecoder(t reflect.Type) Decoder {
	return func(s string) (any, error) {
		i, err := strconv.ParseInt(s, 0, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return reflect.ValueOf(i).Convert(t).Interface(), nil
	}
}

func uintDecoder(t reflect.Type) Decoder {
	return func(s string) (any, error) {
		u, err := strconv.ParseUint(s, 0, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return reflect.ValueOf(u).Convert(t).Interface(), nil
	}
}

func floatDecoder(t reflect.Type) Decoder {
	return func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, numError(err)
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	}
}

// PortRange returns a decoder for ports within "min-max", for example
// "1024-65535". An empty range allows every port.
func PortRange(rng string) (Decoder, error) {
	if _, _, err := parsePortRange(rng); err != nil {
		return nil, err
	}
	return func(s string) (any, error) { return parsePort(s, rng) }, nil
}

func parsePortRange(rng string) (lo, hi uint16, err error) {
	if rng == "" {
		return 0, 65535, nil
	}
	a, b, ok := strings.Cut(rng, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rng)
	}
	minVal, err := strconv.ParseUint(a, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min port in range %q: %w", rng, err)
	}
	maxVal, err := strconv.ParseUint(b, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max port in range %q: %w", rng, err)
	}
	if minVal > maxVal {
		return 0, 0, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rng, minVal, maxVal)
	}
	return uint16(minVal), uint16(maxVal), nil
}

func parsePort(s, rng string) (Port, error) {
	lo, hi, err := parsePortRange(rng)
	if err != nil {
		return 0, err
	}
	bounds := rng
	if bounds == "" {
		bounds = "0-65535"
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("port must be between %s", bounds)
		}
		return 0, errors.New("invalid port value")
	}
	if p := uint16(v); p < lo || p > hi {
		return 0, fmt.Errorf("port must be between %s", bounds)
	}
	return Port(v), nil
}
