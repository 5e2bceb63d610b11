// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind turns the strings of a yopt.Result into typed values.
//
// Each option or operand of interest is described by a Spec naming its
// Kind and value type. A Binder decodes every spec against a Result and
// reports decode failures as defect.IllegalValue defects, so a single run
// lists every bad value alongside the syntax defects. The decoded Values
// can be read by name or copied into a tagged struct:
//
//	type Flags struct {
//		Verbose bool          `opt:"--verbose"`
//		Timeout time.Duration `opt:"--timeout"`
//		Files   []string      `operand:"FILE"`
//	}
package bind

import (
	"fmt"
	"strings"
)

// Kind says how the occurrences of an option or the values of an operand
// become a value.
type Kind int

const (
	// Flag is true if the option occurred.
	Flag Kind = iota + 1
	// MandatoryFlag is a Flag whose option is required.
	MandatoryFlag
	// Primitive decodes one value with the decoder registered for its
	// type.
	Primitive
	// Object decodes one value with a decoder given in the Spec.
	Object
	// PrimitiveArray decodes every value with the registered decoder.
	PrimitiveArray
	// ObjectArray decodes every value with the Spec's decoder.
	ObjectArray
)

var kindNames = map[Kind]string{
	Flag:           "flag",
	MandatoryFlag:  "mandatory-flag",
	Primitive:      "primitive",
	Object:         "object",
	PrimitiveArray: "primitive-array",
	ObjectArray:    "object-array",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses the names returned by Kind.String. An empty string is
// Primitive.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return Primitive, nil
	}
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// IsFlag reports whether values of this kind come from occurrence alone.
func (k Kind) IsFlag() bool { return k == Flag || k == MandatoryFlag }

// IsArray reports whether the kind collects every value.
func (k Kind) IsArray() bool { return k == PrimitiveArray || k == ObjectArray }

func (k Kind) isObject() bool { return k == Object || k == ObjectArray }
