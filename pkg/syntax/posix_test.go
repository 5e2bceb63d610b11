// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/option"
)

// repeatable builds a repeatable, not required option.
func repeatable(policy option.Policy, names ...string) *option.Option {
	return option.Must(policy, names...).Repeat()
}

func newSet(t *testing.T, syn Syntax, opts ...*option.Option) *Options {
	t.Helper()
	s := NewOptions(syn)
	for _, o := range opts {
		if err := s.Add(o); err != nil {
			t.Fatalf("Add(%v) failed: %v", o, err)
		}
	}
	return s
}

// basic returns -a and -b without arguments and -o with a required one.
func basic() []*option.Option {
	return []*option.Option{
		repeatable(option.None, "-a"),
		repeatable(option.None, "-b"),
		repeatable(option.Required, "-o"),
	}
}

func args(s string) []string { return strings.Fields(s) }

func names(occ []Occurrence) []string {
	var out []string
	for _, o := range occ {
		out = append(out, o.Name)
	}
	return out
}

// arguments renders absent arguments as "<nil>".
func arguments(occ []Occurrence) []string {
	var out []string
	for _, o := range occ {
		if o.HasArg {
			out = append(out, o.Arg)
		} else {
			out = append(out, "<nil>")
		}
	}
	return out
}

func messages(l defect.List) []string {
	var out []string
	for _, d := range l {
		out = append(out, d.Error())
	}
	return out
}

func TestPosixValidNames(t *testing.T) {
	p := &Posix{}
	if err := p.Validate(option.Must(option.None, "-a", "-3", "-A")); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	for _, name := range []string{"-?", "--", "t", "-ab", "--A", "--all"} {
		err := p.Validate(option.Must(option.None, name))
		var ne *option.NameError
		if !errors.As(err, &ne) || ne.Name != name {
			t.Errorf("Validate(%q) error = %v, want NameError", name, err)
		}
	}
	if got := p.Validate(option.Must(option.None, "-a", "-?")).Error(); got != `"-?" is not a valid POSIX option name` {
		t.Errorf("Error() = %q", got)
	}
}

func TestPosixOptionalArguments(t *testing.T) {
	opt := option.Must(option.Optional, "-a", "-3")
	req := option.Must(option.Required, "-a", "-3")

	p := &Posix{}
	if err := p.Validate(opt); !errors.Is(err, ErrOptionalArgument) {
		t.Errorf("Validate(optional) error = %v, want ErrOptionalArgument", err)
	}
	if err := p.Validate(req); err != nil {
		t.Errorf("Validate(required) failed: %v", err)
	}

	p.OptionalArguments = true
	for _, o := range []*option.Option{opt, req} {
		if err := p.Validate(o); err != nil {
			t.Errorf("Validate(%v) failed: %v", o, err)
		}
	}
	if !p.rules().joint {
		t.Errorf("optional arguments must imply joint arguments")
	}
}

func TestPosixDuplicateNames(t *testing.T) {
	s := newSet(t, &Posix{}, basic()...)
	err := s.Add(option.Must(option.None, "-x", "-a"))
	var dup *option.DuplicateError
	if !errors.As(err, &dup) || dup.Name != "-a" {
		t.Fatalf("Add() error = %v, want duplicate -a", err)
	}
	if _, ok := s.Lookup("-x"); ok {
		t.Errorf("failed Add must not register any name")
	}
	if got := len(s.All()); got != 3 {
		t.Errorf("len(All()) = %d, want 3", got)
	}
}

func TestPosixParse(t *testing.T) {
	s := newSet(t, &Posix{}, basic()...)
	out := s.Tokenize(args("-a -o file1 -o - - xyz -- -a -a"))
	if len(out.Defects) != 0 {
		t.Fatalf("unexpected defects: %v", out.Defects)
	}
	if diff := cmp.Diff([]string{"file1", "-"}, arguments(out.Occurrences["-o"])); diff != "" {
		t.Errorf("-o arguments (-want +got):\n%s", diff)
	}
	if got := len(out.Occurrences["-a"]); got != 1 {
		t.Errorf("-a occurrences = %d, want 1", got)
	}
	if _, ok := out.Occurrences["-b"]; ok {
		t.Errorf("-b should not occur")
	}
	if diff := cmp.Diff([]string{"-", "xyz", "-a", "-a"}, out.Operands); diff != "" {
		t.Errorf("operands (-want +got):\n%s", diff)
	}
}

func TestPosixJointArguments(t *testing.T) {
	s := newSet(t, &Posix{JointArguments: true}, basic()...)
	out := s.Tokenize(args("-ooutput1 -o output2 -bo output3"))
	if len(out.Defects) != 0 {
		t.Fatalf("unexpected defects: %v", out.Defects)
	}
	if diff := cmp.Diff([]string{"output1", "output2", "output3"}, arguments(out.Occurrences["-o"])); diff != "" {
		t.Errorf("-o arguments (-want +got):\n%s", diff)
	}
	if got := len(out.Occurrences["-b"]); got != 1 {
		t.Errorf("-b occurrences = %d, want 1", got)
	}
}

func TestPosixOptionalParse(t *testing.T) {
	opts := append(basic(), repeatable(option.Optional, "-p"))
	s := newSet(t, &Posix{OptionalArguments: true, LateOptions: true}, opts...)
	out := s.Tokenize(args("-a -abpp1 -o file1 -p - xyz -pprofile1 -o- -- -a -a"))
	if len(out.Defects) != 0 {
		t.Fatalf("unexpected defects: %v", out.Defects)
	}
	tests := []struct {
		name string
		want []string
	}{
		{"-a", []string{"<nil>", "<nil>"}},
		{"-b", []string{"<nil>"}},
		{"-o", []string{"file1", "-"}},
		{"-p", []string{"p1", "<nil>", "profile1"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, arguments(out.Occurrences[tt.name])); diff != "" {
			t.Errorf("%s arguments (-want +got):\n%s", tt.name, diff)
		}
	}
	if diff := cmp.Diff([]string{"-", "xyz", "-a", "-a"}, out.Operands); diff != "" {
		t.Errorf("operands (-want +got):\n%s", diff)
	}
}

func TestPosixDefects(t *testing.T) {
	tests := []struct {
		name string
		syn  *Posix
		args string
		want []string
	}{
		{
			name: "missing argument at end",
			syn:  &Posix{},
			args: "-o",
			want: []string{"option -o requires an argument"},
		},
		{
			name: "joint argument not allowed",
			syn:  &Posix{},
			args: "-oa",
			want: []string{"option -o requires an argument"},
		},
		{
			name: "unknown option",
			syn:  &Posix{},
			args: "-x",
			want: []string{"unknown option: -x"},
		},
		{
			name: "unknown option in cluster stops the cluster",
			syn:  &Posix{},
			args: "-axb",
			want: []string{"unknown option: -x"},
		},
		{
			name: "long option is unknown to posix",
			syn:  &Posix{},
			args: "--all",
			want: []string{"unknown option: --"},
		},
		{
			name: "late option is reported and still decoded",
			syn:  &Posix{},
			args: "file -a -q",
			want: []string{
				"options must precede operands: -a",
				"options must precede operands: -q",
				"unknown option: -q",
			},
		},
		{
			name: "late options allowed",
			syn:  &Posix{LateOptions: true},
			args: "file -a",
			want: nil,
		},
		{
			name: "every problem is reported",
			syn:  &Posix{},
			args: "-x -y -o",
			want: []string{"unknown option: -x", "unknown option: -y", "option -o requires an argument"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSet(t, tt.syn, basic()...)
			out := s.Tokenize(args(tt.args))
			if diff := cmp.Diff(tt.want, messages(out.Defects)); diff != "" {
				t.Errorf("defects (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPosixLateOptionIsStillRecorded(t *testing.T) {
	s := newSet(t, &Posix{}, basic()...)
	out := s.Tokenize(args("file -a"))
	if got := len(out.Occurrences["-a"]); got != 1 {
		t.Errorf("-a occurrences = %d, want 1", got)
	}
	if diff := cmp.Diff([]string{"file"}, out.Operands); diff != "" {
		t.Errorf("operands (-want +got):\n%s", diff)
	}
}

// The word after an option that requires an argument is always its
// argument, even when it looks like an option or is "--".
func TestPosixPendingArgumentIsConsumedLiterally(t *testing.T) {
	s := newSet(t, &Posix{}, basic()...)
	out := s.Tokenize(args("-o -a -o -- -b"))
	if len(out.Defects) != 0 {
		t.Fatalf("unexpected defects: %v", out.Defects)
	}
	if diff := cmp.Diff([]string{"-a", "--"}, arguments(out.Occurrences["-o"])); diff != "" {
		t.Errorf("-o arguments (-want +got):\n%s", diff)
	}
	if _, ok := out.Occurrences["-a"]; ok {
		t.Errorf("-a must not be decoded as an option")
	}
	if got := len(out.Occurrences["-b"]); got != 1 {
		t.Errorf("-b occurrences = %d, want 1", got)
	}
}

func TestPosixAggregateDefects(t *testing.T) {
	s := newSet(t, &Posix{},
		option.Must(option.None, "-a"),
		option.Must(option.Required, "-f").Require(),
		option.Must(option.None, "-v").Repeat(),
	)
	out := s.Tokenize(args("-a -a -vvv"))
	want := defect.List{
		{Reason: defect.TooManyOccurrences, Name: "-a", Related: []string{"-a"}},
		{Reason: defect.MissingOption, Name: "-f"},
	}
	if diff := cmp.Diff(want, out.Defects); diff != "" {
		t.Errorf("defects (-want +got):\n%s", diff)
	}
	if got := len(out.Occurrences["-v"]); got != 3 {
		t.Errorf("-v occurrences = %d, want 3", got)
	}
}

func TestTokenizeIsRepeatable(t *testing.T) {
	s := newSet(t, &Posix{JointArguments: true}, basic()...)
	in := args("-ab -ofile x -x")
	first, second := s.Tokenize(in), s.Tokenize(in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("outcomes differ (-first +second):\n%s", diff)
	}
}

func TestTrace(t *testing.T) {
	s := newSet(t, &Posix{}, basic()...)
	var lines []string
	s.SetLogf(func(format string, args ...any) {
		lines = append(lines, format)
	})
	s.Tokenize(args("-a x"))
	if len(lines) != 2 {
		t.Errorf("trace lines = %d, want 2: %q", len(lines), lines)
	}
}
