// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operand

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yopt/pkg/defect"
)

var patterns = []string{
	0:  "",
	1:  " ",
	2:  "A B | A C ",
	3:  "A [B] [C] D",
	4:  "[A [B]] (C D E)...",
	5:  "[A [B]] [C D E]...",
	6:  "[A [B [C [D [E]]]]]",
	7:  "[A [B [C [D E [F]]]]]",
	8:  "A B... C",
	9:  "A B... [C]",
	10: "A B C [A]",
}

func compiled(t *testing.T, i int) *Pattern {
	t.Helper()
	p, err := Compile(patterns[i])
	if err != nil {
		t.Fatalf("Compile(%q) failed: %v", patterns[i], err)
	}
	return p
}

func sequences(p *Pattern, n int) []string {
	var out []string
	for seq := range p.Sequences(n) {
		out = append(out, strings.Join(seq, " "))
	}
	slices.Sort(out)
	return out
}

func TestAmbiguity(t *testing.T) {
	want := map[int]bool{2: true, 3: true, 9: true}
	for i := range patterns {
		p := compiled(t, i)
		a := p.Ambiguity()
		if got := a != nil; got != want[i] {
			t.Errorf("pattern %d %q: ambiguous = %v, want %v (witness %v)", i, patterns[i], got, want[i], a)
			continue
		}
		if p.IsAmbiguous() != (a != nil) {
			t.Errorf("pattern %d: IsAmbiguous disagrees with Ambiguity", i)
		}
		if a == nil {
			continue
		}
		if len(a.First) != len(a.Second) {
			t.Errorf("pattern %d: bad witness %q / %q", i, a.First, a.Second)
		}
		// Both readings must be accepted sequences of the same length.
		accepted := sequences(p, len(a.First))
		for _, w := range [][]string{a.First, a.Second} {
			if !slices.Contains(accepted, strings.Join(w, " ")) {
				t.Errorf("pattern %d: witness %q not accepted; accepted %q", i, w, accepted)
			}
		}
	}
}

func TestAmbiguityWitnessIsShortest(t *testing.T) {
	a := compiled(t, 3).Ambiguity()
	if a == nil {
		t.Fatal("pattern 3 should be ambiguous")
	}
	if len(a.First) != 3 {
		t.Errorf("witness length = %d, want 3 (%q / %q)", len(a.First), a.First, a.Second)
	}
	msg := a.Error()
	for _, want := range []string{`"A [B] [C] D"`, "length 3", strings.Join(a.First, " "), strings.Join(a.Second, " ")} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	a = compiled(t, 2).Ambiguity()
	if a == nil || len(a.First) != 2 {
		t.Fatalf("pattern 2 witness = %v, want length 2", a)
	}
	got := []string{strings.Join(a.First, " "), strings.Join(a.Second, " ")}
	slices.Sort(got)
	if diff := cmp.Diff([]string{"A B", "A C"}, got); diff != "" {
		t.Errorf("witness mismatch (-want +got):\n%s", diff)
	}
}

func TestSequences(t *testing.T) {
	tests := []struct {
		pattern int
		n       int
		want    []string
	}{
		{0, 0, []string{""}},
		{0, 1, nil},
		{0, 2, nil},
		{1, 0, []string{""}},
		{1, 1, nil},
		{2, 0, nil},
		{2, 1, nil},
		{2, 2, []string{"A B", "A C"}},
		{2, 3, nil},
		{3, 2, []string{"A D"}},
		{3, 3, []string{"A B D", "A C D"}},
		{3, 4, []string{"A B C D"}},
		{3, 5, nil},
		{5, 0, []string{""}},
		{5, 1, []string{"A"}},
		{5, 2, []string{"A B"}},
		{5, 3, []string{"C D E"}},
		{5, 4, []string{"A C D E"}},
		{5, 5, []string{"A B C D E"}},
		{5, 6, []string{"C D E C D E"}},
		{5, 7, []string{"A C D E C D E"}},
		{8, 3, []string{"A B C"}},
		{8, 4, []string{"A B B C"}},
		{10, 3, []string{"A B C"}},
		{10, 4, []string{"A B C A"}},
		{4, -1, nil},
	}
	for _, tt := range tests {
		got := sequences(compiled(t, tt.pattern), tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("pattern %d %q, length %d (-want +got):\n%s", tt.pattern, patterns[tt.pattern], tt.n, diff)
		}
	}
}

func TestSequencesStopEarly(t *testing.T) {
	p := compiled(t, 3)
	n := 0
	for range p.Sequences(3) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterations = %d, want 1", n)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		pattern  int
		operands []string
		want     map[string][]string
		reason   defect.Reason
	}{
		{
			name:     "single values",
			pattern:  3,
			operands: []string{"a", "b", "c", "d"},
			want:     map[string][]string{"A": {"a"}, "B": {"b"}, "C": {"c"}, "D": {"d"}},
		},
		{
			name:     "too many",
			pattern:  2,
			operands: []string{"a", "b", "c"},
			reason:   defect.TooManyOperands,
		},
		{
			name:     "too few",
			pattern:  2,
			operands: []string{"a"},
			reason:   defect.TooFewOperands,
		},
		{
			name:     "empty input",
			pattern:  5,
			operands: nil,
			want:     map[string][]string{"A": {}, "B": {}, "C": {}, "D": {}, "E": {}},
		},
		{
			name:     "optional prefix then group",
			pattern:  5,
			operands: []string{"a", "c", "d", "e"},
			want:     map[string][]string{"A": {"a"}, "B": {}, "C": {"c"}, "D": {"d"}, "E": {"e"}},
		},
		{
			name:     "repeated group",
			pattern:  5,
			operands: []string{"a", "c1", "d1", "e1", "c2", "d2", "e2"},
			want:     map[string][]string{"A": {"a"}, "B": {}, "C": {"c1", "c2"}, "D": {"d1", "d2"}, "E": {"e1", "e2"}},
		},
		{
			name:     "repeat in the middle",
			pattern:  8,
			operands: []string{"a", "b1", "b2", "b3", "c"},
			want:     map[string][]string{"A": {"a"}, "B": {"b1", "b2", "b3"}, "C": {"c"}},
		},
		{
			name:     "name used twice",
			pattern:  10,
			operands: []string{"a1", "b", "c", "a2"},
			want:     map[string][]string{"A": {"a1", "a2"}, "B": {"b"}, "C": {"c"}},
		},
		{
			name:     "empty pattern rejects operands",
			pattern:  0,
			operands: []string{"x"},
			reason:   defect.TooManyOperands,
		},
		{
			name:     "empty pattern accepts nothing",
			pattern:  0,
			operands: nil,
			want:     map[string][]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compiled(t, tt.pattern).Match(tt.operands)
			if tt.reason != 0 {
				var d defect.Defect
				if !errors.As(err, &d) || d.Reason != tt.reason {
					t.Fatalf("Match() error = %v, want reason %v", err, tt.reason)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// Ambiguous patterns panic on input that reaches more than one final
// state, e.g. "A B | A C" with [a b] ends as both A B and A C.
func TestMatchAmbiguousPanics(t *testing.T) {
	for _, tc := range []struct {
		pattern  int
		operands []string
	}{
		{3, []string{"a", "b", "d"}},
		{2, []string{"a", "b"}},
	} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("pattern %d with %q: expected panic", tc.pattern, tc.operands)
				}
			}()
			compiled(t, tc.pattern).Match(tc.operands)
		}()
	}
}

func TestSequencesRoundTrip(t *testing.T) {
	for i := range patterns {
		p := compiled(t, i)
		if p.IsAmbiguous() {
			continue
		}
		for n := 0; n <= 7; n++ {
			for seq := range p.Sequences(n) {
				operands := make([]string, len(seq))
				want := p.Empty()
				for j, name := range seq {
					operands[j] = strings.ToLower(name) + string(rune('0'+j))
					want[name] = append(want[name], operands[j])
				}
				got, err := p.Match(operands)
				if err != nil {
					t.Errorf("pattern %d: Match(%q) failed: %v", i, operands, err)
					continue
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("pattern %d: Match(%q) mismatch (-want +got):\n%s", i, operands, diff)
				}
			}
		}
	}
}

func TestQueries(t *testing.T) {
	type q struct {
		multiple []string
		absent   []string
	}
	tests := map[int]q{
		2:  {multiple: nil, absent: []string{"B", "C"}},
		3:  {multiple: nil, absent: []string{"B", "C"}},
		4:  {multiple: []string{"C", "D", "E"}, absent: []string{"A", "B"}},
		5:  {multiple: []string{"C", "D", "E"}, absent: []string{"A", "B", "C", "D", "E"}},
		10: {multiple: []string{"A"}, absent: nil},
	}
	for i, want := range tests {
		p := compiled(t, i)
		for _, name := range p.Names() {
			if got := p.IsMultipleOccurrencePossible(name); got != slices.Contains(want.multiple, name) {
				t.Errorf("pattern %d: IsMultipleOccurrencePossible(%s) = %v", i, name, got)
			}
			if got := p.IsAbsencePossible(name); got != slices.Contains(want.absent, name) {
				t.Errorf("pattern %d: IsAbsencePossible(%s) = %v", i, name, got)
			}
		}
	}

	empty := map[int]bool{0: true, 1: true, 5: true, 6: true, 7: true}
	for i := range patterns {
		p := compiled(t, i)
		if got := p.IsEmptyPossible(); got != empty[i] {
			t.Errorf("pattern %d: IsEmptyPossible() = %v, want %v", i, got, empty[i])
		}
		if got, want := p.IsMoreThanOneOperandPossible(), i >= 2; got != want {
			t.Errorf("pattern %d: IsMoreThanOneOperandPossible() = %v, want %v", i, got, want)
		}
	}
}

func TestQueryUndeclaredPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for undeclared name")
		}
	}()
	compiled(t, 2).IsMultipleOccurrencePossible("Z")
}

func TestNames(t *testing.T) {
	p := compiled(t, 10)
	if diff := cmp.Diff([]string{"A", "B", "C"}, p.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if p.String() != patterns[10] {
		t.Errorf("String() = %q", p.String())
	}
	if !p.Declares("B") || p.Declares("D") {
		t.Errorf("Declares() mismatch")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		msg     string
		offset  int
	}{
		{"...", `unexpected "..."`, 0},
		{"| A", `unexpected "|"`, 0},
		{"A |", "token expected at end of pattern", 3},
		{"[A", `"]" expected`, 2},
		{"(A [B)", `"]" expected`, 5},
		{"( A", `")" expected`, 3},
		{"A ]", `unexpected "]"`, 2},
		{"[ ]", `token expected before "]"`, 2},
		{"A | ( )", `token expected before ")"`, 6},
		{"A_B", `illegal character '_'`, 1},
		{"FILE…", `illegal character '…'`, 4},
	}
	for _, tt := range tests {
		_, err := Compile(tt.pattern)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("Compile(%q) error = %v, want SyntaxError", tt.pattern, err)
			continue
		}
		if se.Msg != tt.msg || se.Offset != tt.offset {
			t.Errorf("Compile(%q) = %q at %d, want %q at %d", tt.pattern, se.Msg, se.Offset, tt.msg, tt.offset)
		}
	}
}

func TestCompileTokens(t *testing.T) {
	// Separators are optional around punctuation.
	p, err := Compile("[SRC...]DST")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	got, err := p.Match([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	want := map[string][]string{"SRC": {"a", "b"}, "DST": {"c"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Match() mismatch (-want +got):\n%s", diff)
	}
}

func TestMustCompile(t *testing.T) {
	if p := MustCompile("A B..."); p.IsEmptyPossible() {
		t.Errorf("IsEmptyPossible() = true")
	}
	defer func() {
		r := recover()
		if _, ok := r.(*Ambiguity); !ok {
			t.Errorf("recover() = %v, want *Ambiguity", r)
		}
	}()
	MustCompile(patterns[3])
}
