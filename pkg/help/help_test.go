// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package help

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/syntax"
	"github.com/yeetrun/yopt/pkg/yopt"
)

func cpDoc(t *testing.T) Doc {
	t.Helper()
	gnu := syntax.NewGnu()
	gnu.OptionalArguments = true
	p := yopt.New(gnu)
	for _, o := range []*option.Option{
		option.Must(option.None, "-r", "--recursive"),
		option.Must(option.Required, "-t", "--target-directory").Require(),
		option.Must(option.Optional, "--backup").Repeat(),
	} {
		if err := p.AddOption(o); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.SetOperandPattern("SOURCE... DEST"); err != nil {
		t.Fatal(err)
	}
	d := FromParser("cp", p)
	d.Description = "Copy SOURCE to DEST, or multiple SOURCE(s) to DIRECTORY."
	d.ArgNames = map[string]string{"-t": "DIR"}
	d.OptionHelp = map[string]string{
		"-r":       "copy directories recursively",
		"-t":       "copy all SOURCE arguments into DIR",
		"--backup": "make a backup of each existing destination file",
	}
	d.Width = 60
	return d
}

func TestUsage(t *testing.T) {
	d := cpDoc(t)
	if got, want := d.Usage(), "cp [-r] -t DIR [--backup[=ARG]]... SOURCE... DEST"; got != want {
		t.Errorf("Usage() = %q, want %q", got, want)
	}

	p := yopt.New(&syntax.Posix{OptionalArguments: true})
	p.MustOption(option.Optional, "-p")
	if got := FromParser("x", p).Usage(); got != "x [-p[ARG]]" {
		t.Errorf("Usage() = %q", got)
	}
}

func TestString(t *testing.T) {
	want := strings.Join([]string{
		"USAGE",
		"  cp [-r] -t DIR [--backup[=ARG]]... SOURCE... DEST",
		"",
		"DESCRIPTION",
		"  Copy SOURCE to DEST, or multiple SOURCE(s) to DIRECTORY.",
		"",
		"OPTIONS",
		"  -r, --recursive             copy directories recursively",
		"  -t, --target-directory DIR  copy all SOURCE arguments into",
		"                              DIR",
		"      --backup[=ARG]          make a backup of each existing",
		"                              destination file",
		"",
	}, "\n")
	if diff := cmp.Diff(want, cpDoc(t).String()); diff != "" {
		t.Errorf("String() (-want +got):\n%s", diff)
	}
}

func TestString_NarrowUsage(t *testing.T) {
	d := cpDoc(t)
	d.Width = 30
	want := []string{
		"USAGE",
		"  cp [-r] -t DIR",
		"      [--backup[=ARG]]...",
		"      SOURCE... DEST",
		"",
	}
	got := strings.Split(d.String(), "\n")[:len(want)]
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("usage lines (-want +got):\n%s", diff)
	}
}

func TestString_LongOnly(t *testing.T) {
	p := yopt.New(syntax.NewGnu())
	p.MustOption(option.None, "--all")
	p.MustOption(option.Required, "--output")
	d := FromParser("ls", p)
	d.OptionHelp = map[string]string{"--all": "do not ignore entries"}
	want := strings.Join([]string{
		"USAGE",
		"  ls [--all] [--output ARG]",
		"",
		"OPTIONS",
		"  --all         do not ignore entries",
		"  --output ARG",
		"",
	}, "\n")
	if diff := cmp.Diff(want, d.String()); diff != "" {
		t.Errorf("String() (-want +got):\n%s", diff)
	}
}

func TestPrinter_SplitsLongWords(t *testing.T) {
	p := &printer{margin: 10}
	p.pad(2)
	p.text("abcdefghijklmnop", 4)
	if got, want := p.String(), "  abcdefgh\n    ijklmn\n    op\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPrinter_IndentAtMargin(t *testing.T) {
	p := &printer{margin: 4}
	p.text("abcdef", 4)
	if got, want := p.String(), "abcd\n    e\n    f\n"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestString_TinyWidths(t *testing.T) {
	for _, width := range []int{1, 2, 6} {
		t.Run(strconv.Itoa(width), func(t *testing.T) {
			d := cpDoc(t)
			d.Width = width
			done := make(chan string, 1)
			go func() { done <- d.String() }()
			select {
			case got := <-done:
				if !strings.HasPrefix(got, "USAGE\n") {
					t.Errorf("String() = %q", got)
				}
				flat := strings.Join(strings.Fields(got), "")
				for _, word := range []string{"SOURCE...", "DEST", "--target-directory"} {
					if !strings.Contains(flat, word) {
						t.Errorf("String() lost %q:\n%s", word, got)
					}
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("String() with width %d did not return", width)
			}
		})
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	d := cpDoc(t)
	if err := d.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != d.String() {
		t.Errorf("Render and String differ")
	}
}

func TestTermWidth(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if got := TermWidth(int(f.Fd())); got != DefaultWidth {
		t.Errorf("TermWidth(file) = %d, want %d", got, DefaultWidth)
	}
}
