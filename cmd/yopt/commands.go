// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/shayne/yargs"
	"github.com/yeetrun/yopt/pkg/bind"
	"github.com/yeetrun/yopt/pkg/cmdspec"
	"github.com/yeetrun/yopt/pkg/defect"
	"github.com/yeetrun/yopt/pkg/help"
	"github.com/yeetrun/yopt/pkg/operand"
	"github.com/yeetrun/yopt/pkg/yopt"
	"golang.org/x/sync/errgroup"
)

type parseFlagsParsed struct {
	JSON bool `flag:"json" help:"Print the bound values as JSON"`
}

func handleParse(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[parseFlagsParsed](args)
	if err != nil {
		return err
	}
	path, err := definitionPath(positional(result.Args, "parse"))
	if err != nil {
		return err
	}
	return runParse(os.Stdout, path, passthrough, result.Flags.JSON)
}

// row is one bound option or operand.
type row struct {
	name  string
	count int
	value any
}

// runParse parses args with the definition at path and prints what each
// option and operand was bound to. Defects are returned as a defect.List.
func runParse(w io.Writer, path string, args []string, asJSON bool) error {
	c, err := loadDefinition(path)
	if err != nil {
		return err
	}
	p, b, err := c.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if f := logf(); f != nil {
		p.SetLogf(f)
	}
	res := p.Parse(args)
	v, bindDefects := b.Bind(res)
	defects := append(res.Errors(), bindDefects...)
	rows := boundRows(p, res, v)

	if asJSON {
		if err := writeJSON(w, rows, defects); err != nil {
			return err
		}
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCOUNT\tVALUE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%d\t%v\n", r.name, r.count, r.value)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(defects) > 0 {
		return defects
	}
	return nil
}

// boundRows lists the bound values in binding order, followed by the
// operands of the pattern that have no binding.
func boundRows(p *yopt.Parser, res *yopt.Result, v *bind.Values) []row {
	var rows []row
	seen := map[string]bool{}
	for _, name := range v.Names() {
		x, _ := v.Get(name)
		var n int
		if _, ok := p.Lookup(name); ok {
			n = res.Count(name)
		} else {
			n = len(res.Operand(name))
		}
		rows = append(rows, row{name, n, x})
		seen[name] = true
	}
	if pat := p.OperandPattern(); pat != nil {
		for _, name := range pat.Names() {
			if seen[name] {
				continue
			}
			ops := res.Operand(name)
			rows = append(rows, row{name, len(ops), ops})
		}
	}
	return rows
}

func writeJSON(w io.Writer, rows []row, defects defect.List) error {
	type out struct {
		Values  map[string]any `json:"values"`
		Counts  map[string]int `json:"counts"`
		Defects []string       `json:"defects"`
	}
	o := out{Values: map[string]any{}, Counts: map[string]int{}, Defects: []string{}}
	for _, r := range rows {
		o.Values[r.name] = jsonValue(r.value)
		o.Counts[r.name] = r.count
	}
	for _, d := range defects {
		o.Defects = append(o.Defects, d.Error())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

// jsonValue renders values that have a text form, such as durations and
// URLs, as strings.
func jsonValue(x any) any {
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = jsonValue(rv.Index(i).Interface())
		}
		return out
	}
	return x
}

type patternFlagsParsed struct {
	Sequences int `flag:"sequences" help:"List the accepted sequences of up to N operands"`
}

func handlePattern(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[patternFlagsParsed](args)
	if err != nil {
		return err
	}
	pos := positional(result.Args, "pattern")
	if len(pos) != 1 {
		return errors.New("pattern takes exactly one PATTERN; quote it")
	}
	return runPattern(os.Stdout, pos[0], result.Flags.Sequences)
}

// runPattern describes an operand pattern. An ambiguous pattern is
// reported with its witness and returned as an *operand.Ambiguity.
func runPattern(w io.Writer, text string, sequences int) error {
	pat, err := operand.Compile(text)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "names:\t%s\n", strings.Join(pat.Names(), " "))
	fmt.Fprintf(tw, "empty:\t%v\n", pat.IsEmptyPossible())
	fmt.Fprintf(tw, "several:\t%v\n", pat.IsMoreThanOneOperandPossible())
	for _, name := range pat.Names() {
		fmt.Fprintf(tw, "%s:\toptional=%v repeated=%v\n", name, pat.IsAbsencePossible(name), pat.IsMultipleOccurrencePossible(name))
	}
	amb := pat.Ambiguity()
	if amb != nil {
		fmt.Fprintf(tw, "ambiguous:\t%s\n", st.bad(strings.Join(amb.First, " ")+" / "+strings.Join(amb.Second, " ")))
	} else {
		fmt.Fprintf(tw, "ambiguous:\t%s\n", st.good("no"))
	}
	for n := 0; n <= sequences; n++ {
		for seq := range pat.Sequences(n) {
			fmt.Fprintf(tw, "%d:\t%s\n", n, strings.Join(seq, " "))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if amb != nil {
		return amb
	}
	return nil
}

type usageFlagsParsed struct {
	Width int `flag:"width" help:"Right margin; defaults to the terminal width"`
}

func handleUsage(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[usageFlagsParsed](args)
	if err != nil {
		return err
	}
	path, err := definitionPath(positional(positional(result.Args, "usage"), "man"))
	if err != nil {
		return err
	}
	width := result.Flags.Width
	if width <= 0 {
		width = help.TermWidth(int(os.Stdout.Fd()))
	}
	return runUsage(os.Stdout, path, width)
}

func runUsage(w io.Writer, path string, width int) error {
	c, err := loadDefinition(path)
	if err != nil {
		return err
	}
	d, err := c.Help()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	d.Width = width
	return d.Render(w)
}

func handleLint(ctx context.Context, args []string) error {
	result, err := yargs.ParseFlags[struct{}](args)
	if err != nil {
		return err
	}
	paths := positional(result.Args, "lint")
	if len(paths) == 0 {
		p, err := definitionPath(nil)
		if err != nil {
			return err
		}
		paths = []string{p}
	}
	return runLint(ctx, os.Stdout, paths)
}

// runLint loads and builds every definition concurrently and prints one
// line per file, in argument order.
func runLint(ctx context.Context, w io.Writer, paths []string) error {
	errs := make([]error, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			errs[i] = lintOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	failed := 0
	for i, path := range paths {
		if errs[i] != nil {
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", st.bad("FAIL"), path, errs[i])
			continue
		}
		fmt.Fprintf(w, "%s   %s\n", st.good("ok"), path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d definitions failed", failed, len(paths))
	}
	return nil
}

func lintOne(path string) error {
	c, err := loadDefinition(path)
	if err != nil {
		return err
	}
	_, _, err = c.Build()
	return err
}

type convertFlagsParsed struct {
	To     string `flag:"to" help:"Output format: toml or yaml (default: the other one)"`
	Output string `flag:"output" short:"o" help:"Write to this file instead of stdout"`
	Yes    bool   `flag:"yes" short:"y" help:"Overwrite the output file without asking"`
}

func handleConvert(_ context.Context, args []string) error {
	result, err := yargs.ParseFlags[convertFlagsParsed](args)
	if err != nil {
		return err
	}
	pos := positional(result.Args, "convert")
	if len(pos) != 1 {
		return errors.New("convert takes exactly one FILE")
	}
	to := cmdspec.Format(strings.ToLower(result.Flags.To))
	if result.Flags.Output == "" {
		return runConvert(os.Stdout, pos[0], to)
	}
	return convertToFile(os.Stdin, os.Stderr, pos[0], result.Flags.Output, to, result.Flags.Yes)
}

// convertToFile converts src into dst. An existing dst is only replaced
// if yes is set or the user confirms on in/prompt.
func convertToFile(in io.Reader, prompt io.Writer, src, dst string, to cmdspec.Format, yes bool) error {
	if to == "" {
		f, err := cmdspec.FormatOf(dst)
		if err != nil {
			return err
		}
		to = f
	}
	var buf bytes.Buffer
	if err := runConvert(&buf, src, to); err != nil {
		return err
	}
	if _, err := os.Stat(dst); err == nil && !yes {
		ok, err := confirm(in, prompt, fmt.Sprintf("%s exists. Overwrite?", dst))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not overwriting %s", dst)
		}
	}
	return writeFile(dst, buf.Bytes())
}

func runConvert(w io.Writer, path string, to cmdspec.Format) error {
	from, err := cmdspec.FormatOf(path)
	if err != nil {
		return err
	}
	if to == "" {
		to = cmdspec.YAML
		if from == cmdspec.YAML {
			to = cmdspec.TOML
		}
	}
	c, err := cmdspec.Load(path)
	if err != nil {
		return err
	}
	return c.Encode(w, to)
}

func handleVersion(_ context.Context, _ []string) error {
	fmt.Println("yopt", version)
	return nil
}
