// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Helloworld greets its operands using a parser built in code.
//
//	helloworld [-n COUNT] [-i INTERVAL] [NAME...]
package main

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"time"

	"github.com/yeetrun/yopt/pkg/bind"
	"github.com/yeetrun/yopt/pkg/help"
	"github.com/yeetrun/yopt/pkg/option"
	"github.com/yeetrun/yopt/pkg/syntax"
	"github.com/yeetrun/yopt/pkg/yopt"
	"tailscale.com/util/must"
)

type flags struct {
	Count    int           `opt:"-n"`
	Interval time.Duration `opt:"-i"`
	Names    []string      `operand:"NAME"`
}

func main() {
	p := yopt.New(&syntax.Posix{JointArguments: true})
	p.MustOption(option.Required, "-n")
	p.MustOption(option.Required, "-i")
	must.Do(p.SetOperandPattern("[NAME...]"))

	b := bind.NewBinder(nil)
	for _, s := range []bind.Spec{
		{Option: "-n", Kind: bind.Primitive, Type: reflect.TypeFor[int](), Default: "1"},
		{Option: "-i", Kind: bind.Primitive, Type: reflect.TypeFor[time.Duration](), Default: "2s", Env: "HELLO_INTERVAL"},
		{Operand: "NAME", Kind: bind.PrimitiveArray},
	} {
		must.Do(b.Add(s))
	}

	res := p.Parse(os.Args[1:])
	v, defects := b.Bind(res)
	if err := append(res.Errors(), defects...); len(err) > 0 {
		doc := help.FromParser("helloworld", p)
		doc.ArgNames = map[string]string{"-n": "COUNT", "-i": "INTERVAL"}
		log.Fatalf("%v\n\n%s", err, doc.Usage())
	}
	var f flags
	must.Do(v.Populate(&f))
	if len(f.Names) == 0 {
		f.Names = []string{"World"}
	}
	for i := 0; i < f.Count; i++ {
		if i > 0 {
			time.Sleep(f.Interval)
		}
		for _, name := range f.Names {
			fmt.Printf("Hello, %s!\n", name)
		}
	}
}
