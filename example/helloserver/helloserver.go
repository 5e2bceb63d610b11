// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Helloserver is an HTTP server whose command line comes from an embedded
// definition file.
package main

import (
	_ "embed"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/yeetrun/yopt/pkg/bind"
	"github.com/yeetrun/yopt/pkg/cmdspec"
	"github.com/yeetrun/yopt/pkg/help"
	"tailscale.com/util/must"
)

//go:embed helloserver.yaml
var definition []byte

func main() {
	def := must.Get(cmdspec.Decode(definition, cmdspec.YAML))
	p, b, err := def.Build()
	if err != nil {
		log.Fatal(err)
	}

	res := p.Parse(os.Args[1:])
	v, defects := b.Bind(res)
	if res.Has("--help") {
		d := must.Get(def.Help())
		d.Width = help.TermWidth(int(os.Stdout.Fd()))
		must.Do(d.Render(os.Stdout))
		return
	}
	if err := append(res.Errors(), defects...); len(err) > 0 {
		log.Fatal(err)
	}

	port, _ := v.Get("--port")
	greeting := v.String("GREETING")
	env := v.Bool("--env")
	addr := fmt.Sprintf(":%d", port.(bind.Port))
	log.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env && r.URL.Path == "/env" {
			fmt.Fprintln(w, os.Environ())
			return
		}
		fmt.Fprintln(w, greeting)
	})))
}
