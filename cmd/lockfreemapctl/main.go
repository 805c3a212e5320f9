// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/aristanetworks/lockfreemap/errs"
)

var help = `Usage of lockfreemapctl:
lockfreemapctl [options]
  dump
  stress
  serve
`

func exitWithError(s string) {
	flag.Usage()
	fmt.Fprintln(os.Stderr, s)
	os.Exit(1)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		exitWithError("error: missing subcommand")
	}

	var err error
	switch args[0] {
	case "dump":
		err = runDump(args[1:])
	case "stress":
		err = runStress(args[1:])
	case "serve":
		err = runServe(args[1:])
	default:
		exitWithError(fmt.Sprintf("error: unknown subcommand %q", args[0]))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var merr *errs.MapError
		if errors.As(err, &merr) {
			os.Exit(errs.MapKindToExitCode(merr.Kind))
		}
		os.Exit(1)
	}
}
