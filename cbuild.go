// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cbuild builds the 21cmFAST native module.
//
// Usage:
//
//	cbuild [flags]
//
// Flags:
//
//	-C dir			C sources, default src/py21cmfast/src
//	-o dir			output root, default .
//	-n			print the commands, do not run them
//	-cgo file		also write a cgo binding of the module
//	-compiledb file		also write a compilation database
//	-env-file file		read additional environment variables
//	-symbols		list the declarations of the interface headers, build nothing
//	-check-data dir		check package data instead of building
//	-v			debug logging
//
// See the documentation of package github.com/21cmfast/cbuild/lib for the
// environment variables controlling the build.
package main // import "github.com/21cmfast/cbuild"

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	cbuild "github.com/21cmfast/cbuild/lib"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	goarch := env("TARGET_GOARCH", env("GOARCH", runtime.GOARCH))
	goos := env("TARGET_GOOS", env("GOOS", runtime.GOOS))
	if err := cbuild.NewTask(goos, goarch, os.Args, os.Environ(), os.Stdout, os.Stderr).Main(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func env(name, deflt string) (r string) {
	r = deflt
	if s := os.Getenv(name); s != "" {
		r = s
	}
	return r
}
