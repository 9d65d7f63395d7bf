// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// Compiler identifies a supported C compiler family.
type Compiler int

const (
	_ Compiler = iota
	GCC
	Clang
)

var compilerNames = [...]string{
	GCC:   "gcc",
	Clang: "clang",
}

func (c Compiler) String() string {
	if c > 0 && int(c) < len(compilerNames) {
		return compilerNames[c]
	}

	return "Compiler(?)"
}

// ResolveCompiler identifies the compiler family named by s, which is a
// compiler command as found in $CC, eg. "/usr/bin/x86_64-linux-gnu-gcc-12" or
// "ccache clang". "gcc" is matched before "clang".
func ResolveCompiler(s string) (Compiler, error) {
	switch ls := strings.ToLower(s); {
	case strings.Contains(ls, "gcc"):
		return GCC, nil
	case strings.Contains(ls, "clang"):
		return Clang, nil
	}

	return 0, &ConfigurationError{Msg: "unsupported compiler", Value: s}
}

// CompilerCommand returns $CC from env or the default compiler of goos.
func CompilerCommand(env Env, goos string) string {
	if s := env.Get("CC"); s != "" {
		return s
	}

	switch goos {
	case "darwin", "freebsd", "openbsd":
		return "clang"
	default:
		return "gcc"
	}
}

// compilerArgv splits a compiler command into the executable and its leading
// arguments.
func compilerArgv(s string) ([]string, error) {
	argv, err := shellquote.Split(s)
	if err != nil {
		return nil, &ConfigurationError{Msg: "invalid compiler command: " + err.Error(), Value: s}
	}

	if len(argv) == 0 {
		return nil, &ConfigurationError{Msg: "empty compiler command", Value: s}
	}

	return argv, nil
}
