// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/mod/semver"
	"golang.org/x/tools/imports"
)

const (
	// BindingPackage is the package name of the generated cgo binding.
	BindingPackage = "c21cmfast"

	bindingCommentPrefix = "Code generated by "
	bindingSemver        = "v1"
)

func init() {
	if !semver.IsValid(bindingSemver) {
		panic(fmt.Sprintf("internal error: invalid bindingSemver: %q", bindingSemver))
	}
}

// Binding describes the cgo file making the native module usable from Go.
type Binding struct {
	Plan      *Plan
	Interface *Interface
	Out       string // Output root of the module build.
	GOOS      string
	GOARCH    string
	Generator string // Reported in the header comment.
}

// WriteBinding writes the cgo binding of b to w. The preamble declares the
// registered headers and the binding links the module Build wrote under
// b.Out.
func WriteBinding(w io.Writer, b *Binding) error {
	p := b.Plan
	var cflags []string
	for i := 0; i < len(p.Flags); i++ {
		switch v := p.Flags[i]; v {
		case "--verbose":
			// Module build only.
		case "-Xpreprocessor":
			// Not accepted in #cgo CFLAGS. The preamble only declares, it
			// needs no OpenMP.
			i++
		default:
			cflags = append(cflags, v)
		}
	}
	cflags = append(cflags, fmt.Sprintf("-DLOG_LEVEL=%d", int(p.LogLevel)))
	inc, err := absPaths(p.IncludeDirs)
	if err != nil {
		return err
	}

	for _, v := range inc {
		cflags = append(cflags, "-I"+v)
	}

	module, err := filepath.Abs(Files(b.Out, p.Platform).Module)
	if err != nil {
		return err
	}

	lib, err := absPaths(p.LibraryDirs)
	if err != nil {
		return err
	}

	ldflags := []string{module}
	for _, v := range lib {
		ldflags = append(ldflags, "-L"+v)
	}
	for _, v := range p.Libraries {
		ldflags = append(ldflags, "-l"+v)
	}
	if p.Compiler == GCC {
		ldflags = append(ldflags, "-fopenmp")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// %s'%s', DO NOT EDIT.\n", bindingCommentPrefix, b.Generator)
	fmt.Fprintf(&buf, "// Binding format %s for %s/%s.\n\n", bindingSemver, b.GOOS, b.GOARCH)
	fmt.Fprintf(&buf, "//go:build %s && %s\n\n", b.GOOS, b.GOARCH)
	fmt.Fprintf(&buf, "// Package %s binds the native module %s.\n", BindingPackage, ModuleName)
	fmt.Fprintf(&buf, "package %s\n\n", BindingPackage)
	buf.WriteString("/*\n")
	fmt.Fprintf(&buf, "#cgo CFLAGS: %s\n", shellquote.Join(cflags...))
	fmt.Fprintf(&buf, "#cgo LDFLAGS: %s\n", shellquote.Join(ldflags...))
	for _, v := range b.Interface.Headers {
		fmt.Fprintf(&buf, "#include %q\n", v.Name)
	}
	buf.WriteString("*/\nimport \"C\"\n\n")
	buf.WriteString("// LogLevel is the LOG_LEVEL the C library is compiled with.\n")
	fmt.Fprintf(&buf, "const LogLevel = %d // %s\n", int(p.LogLevel), p.LogLevel)

	src, err := imports.Process(BindingPackage+".go", buf.Bytes(), nil)
	if err != nil {
		return errorf("formatting binding: %v\n%s", err, buf.Bytes())
	}

	_, err = w.Write(src)
	return err
}

// absPaths returns a as absolute paths. cgo resolves relative paths against
// the package directory of the binding, not the build root.
func absPaths(a []string) (r []string, err error) {
	for _, v := range a {
		if v, err = filepath.Abs(v); err != nil {
			return nil, err
		}

		r = append(r, v)
	}
	return r, nil
}

// BindingFormat returns the binding format version recorded in src, as
// written by WriteBinding. ok is false if src carries no valid version.
func BindingFormat(src []byte) (version string, ok bool) {
	for _, line := range strings.SplitN(string(src), "\n", 3) {
		if s, found := strings.CutPrefix(line, "// Binding format "); found {
			version, _, _ = strings.Cut(s, " ")
			return version, semver.IsValid(version)
		}
	}
	return "", false
}

// checkBinding reports an error if fn holds a binding of a format newer than
// the one WriteBinding produces. A missing fn is not an error.
func checkBinding(fn string) error {
	b, err := os.ReadFile(fn)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	if v, ok := BindingFormat(b); ok && semver.Compare(v, bindingSemver) > 0 {
		return fmt.Errorf("%s: binding format %s is newer than %s, refusing to overwrite", fn, v, bindingSemver)
	}

	return nil
}

// BindingFileName returns the conventional file name of the binding for
// goos/goarch.
func BindingFileName(goos, goarch string) string {
	return strings.Join([]string{BindingPackage, goos, goarch}, "_") + ".go"
}
