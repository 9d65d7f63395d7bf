// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

var (
	extendedErrors bool // true: Errors will include origin info.
)

// ConfigurationError reports an invalid or unsupported build setting.
type ConfigurationError struct {
	Msg   string
	Value string
}

// Error implements error.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %q", e.Msg, e.Value)
}

// ToolchainError reports a failed compiler or linker invocation.
type ToolchainError struct {
	Args []string
	Err  error
}

// Error implements error.
func (e *ToolchainError) Error() string {
	return fmt.Sprintf("toolchain: %s: %v", shellquote.Join(e.Args...), e.Err)
}

func (e *ToolchainError) Unwrap() error { return e.Err }

// MissingDataError reports an expected package data path that does not exist.
type MissingDataError struct {
	Path string
	Dir  bool // The path must be a directory.
}

// Error implements error.
func (e *MissingDataError) Error() string {
	if e.Dir {
		return fmt.Sprintf("%s: missing data directory", e.Path)
	}

	return fmt.Sprintf("%s: missing data file", e.Path)
}

// EmptyDataError reports a package data file with no content.
type EmptyDataError struct {
	Path string
}

// Error implements error.
func (e *EmptyDataError) Error() string { return fmt.Sprintf("%s: empty data file", e.Path) }

// origin returns caller's short position, skipping skip frames.
func origin(skip int) string {
	pc, fn, fl, _ := runtime.Caller(skip)
	f := runtime.FuncForPC(pc)
	var fns string
	if f != nil {
		fns = f.Name()
		if x := strings.LastIndex(fns, "."); x > 0 {
			fns = fns[x+1:]
		}
	}
	return fmt.Sprintf("%s:%d:%s", filepath.Base(fn), fl, fns)
}

// errorf constructs an error value. If extendedErrors is true, the error will
// contain its origin.
func errorf(s string, args ...interface{}) error {
	switch {
	case s == "":
		s = fmt.Sprintf(strings.Repeat("%v ", len(args)), args...)
	default:
		s = fmt.Sprintf(s, args...)
	}
	switch {
	case extendedErrors:
		return fmt.Errorf("%s (%v:)", s, origin(2))
	default:
		return fmt.Errorf("%s", s)
	}
}

// errList collects the failures of a check list run to completion.
type errList []error

// Error implements error.
func (e errList) Error() string {
	a := make([]string, len(e))
	for i, v := range e {
		a[i] = v.Error()
	}
	return strings.Join(a, "\n")
}

// Unwrap returns the collected errors.
func (e errList) Unwrap() []error { return e }

func (e *errList) add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

func (e errList) err() error {
	if len(e) == 0 {
		return nil
	}

	return e
}
