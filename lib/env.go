// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Env is a snapshot of environment variables. The build never consults the
// process environment directly.
type Env map[string]string

// ParseEnviron returns the snapshot of a, which is in the os.Environ format.
// Later entries win.
func ParseEnviron(a []string) Env {
	r := Env{}
	for _, v := range a {
		k, val, ok := strings.Cut(v, "=")
		if !ok || k == "" { // Windows has entries like "=C:=C:\\".
			continue
		}

		r[k] = val
	}
	return r
}

// Get returns the value of name or "".
func (e Env) Get(name string) string { return e[name] }

// Lookup reports the value of name and whether it is present.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Has reports whether name is present, regardless of its value.
func (e Env) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Names returns the variable names in ascending order.
func (e Env) Names() []string {
	a := make([]string, 0, len(e))
	for k := range e {
		a = append(a, k)
	}
	sort.Strings(a)
	return a
}

// Overlay returns a copy of e with the entries of m added, m wins.
func (e Env) Overlay(m map[string]string) Env {
	r := make(Env, len(e)+len(m))
	for k, v := range e {
		r[k] = v
	}
	for k, v := range m {
		r[k] = v
	}
	return r
}

// LoadEnvFile returns e overlaid by the variables of the dotenv files fn.
func (e Env) LoadEnvFile(fn ...string) (Env, error) {
	m, err := godotenv.Read(fn...)
	if err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	return e.Overlay(m), nil
}

// DirectorySet holds the search paths found in the environment.
type DirectorySet struct {
	Include []string
	Library []string
}

// ScanDirectories collects search paths from the variables of env. The value
// of every variable whose name contains "inc" (in any case) is an include
// directory, otherwise, if the name contains "lib", it is a library
// directory. A variable never contributes to both lists. Variables are
// visited in ascending name order.
func ScanDirectories(env Env) (r DirectorySet) {
	for _, k := range env.Names() {
		switch lk := strings.ToLower(k); {
		case strings.Contains(lk, "inc"):
			r.Include = append(r.Include, env[k])
		case strings.Contains(lk, "lib"):
			r.Library = append(r.Library, env[k])
		}
	}
	return r
}
