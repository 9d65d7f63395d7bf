// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"modernc.org/cc/v4"
)

type recorder struct {
	plan  *Plan
	iface *Interface
	out   string
	err   error
}

func (r *recorder) Build(ctx context.Context, p *Plan, n *Interface, out string) error {
	r.plan, r.iface, r.out = p, n, out
	return r.err
}

func TestTask(t *testing.T) {
	src := writeSources(t)
	envFile := filepath.Join(t.TempDir(), "build.env")
	if err := os.WriteFile(envFile, []byte("LOG_LEVEL=super_debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	task := NewTask("linux", "amd64",
		[]string{"cbuild", "-C", src, "-o", "build", "-env-file", envFile},
		[]string{"CC=clang", "FFTW_INC=/fftw/include", "LOG_LEVEL=info"},
		&stdout, &stderr,
	)
	r := &recorder{}
	task.Toolchain = r
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	if g, e := r.out, "build"; g != e {
		t.Errorf("out: got %q, exp %q", g, e)
	}

	p := r.plan
	if p.Compiler != Clang || p.LogLevel != LogSuperDebug {
		t.Errorf("got %+v", p)
	}

	if g := strings.Join(p.IncludeDirs, " "); g != src+" /fftw/include" {
		t.Errorf("include: got %q", g)
	}

	if g, e := len(r.iface.Headers), 2; g != e {
		t.Errorf("got %v headers, exp %v", g, e)
	}
}

func TestTaskUnsupportedCompiler(t *testing.T) {
	task := NewTask("linux", "amd64", []string{"cbuild", "-C", writeSources(t)}, []string{"CC=icc"}, &bytes.Buffer{}, &bytes.Buffer{})
	r := &recorder{}
	task.Toolchain = r
	err := task.Main(context.Background())
	var ce *ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("got %v, exp *ConfigurationError", err)
	}

	if r.plan != nil {
		t.Error("toolchain invoked")
	}
}

func TestTaskToolchainError(t *testing.T) {
	task := NewTask("linux", "amd64", []string{"cbuild", "-C", writeSources(t)}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	exp := &ToolchainError{Args: []string{"gcc"}, Err: errors.New("exit status 1")}
	task.Toolchain = &recorder{err: exp}
	if err := task.Main(context.Background()); err != exp {
		t.Errorf("got %v, exp %v", err, exp)
	}
}

func TestTaskDryRun(t *testing.T) {
	dir := t.TempDir()
	binding := filepath.Join(dir, "c21cmfast", BindingFileName("linux", "amd64"))
	var stdout bytes.Buffer
	task := NewTask("linux", "amd64",
		[]string{"cbuild", "-n", "-C", writeSources(t), "-o", dir, "-cgo", binding},
		[]string{"CC=gcc", "DEBUG=1"},
		&stdout, &bytes.Buffer{},
	)
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	s := stdout.String()
	for _, v := range []string{"#define LOG_LEVEL 4", "-O0", "c_21cmfast.so"} {
		if !strings.Contains(s, v) {
			t.Errorf("missing %q in\n%s", v, s)
		}
	}
	if _, err := os.Stat(Files(dir, "linux").Module); err == nil {
		t.Error("dry run wrote the module")
	}

	if _, err := os.Stat(binding); err == nil {
		t.Error("dry run wrote the binding")
	}
}

func TestTaskBinding(t *testing.T) {
	dir := t.TempDir()
	binding := filepath.Join(dir, "c21cmfast", BindingFileName("linux", "amd64"))
	task := NewTask("linux", "amd64",
		[]string{"cbuild", "-C", writeSources(t), "-o", dir, "-cgo", binding},
		[]string{"CC=gcc"},
		&bytes.Buffer{}, &bytes.Buffer{},
	)
	task.Toolchain = &recorder{}
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(binding)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(b), "const LogLevel = 1 // ERROR") {
		t.Errorf("unexpected binding\n%s", b)
	}
}

func TestTaskCheckData(t *testing.T) {
	root := dataRoot(t, map[string]int{"a.dat": 10}, true)
	var stdout bytes.Buffer
	task := NewTask("linux", "amd64", []string{"cbuild", "-check-data", root}, nil, &stdout, &bytes.Buffer{})
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	if g, e := stdout.String(), root+": 1 data files, 10 B\n"; g != e {
		t.Errorf("got %q, exp %q", g, e)
	}

	task = NewTask("linux", "amd64", []string{"cbuild", "-check-data", t.TempDir()}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	var me *MissingDataError
	if err := task.Main(context.Background()); !errors.As(err, &me) {
		t.Errorf("got %v, exp *MissingDataError", err)
	}
}

func TestTaskArgs(t *testing.T) {
	for _, args := range [][]string{
		{"cbuild", "extra"},
		{"cbuild", "-bogus"},
	} {
		task := NewTask("linux", "amd64", args, nil, &bytes.Buffer{}, &bytes.Buffer{})
		task.Toolchain = &recorder{}
		if err := task.Main(context.Background()); err == nil {
			t.Errorf("%q: unexpected success", args)
		}
	}
}

func TestTaskCompileDB(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "compile_commands.json")
	task := NewTask("linux", "amd64",
		[]string{"cbuild", "-C", writeSources(t), "-o", dir, "-compiledb", fn},
		[]string{"CC=gcc"},
		&bytes.Buffer{}, &bytes.Buffer{},
	)
	task.Toolchain = &recorder{}
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(b), `"-fopenmp"`) {
		t.Errorf("unexpected compilation database\n%s", b)
	}
}

func TestTaskSymbols(t *testing.T) {
	if _, err := cc.NewConfig(runtime.GOOS, runtime.GOARCH); err != nil {
		t.Skipf("no host C configuration: %v", err)
	}

	var stdout bytes.Buffer
	task := NewTask(runtime.GOOS, runtime.GOARCH, []string{"cbuild", "-symbols", "-C", writeSources(t)}, nil, &stdout, &bytes.Buffer{})
	r := &recorder{}
	task.Toolchain = r
	if err := task.Main(context.Background()); err != nil {
		t.Fatal(err)
	}

	if r.plan != nil {
		t.Error("toolchain invoked")
	}

	for _, v := range []string{"KIND", "ComputeInitialConditions", "global_redshift"} {
		if !strings.Contains(stdout.String(), v) {
			t.Errorf("missing %q in\n%s", v, stdout.String())
		}
	}
}

func TestTaskBindingNewerFormat(t *testing.T) {
	binding := filepath.Join(t.TempDir(), BindingFileName("linux", "amd64"))
	old := "// Code generated by 'cbuild', DO NOT EDIT.\n// Binding format v2.0.0 for linux/amd64.\n"
	if err := os.WriteFile(binding, []byte(old), 0o644); err != nil {
		t.Fatal(err)
	}

	task := NewTask("linux", "amd64", []string{"cbuild", "-C", writeSources(t), "-cgo", binding}, nil, &bytes.Buffer{}, &bytes.Buffer{})
	task.Toolchain = &recorder{}
	if err := task.Main(context.Background()); err == nil {
		t.Fatal("unexpected success")
	}

	if b, err := os.ReadFile(binding); err != nil || string(b) != old {
		t.Errorf("binding overwritten: %q %v", b, err)
	}
}
