// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cbuild implements the cbuild command.
//
// cbuild compiles the 21cmFAST C library into the native module
// py21cmfast.c_21cmfast. The build is configured from the environment:
//
//	CC		compiler command, must name gcc or clang
//	DEBUG		if present, build with -g -O0 instead of -Ofast
//	LOG_LEVEL	verbosity of the C code, an integer or one of
//			NONE, ERROR, WARNING, INFO, DEBUG, SUPER_DEBUG, ULTRA_DEBUG
//	*inc*		value is an include directory
//	*lib*		value is a library directory
//
// Variable names are matched in any case.
package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"modernc.org/cc/v4"
	"modernc.org/opt"
)

const (
	defaultSourceDir = "src/py21cmfast/src"
)

// Task represents a build job.
type Task struct {
	// Toolchain builds the module. nil selects HostToolchain, or DryRun if
	// -n is given.
	Toolchain Toolchain

	args      []string // command name in args[0]
	cgo       string   // -cgo <file>
	checkData string   // -check-data <dir>
	compiledb string   // -compiledb <file>
	env       Env
	envFile   string // -env-file <file>
	goarch    string
	goos      string
	log       *slog.Logger
	out       string // -o
	srcDir    string // -C
	stderr    io.Writer
	stdout    io.Writer

	n       bool // -n
	symbols bool // -symbols
	verbose bool // -v
}

// NewTask returns a newly created Task. args[0] is the command name, environ
// is in the os.Environ format.
func NewTask(goos, goarch string, args, environ []string, stdout, stderr io.Writer) *Task {
	return &Task{
		args:   args,
		env:    ParseEnviron(environ),
		goarch: goarch,
		goos:   goos,
		out:    ".",
		srcDir: defaultSourceDir,
		stderr: stderr,
		stdout: stdout,
	}
}

// Main executes task.
func (t *Task) Main(ctx context.Context) (err error) {
	if len(t.args) == 0 {
		return fmt.Errorf("invalid arguments %v", t.args)
	}

	set := opt.NewSet()
	set.Arg("C", true, func(opt, val string) error { t.srcDir = val; return nil })
	set.Arg("cgo", false, func(opt, val string) error { t.cgo = val; return nil })
	set.Arg("check-data", false, func(opt, val string) error { t.checkData = val; return nil })
	set.Arg("compiledb", false, func(opt, val string) error { t.compiledb = val; return nil })
	set.Arg("env-file", false, func(opt, val string) error { t.envFile = val; return nil })
	set.Arg("o", true, func(opt, val string) error { t.out = val; return nil })
	set.Opt("n", func(opt string) error { t.n = true; return nil })
	set.Opt("symbols", func(opt string) error { t.symbols = true; return nil })
	set.Opt("v", func(opt string) error { t.verbose = true; return nil })
	if err := set.Parse(t.args[1:], func(arg string) error {
		return fmt.Errorf("unexpected argument %s", arg)
	}); err != nil {
		return fmt.Errorf("parsing %v: %v", t.args[1:], err)
	}

	t.log = NewLogger(t.stderr, t.verbose)
	if t.envFile != "" {
		if t.env, err = t.env.LoadEnvFile(t.envFile); err != nil {
			return err
		}
	}

	if t.checkData != "" {
		return t.dataCheck()
	}

	return t.build(ctx)
}

func (t *Task) dataCheck() error {
	r, err := CheckData(t.checkData)
	if err != nil {
		return err
	}

	t.log.Info("data check passed", "root", r.Root, "files", r.Files)
	_, err = fmt.Fprintln(t.stdout, r)
	return err
}

func (t *Task) build(ctx context.Context) error {
	p, err := NewPlan(Config{Env: t.env, Platform: t.goos, SourceDir: t.srcDir})
	if err != nil {
		return err
	}

	t.log.Debug("resolved plan", "plan", p)
	n, err := ReadInterface(t.srcDir)
	if err != nil {
		return err
	}

	if t.symbols {
		return t.listSymbols(n)
	}

	if t.compiledb != "" && !t.n {
		if err := t.writeCompileDB(p); err != nil {
			return err
		}
	}

	tc := t.Toolchain
	switch {
	case tc != nil:
		// ok
	case t.n:
		tc = &DryRun{W: t.stdout}
	default:
		tc = &HostToolchain{Stdout: t.stdout, Stderr: t.stderr, Logger: t.log}
	}
	if err := tc.Build(ctx, p, n, t.out); err != nil {
		return err
	}

	if t.cgo == "" {
		return nil
	}

	return t.writeBinding(p, n)
}

func (t *Task) writeBinding(p *Plan, n *Interface) (err error) {
	b := &Binding{
		Plan:      p,
		Interface: n,
		Out:       t.out,
		GOOS:      t.goos,
		GOARCH:    t.goarch,
		Generator: filepath.Base(t.args[0]),
	}
	if err := checkBinding(t.cgo); err != nil {
		return err
	}

	if t.n {
		return WriteBinding(io.Discard, b)
	}

	if err := os.MkdirAll(filepath.Dir(t.cgo), 0o755); err != nil {
		return err
	}

	f, err := os.Create(t.cgo)
	if err != nil {
		return err
	}

	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if err := WriteBinding(f, b); err != nil {
		return err
	}

	t.log.Info("wrote binding", "file", t.cgo)
	return nil
}

func (t *Task) writeCompileDB(p *Plan) (err error) {
	f, err := os.Create(t.compiledb)
	if err != nil {
		return err
	}

	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	if err := WriteCompileDB(f, p, t.out, "."); err != nil {
		return err
	}

	t.log.Info("wrote compilation database", "file", t.compiledb)
	return nil
}

func (t *Task) listSymbols(n *Interface) error {
	cfg, err := cc.NewConfig(t.goos, t.goarch)
	if err != nil {
		return fmt.Errorf("configuring C front end: %w", err)
	}

	syms, err := n.Symbols(cfg)
	if err != nil {
		return err
	}

	var data [][]string
	for _, v := range syms {
		data = append(data, []string{v.Kind.String(), v.Name, v.Pos})
	}
	table := tablewriter.NewWriter(t.stdout)
	table.SetHeader([]string{"KIND", "NAME", "POSITION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}
