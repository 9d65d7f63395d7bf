// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Toolchain turns a Plan and an Interface into a loadable native module
// below the directory out.
type Toolchain interface {
	Build(ctx context.Context, p *Plan, n *Interface, out string) error
}

// ModuleFiles are the paths a build writes, relative to the output root.
type ModuleFiles struct {
	Source       string // Generated translation unit.
	Declarations string // Registered interface declarations.
	Module       string // Shared object.
}

// Files returns the paths of the module files under out for platform.
func Files(out, platform string) ModuleFiles {
	pkg, base, _ := strings.Cut(ModuleName, ".")
	stem := filepath.Join(out, pkg, base)
	ext := ".so"
	if platform == "windows" {
		ext = ".dll"
	}
	return ModuleFiles{
		Source:       stem + ".c",
		Declarations: stem + "_cdef.h",
		Module:       stem + ext,
	}
}

// Command returns the compiler invocation building the module under out.
func Command(p *Plan, out string) []string {
	f := Files(out, p.Platform)
	r := append([]string(nil), p.CompilerArgv...)
	r = append(r, p.Flags...)
	r = append(r, "-fPIC", "-shared")
	for _, v := range p.IncludeDirs {
		r = append(r, "-I"+v)
	}
	r = append(r, f.Source, "-o", f.Module)
	for _, v := range p.LibraryDirs {
		r = append(r, "-L"+v)
	}
	for _, v := range p.Libraries {
		r = append(r, "-l"+v)
	}
	return r
}

// HostToolchain builds the module with the compiler named by the plan.
type HostToolchain struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// Build implements Toolchain. The compiler output is passed through
// unchanged. A failed compilation is reported as *ToolchainError.
func (t *HostToolchain) Build(ctx context.Context, p *Plan, n *Interface, out string) error {
	log := t.Logger
	if log == nil {
		log = slog.Default()
	}
	f := Files(out, p.Platform)
	if err := os.MkdirAll(filepath.Dir(f.Module), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(f.Declarations, []byte(n.Declarations()), 0o644); err != nil {
		return err
	}

	if err := os.WriteFile(f.Source, []byte(n.Source(p.LogLevel)), 0o644); err != nil {
		return err
	}

	args := Command(p, out)
	log.Info("compiling", "module", ModuleName, "cmd", shellquote.Join(args...))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = t.Stdout
	cmd.Stderr = t.Stderr
	if err := cmd.Run(); err != nil {
		return &ToolchainError{Args: args, Err: err}
	}

	log.Info("built", "module", f.Module)
	return nil
}

// DryRun is a Toolchain printing what HostToolchain would do.
type DryRun struct {
	W io.Writer
}

// Build implements Toolchain.
func (d *DryRun) Build(ctx context.Context, p *Plan, n *Interface, out string) error {
	f := Files(out, p.Platform)
	if _, err := fmt.Fprintf(d.W, "# write %s (%d bytes)\n# write %s\n%s", f.Declarations, len(n.Declarations()), f.Source, n.Source(p.LogLevel)); err != nil {
		return err
	}

	_, err := fmt.Fprintln(d.W, shellquote.Join(Command(p, out)...))
	return err
}
