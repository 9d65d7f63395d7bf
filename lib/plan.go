// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"log/slog"
)

// Config is the input of NewPlan.
type Config struct {
	Env       Env
	Platform  string // GOOS of the build host, eg. "linux" or "darwin".
	SourceDir string // Directory of the C sources, first include path.
}

// Plan is a resolved native build. A Plan must not be modified once handed to
// a Toolchain.
type Plan struct {
	Compiler     Compiler
	CompilerArgv []string // $CC split into words.
	IncludeDirs  []string // -I
	LibraryDirs  []string // -L
	Libraries    []string // -l
	Flags        []string
	LogLevel     LogLevel
	Platform     string

	Debug bool // $DEBUG present
}

// NewPlan resolves cfg into a Plan. The compiler is resolved first, no other
// setting is examined if it is not supported.
func NewPlan(cfg Config) (*Plan, error) {
	env := cfg.Env
	cmd := CompilerCommand(env, cfg.Platform)
	c, err := ResolveCompiler(cmd)
	if err != nil {
		return nil, err
	}

	argv, err := compilerArgv(cmd)
	if err != nil {
		return nil, err
	}

	debug := env.Has("DEBUG")
	raw, set := env.Lookup("LOG_LEVEL")
	level, err := ResolveLogLevel(raw, set, debug)
	if err != nil {
		return nil, err
	}

	dirs := ScanDirectories(env)
	var inc []string
	if cfg.SourceDir != "" {
		inc = append(inc, cfg.SourceDir)
	}
	return &Plan{
		Compiler:     c,
		CompilerArgv: argv,
		IncludeDirs:  append(inc, dirs.Include...),
		LibraryDirs:  dirs.Library,
		Libraries:    Libraries(c),
		Flags:        CompileFlags(debug, cfg.Platform),
		LogLevel:     level,
		Platform:     cfg.Platform,
		Debug:        debug,
	}, nil
}

// LogValue implements slog.LogValuer.
func (p *Plan) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("compiler", p.Compiler.String()),
		slog.Any("cc", p.CompilerArgv),
		slog.Any("include", p.IncludeDirs),
		slog.Any("libdirs", p.LibraryDirs),
		slog.Any("libs", p.Libraries),
		slog.Any("flags", p.Flags),
		slog.String("log_level", p.LogLevel.String()),
		slog.Bool("debug", p.Debug),
	)
}
