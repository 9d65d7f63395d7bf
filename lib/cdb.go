// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"encoding/json"
	"io"
	"path/filepath"
)

// cdbItem is an entry of a JSON compilation database
// (compile_commands.json).
type cdbItem struct {
	Arguments []string `json:"arguments"`
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Output    string   `json:"output,omitempty"`
}

// compileDB returns the compilation database entries of the module build
// under out, run from dir.
func compileDB(p *Plan, out, dir string) []cdbItem {
	f := Files(out, p.Platform)
	return []cdbItem{{
		Arguments: Command(p, out),
		Directory: dir,
		File:      f.Source,
		Output:    f.Module,
	}}
}

// WriteCompileDB writes the compilation database of the module build under
// out to w. dir is the working directory of the build, relative out paths
// are relative to dir.
func WriteCompileDB(w io.Writer, p *Plan, out, dir string) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(compileDB(p, out, dir), "", "  ")
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	_, err = io.WriteString(w, "\n")
	return err
}
