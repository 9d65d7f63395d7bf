// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"
)

// TablesDir is the subdirectory of the data root every installation must
// have.
const TablesDir = "x_int_tables"

// DataFiles returns the *.dat files directly under root, sorted. Only the
// entry names are matched, root is taken literally.
func DataFiles(root string) (r []string, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	for _, v := range entries {
		ok, err := filepath.Match("*.dat", v.Name())
		if err != nil {
			return nil, err
		}

		if ok {
			r = append(r, filepath.Join(root, v.Name()))
		}
	}
	sort.Strings(r)
	return r, nil
}

// CheckExists verifies that every file in files exists and that root has the
// TablesDir directory. All failures are reported, each one as
// *MissingDataError.
func CheckExists(root string, files []string) error {
	var errs errList
	for _, v := range files {
		if _, err := os.Stat(v); err != nil {
			errs.add(&MissingDataError{Path: v})
		}
	}
	dir := filepath.Join(root, TablesDir)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		errs.add(&MissingDataError{Path: dir, Dir: true})
	}
	return errs.err()
}

// CheckReadable verifies that every file in files can be read and is not
// empty. All failures are reported, empty files as *EmptyDataError.
func CheckReadable(files []string) error {
	var errs errList
	for _, v := range files {
		if _, err := fileSize(v); err != nil {
			errs.add(err)
		}
	}
	return errs.err()
}

// fileSize returns the number of bytes readable from fn.
func fileSize(fn string) (int64, error) {
	f, err := os.Open(fn)
	if err != nil {
		return 0, err
	}

	defer f.Close()

	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return n, fmt.Errorf("%s: %w", fn, err)
	}

	if n == 0 {
		return 0, &EmptyDataError{Path: fn}
	}

	return n, nil
}

// DataReport summarizes a successful data check.
type DataReport struct {
	Root  string
	Files int
	Bytes int64
}

func (r *DataReport) String() string {
	return fmt.Sprintf("%s: %d data files, %s", r.Root, r.Files, humanize.Bytes(uint64(r.Bytes)))
}

// CheckData runs CheckExists and CheckReadable on the package data under
// root.
func CheckData(root string) (*DataReport, error) {
	files, err := DataFiles(root)
	if err != nil {
		return nil, err
	}

	var errs errList
	errs.add(CheckExists(root, files))
	errs.add(CheckReadable(files))
	if err := errs.err(); err != nil {
		return nil, err
	}

	r := &DataReport{Root: root, Files: len(files)}
	for _, v := range files {
		n, err := fileSize(v)
		if err != nil {
			return nil, err
		}

		r.Bytes += n
	}
	return r, nil
}
