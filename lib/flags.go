// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

// Libraries returns the libraries the C code links against. GCC links its
// OpenMP runtime through -fopenmp, clang needs libomp explicitly.
func Libraries(c Compiler) []string {
	r := []string{"m", "gsl", "gslcblas", "fftw3f_omp", "fftw3f"}
	if c == Clang {
		r = append(r, "omp")
	}
	return r
}

// CompileFlags returns the extra compiler flags. On darwin the OpenMP pragmas
// must be handed to the preprocessor explicitly, so -Xpreprocessor precedes
// -fopenmp, which is always the last flag.
func CompileFlags(debug bool, platform string) []string {
	r := []string{"-w", "--verbose"}
	switch {
	case debug:
		r = append(r, "-g", "-O0")
	default:
		r = append(r, "-Ofast")
	}
	if platform == "darwin" {
		r = append(r, "-Xpreprocessor")
	}
	return append(r, "-fopenmp")
}
