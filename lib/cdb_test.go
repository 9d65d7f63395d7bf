// Copyright 2026 The CBUILD Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbuild // import "github.com/21cmfast/cbuild/lib"

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCompileDB(t *testing.T) {
	var b bytes.Buffer
	p := testPlan()
	if err := WriteCompileDB(&b, p, "out", "/work"); err != nil {
		t.Fatal(err)
	}

	var got []cdbItem
	if err := json.Unmarshal(b.Bytes(), &got); err != nil {
		t.Fatal(err)
	}

	f := Files("out", p.Platform)
	items := []cdbItem{{
		Arguments: Command(p, "out"),
		Directory: "/work",
		File:      f.Source,
		Output:    f.Module,
	}}
	if !reflect.DeepEqual(got, items) {
		t.Errorf("got items\n%#v\nwant\n%#v", got, items)
	}

	if !strings.HasPrefix(b.String(), "[\n  ") {
		t.Errorf("got non-pretty-printed output:\n%s", b.String())
	}
}
