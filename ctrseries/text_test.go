// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"strings"
	"testing"

	"github.com/ctrsweep/ctrsweep/internal/diff"
)

func TestFormat(t *testing.T) {
	tab := &Table{Columns: []Column{
		{"n", []float64{1, 10}},
		{"R (A)", []float64{0.5}},
		{"R (B)", []float64{7, 8}},
	}}
	var buf strings.Builder
	if err := tab.Format(&buf); err != nil {
		t.Fatal(err)
	}
	want := " n R (A) R (B)\n" +
		"-- ----- -----\n" +
		" 1   0.5     7\n" +
		"10           8\n"
	if d := diff.Diff(want, buf.String()); d != "" {
		t.Errorf("Format mismatch:\n%s", d)
	}
}
