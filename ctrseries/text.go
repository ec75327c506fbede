// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"io"

	"github.com/ctrsweep/ctrsweep/internal/texttab"
)

// Format writes t to w as an aligned text table with the same rows as
// its CSV form. Missing samples are left blank.
func (t *Table) Format(w io.Writer) error {
	var tab texttab.Table
	tab.Row()
	for _, c := range t.Columns {
		tab.Cell(c.Title, texttab.Right)
	}
	tab.Separator('-')
	for i := 0; i < t.Rows(); i++ {
		tab.Row()
		for j := range t.Columns {
			if v, ok := t.At(j, i); ok {
				tab.Cell(FormatValue(v), texttab.Right)
			} else {
				tab.Cell("")
			}
		}
	}
	return tab.Format(w)
}
