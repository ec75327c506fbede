// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	rows []row
	cols int
}

type row struct {
	cells []textCell
	rule  rune // if non-zero, the row is a rule drawn with this rune
}

type textCell struct {
	value     string
	alignment align
}

type CellOption func(c *textCell)

var (
	Left   CellOption = func(c *textCell) { c.alignment = alignLeft }
	Center CellOption = func(c *textCell) { c.alignment = alignCenter }
	Right  CellOption = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (a align) pad(s string, w int) string {
	n := utf8.RuneCountInString(s)
	switch a {
	case alignCenter:
		l := (w - n) / 2
		return fmt.Sprintf("%*s%s%*s", l, "", s, w-n-l, "")
	case alignRight:
		return fmt.Sprintf("%*s", w, s)
	}
	return fmt.Sprintf("%-*s", w, s)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, row{})
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	c := textCell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r.cells = append(r.cells, c)
	if len(r.cells) > t.cols {
		t.cols = len(r.cells)
	}
	return t
}

// Separator adds a row that draws ch across every column.
func (t *Table) Separator(ch rune) *Table {
	t.rows = append(t.rows, row{rule: ch})
	return t
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, r := range t.rows {
		for i, c := range r.cells {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}

	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		if r.rule != 0 {
			for i, cw := range ws {
				if i > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(strings.Repeat(string(r.rule), cw))
			}
		} else {
			for i, c := range r.cells {
				if i > 0 {
					line.WriteByte(' ')
				}
				line.WriteString(c.alignment.pad(c.value, ws[i]))
			}
		}
		// Don't print trailing spaces from blank or short cells.
		if _, err := fmt.Fprintf(w, "%s\n", strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
