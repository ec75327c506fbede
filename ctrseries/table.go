// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import "fmt"

// XTitle is the title of a table's x-axis column.
const XTitle = "n"

// A Column is one titled sequence of values in a Table.
type Column struct {
	Title  string
	Values []float64
}

// A Table is a column-oriented projection of an Aggregate.
//
// Columns[0] is always the x-axis. The other columns are never longer
// than the x-axis but may be shorter.
type Table struct {
	Label   string // names the region set; the output subdirectory
	Title   string // names the metric set; the output file name
	Columns []Column
}

// Number is the set of types that can make up an x-axis.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Build projects regions × metrics of agg into a table whose x-axis
// column holds xAxis.
//
// Columns appear in region order, then metric order, titled
// "region (metric)", and hold the series exactly as accumulated. A
// region missing from agg is skipped. A metric missing from a region
// is skipped for that region and for every region after it in this
// call, even ones that have it; it is reported to warn only once.
// warn may be nil.
func Build[T Number](label, title string, agg Aggregate, regions, metrics []string, xAxis []T, warn func(format string, args ...interface{})) *Table {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	x := make([]float64, len(xAxis))
	for i, v := range xAxis {
		x[i] = float64(v)
	}
	t := &Table{
		Label:   label,
		Title:   title,
		Columns: []Column{{Title: XTitle, Values: x}},
	}

	missing := make(map[string]bool)
	for _, region := range regions {
		set, ok := agg[region]
		if !ok {
			warn("table %s/%s: region %q not found", label, title, region)
			continue
		}
		for _, metric := range metrics {
			if missing[metric] {
				continue
			}
			values, ok := set[metric]
			if !ok {
				warn("table %s/%s: metric %q not found in region %q", label, title, metric, region)
				missing[metric] = true
				continue
			}
			t.Columns = append(t.Columns, Column{
				Title:  fmt.Sprintf("%s (%s)", region, metric),
				Values: append([]float64(nil), values...),
			})
		}
	}
	return t
}

// Rows returns the number of data rows in t, which is the length of
// the x-axis.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// At returns the value of column col at row, and whether that column
// has a sample there.
func (t *Table) At(col, row int) (float64, bool) {
	vs := t.Columns[col].Values
	if row >= len(vs) {
		return 0, false
	}
	return vs[row], true
}
