// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrfmt

import (
	"fmt"
	"sort"
	"strings"
)

// A Metric is one named reading within a region, taken from one line
// of one report.
type Metric struct {
	Key   string
	Value float64
}

// A Region is every reading reported for one named region in a
// single report. Metrics are in the order they appeared.
type Region struct {
	Title   string
	Metrics []Metric
}

// A Report maps region titles to their readings for one execution.
//
// If a raw report names the same region more than once, the last
// block wins; blocks are never merged.
type Report map[string]*Region

// Titles returns the region titles of r in sorted order.
func (r Report) Titles() []string {
	titles := make([]string, 0, len(r))
	for title := range r {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// String summarizes r as "title (count)" pairs, sorted by title.
func (r Report) String() string {
	var sb strings.Builder
	for i, title := range r.Titles() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s (%d)", title, len(r[title].Metrics))
	}
	return sb.String()
}

// A SyntaxError describes a report line that was skipped.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}
