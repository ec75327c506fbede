// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctrseries folds profiler reports from a benchmark sweep into
// per-region metric series and projects them into tables.
//
// Samples are appended only when present: a metric missing from one
// run's report gets no sample for that run, so two series of the same
// region can differ in length and their indexes need not refer to the
// same run. Nothing in this package pads or realigns series.
package ctrseries

import (
	"sort"

	"github.com/ctrsweep/ctrsweep/ctrfmt"
)

// A SeriesSet maps metric keys to their samples, one per run in which
// the metric was reported, in run order.
type SeriesSet map[string][]float64

// Keys returns the metric keys of s in sorted order.
func (s SeriesSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// An Aggregate maps region titles to their series for a whole sweep.
// It only grows.
type Aggregate map[string]SeriesSet

// Accumulate appends every reading of r to a.
//
// A region seen for the first time gets an empty SeriesSet even if it
// has no metrics. Callers must accumulate reports in sweep order; the
// position of a sample is the only link back to the run it came from.
func (a Aggregate) Accumulate(r ctrfmt.Report) {
	for title, region := range r {
		set, ok := a[title]
		if !ok {
			set = make(SeriesSet)
			a[title] = set
		}
		for _, m := range region.Metrics {
			set[m.Key] = append(set[m.Key], m.Value)
		}
	}
}

// Regions returns the region titles of a in sorted order.
func (a Aggregate) Regions() []string {
	titles := make([]string, 0, len(a))
	for t := range a {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	return titles
}
