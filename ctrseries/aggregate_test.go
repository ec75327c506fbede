// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ctrsweep/ctrsweep/ctrfmt"
)

func report(regions ...*ctrfmt.Region) ctrfmt.Report {
	r := make(ctrfmt.Report)
	for _, reg := range regions {
		r[reg.Title] = reg
	}
	return r
}

func region(title string, kv ...interface{}) *ctrfmt.Region {
	reg := &ctrfmt.Region{Title: title}
	for i := 0; i < len(kv); i += 2 {
		reg.Metrics = append(reg.Metrics, ctrfmt.Metric{Key: kv[i].(string), Value: kv[i+1].(float64)})
	}
	return reg
}

func TestAccumulate(t *testing.T) {
	agg := make(Aggregate)
	agg.Accumulate(report(region("R", "M", 1.0, "N", 10.0)))
	agg.Accumulate(report(region("R", "N", 20.0), region("S")))
	agg.Accumulate(report(region("R", "M", 3.0, "N", 30.0)))

	want := Aggregate{
		"R": {"M": {1, 3}, "N": {10, 20, 30}},
		"S": {},
	}
	if diff := cmp.Diff(want, agg); diff != "" {
		t.Errorf("Accumulate mismatch (-want +got):\n%s", diff)
	}

	// M was missing from run 2, so its second sample is run 3's.
	if got := agg["R"]["M"]; len(got) != 2 || got[1] != 3 {
		t.Errorf("got M = %v, want [1 3]", got)
	}
}

func TestAccumulateDuplicateKey(t *testing.T) {
	agg := make(Aggregate)
	agg.Accumulate(report(region("R", "M", 1.0, "M", 2.0)))
	if got, want := agg["R"]["M"], []float64{1, 2}; !cmp.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAggregateKeys(t *testing.T) {
	agg := Aggregate{"b": {"y": nil, "x": nil}, "a": {}}
	if got, want := agg.Regions(), []string{"a", "b"}; !cmp.Equal(got, want) {
		t.Errorf("Regions() = %v, want %v", got, want)
	}
	if got, want := agg["b"].Keys(), []string{"x", "y"}; !cmp.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}
