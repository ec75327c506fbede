// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestPlotRenderer(t *testing.T) {
	tab := &Table{Columns: []Column{
		{"n", []float64{1, 2, 3}},
		{"R (A)", []float64{1, 4, 9}},
		{"R (B)", []float64{2}},
	}}
	var w warnings
	r := &PlotRenderer{Warn: w.warn}
	path := filepath.Join(t.TempDir(), "t.png")
	if err := r.Render(tab.CSV(), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("%s is not a PNG", path)
	}
	if len(w) != 0 {
		t.Errorf("got warnings %q, want none", w)
	}
}

func TestPlotRendererNoSeries(t *testing.T) {
	var w warnings
	r := &PlotRenderer{Warn: w.warn}
	path := filepath.Join(t.TempDir(), "t.png")

	tab := &Table{Columns: []Column{{"n", []float64{1, 2}}}}
	if err := r.Render(tab.CSV(), path); err != nil {
		t.Fatalf("got %v, want no-op", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got stat error %v, want %s not written", err, path)
	}
	if len(w) != 1 {
		t.Errorf("got warnings %q, want 1", w)
	}
}

func TestPlotRendererBadCell(t *testing.T) {
	r := &PlotRenderer{}
	path := filepath.Join(t.TempDir(), "t.png")
	if err := r.Render([]byte("n,R (A)\n1,abc\n"), path); err == nil {
		t.Errorf("got success, want error for non-numeric cell")
	}
}
