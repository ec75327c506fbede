// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// A Renderer draws the CSV form of a table into an image at path.
//
// By convention column 1 is the x-axis and columns 2..N are series
// labeled by their headers. A table with no series is not an error:
// the renderer warns and writes nothing.
type Renderer interface {
	Render(csv []byte, path string) error
}

// A PlotRenderer renders tables as line charts with gonum/plot. The
// image format follows the extension of the target path.
type PlotRenderer struct {
	Width, Height vg.Length // default 16cm × 10cm

	Warn func(format string, args ...interface{})
}

func (r *PlotRenderer) warn(format string, args ...interface{}) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}

// Render implements Renderer.
func (r *PlotRenderer) Render(data []byte, path string) error {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return fmt.Errorf("%s: reading table: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		r.warn("%s: no columns to plot", path)
		return nil
	}
	hdr, rows := records[0], records[1:]

	pl := plot.New()
	pl.Title.Text = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	pl.X.Label.Text = hdr[0]
	pl.Legend.Top = true
	pl.Add(plotter.NewGrid())

	series := 0
	for col := 1; col < len(hdr); col++ {
		var pts plotter.XYs
		for i, rec := range rows {
			if col >= len(rec) || rec[0] == "" || rec[col] == "" {
				continue
			}
			x, errX := strconv.ParseFloat(rec[0], 64)
			y, errY := strconv.ParseFloat(rec[col], 64)
			if errX != nil || errY != nil {
				return fmt.Errorf("%s: row %d: non-numeric cell in column %q", path, i+1, hdr[col])
			}
			if math.IsInf(x, 0) || math.IsNaN(x) || math.IsInf(y, 0) || math.IsNaN(y) {
				r.warn("%s: row %d: skipping non-finite point in column %q", path, i+1, hdr[col])
				continue
			}
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
		if len(pts) == 0 {
			r.warn("%s: column %q has no points", path, hdr[col])
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("%s: column %q: %w", path, hdr[col], err)
		}
		line.Color = plotutil.Color(series)
		points.Color = plotutil.Color(series)
		points.Shape = plotutil.Shape(series)
		pl.Add(line, points)
		pl.Legend.Add(hdr[col], line, points)
		series++
	}
	if series == 0 {
		r.warn("%s: no series to plot", path)
		return nil
	}

	w, h := r.Width, r.Height
	if w == 0 {
		w = 16 * vg.Centimeter
	}
	if h == 0 {
		h = 10 * vg.Centimeter
	}
	if err := pl.Save(w, h, path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
