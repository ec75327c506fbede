// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/ctrsweep/ctrsweep/ctrseries"
)

// An Exporter writes tables under an output directory as
// csv/<label>/<title>.csv and png/<label>/<title>.png.
type Exporter struct {
	OutputPath string

	// Renderer draws the images. If nil, only CSV files are written.
	Renderer ctrseries.Renderer

	// Mirror, if non-nil, receives a copy of every exported file.
	Mirror Mirror

	Log logrus.FieldLogger

	exported []exported
}

type exported struct {
	label, title string
	csv, png     string // relative to OutputPath; png is "" if not rendered
}

func (e *Exporter) logger() logrus.FieldLogger {
	if e.Log == nil {
		return logrus.StandardLogger()
	}
	return e.Log
}

// Path returns where the kind ("csv" or "png") file for t goes,
// creating its directory.
func (e *Exporter) Path(t *ctrseries.Table, kind string) (string, error) {
	dir := filepath.Join(e.OutputPath, kind, t.Label)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return filepath.Join(dir, t.Title+"."+kind), nil
}

// Export writes t as CSV, then renders the image from the CSV file as
// written.
func (e *Exporter) Export(ctx context.Context, t *ctrseries.Table) error {
	log := e.logger().WithFields(logrus.Fields{"label": t.Label, "table": t.Title})

	csvPath, err := e.Path(t, "csv")
	if err != nil {
		return err
	}
	log.Infof("exporting CSV: %s", filepath.Base(csvPath))
	if err := os.WriteFile(csvPath, t.CSV(), 0o666); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("reading back CSV: %w", err)
	}
	if err := e.mirror(ctx, csvPath, data, "text/csv"); err != nil {
		return err
	}
	ex := exported{label: t.Label, title: t.Title, csv: e.rel(csvPath)}

	if e.Renderer != nil {
		pngPath, err := e.Path(t, "png")
		if err != nil {
			return err
		}
		log.Infof("exporting PNG: %s", filepath.Base(pngPath))
		// Don't let a skipped render leave an older sweep's image behind.
		if err := os.Remove(pngPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing old image: %w", err)
		}
		if err := e.Renderer.Render(data, pngPath); err != nil {
			return fmt.Errorf("rendering %s: %w", pngPath, err)
		}
		// Renderers skip tables with nothing to plot.
		if img, err := os.ReadFile(pngPath); err == nil {
			ex.png = e.rel(pngPath)
			if err := e.mirror(ctx, pngPath, img, "image/png"); err != nil {
				return err
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("reading back image: %w", err)
		}
	}
	e.exported = append(e.exported, ex)
	return nil
}

// ExportAll exports tables in order, stopping at the first failure.
func (e *Exporter) ExportAll(ctx context.Context, tables []*ctrseries.Table) error {
	for _, t := range tables {
		if err := e.Export(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) rel(path string) string {
	rel, err := filepath.Rel(e.OutputPath, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (e *Exporter) mirror(ctx context.Context, path string, data []byte, contentType string) error {
	if e.Mirror == nil {
		return nil
	}
	name := e.rel(path)
	if err := e.Mirror.Put(ctx, name, data, contentType); err != nil {
		return fmt.Errorf("mirroring %s: %w", name, err)
	}
	return nil
}

// Exported returns the CSV paths written so far, relative to the
// output directory, sorted by label and then export order.
func (e *Exporter) Exported() []string {
	var paths []string
	for _, ex := range e.sorted() {
		paths = append(paths, ex.csv)
	}
	return paths
}

func (e *Exporter) sorted() []exported {
	s := append([]exported(nil), e.exported...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].label < s[j].label })
	return s
}
