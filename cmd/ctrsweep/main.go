// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Ctrsweep runs a benchmark sweep under likwid-perfctr and turns the
// hardware counter readings into CSV tables and line charts.
//
// Usage:
//
//	ctrsweep run --config sweep.yaml [flags]
//	ctrsweep table --config sweep.yaml [--print] [--x-from-files] [label=]report...
//	ctrsweep replay --config sweep.yaml --archive-dsn runs.db [--list] [--recording id]
//
// The run command measures every test of every target under every
// counter group, pinned to one core, and writes
// <output>/csv/<label>/<title>.csv and <output>/png/<label>/<title>.png
// for every requested table and region set, plus <output>/index.html.
//
// The table command builds the same tables from raw profiler reports
// saved earlier, one file per run in sweep order.
//
// The replay command rebuilds the tables of a sweep recorded in an
// archive database without running anything.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctrsweep/ctrsweep/archive"
	_ "github.com/ctrsweep/ctrsweep/archive/sqlite3"
	"github.com/ctrsweep/ctrsweep/ctrseries"
	"github.com/ctrsweep/ctrsweep/sweep"
)

// options are the flags shared by every command.
type options struct {
	config        string
	output        string
	core          int
	renderer      string
	archiveDriver string
	archiveDSN    string
	noGovernor    bool
	verbose       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	o := new(options)
	root := &cobra.Command{
		Use:           "ctrsweep",
		Short:         "Hardware counter sweeps with likwid-perfctr",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if o.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	f := root.PersistentFlags()
	f.StringVarP(&o.config, "config", "c", "", "sweep configuration `file` (JSON or YAML)")
	f.StringVarP(&o.output, "output", "o", "", "output `directory`, overriding the configuration")
	f.IntVar(&o.core, "core", 0, "CPU core to pin the targets to, overriding the configuration")
	f.StringVar(&o.renderer, "renderer", "", "chart renderer: plot, gnuplot or none")
	f.StringVar(&o.archiveDriver, "archive-driver", "sqlite3", "archive database driver: sqlite3 or mysql")
	f.StringVar(&o.archiveDSN, "archive-dsn", "", "archive database `dsn`, overriding the configuration")
	f.BoolVar(&o.noGovernor, "no-governor", false, "leave the CPU frequency governor alone")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log debug output")
	root.MarkPersistentFlagRequired("config")

	root.AddCommand(newRunCmd(o), newTableCmd(o), newReplayCmd(o))
	return root
}

// apply overrides c with the flags set on cmd's command line. Relative
// paths given as flags are relative to the working directory.
func (o *options) apply(cmd *cobra.Command, c *sweep.Config) error {
	flags := cmd.Flags()
	if o.output != "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		if err := c.SetOutputPath(wd, o.output); err != nil {
			return err
		}
	}
	if flags.Changed("core") {
		c.Core = o.core
	}
	if flags.Changed("renderer") {
		switch o.renderer {
		case "plot", "gnuplot", "none":
			c.Renderer = o.renderer
		default:
			return fmt.Errorf("unknown renderer %q", o.renderer)
		}
	}
	if o.archiveDSN != "" {
		switch o.archiveDriver {
		case "sqlite3", "mysql":
		default:
			return fmt.Errorf("unknown archive driver %q", o.archiveDriver)
		}
		c.Archive = &sweep.ArchiveConfig{Driver: o.archiveDriver, DSN: o.archiveDSN}
	}
	if o.noGovernor {
		none := ""
		c.Governor = &none
	}
	return nil
}

// readConfig reads the configuration for a command that never runs
// the targets, and resolves its output directory.
func (o *options) readConfig(cmd *cobra.Command) (*sweep.Config, error) {
	c, err := sweep.ReadConfig(o.config)
	if err != nil {
		return nil, err
	}
	if err := c.SetOutputPath(filepath.Dir(o.config), c.OutputPath); err != nil {
		return nil, err
	}
	if err := o.apply(cmd, c); err != nil {
		return nil, err
	}
	return c, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openArchive opens c's archive database, or returns nil if it has
// none. A relative sqlite3 database is relative to the configuration.
func openArchive(c *sweep.Config) (*archive.DB, error) {
	if c.Archive == nil {
		return nil, nil
	}
	dsn := c.Archive.DSN
	if c.Archive.Driver == "sqlite3" && dsn != ":memory:" && !filepath.IsAbs(dsn) && c.Path != "" {
		dsn = filepath.Join(filepath.Dir(c.Path), dsn)
	}
	db, err := archive.OpenSQL(c.Archive.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return db, nil
}

// newRenderer returns the chart renderer c asks for, or nil for none.
func newRenderer(c *sweep.Config, log logrus.FieldLogger) ctrseries.Renderer {
	switch c.Renderer {
	case "none":
		return nil
	case "gnuplot":
		return &sweep.Gnuplot{Log: log}
	}
	return &ctrseries.PlotRenderer{Warn: log.Warnf}
}

// export writes tables and the index under c's output directory,
// mirroring them if c asks for it.
func export(ctx context.Context, c *sweep.Config, tables []*ctrseries.Table, log logrus.FieldLogger) error {
	e := &sweep.Exporter{
		OutputPath: c.OutputPath,
		Renderer:   newRenderer(c, log),
		Log:        log,
	}
	if c.Mirror != nil {
		m, err := sweep.NewGCSMirror(ctx, c.Mirror.Bucket, c.Mirror.Prefix)
		if err != nil {
			return err
		}
		defer m.Close()
		e.Mirror = m
	}
	if err := e.ExportAll(ctx, tables); err != nil {
		return err
	}
	if err := e.WriteIndex(ctx, filepath.Base(c.Path)); err != nil {
		return err
	}
	log.Infof("wrote %d tables to %s", len(e.Exported()), c.OutputPath)
	return nil
}
