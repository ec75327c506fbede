// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctrsweep/ctrsweep/ctrfmt"
	"github.com/ctrsweep/ctrsweep/ctrseries"
	"github.com/ctrsweep/ctrsweep/sweep"
)

func newTableCmd(o *options) *cobra.Command {
	var printText, xFromFiles bool
	cmd := &cobra.Command{
		Use:   "table [flags] [label=]report...",
		Short: "Build tables from saved profiler reports",
		Long: `Table reads raw likwid-perfctr reports, one file per run, in the
order given, and builds the configuration's tables from them. With no
files, or the file "-", it reads one report from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.readConfig(cmd)
			if err != nil {
				return err
			}
			log := logrus.WithField("config", c.Path)

			agg, runs, err := readReports(args, log)
			if err != nil {
				return err
			}
			if xFromFiles {
				c.Tests = runs
			}
			tables := sweep.Tables(c, agg, log)
			if printText {
				return printTables(cmd.OutOrStdout(), tables)
			}
			ctx, stop := signalContext()
			defer stop()
			return export(ctx, c, tables, log)
		},
	}
	cmd.Flags().BoolVar(&printText, "print", false, "print the tables as text instead of exporting them")
	cmd.Flags().BoolVar(&xFromFiles, "x-from-files", false, "use the run ordinal as the x-axis, one test per file")
	return cmd
}

// readReports accumulates the reports in paths and returns one test
// per file, numbered from 1.
func readReports(paths []string, log logrus.FieldLogger) (ctrseries.Aggregate, []sweep.Test, error) {
	files := &ctrfmt.Files{
		Paths:       paths,
		AllowStdin:  true,
		AllowLabels: true,
		Warn: func(err *ctrfmt.SyntaxError) {
			log.WithFields(logrus.Fields{"file": err.FileName, "line": err.Line}).Warn(err.Msg)
		},
	}
	agg := make(ctrseries.Aggregate)
	var runs []sweep.Test
	for files.Scan() {
		report := files.Report()
		log.WithField("file", files.Label()).Infof("regions extracted: %s", report)
		agg.Accumulate(report)
		n := float64(len(runs) + 1)
		runs = append(runs, sweep.Test{Label: files.Label(), N: &n})
	}
	if err := files.Err(); err != nil {
		return nil, nil, err
	}
	return agg, runs, nil
}

func printTables(w io.Writer, tables []*ctrseries.Table) error {
	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s/%s\n", t.Label, t.Title)
		if err := t.Format(w); err != nil {
			return err
		}
	}
	return nil
}
