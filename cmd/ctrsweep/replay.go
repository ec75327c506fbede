// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctrsweep/ctrsweep/ctrseries"
	"github.com/ctrsweep/ctrsweep/internal/texttab"
	"github.com/ctrsweep/ctrsweep/sweep"
)

func newReplayCmd(o *options) *cobra.Command {
	var list bool
	var id int64
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild tables from an archived sweep",
		Long: `Replay re-accumulates the runs of one recording in an archive
database, in the order they were measured, and exports the
configuration's tables from them. By default it replays the most
recent recording.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.readConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openArchive(c)
			if err != nil {
				return err
			}
			if db == nil {
				return errors.New("no archive configured (set archive in the configuration or --archive-dsn)")
			}
			defer db.Close()

			ctx, stop := signalContext()
			defer stop()

			recs, err := db.ListRecordings(ctx)
			if err != nil {
				return err
			}
			if list {
				var tab texttab.Table
				tab.Row().Cell("ID", texttab.Right).Cell("RUNS", texttab.Right).Cell("LABEL")
				for _, r := range recs {
					tab.Row().
						Cell(strconv.FormatInt(r.ID, 10), texttab.Right).
						Cell(strconv.Itoa(r.Runs), texttab.Right).
						Cell(r.Label)
				}
				return tab.Format(cmd.OutOrStdout())
			}
			if !cmd.Flags().Changed("recording") {
				if len(recs) == 0 {
					return errors.New("archive has no recordings")
				}
				id = recs[len(recs)-1].ID
			}

			log := logrus.WithFields(logrus.Fields{"config": c.Path, "recording": id})
			agg := make(ctrseries.Aggregate)
			runs, err := db.Replay(ctx, id, agg)
			if err != nil {
				return err
			}
			log.Infof("replayed %d runs", runs)
			return export(ctx, c, sweep.Tables(c, agg, log), log)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the recordings in the archive")
	cmd.Flags().Int64Var(&id, "recording", 0, "`id` of the recording to replay")
	return cmd
}
