// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ctrsweep/ctrsweep/likwid"
	"github.com/ctrsweep/ctrsweep/sweep"
)

func newRunCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sweep and export its tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}
}

func (o *options) run(cmd *cobra.Command) error {
	c, err := sweep.LoadConfig(o.config)
	if err != nil {
		return err
	}
	if err := o.apply(cmd, c); err != nil {
		return err
	}
	log := logrus.WithField("config", c.Path)

	ctx, stop := signalContext()
	defer stop()

	s := &sweep.Sweep{
		Config: c,
		Profiler: &likwid.Perfctr{
			Program: c.Profiler,
			Core:    c.Core,
			Log:     log,
		},
		Log: log,
	}
	if p := c.GovernorPath(); p != "" {
		s.Governor = &sweep.Governor{Path: p, Log: log}
	}

	db, err := openArchive(c)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		s.Recording, err = db.NewRecording(ctx, c.Path)
		if err != nil {
			return err
		}
		log.WithField("recording", s.Recording.ID).Info("archiving runs")
	}

	agg, err := s.Run(ctx)
	if err != nil {
		return err
	}
	return export(ctx, c, sweep.Tables(c, agg, log), log)
}
