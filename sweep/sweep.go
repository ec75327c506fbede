// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ctrsweep/ctrsweep/archive"
	"github.com/ctrsweep/ctrsweep/ctrfmt"
	"github.com/ctrsweep/ctrsweep/ctrseries"
)

// A Profiler runs one workload invocation under one counter group and
// returns its parsed report.
type Profiler interface {
	Measure(ctx context.Context, group string, argv []string) (ctrfmt.Report, error)
}

// A Sweep runs every test on every target under every counter group.
type Sweep struct {
	Config   *Config
	Profiler Profiler

	// Governor, if non-nil, is switched to performance for the
	// duration of the sweep and back to powersave afterwards.
	Governor *Governor

	// Recording, if non-nil, receives every run's report.
	Recording *archive.Recording

	Log logrus.FieldLogger
}

func (s *Sweep) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

// Run measures the sweep and returns the accumulated series.
//
// Runs happen in group, test, target order, which is also the order
// their samples are appended in. Any profiler failure stops the sweep.
func (s *Sweep) Run(ctx context.Context) (agg ctrseries.Aggregate, err error) {
	log := s.logger()
	cfg := s.Config
	for _, target := range cfg.TargetPaths {
		log.WithField("target", target).Info("testing executable")
	}

	if s.Governor != nil {
		if err := s.Governor.Set(Performance); err != nil {
			return nil, err
		}
		defer func() {
			if gerr := s.Governor.Set(Powersave); gerr != nil && err == nil {
				agg, err = nil, gerr
			}
		}()
	}

	start := time.Now()
	agg = make(ctrseries.Aggregate)
	for _, group := range cfg.Groups {
		log.WithField("group", group).Info("testing group")
		for _, test := range cfg.Tests {
			log.WithFields(logrus.Fields{"group": group, "test": test.Label}).Info("test")
			for _, target := range cfg.TargetPaths {
				argv := append([]string{target}, test.Params...)
				report, err := s.Profiler.Measure(ctx, group, argv)
				if err != nil {
					return nil, fmt.Errorf("group %s, test %s, target %s: %w", group, test.Label, target, err)
				}
				agg.Accumulate(report)
				if s.Recording != nil {
					run := archive.Run{Group: group, Test: test.Label, Target: target}
					if err := s.Recording.InsertRun(ctx, run, report); err != nil {
						return nil, fmt.Errorf("archiving run: %w", err)
					}
				}
			}
		}
	}
	log.Infof("tests finished in %v", time.Since(start))
	return agg, nil
}

// Tables builds one table per table spec and region set, in that
// nesting order, against the x-axis of cfg's tests.
func Tables(cfg *Config, agg ctrseries.Aggregate, log logrus.FieldLogger) []*ctrseries.Table {
	x := cfg.XAxis(log.Warnf)
	var tables []*ctrseries.Table
	for _, spec := range cfg.Tables {
		log.WithField("table", spec.Title).Info("building tables")
		for _, set := range cfg.Regions {
			tlog := log.WithFields(logrus.Fields{"table": spec.Title, "label": set.Label})
			tlog.Infof("regions: %q", set.Regions)
			t := ctrseries.Build(set.Label, spec.Title, agg, set.Regions, spec.Metrics, x, tlog.Warnf)
			tlog.Infof("table created with %d columns", len(t.Columns))
			tables = append(tables, t)
		}
	}
	return tables
}
