// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package likwid runs workloads under likwid-perfctr's marker API and
// collects the CSV report it prints.
package likwid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/ctrsweep/ctrsweep/ctrfmt"
)

// DefaultProgram is the profiler run when Perfctr.Program is empty.
const DefaultProgram = "likwid-perfctr"

// A Perfctr runs programs pinned to one core under one counter group
// at a time.
type Perfctr struct {
	Program string // default DefaultProgram
	Core    int
	Log     logrus.FieldLogger // default logrus.StandardLogger()
}

func (p *Perfctr) program() string {
	if p.Program == "" {
		return DefaultProgram
	}
	return p.Program
}

func (p *Perfctr) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// Args returns the profiler arguments for running argv under group:
// CSV output, pinned to p.Core, marker regions only.
func (p *Perfctr) Args(group string, argv []string) []string {
	args := []string{"-O", "-C", strconv.Itoa(p.Core), "-g", group, "-m"}
	return append(args, argv...)
}

// Run runs argv under group and returns the profiler's standard output.
//
// Each line the profiler writes to standard error is logged as an
// error. A non-zero exit status is logged as a warning and its output
// is still returned; failing to start or wait for the profiler, or
// output that is not UTF-8, is an error.
func (p *Perfctr) Run(ctx context.Context, group string, argv []string) (string, error) {
	prog := p.program()
	log := p.logger().WithField("program", prog)

	cmd := exec.CommandContext(ctx, prog, p.Args(group, argv)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%s: %w", prog, err)
	}
	log.WithField("pid", cmd.Process.Pid).Info("running")

	err := cmd.Wait()
	for _, line := range strings.Split(stderr.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			log.Error(line)
		}
	}
	var exitErr *exec.ExitError
	switch {
	case ctx.Err() != nil:
		return "", fmt.Errorf("%s: %w", prog, ctx.Err())
	case err == nil:
		log.Infof("finished: %s", cmd.ProcessState)
	case errors.As(err, &exitErr):
		log.Warnf("finished: %s", cmd.ProcessState)
	default:
		return "", fmt.Errorf("%s: %w", prog, err)
	}

	if !utf8.Valid(stdout.Bytes()) {
		return "", fmt.Errorf("%s: output is not UTF-8", prog)
	}
	return stdout.String(), nil
}

// Measure runs argv under group and parses the report. Skipped report
// lines are logged as warnings.
func (p *Perfctr) Measure(ctx context.Context, group string, argv []string) (ctrfmt.Report, error) {
	raw, err := p.Run(ctx, group, argv)
	if err != nil {
		return nil, err
	}
	log := p.logger().WithFields(logrus.Fields{"program": p.program(), "group": group})
	report := ctrfmt.Parse(p.program(), raw, func(err *ctrfmt.SyntaxError) {
		log.WithField("line", err.Line).Warn(err.Msg)
	})
	log.Infof("regions extracted: %s", report)
	return report, nil
}
