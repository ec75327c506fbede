// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// A Gnuplot renders tables by running gnuplot on their CSV form.
type Gnuplot struct {
	Program string // default "gnuplot"
	Log     logrus.FieldLogger
}

// Script returns the gnuplot script plotting columns 2..cols of file
// against column 1 into out.
func (g *Gnuplot) Script(file, out string, cols int) string {
	return fmt.Sprintf(`set datafile separator ',';
set term png;
set output '%s';
FILE = '%s';
plot for [col=2:%d] FILE u 1:col w l title columnheader(col);
quit;`, out, file, cols)
}

// Render implements ctrseries.Renderer.
func (g *Gnuplot) Render(data []byte, path string) error {
	log := g.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	prog := g.Program
	if prog == "" {
		prog = "gnuplot"
	}
	log = log.WithField("program", prog)

	hdr, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("reading table header: %w", err)
	}
	if len(hdr) < 2 {
		log.Warnf("%s: no columns to plot", path)
		return nil
	}

	tmp, err := os.CreateTemp("", "ctrsweep-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	cmd := exec.Command(prog, "-e", g.Script(tmp.Name(), path, len(hdr)))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", prog, err)
	}
	log.WithField("pid", cmd.Process.Pid).Info("running")
	err = cmd.Wait()
	for _, line := range strings.Split(stderr.String(), "\n") {
		if line != "" {
			log.Error(line)
		}
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		log.Infof("finished: %s", cmd.ProcessState)
	case errors.As(err, &exitErr):
		log.Warnf("finished: %s", cmd.ProcessState)
	default:
		return fmt.Errorf("%s: %w", prog, err)
	}
	return nil
}
