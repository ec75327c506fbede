// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// A Mode is a cpufreq scaling governor.
type Mode string

const (
	Powersave   Mode = "powersave"
	Performance Mode = "performance"
)

// A Governor switches the scaling governor of one cpufreq policy.
type Governor struct {
	Path string // the policy's scaling_governor file
	Log  logrus.FieldLogger
}

// Set switches the governor to m.
func (g *Governor) Set(m Mode) error {
	if g.Log != nil {
		g.Log.WithField("governor", g.Path).Infof("setting CPU frequency governor to %s", m)
	}
	if err := os.WriteFile(g.Path, []byte(m), 0o644); err != nil {
		return fmt.Errorf("setting CPU frequency governor: %w", err)
	}
	return nil
}
