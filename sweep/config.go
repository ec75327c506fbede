// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sweep drives a benchmark sweep under the profiler and
// exports the resulting tables.
package sweep

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultGovernorPath is the scaling_governor file toggled when the
// configuration does not name one.
const DefaultGovernorPath = "/sys/devices/system/cpu/cpufreq/policy3/scaling_governor"

// A Test is one workload invocation: the parameters passed to every
// target, and the label that names it on the x-axis.
type Test struct {
	Label  string   `yaml:"label"`
	Params []string `yaml:"params"`
	// N is the test's x-axis value. If nil, Label is parsed as a number.
	N *float64 `yaml:"n,omitempty"`
}

// A RegionSet is a named list of regions plotted together.
type RegionSet struct {
	Label   string   `yaml:"label"`
	Regions []string `yaml:"regions"`
}

// A TableSpec is a named list of metrics plotted together.
type TableSpec struct {
	Title   string   `yaml:"title"`
	Metrics []string `yaml:"metrics"`
}

// ArchiveConfig selects the database runs are archived to.
type ArchiveConfig struct {
	Driver string `yaml:"driver"` // "sqlite3" or "mysql"
	DSN    string `yaml:"dsn"`
}

// MirrorConfig selects a Cloud Storage bucket exports are copied to.
type MirrorConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// Config describes a sweep. It is read from JSON or YAML.
type Config struct {
	TargetPaths []string    `yaml:"target_paths"`
	OutputPath  string      `yaml:"output_path"`
	Core        int         `yaml:"core"`
	Tests       []Test      `yaml:"tests"`
	Groups      []string    `yaml:"groups"`
	Regions     []RegionSet `yaml:"regions"`
	Tables      []TableSpec `yaml:"tables"`

	Profiler string `yaml:"profiler"`
	// Governor is the scaling_governor file. Nil means
	// DefaultGovernorPath; empty disables toggling.
	Governor *string        `yaml:"governor"`
	Renderer string         `yaml:"renderer"` // "plot" (default), "gnuplot" or "none"
	Archive  *ArchiveConfig `yaml:"archive"`
	Mirror   *MirrorConfig  `yaml:"mirror"`

	// Path is the file the configuration was loaded from.
	Path string `yaml:"-"`
}

// LoadConfig reads the configuration at path and resolves its target
// and output paths relative to the directory containing it.
func LoadConfig(path string) (*Config, error) {
	c, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := c.Resolve(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadConfig reads and checks the configuration at path without
// resolving any of its paths. It serves commands that never run the
// targets.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	defer f.Close()

	var c Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty configuration", path)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) validate() error {
	switch c.Renderer {
	case "", "plot", "gnuplot", "none":
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	if c.Archive != nil {
		switch c.Archive.Driver {
		case "sqlite3", "mysql":
		default:
			return fmt.Errorf("unknown archive driver %q", c.Archive.Driver)
		}
	}
	if c.Mirror != nil && c.Mirror.Bucket == "" {
		return errors.New("mirror needs a bucket")
	}
	return nil
}

// Resolve makes the target paths and output path absolute, relative
// to dir, and canonical. It creates the output directory. A target
// that does not exist is an error.
func (c *Config) Resolve(dir string) error {
	for i, target := range c.TargetPaths {
		p, err := canonical(dir, target)
		if err != nil {
			return fmt.Errorf("test executable not found (was it built?): %w", err)
		}
		c.TargetPaths[i] = p
	}
	return c.SetOutputPath(dir, c.OutputPath)
}

// SetOutputPath sets the output directory to out, relative to dir,
// creating it if needed.
func (c *Config) SetOutputPath(dir, out string) error {
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}
	if err := os.MkdirAll(out, 0o777); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	p, err := canonical(dir, out)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	c.OutputPath = p
	return nil
}

func canonical(dir, p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}
	p, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(p)
}

// GovernorPath returns the scaling_governor file to toggle, or "" if
// the sweep should leave the governor alone.
func (c *Config) GovernorPath() string {
	if c.Governor == nil {
		return DefaultGovernorPath
	}
	return *c.Governor
}

// XAxis returns one x-axis value per test: its N if set, else its
// label as a number, else its 1-based position, which is reported to
// warn.
func (c *Config) XAxis(warn func(format string, args ...interface{})) []float64 {
	x := make([]float64, len(c.Tests))
	for i, t := range c.Tests {
		if t.N != nil {
			x[i] = *t.N
			continue
		}
		v, err := strconv.ParseFloat(t.Label, 64)
		if err != nil {
			v = float64(i + 1)
			if warn != nil {
				warn("test %q: label is not a number; using %v on the x-axis", t.Label, v)
			}
		}
		x[i] = v
	}
	return x
}
