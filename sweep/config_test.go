// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTree creates files (path → content) under a temp dir and
// returns it. Paths ending in "*" are made executable.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		mode := os.FileMode(0o666)
		if strings.HasSuffix(name, "*") {
			name, mode = strings.TrimSuffix(name, "*"), 0o777
		}
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), mode); err != nil {
			t.Fatal(err)
		}
	}
	// EvalSymlinks so paths compare equal on systems where the temp
	// dir is behind a symlink.
	dir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

const jsonConfig = `{
  "target_paths": ["bin/bench"],
  "output_path": "out",
  "core": 3,
  "tests": [
    {"label": "100", "params": ["100"]},
    {"label": "1000", "params": ["1000"]}
  ],
  "groups": ["FLOPS_DP", "MEM"],
  "regions": [{"label": "all", "regions": ["compute", "io"]}],
  "tables": [{"title": "runtime", "metrics": ["Runtime (RDTSC) [s]"]}]
}`

func TestLoadConfigJSON(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"sweep.json": jsonConfig,
		"bin/bench*": "",
	})
	c, err := LoadConfig(filepath.Join(dir, "sweep.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		TargetPaths: []string{filepath.Join(dir, "bin", "bench")},
		OutputPath:  filepath.Join(dir, "out"),
		Core:        3,
		Tests: []Test{
			{Label: "100", Params: []string{"100"}},
			{Label: "1000", Params: []string{"1000"}},
		},
		Groups:  []string{"FLOPS_DP", "MEM"},
		Regions: []RegionSet{{Label: "all", Regions: []string{"compute", "io"}}},
		Tables:  []TableSpec{{Title: "runtime", Metrics: []string{"Runtime (RDTSC) [s]"}}},
		Path:    filepath.Join(dir, "sweep.json"),
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("LoadConfig mismatch (-want +got):\n%s", diff)
	}
	if fi, err := os.Stat(c.OutputPath); err != nil || !fi.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
	if got := c.GovernorPath(); got != DefaultGovernorPath {
		t.Errorf("GovernorPath() = %q, want default", got)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"conf/sweep.yaml": `
target_paths: [../bench]
output_path: ../out
tests:
  - label: small
    n: 8
    params: ["8"]
groups: [L2]
governor: ""
renderer: gnuplot
archive: {driver: sqlite3, dsn: runs.db}
`,
		"bench*": "",
	})
	path := filepath.Join(dir, "conf", "sweep.yaml")

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := c.TargetPaths, []string{filepath.Join(dir, "bench")}; !cmp.Equal(got, want) {
		t.Errorf("TargetPaths = %q, want %q", got, want)
	}
	if got, want := c.OutputPath, filepath.Join(dir, "out"); got != want {
		t.Errorf("OutputPath = %q, want %q", got, want)
	}
	if c.GovernorPath() != "" {
		t.Errorf("GovernorPath() = %q, want disabled", c.GovernorPath())
	}
	if c.Renderer != "gnuplot" || c.Archive == nil || c.Archive.DSN != "runs.db" {
		t.Errorf("got renderer %q archive %+v", c.Renderer, c.Archive)
	}
	if got := c.XAxis(nil); !cmp.Equal(got, []float64{8}) {
		t.Errorf("XAxis() = %v, want [8]", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	for _, test := range []struct {
		name, config, want string
	}{
		{"empty", "", "empty configuration"},
		{"unknown field", `{"target_paths": [], "output_path": "out", "bogus": 1}`, "bogus"},
		{"missing target", `{"target_paths": ["nope"], "output_path": "out"}`, "test executable not found"},
		{"bad renderer", `{"output_path": "out", "renderer": "ascii"}`, "unknown renderer"},
		{"bad archive", `{"output_path": "out", "archive": {"driver": "pg"}}`, "unknown archive driver"},
		{"mirror without bucket", `{"output_path": "out", "mirror": {"prefix": "x"}}`, "bucket"},
	} {
		t.Run(test.name, func(t *testing.T) {
			dir := writeTree(t, map[string]string{"c.json": test.config})
			_, err := LoadConfig(filepath.Join(dir, "c.json"))
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("got error %v, want one containing %q", err, test.want)
			}
		})
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("got success loading a missing file")
	}
}

func TestXAxis(t *testing.T) {
	n := 64.0
	c := &Config{Tests: []Test{
		{Label: "16"},
		{Label: "big", N: &n},
		{Label: "1.5e3"},
		{Label: "huge"},
	}}
	var warned []string
	got := c.XAxis(func(format string, args ...interface{}) {
		warned = append(warned, format)
	})
	if want := []float64{16, 64, 1500, 4}; !cmp.Equal(got, want) {
		t.Errorf("XAxis() = %v, want %v", got, want)
	}
	if len(warned) != 1 {
		t.Errorf("got %d warnings, want 1", len(warned))
	}
}

func TestReadConfig(t *testing.T) {
	dir := writeTree(t, map[string]string{"sweep.json": jsonConfig})
	c, err := ReadConfig(filepath.Join(dir, "sweep.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.TargetPaths; !cmp.Equal(got, []string{"bin/bench"}) {
		t.Errorf("TargetPaths = %q, want unresolved", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Errorf("output directory: got %v, want not created", err)
	}
}
