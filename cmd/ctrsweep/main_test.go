// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ctrsweep/ctrsweep/archive"
	"github.com/ctrsweep/ctrsweep/ctrfmt"
	"github.com/ctrsweep/ctrsweep/internal/diff"
)

func init() {
	logrus.SetOutput(new(bytes.Buffer))
}

const testConfig = `
target_paths: []
output_path: out
tests:
  - {label: "1"}
  - {label: "2"}
regions:
  - {label: main, regions: [compute]}
tables:
  - {title: runtime, metrics: ["Runtime (RDTSC) [s]"]}
renderer: none
`

func report(runtime string) string {
	return "TABLE,Region compute,Group 1 Metric,FLOPS_DP,1\n" +
		"Metric,HWThread 3\n" +
		"Runtime (RDTSC) [s]," + runtime + "\n"
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTablePrint(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"sweep.yaml": testConfig,
		"r1":         report("0.5"),
		"r2":         report("0.25"),
	})
	got, err := execute(t, "table", "--config", filepath.Join(dir, "sweep.yaml"), "--print",
		filepath.Join(dir, "r1"), filepath.Join(dir, "r2"))
	if err != nil {
		t.Fatal(err)
	}
	want := `main/runtime
n compute (Runtime (RDTSC) [s])
- -----------------------------
1                           0.5
2                          0.25
`
	if got != want {
		t.Errorf("output differs:\n%s", diff.Diff(want, got))
	}
}

func TestTableExport(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"sweep.yaml": testConfig,
		"r1":         report("3"),
		"r2":         report("4"),
		"r3":         report("5"),
	})
	_, err := execute(t, "table", "--config", filepath.Join(dir, "sweep.yaml"), "--x-from-files",
		filepath.Join(dir, "r1"), filepath.Join(dir, "r2"), filepath.Join(dir, "r3"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "csv", "main", "runtime.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := "n,compute (Runtime (RDTSC) [s])\n1,3\n2,4\n3,5\n"
	if string(data) != want {
		t.Errorf("runtime.csv:\n%s", diff.Diff(want, string(data)))
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "index.html")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "png")); !os.IsNotExist(err) {
		t.Errorf("png directory with renderer none: %v", err)
	}
}

func TestReplay(t *testing.T) {
	dir := writeFiles(t, map[string]string{"sweep.yaml": testConfig})
	dsn := filepath.Join(dir, "runs.db")

	ctx := context.Background()
	db, err := archive.OpenSQL("sqlite3", dsn)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := db.NewRecording(ctx, "sweep.yaml")
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"7", "8"} {
		r := ctrfmt.Parse("r", report(v), nil)
		if err := rec.InsertRun(ctx, archive.Run{Group: "FLOPS_DP", Test: v, Target: "/bin/true"}, r); err != nil {
			t.Fatal(err)
		}
	}
	db.Close()

	list, err := execute(t, "replay", "--config", filepath.Join(dir, "sweep.yaml"), "--archive-dsn", dsn, "--list")
	if err != nil {
		t.Fatal(err)
	}
	if want := "ID RUNS LABEL\n 1    2 sweep.yaml\n"; list != want {
		t.Errorf("--list output:\n%s", list)
	}

	if _, err := execute(t, "replay", "--config", filepath.Join(dir, "sweep.yaml"), "--archive-dsn", dsn); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "csv", "main", "runtime.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "n,compute (Runtime (RDTSC) [s])\n1,7\n2,8\n"; string(data) != want {
		t.Errorf("runtime.csv:\n%s", diff.Diff(want, string(data)))
	}

	if _, err := execute(t, "replay", "--config", filepath.Join(dir, "sweep.yaml"), "--archive-dsn", dsn, "--recording", "99"); err == nil {
		t.Errorf("replaying an unknown recording succeeded")
	}
}

func TestOptionsErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"sweep.yaml": testConfig})
	config := filepath.Join(dir, "sweep.yaml")
	for _, args := range [][]string{
		{"table"},
		{"table", "--config", config, "--renderer", "ascii", "--print"},
		{"replay", "--config", config},
		{"replay", "--config", config, "--archive-dsn", "x", "--archive-driver", "pg"},
		{"table", "--config", config, filepath.Join(dir, "missing")},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%q: got success", args)
		}
	}
}
