// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrfmt

import (
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestFiles(t *testing.T) {
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldDir)
	if err := os.Chdir("testdata/files"); err != nil {
		t.Fatal(err)
	}

	// Each want entry is "label regions", or "err msg" last.
	check := func(f *Files, want ...string) {
		t.Helper()
		for f.Scan() {
			if len(want) == 0 {
				t.Errorf("got report, want end of stream")
				return
			}
			got := f.Label() + " " + f.Report().String()
			if got != want[0] {
				t.Errorf("got %q, want %q", got, want[0])
			}
			want = want[1:]
		}

		err := f.Err()
		wantErr := ""
		if len(want) == 1 && strings.HasPrefix(want[0], "err ") {
			wantErr = want[0][len("err "):]
			want = want[1:]
		}
		if err == nil && wantErr != "" {
			t.Errorf("got success, want error %s", wantErr)
		} else if err != nil && wantErr == "" {
			t.Errorf("got error %s", err)
		} else if err != nil && err.Error() != wantErr {
			t.Errorf("got error %s, want error %s", err, wantErr)
		}

		if len(want) != 0 {
			t.Errorf("got end of stream, want %v", want)
		}
	}

	check(
		&Files{Paths: []string{"a", "b"}},
		"a compute (2)", "b compute (1), io (1)",
	)
	check(
		&Files{Paths: []string{"a", "c", "b"}},
		"a compute (2)", "err open c: "+syscall.ENOENT.Error(),
	)

	// Ambiguous paths.
	check(
		&Files{Paths: []string{"a", "b", "a"}},
		"a#0 compute (2)", "b compute (1), io (1)", "a#1 compute (2)",
	)

	// Labels.
	check(
		&Files{Paths: []string{"one=a", "two=a"}, AllowLabels: true},
		"one compute (2)", "two compute (2)",
	)
	check(
		&Files{Paths: []string{"one=a"}},
		"err open one=a: "+syscall.ENOENT.Error(),
	)

	// Empty list.
	check(&Files{})
}
