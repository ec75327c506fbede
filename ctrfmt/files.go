// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrfmt

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// A Files reads a sequence of saved raw reports, one report per file,
// in the order given. Each file is one run of a sweep.
//
// Each report is labeled with its path, except that duplicate paths
// are disambiguated by appending "#N". If AllowLabels is true,
// entries in Paths may be of the form label=path, and the label part
// is used as is.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin and if the file list is empty, it should be treated
	// as consisting of stdin.
	AllowStdin bool

	// AllowLabels indicates that custom labels are allowed in
	// Paths.
	AllowLabels bool

	// Warn, if non-nil, receives every skipped report line.
	Warn func(*SyntaxError)

	// inputs is the sequence of remaining inputs, or nil if this
	// Files has not started yet. Note that this distinguishes nil
	// from length 0.
	inputs []input

	report Report
	label  string
	err    error
}

type input struct {
	path      string
	label     string
	isStdin   bool
	isLabeled bool
}

// init does first-use initialization of f.
func (f *Files) init() {
	f.inputs = []input{}

	pathCount := make(map[string]int)
	if f.AllowStdin && len(f.Paths) == 0 {
		f.inputs = append(f.inputs, input{"-", "-", true, false})
	}
	for _, path := range f.Paths {
		label := path
		isLabeled := false
		if i := strings.Index(path, "="); f.AllowLabels && i >= 0 {
			label, path = path[:i], path[i+1:]
			isLabeled = true
		} else {
			pathCount[path]++
		}

		isStdin := f.AllowStdin && path == "-"
		f.inputs = append(f.inputs, input{path, label, isStdin, isLabeled})
	}

	// The same report given twice is two runs; keep their labels
	// apart so log lines can tell them apart.
	pathI := make(map[string]int)
	for i := range f.inputs {
		inp := &f.inputs[i]
		if inp.isLabeled || pathCount[inp.path] == 1 {
			continue
		}
		inp.label = fmt.Sprintf("%s#%d", inp.path, pathI[inp.path])
		pathI[inp.path]++
	}
}

// Scan reads and parses the next file in the sequence and reports
// whether a report was read. The caller should use the Report method
// to get the report. If Scan reaches the end of the file sequence, or
// if an I/O error occurs, it returns false. In this case, the caller
// should use the Err method to check for errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	if f.inputs == nil {
		f.init()
	}
	if len(f.inputs) == 0 {
		return false
	}
	inp := f.inputs[0]
	f.inputs = f.inputs[1:]

	var raw []byte
	var err error
	if inp.isStdin {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(inp.path)
	}
	if err != nil {
		f.err = err
		return false
	}
	f.label = inp.label
	f.report = Parse(inp.path, string(raw), f.Warn)
	return true
}

// Report returns the report that was just read by Scan.
func (f *Files) Report() Report {
	return f.report
}

// Label returns the label of the file that was just read by Scan.
func (f *Files) Label() string {
	return f.label
}

// Err returns the I/O error that stopped Scan, if any.
// If Scan stopped because it read every file, or if Scan has not yet
// returned false, Err returns nil.
func (f *Files) Err() error {
	return f.err
}
