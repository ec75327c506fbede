// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrfmt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// headerRE matches the first line of a region block and captures the
// region name, which runs up to the first comma.
var headerRE = regexp.MustCompile(`TABLE,Region ([^,\n]*),`)

var (
	metricPrefix = "Metric,"
	blockEnds    = []string{"STRUCT", "TABLE", "Region"}
)

type line struct {
	text       string
	terminated bool // followed by a newline
}

// splitLines splits raw into lines, recording which ones were
// newline-terminated. A final empty line is not a line.
func splitLines(raw string) []line {
	parts := strings.Split(raw, "\n")
	lines := make([]line, 0, len(parts))
	for i, p := range parts {
		last := i == len(parts)-1
		if last && p == "" {
			break
		}
		if !last {
			p = strings.TrimSuffix(p, "\r")
		}
		lines = append(lines, line{p, !last})
	}
	return lines
}

func endsBlock(text string) bool {
	for _, prefix := range blockEnds {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	return false
}

// Parse extracts the region blocks from one raw profiler report.
//
// A block is a line containing "TABLE,Region <name>,", immediately
// followed by a newline-terminated line beginning with "Metric,",
// followed by metric lines of the form "key,value[,ignored...]". The
// block runs until the next line that begins with STRUCT, TABLE or
// Region, or to the end of raw. Everything outside blocks is ignored.
//
// Parse never fails. Metric lines with fewer than two fields or a
// non-numeric value are skipped and reported to warn, if warn is not
// nil. Out-of-range values saturate to ±Inf or 0 rather than being
// skipped. fileName is used only in those reports.
func Parse(fileName, raw string, warn func(*SyntaxError)) Report {
	if fileName == "" {
		fileName = "<unknown>"
	}
	skip := func(lineNo int, format string, args ...interface{}) {
		if warn != nil {
			warn(&SyntaxError{fileName, lineNo, fmt.Sprintf(format, args...)})
		}
	}

	report := make(Report)
	lines := splitLines(raw)
	for i := 0; i < len(lines); {
		m := headerRE.FindStringSubmatch(lines[i].text)
		if m == nil || !lines[i].terminated || i+1 >= len(lines) {
			i++
			continue
		}
		if hdr := lines[i+1]; !hdr.terminated || !strings.HasPrefix(hdr.text, metricPrefix) {
			i++
			continue
		}

		region := &Region{Title: m[1]}
		for i += 2; i < len(lines) && !endsBlock(lines[i].text); i++ {
			text := lines[i].text
			tokens := strings.Split(text, ",")
			if len(tokens) < 2 {
				skip(i+1, "region %s: malformed metric line %q", region.Title, text)
				continue
			}
			value, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				skip(i+1, "region %s: metric %s: non-numeric value %q", region.Title, tokens[0], tokens[1])
				continue
			}
			region.Metrics = append(region.Metrics, Metric{Key: tokens[0], Value: value})
		}
		report[region.Title] = region
	}
	return report
}
