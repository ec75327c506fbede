// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrseries

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteCSV writes t to out as comma-separated text.
//
// The first line holds the column titles with underscores replaced by
// spaces. It is followed by one line per x-axis value. Row i holds
// each column's i'th sample, or an empty field if the column is
// shorter; samples are never shifted to fill gaps.
func (t *Table) WriteCSV(out io.Writer) error {
	csvw := csv.NewWriter(out)

	hdr := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		hdr[i] = strings.ReplaceAll(c.Title, "_", " ")
	}
	if err := csvw.Write(hdr); err != nil {
		return err
	}

	row := make([]string, len(t.Columns))
	for i := 0; i < t.Rows(); i++ {
		for j := range t.Columns {
			row[j] = ""
			if v, ok := t.At(j, i); ok {
				row[j] = FormatValue(v)
			}
		}
		if err := csvw.Write(row); err != nil {
			return err
		}
	}
	csvw.Flush()
	return csvw.Error()
}

// CSV returns the comma-separated form of t.
func (t *Table) CSV() []byte {
	var buf bytes.Buffer
	t.WriteCSV(&buf) // a bytes.Buffer never fails
	return buf.Bytes()
}

// FormatValue formats v as the shortest decimal that reads back as v,
// without an exponent.
func FormatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
