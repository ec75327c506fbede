// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sweep

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/safehtml/template"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ctrsweep</title></head>
<body>
<h1>{{.Config}}</h1>
{{- range .Labels}}
<h2>{{.Label}}</h2>
{{- range .Tables}}
<figure>
{{- if .PNG}}
<img src="{{.PNG}}" alt="{{.Title}}">
{{- end}}
<figcaption>{{.Title}} (<a href="{{.CSV}}">csv</a>)</figcaption>
</figure>
{{- end}}
{{- end}}
</body>
</html>
`))

type indexLabel struct {
	Label  string
	Tables []indexTable
}

type indexTable struct {
	Title, CSV, PNG string
}

// IndexName is the name of the index page in the output directory.
const IndexName = "index.html"

// WriteIndex writes an HTML page to the output directory linking
// every table exported so far, grouped by region set label.
func (e *Exporter) WriteIndex(ctx context.Context, config string) error {
	var labels []indexLabel
	for _, ex := range e.sorted() {
		if len(labels) == 0 || labels[len(labels)-1].Label != ex.label {
			labels = append(labels, indexLabel{Label: ex.label})
		}
		l := &labels[len(labels)-1]
		l.Tables = append(l.Tables, indexTable{Title: ex.title, CSV: ex.csv, PNG: ex.png})
	}

	var buf bytes.Buffer
	data := struct {
		Config string
		Labels []indexLabel
	}{config, labels}
	if err := indexTemplate.Execute(&buf, data); err != nil {
		// Only possible errors here are template not matching data structure.
		panic(err)
	}

	path := filepath.Join(e.OutputPath, IndexName)
	if err := os.WriteFile(path, buf.Bytes(), 0o666); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return e.mirror(ctx, path, buf.Bytes(), "text/html; charset=utf-8")
}
