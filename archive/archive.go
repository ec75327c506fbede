// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package archive stores the parsed report of every run of a sweep in
// a SQL database, so that tables can be rebuilt later without running
// the workloads again.
package archive

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/ctrsweep/ctrsweep/ctrfmt"
	"github.com/ctrsweep/ctrsweep/ctrseries"
)

// ErrNotFound is returned when a recording does not exist.
var ErrNotFound = errors.New("recording not found")

// DB is a high-level interface to an archive database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRecording *sql.Stmt
	insertRun       *sql.Stmt
	insertRegion    *sql.Stmt
	insertReading   *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Recordings (
	RecordingID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Label VARCHAR(1024)
);
CREATE TABLE IF NOT EXISTS Runs (
	RecordingID BIGINT UNSIGNED,
	RunID BIGINT UNSIGNED,
	GroupName VARCHAR(255),
	Test VARCHAR(255),
	Target VARCHAR(1024),
	PRIMARY KEY (RecordingID, RunID),
	FOREIGN KEY (RecordingID) REFERENCES Recordings(RecordingID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Regions (
	RecordingID BIGINT UNSIGNED,
	RunID BIGINT UNSIGNED,
	Region VARCHAR(255),
	PRIMARY KEY (RecordingID, RunID, Region),
	FOREIGN KEY (RecordingID, RunID) REFERENCES Runs(RecordingID, RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS Readings (
	RecordingID BIGINT UNSIGNED,
	RunID BIGINT UNSIGNED,
	Region VARCHAR(255),
	Seq INT,
	Metric VARCHAR(255),
	Value DOUBLE,
	PRIMARY KEY (RecordingID, RunID, Region, Seq),
	FOREIGN KEY (RecordingID, RunID, Region) REFERENCES Regions(RecordingID, RunID, Region) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	prepare := func(q string) *sql.Stmt {
		if err != nil {
			return nil
		}
		var stmt *sql.Stmt
		stmt, err = db.sql.Prepare(q)
		return stmt
	}
	db.insertRecording = prepare("INSERT INTO Recordings(Label) VALUES (?)")
	db.insertRun = prepare("INSERT INTO Runs(RecordingID, RunID, GroupName, Test, Target) VALUES (?, ?, ?, ?, ?)")
	db.insertRegion = prepare("INSERT INTO Regions(RecordingID, RunID, Region) VALUES (?, ?, ?)")
	db.insertReading = prepare("INSERT INTO Readings(RecordingID, RunID, Region, Seq, Metric, Value) VALUES (?, ?, ?, ?, ?, ?)")
	return err
}

// A Recording is the archived sequence of runs of one sweep.
type Recording struct {
	// ID identifies the recording for Replay.
	ID int64

	// runid is the index of the next run to insert.
	runid int64
	// db is the underlying database that this recording is going to.
	db *DB
}

// A Run describes where one archived report came from.
type Run struct {
	Group  string
	Test   string
	Target string
}

// NewRecording starts a new recording. label is free-form, typically
// the path of the sweep's configuration.
func (db *DB) NewRecording(ctx context.Context, label string) (*Recording, error) {
	res, err := db.insertRecording.ExecContext(ctx, label)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Recording{ID: id, db: db}, nil
}

// InsertRun appends one run's report to the recording. Runs are
// replayed in the order they were inserted.
func (r *Recording) InsertRun(ctx context.Context, run Run, report ctrfmt.Report) (err error) {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.StmtContext(ctx, r.db.insertRun).ExecContext(ctx, r.ID, r.runid, run.Group, run.Test, run.Target); err != nil {
		return err
	}
	insertRegion := tx.StmtContext(ctx, r.db.insertRegion)
	insertReading := tx.StmtContext(ctx, r.db.insertReading)
	for _, title := range report.Titles() {
		if _, err = insertRegion.ExecContext(ctx, r.ID, r.runid, title); err != nil {
			return err
		}
		for seq, m := range report[title].Metrics {
			var value interface{} = m.Value
			if math.IsNaN(m.Value) {
				value = nil
			}
			if _, err = insertReading.ExecContext(ctx, r.ID, r.runid, title, seq, m.Key, value); err != nil {
				return err
			}
		}
	}
	r.runid++
	return nil
}

// Replay accumulates every run of recording id into agg, in the
// order the runs were inserted, and returns the number of runs.
// The result is the Aggregate the live sweep built, including regions
// that never reported a metric.
func (db *DB) Replay(ctx context.Context, id int64, agg ctrseries.Aggregate) (runs int, err error) {
	var n int
	if err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Recordings WHERE RecordingID = ?", id).Scan(&n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("recording %d: %w", id, ErrNotFound)
	}

	var order []int64
	reports := make(map[int64]ctrfmt.Report)
	rows, err := db.sql.QueryContext(ctx, "SELECT RunID FROM Runs WHERE RecordingID = ? ORDER BY RunID", id)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var run int64
		if err := rows.Scan(&run); err != nil {
			rows.Close()
			return 0, err
		}
		order = append(order, run)
		reports[run] = make(ctrfmt.Report)
	}
	if err := closeRows(rows); err != nil {
		return 0, err
	}

	rows, err = db.sql.QueryContext(ctx, "SELECT RunID, Region FROM Regions WHERE RecordingID = ?", id)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var run int64
		var title string
		if err := rows.Scan(&run, &title); err != nil {
			rows.Close()
			return 0, err
		}
		if rep := reports[run]; rep != nil {
			rep[title] = &ctrfmt.Region{Title: title}
		}
	}
	if err := closeRows(rows); err != nil {
		return 0, err
	}

	rows, err = db.sql.QueryContext(ctx, "SELECT RunID, Region, Metric, Value FROM Readings WHERE RecordingID = ? ORDER BY RunID, Region, Seq", id)
	if err != nil {
		return 0, err
	}
	for rows.Next() {
		var run int64
		var title, key string
		var value sql.NullFloat64
		if err := rows.Scan(&run, &title, &key, &value); err != nil {
			rows.Close()
			return 0, err
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		if reg := reports[run][title]; reg != nil {
			reg.Metrics = append(reg.Metrics, ctrfmt.Metric{Key: key, Value: v})
		}
	}
	if err := closeRows(rows); err != nil {
		return 0, err
	}

	for _, run := range order {
		agg.Accumulate(reports[run])
	}
	return len(order), nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// A RecordingInfo summarizes one recording.
type RecordingInfo struct {
	ID    int64
	Label string
	Runs  int
}

// ListRecordings returns every recording, oldest first.
func (db *DB) ListRecordings(ctx context.Context) ([]RecordingInfo, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT r.RecordingID, r.Label, COUNT(u.RunID)
FROM Recordings r LEFT JOIN Runs u ON u.RecordingID = r.RecordingID
GROUP BY r.RecordingID, r.Label
ORDER BY r.RecordingID`)
	if err != nil {
		return nil, err
	}
	var infos []RecordingInfo
	for rows.Next() {
		var info RecordingInfo
		var label sql.NullString
		if err := rows.Scan(&info.ID, &label, &info.Runs); err != nil {
			rows.Close()
			return nil, err
		}
		info.Label = label.String
		infos = append(infos, info)
	}
	return infos, closeRows(rows)
}

// CountRecordings returns the number of recordings in the database.
func (db *DB) CountRecordings(ctx context.Context) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Recordings").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.insertRecording, db.insertRun, db.insertRegion, db.insertReading} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
