// Package store persists processing results to SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite" // register "sqlite" driver

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	format     TEXT NOT NULL,
	success    INTEGER NOT NULL,
	created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
CREATE TABLE IF NOT EXISTS media_records (
	run_id      TEXT NOT NULL REFERENCES runs(run_id),
	seq         INTEGER NOT NULL,
	sheet       TEXT,
	market      TEXT,
	platform    TEXT,
	source_type TEXT,
	record      TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS processing_errors (
	run_id    TEXT NOT NULL REFERENCES runs(run_id),
	seq       INTEGER NOT NULL,
	sheet     TEXT,
	component TEXT,
	region    INTEGER,
	kind      TEXT NOT NULL,
	message   TEXT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Store is a SQLite result sink.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "open database %s", path)
	}
	if path == ":memory:" {
		// every pooled connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=10000",
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "apply %s", p)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "create schema")
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes one result, its records and its errors in a transaction.
func (s *Store) Save(ctx context.Context, res *mediaplan.Result) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, file, format, success) VALUES (?, ?, ?, ?)`,
		res.RunID, res.File, string(res.Format), res.Success); err != nil {
		return eris.Wrapf(err, "insert run %s", res.RunID)
	}

	recStmt, err := tx.PrepareContext(ctx, `INSERT INTO media_records
		(run_id, seq, sheet, market, platform, source_type, record) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "prepare record insert")
	}
	defer recStmt.Close()
	for i, rec := range res.Records {
		body, mErr := json.Marshal(rec)
		if mErr != nil {
			return eris.Wrapf(mErr, "marshal record %d", i)
		}
		if _, err = recStmt.ExecContext(ctx, res.RunID, i,
			nullable(rec.Get(models.FieldSourceSheet)),
			nullable(rec.Get(models.FieldMarket)),
			nullable(rec.Get(models.FieldPlatform)),
			nullable(rec.Get(models.FieldSourceType)),
			string(body)); err != nil {
			return eris.Wrapf(err, "insert record %d", i)
		}
	}

	errStmt, err := tx.PrepareContext(ctx, `INSERT INTO processing_errors
		(run_id, seq, sheet, component, region, kind, message) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "prepare error insert")
	}
	defer errStmt.Close()
	for i, pe := range res.Errors {
		if _, err = errStmt.ExecContext(ctx, res.RunID, i,
			pe.Sheet, pe.Component, pe.Region, string(pe.Kind), pe.Error()); err != nil {
			return eris.Wrapf(err, "insert error %d", i)
		}
	}

	if err = tx.Commit(); err != nil {
		return eris.Wrap(err, "commit")
	}
	return nil
}

// RecordCount returns the number of records stored for a run.
func (s *Store) RecordCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media_records WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, eris.Wrapf(err, "count records of %s", runID)
	}
	return n, nil
}

// ErrorKinds returns the error kinds stored for a run, in order.
func (s *Store) ErrorKinds(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind FROM processing_errors WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "query errors of %s", runID)
	}
	defer rows.Close()
	var kinds []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, eris.Wrap(err, "scan error kind")
		}
		kinds = append(kinds, k)
	}
	return kinds, eris.Wrap(rows.Err(), "iterate errors")
}

// Markets returns the MARKET value of every record of a run, in order;
// nulls come back as empty strings.
func (s *Store) Markets(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(market, '') FROM media_records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "query records of %s", runID)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, eris.Wrap(err, "scan market")
		}
		out = append(out, m)
	}
	return out, eris.Wrap(rows.Err(), "iterate records")
}

func nullable(v models.Value) any {
	if v.IsNull() {
		return nil
	}
	return v.String()
}
