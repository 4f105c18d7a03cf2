// Package store persists resolved barcode records in a local SQLite table.
// The table is append-only: rows are inserted once and never updated, and
// serial_code is deliberately non-unique so repeated runs accrete history.
package store

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shelfscan/shelfscan/pkg/lookup"
)

type DB struct {
	sql *sql.DB
}

// Open opens (creating if absent) the record store at path. Schema creation
// is idempotent, so opening an existing store is safe.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS barcode_records (
  id            INTEGER PRIMARY KEY,
  serial_code   TEXT NOT NULL,
  ean           TEXT,
  title         TEXT,
  upc           TEXT,
  gtin          TEXT,
  asin          TEXT,
  description   TEXT,
  brand         TEXT,
  model         TEXT,
  dimension     TEXT,
  weight        TEXT,
  category      TEXT,
  currency      TEXT,
  lowest_price  REAL NOT NULL DEFAULT 0,
  highest_price REAL NOT NULL DEFAULT 0,
  images        TEXT,
  offers        TEXT,
  is_duplicate  TEXT NOT NULL DEFAULT 'No' CHECK (is_duplicate IN ('Yes','No')),
  inserted_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_serial ON barcode_records(serial_code);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Insert appends one resolved barcode record. There are no update or delete
// operations on this table.
func (d *DB) Insert(ctx context.Context, serialCode string, p lookup.Product, isDuplicate bool) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO barcode_records(
  serial_code, ean, title, upc, gtin, asin, description, brand, model,
  dimension, weight, category, currency, lowest_price, highest_price,
  images, offers, is_duplicate
) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		serialCode, p.EAN, p.Title, p.UPC, p.GTIN, p.ASIN, p.Description,
		p.Brand, p.Model, p.Dimension, p.Weight, p.Category, p.Currency,
		p.LowestPrice, p.HighestPrice, p.JoinedImages(), p.JoinedOffers(),
		yesNo(isDuplicate))
	return err
}

// Exists reports whether any record for the serial code is already stored,
// across all previous runs.
func (d *DB) Exists(ctx context.Context, serialCode string) (bool, error) {
	var n int
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM barcode_records WHERE serial_code = ?)", serialCode).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// GetStats returns aggregate counts over the whole store.
func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := d.sql.QueryRowContext(ctx, `
SELECT
  COUNT(*),
  COUNT(DISTINCT serial_code),
  COALESCE(SUM(CASE WHEN is_duplicate = 'Yes' THEN 1 ELSE 0 END), 0)
FROM barcode_records`).Scan(&s.Records, &s.DistinctCodes, &s.Duplicates)
	if err != nil {
		return Stats{}, err
	}
	return s, nil
}

// ListRecent returns the most recently inserted records, newest first.
func (d *DB) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, `
SELECT serial_code, ean, title, brand, category, is_duplicate, inserted_at
FROM barcode_records ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var dup, insertedAt string
		if err := rows.Scan(&r.SerialCode, &r.EAN, &r.Title, &r.Brand, &r.Category, &dup, &insertedAt); err != nil {
			return nil, err
		}
		r.IsDuplicate = dup == "Yes"
		// Parse SQLite CURRENT_TIMESTAMP format, falling back to RFC3339.
		if t, perr := time.Parse("2006-01-02 15:04:05", insertedAt); perr == nil {
			r.InsertedAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, insertedAt); perr2 == nil {
			r.InsertedAt = t2
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
