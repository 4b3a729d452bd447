package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/lib/pq"

	"bikeshare-dashboard/utils"
)

// undefinedTable is the Postgres SQLSTATE for a missing relation.
const undefinedTable = "42P01"

// PostgresSource reads the dataset from a single table, read-only.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource opens a connection and waits for the server to answer.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres-ping", func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresSource{db: db, table: table}, nil
}

// Load selects every row of the table. Row order is whatever the server returns.
func (ps *PostgresSource) Load(ctx context.Context) (dataframe.DataFrame, error) {
	rows, err := ps.db.QueryContext(ctx, "SELECT * FROM "+quoteTable(ps.table))
	if err != nil {
		return dataframe.DataFrame{}, queryError(ps.table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("postgres: columns: %w", err)
	}

	records, err := scanRecords(cols, rows)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return FromRecords(records)
}

// rowScanner is the part of *sql.Rows that scanRecords reads.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanRecords turns result rows into a header plus text records.
// NULL becomes an empty cell, which loads as missing.
func scanRecords(cols []string, rows rowScanner) ([][]string, error) {
	records := [][]string{cols}
	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		record := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				record[i] = v.String
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: rows: %w", err)
	}
	return records, nil
}

func queryError(table string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return fmt.Errorf("postgres: table %q: %w", table, ErrNotFound)
	}
	return fmt.Errorf("postgres: query %q: %w", table, err)
}

// Describe names the table for logs and error pages.
func (ps *PostgresSource) Describe() string { return "postgres table " + ps.table }

func (ps *PostgresSource) Close() error {
	return ps.db.Close()
}

// quoteTable quotes each part of a possibly schema-qualified name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}
