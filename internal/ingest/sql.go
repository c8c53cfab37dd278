// Package ingest provides the collaborators that materialize raw rows into
// domain Tables: a SQL source and a remote CSV fetcher. SQL drivers are
// registered by the importing command, not here.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/agrisense/field-data-etl/internal/domain"
)

// SQLSource reads row sets from a relational database.
// It implements pipeline.RowQuerier.
type SQLSource struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQL opens and pings a database. A connection failure surfaces as
// domain.SourceUnavailableError.
func OpenSQL(driver, dsn string, logger *slog.Logger) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Resource: dsn, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, &domain.SourceUnavailableError{Resource: dsn, Err: err}
	}
	return NewSQLSource(db, logger), nil
}

// NewSQLSource wraps an already-open database handle.
func NewSQLSource(db *sql.DB, logger *slog.Logger) *SQLSource {
	return &SQLSource{db: db, logger: logger}
}

// QueryRows executes query and materializes the full result set as a Table.
// Query failures surface as domain.SourceUnavailableError.
func (s *SQLSource) QueryRows(ctx context.Context, query string) (*domain.Table, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Resource: "sql query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &domain.SourceUnavailableError{Resource: "sql query", Err: err}
	}

	table := domain.NewTable(columns...)
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r := make(domain.Row, len(columns))
		for i, c := range columns {
			r[c] = normalizeCell(values[i])
		}
		table.Append(r)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.SourceUnavailableError{Resource: "sql query", Err: err}
	}

	s.logger.Debug("query materialized", "rows", table.Len(), "columns", len(columns))
	return table, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}

// normalizeCell maps driver-specific scan results onto the Table cell types.
// Text columns often scan as []byte; small integer kinds widen to int64.
func normalizeCell(v any) any {
	switch n := v.(type) {
	case []byte:
		return string(n)
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	case bool:
		if n {
			return int64(1)
		}
		return int64(0)
	default:
		return v
	}
}
