package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/agrisense/field-data-etl/internal/domain"
)

// CSVFetcher retrieves a remote CSV resource and materializes it as a Table.
// It implements pipeline.TableFetcher.
type CSVFetcher struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCSVFetcher creates a fetcher with the given per-request timeout.
func NewCSVFetcher(timeout time.Duration, logger *slog.Logger) *CSVFetcher {
	return &CSVFetcher{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchTable GETs url and parses the body as a CSV with a header row.
// Transport failures and non-200 responses surface as
// domain.SourceUnavailableError; a malformed CSV body is a plain error.
func (f *CSVFetcher) FetchTable(ctx context.Context, url string) (*domain.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Resource: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.SourceUnavailableError{
			Resource: url,
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	reader := csv.NewReader(resp.Body)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", url, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv %s: missing header row", url)
	}

	table := domain.NewTable(records[0]...)
	for _, record := range records[1:] {
		r := make(domain.Row, len(table.Columns))
		for i, c := range table.Columns {
			r[c] = inferCell(record[i])
		}
		table.Append(r)
	}

	f.logger.Debug("csv fetched", "url", url, "rows", table.Len())
	return table, nil
}

// inferCell types a raw CSV field: empty → nil, integer → int64,
// decimal → float64, anything else stays a string.
func inferCell(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if x, err := strconv.ParseFloat(s, 64); err == nil {
		return x
	}
	return s
}
