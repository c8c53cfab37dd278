// Command etl runs the field-survey batch: the field dataset pipeline
// (SQL ingest, column repair, station-mapping join) and the weather telemetry
// pipeline (CSV load, measurement extraction, station means). Results are
// optionally exported to Kafka and written as CSV files.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	httpadapter "github.com/agrisense/field-data-etl/internal/adapter/http"
	kafkaadapter "github.com/agrisense/field-data-etl/internal/adapter/kafka"
	"github.com/agrisense/field-data-etl/internal/config"
	"github.com/agrisense/field-data-etl/internal/domain"
	"github.com/agrisense/field-data-etl/internal/ingest"
	"github.com/agrisense/field-data-etl/internal/observability"
	"github.com/agrisense/field-data-etl/internal/pipeline"

	// SQL drivers selectable via DATABASE_DRIVER.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("etl run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source, err := ingest.OpenSQL(cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		return err
	}
	defer source.Close() //nolint:errcheck

	fetcher := ingest.NewCSVFetcher(cfg.FetchTimeout, logger)

	params := pipeline.DefaultParams()
	params.StationMappingURL = cfg.WeatherMappingURL
	params.MessagesURL = cfg.WeatherMessagesURL

	field := pipeline.NewFieldPipeline(source, fetcher, params, logger, metrics)
	weather := pipeline.NewWeatherPipeline(fetcher, params, logger, metrics)

	state := &runState{field: field, weather: weather}
	srv := httpadapter.NewServer(cfg.HTTPAddr, state, state, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.PipelineRunning.Set(1)
	fieldTable, fieldErr := field.Process(ctx)
	meansTable, weatherErr := weather.Process(ctx)
	metrics.PipelineRunning.Set(0)
	state.markDone()

	var exportErr error
	if fieldErr == nil && cfg.KafkaExportEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		if exportErr = writer.ExportTable(ctx, fieldTable, params.JoinKey, field.Report()); exportErr != nil {
			logger.Error("kafka export failed", "error", exportErr)
		} else {
			metrics.RowsExported.Add(float64(fieldTable.Len()))
		}
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if cfg.OutputDir != "" {
		if fieldErr == nil {
			if err := writeCSV(cfg.OutputDir, "field_dataset.csv", fieldTable); err != nil {
				return err
			}
		}
		if weatherErr == nil && meansTable != nil {
			if err := writeCSV(cfg.OutputDir, "station_means.csv", meansTable); err != nil {
				return err
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	return errors.Join(fieldErr, weatherErr, exportErr)
}

// runState implements the HTTP adapter's readiness and report interfaces for
// one batch process.
type runState struct {
	field   *pipeline.FieldPipeline
	weather *pipeline.WeatherPipeline

	mu   sync.Mutex
	done bool
}

func (s *runState) markDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = true
}

func (s *runState) CheckReadiness(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return errors.New("batch run still in progress")
	}
	return nil
}

func (s *runState) Reports() []pipeline.RunReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return nil
	}
	return []pipeline.RunReport{s.field.Report(), s.weather.Report()}
}

// writeCSV writes a table to dir/name. Null cells become empty fields.
func writeCSV(dir, name string, table *domain.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	record := make([]string, len(table.Columns))
	for _, r := range table.Rows {
		for i, c := range table.Columns {
			record[i] = formatCell(r[c])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatCell(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}
