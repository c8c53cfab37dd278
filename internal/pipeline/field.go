// Package pipeline orchestrates the two ETL flows: field measurements
// (SQL ingest → column swap → corrections → station-mapping join) and
// weather telemetry (CSV load → measurement extraction → station means).
package pipeline

import (
	"context"
	"log/slog"

	"github.com/agrisense/field-data-etl/internal/domain"
	"github.com/agrisense/field-data-etl/internal/observability"
)

// RowQuerier obtains a row set from the relational source.
type RowQuerier interface {
	QueryRows(ctx context.Context, query string) (*domain.Table, error)
}

// TableFetcher obtains a row set from a remote CSV resource.
type TableFetcher interface {
	FetchTable(ctx context.Context, url string) (*domain.Table, error)
}

// FieldPipeline produces the merged field dataset. Stages run strictly in
// order; the first failure aborts the run with no partial output.
type FieldPipeline struct {
	source  RowQuerier
	fetcher TableFetcher
	params  Params
	logger  *slog.Logger
	metrics *observability.Metrics
	report  RunReport
}

// NewFieldPipeline creates a FieldPipeline with the given collaborators.
func NewFieldPipeline(source RowQuerier, fetcher TableFetcher, params Params, logger *slog.Logger, metrics *observability.Metrics) *FieldPipeline {
	return &FieldPipeline{
		source:  source,
		fetcher: fetcher,
		params:  params,
		logger:  logger,
		metrics: metrics,
	}
}

// Process runs ingest → swap → corrections → mapping fetch → merge and
// returns the merged table.
func (p *FieldPipeline) Process(ctx context.Context) (*domain.Table, error) {
	p.report = startReport("field")
	table, err := p.process(ctx)
	if err != nil {
		p.report.finish(0, false)
		p.metrics.TransformErrors.Inc()
		return nil, err
	}
	p.report.finish(table.Len(), true)
	p.metrics.PipelineDuration.WithLabelValues("field").Observe(p.report.Duration().Seconds())
	p.logger.Info("field pipeline finished",
		"run_id", p.report.RunID, "rows", table.Len(), "duration", p.report.Duration())
	return table, nil
}

func (p *FieldPipeline) process(ctx context.Context) (*domain.Table, error) {
	table, err := p.source.QueryRows(ctx, p.params.FieldQuery)
	if err != nil {
		return nil, err
	}
	p.metrics.RowsIngested.WithLabelValues("field_sql").Add(float64(table.Len()))
	p.logger.Info("field rows ingested", "rows", table.Len())

	if err := domain.SwapColumns(table, p.params.SwapColumns[0], p.params.SwapColumns[1]); err != nil {
		return nil, err
	}
	p.logger.Debug("swapped columns", "a", p.params.SwapColumns[0], "b", p.params.SwapColumns[1])

	if err := domain.ApplyCorrections(table, p.params.CategoryColumn, p.params.AbsoluteColumn, p.params.CropCorrections); err != nil {
		return nil, err
	}

	mapping, err := p.fetcher.FetchTable(ctx, p.params.StationMappingURL)
	if err != nil {
		return nil, err
	}
	p.metrics.RowsIngested.WithLabelValues("station_mapping").Add(float64(mapping.Len()))

	merged, err := domain.LeftJoin(table, mapping, p.params.JoinKey)
	if err != nil {
		return nil, err
	}
	domain.DropIndexArtifacts(merged)
	return merged, nil
}

// Report returns the report of the most recent Process call.
func (p *FieldPipeline) Report() RunReport {
	return p.report
}
