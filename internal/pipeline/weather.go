package pipeline

import (
	"context"
	"log/slog"

	"github.com/agrisense/field-data-etl/internal/domain"
	"github.com/agrisense/field-data-etl/internal/observability"
)

// WeatherPipeline turns raw station telemetry into per-station measurement
// means. Load must run before the other stages; until it has, ExtractMessages
// and Means log a warning and return absent results instead of failing.
type WeatherPipeline struct {
	fetcher TableFetcher
	params  Params
	logger  *slog.Logger
	metrics *observability.Metrics

	table    *domain.Table
	patterns []domain.Pattern
	report   RunReport
}

// NewWeatherPipeline creates a WeatherPipeline with the given collaborators.
func NewWeatherPipeline(fetcher TableFetcher, params Params, logger *slog.Logger, metrics *observability.Metrics) *WeatherPipeline {
	return &WeatherPipeline{
		fetcher: fetcher,
		params:  params,
		logger:  logger,
		metrics: metrics,
	}
}

// Load fetches the raw messages table. A fetch failure surfaces as
// domain.SourceUnavailableError.
func (p *WeatherPipeline) Load(ctx context.Context) error {
	table, err := p.fetcher.FetchTable(ctx, p.params.MessagesURL)
	if err != nil {
		return err
	}
	p.table = table
	p.metrics.RowsIngested.WithLabelValues("weather_csv").Add(float64(table.Len()))
	p.logger.Info("weather messages loaded", "rows", table.Len())
	return nil
}

// ExtractMessages applies the measurement patterns to every message and adds
// the measurement-name and value columns, one pair per row. Messages matching
// no pattern get nil in both columns. A matched message with no usable
// numeric capture aborts with domain.ExtractionError.
func (p *WeatherPipeline) ExtractMessages() error {
	if p.table == nil {
		p.logger.Warn("weather messages not loaded, skipping extraction")
		return nil
	}

	if p.patterns == nil {
		patterns, err := domain.CompilePatterns(p.params.Patterns)
		if err != nil {
			return err
		}
		p.patterns = patterns
	}

	names := make([]any, p.table.Len())
	values := make([]any, p.table.Len())
	for i, r := range p.table.Rows {
		message, _ := r[p.params.MessageColumn].(string)
		extraction, err := domain.ExtractMeasurement(message, p.patterns)
		if err != nil {
			p.metrics.TransformErrors.Inc()
			return err
		}
		if !extraction.Matched {
			p.metrics.ExtractionUnmatched.Inc()
			continue // both columns stay nil
		}
		names[i] = extraction.Name
		values[i] = extraction.Value
		p.metrics.Extractions.WithLabelValues(extraction.Name).Inc()
	}

	if err := p.table.AddColumn(p.params.MeasurementColumn, names); err != nil {
		return err
	}
	if err := p.table.AddColumn(p.params.ValueColumn, values); err != nil {
		return err
	}
	p.logger.Info("messages processed", "rows", p.table.Len())
	return nil
}

// Means aggregates extracted values into the station-by-measurement mean
// table. Returns nil without error when Load has not run.
func (p *WeatherPipeline) Means() (*domain.Table, error) {
	if p.table == nil {
		p.logger.Warn("weather messages not loaded, cannot calculate means")
		return nil, nil
	}
	return domain.MeanByStation(p.table, p.params.StationColumn, p.params.MeasurementColumn, p.params.ValueColumn)
}

// Process runs load → extract → aggregate and returns the aggregated table.
func (p *WeatherPipeline) Process(ctx context.Context) (*domain.Table, error) {
	p.report = startReport("weather")

	means, err := p.processStages(ctx)
	if err != nil {
		p.report.finish(0, false)
		return nil, err
	}

	p.report.finish(means.Len(), true)
	p.metrics.PipelineDuration.WithLabelValues("weather").Observe(p.report.Duration().Seconds())
	p.logger.Info("weather pipeline finished",
		"run_id", p.report.RunID, "stations", means.Len(), "duration", p.report.Duration())
	return means, nil
}

func (p *WeatherPipeline) processStages(ctx context.Context) (*domain.Table, error) {
	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	if err := p.ExtractMessages(); err != nil {
		return nil, err
	}
	return p.Means()
}

// Report returns the report of the most recent Process call.
func (p *WeatherPipeline) Report() RunReport {
	return p.report
}
