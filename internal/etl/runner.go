// Package etl orchestrates the monthly SCR.data pipeline: for each month in
// the requested window it cleans the raw extract, aggregates into gold
// segments and replaces the month's partitions.
package etl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/poxaedu/credtech/internal/contracts"
	"github.com/poxaedu/credtech/pkg/config"
	"github.com/poxaedu/credtech/pkg/logger"
)

// SilverWriter persists cleaned records for one month.
type SilverWriter interface {
	ReplaceMonth(ctx context.Context, month time.Time, records []contracts.CleanedRecord) error
}

// Runner drives the month loop. Erros de entrada (arquivo ausente, schema
// inválido) pulam o mês; erros de banco derrubam a execução.
type Runner struct {
	cleaner    contracts.RowCleaner
	aggregator contracts.SegmentAggregator
	silver     SilverWriter
	gold       contracts.SegmentWriter
	cfg        config.PipelineConfig
	logger     *logger.Logger
}

// NewRunner creates a new Runner instance
func NewRunner(cleaner contracts.RowCleaner, aggregator contracts.SegmentAggregator, silver SilverWriter, gold contracts.SegmentWriter, cfg config.PipelineConfig, log *logger.Logger) *Runner {
	return &Runner{
		cleaner:    cleaner,
		aggregator: aggregator,
		silver:     silver,
		gold:       gold,
		cfg:        cfg,
		logger:     log,
	}
}

// ExtractPath returns the expected raw extract path for a month.
func (r *Runner) ExtractPath(month time.Time) string {
	return filepath.Join(r.cfg.RawSCRDir, fmt.Sprintf("planilha_%s.csv", month.Format("200601")))
}

// Run processes every month from start to end inclusive.
func (r *Runner) Run(ctx context.Context, start, end time.Time) (*contracts.RunSummary, error) {
	summary := &contracts.RunSummary{Started: time.Now()}

	for month := truncateMonth(start); !month.After(truncateMonth(end)); month = month.AddDate(0, 1, 0) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		result, err := r.runMonth(ctx, month)
		if err != nil {
			// Erro de infraestrutura: não adianta tentar os próximos meses
			return summary, fmt.Errorf("month %s: %w", month.Format("2006-01"), err)
		}
		summary.Months = append(summary.Months, *result)
	}

	r.logger.WithFields(map[string]interface{}{
		"months":  len(summary.Months),
		"skipped": summary.SkippedCount(),
	}).Info("Pipeline run finished")

	return summary, nil
}

// runMonth executes the full pipeline for one month. Input problems are
// reported in the MonthResult with Skipped=true and a nil error; only
// persistence failures propagate.
func (r *Runner) runMonth(ctx context.Context, month time.Time) (*contracts.MonthResult, error) {
	started := time.Now()
	result := &contracts.MonthResult{Month: month}

	path := r.ExtractPath(month)
	if _, err := os.Stat(path); err != nil {
		r.logger.WithField("path", path).Warn("Extract not found, skipping month")
		result.Skipped = true
		result.Error = fmt.Sprintf("extract not found: %s", path)
		result.Duration = time.Since(started)
		return result, nil
	}

	records, report, err := r.cleaner.CleanFile(ctx, path, month)
	if err != nil {
		// Arquivo ilegível ou schema errado: pula o mês, segue o lote
		r.logger.WithError(err).WithField("month", month.Format("2006-01")).Warn("Cleaning failed, skipping month")
		result.Skipped = true
		result.Error = err.Error()
		result.Duration = time.Since(started)
		return result, nil
	}

	segments := r.aggregator.Aggregate(records)

	if err := r.silver.ReplaceMonth(ctx, month, records); err != nil {
		return nil, fmt.Errorf("write silver: %w", err)
	}
	if err := r.gold.ReplaceMonth(ctx, month, segments); err != nil {
		return nil, fmt.Errorf("write gold: %w", err)
	}

	result.Rows = report.RowsCleaned
	result.Segments = len(segments)
	result.Duration = time.Since(started)

	r.logger.WithFields(map[string]interface{}{
		"month":    month.Format("2006-01"),
		"rows":     result.Rows,
		"segments": result.Segments,
		"duration": result.Duration.String(),
	}).Info("Month processed")

	return result, nil
}

func truncateMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
