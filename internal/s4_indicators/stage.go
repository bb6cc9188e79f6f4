package s4_indicators

import (
	"context"
	"fmt"
	"time"

	"github.com/poxaedu/credtech/internal/external/bcb"
	"github.com/poxaedu/credtech/pkg/logger"
)

// SeriesFetcher is the slice of the BCB client this stage needs.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, series bcb.Series, start, end time.Time) ([]bcb.Observation, error)
}

// Stage fetches the tracked SGS series and rebuilds the monthly table.
type Stage struct {
	fetcher SeriesFetcher
	repo    *Repository
	logger  *logger.Logger
}

// NewStage creates a new indicators Stage instance
func NewStage(fetcher SeriesFetcher, repo *Repository, log *logger.Logger) *Stage {
	return &Stage{fetcher: fetcher, repo: repo, logger: log}
}

// Run downloads every tracked series for the period and replaces the
// consolidated table. Uma série indisponível vira aviso, não erro: as
// demais seguem (a coluna fica nula no período).
func (s *Stage) Run(ctx context.Context, start, end time.Time) error {
	bySeries := make(map[string][]bcb.Observation, len(bcb.TrackedSeries))
	failed := 0
	for _, series := range bcb.TrackedSeries {
		observations, err := s.fetcher.FetchSeries(ctx, series, start, end)
		if err != nil {
			failed++
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"series": series.Code,
				"column": series.Column,
			}).Warn("SGS series unavailable, column left null")
			bySeries[series.Column] = nil
			continue
		}
		bySeries[series.Column] = observations
	}
	if failed == len(bcb.TrackedSeries) {
		return fmt.Errorf("indicators: no SGS series available")
	}

	rows := BuildMonthly(bySeries)
	if len(rows) == 0 {
		return fmt.Errorf("indicators: no observations in period %s..%s",
			start.Format("2006-01"), end.Format("2006-01"))
	}

	if err := s.repo.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("persist indicators: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"months": len(rows),
		"series": len(bcb.TrackedSeries) - failed,
	}).Info("Monthly indicators rebuilt")
	return nil
}
